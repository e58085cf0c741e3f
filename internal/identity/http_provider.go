package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	errMissingBaseURL   = errors.New("base url configuration required")
	errMissingSecretKey = errors.New("secret key configuration required")
	// ErrInvalidProviderConfig wraps configuration failures during construction.
	ErrInvalidProviderConfig = errors.New("identity: invalid provider config")
)

// HTTPProviderConfig bundles configuration required to instantiate an HTTPProvider.
type HTTPProviderConfig struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// HTTPProvider talks to a Clerk-style identity API over REST.
type HTTPProvider struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPProvider constructs a provider with validated configuration.
func NewHTTPProvider(cfg HTTPProviderConfig) (*HTTPProvider, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProviderConfig, errMissingBaseURL)
	}
	secretKey := strings.TrimSpace(cfg.SecretKey)
	if secretKey == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProviderConfig, errMissingSecretKey)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPProvider{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type sessionDocument struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Status   string `json:"status"`
	ExpireAt int64  `json:"expire_at"`
}

type accountDocument struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// VerifySession asks the provider whether the session token is genuine.
func (p *HTTPProvider) VerifySession(ctx context.Context, sessionToken string) (Session, error) {
	token := strings.TrimSpace(sessionToken)
	if token == "" {
		return Session{}, ErrSessionInvalid
	}

	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return Session{}, err
	}

	var document sessionDocument
	if err := p.call(ctx, http.MethodPost, "/sessions/verify", body, &document); err != nil {
		if errors.Is(err, errProviderRejected) {
			return Session{}, ErrSessionInvalid
		}
		return Session{}, err
	}

	return Session{
		ID:       document.ID,
		UserID:   document.UserID,
		Status:   document.Status,
		ExpireAt: time.UnixMilli(document.ExpireAt),
	}, nil
}

// GetUser resolves the provider account behind an external id.
func (p *HTTPProvider) GetUser(ctx context.Context, externalID string) (Account, error) {
	id := strings.TrimSpace(externalID)
	if id == "" {
		return Account{}, ErrAccountNotFound
	}

	var document accountDocument
	if err := p.call(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &document); err != nil {
		if errors.Is(err, errProviderRejected) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, err
	}

	emails := make([]string, 0, len(document.EmailAddresses))
	for _, address := range document.EmailAddresses {
		emails = append(emails, address.EmailAddress)
	}

	return Account{
		ID:       document.ID,
		Emails:   emails,
		Username: document.Username,
		ImageURL: document.ImageURL,
	}, nil
}

var errProviderRejected = errors.New("identity: provider rejected request")

func (p *HTTPProvider) call(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	response, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound || response.StatusCode == http.StatusUnauthorized {
		return errProviderRejected
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		p.logger.Warn("identity provider request failed",
			zap.String("path", path),
			zap.Int("status", response.StatusCode))
		return fmt.Errorf("identity: provider returned status %d", response.StatusCode)
	}

	return json.NewDecoder(response.Body).Decode(out)
}
