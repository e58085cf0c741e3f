package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// SignInData carries the sign-in form fields.
type SignInData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpData carries the sign-up form fields.
type SignUpData struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is a successful sign-in or sign-up response.
type AuthResult struct {
	User         User   `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// API is the auth backend contract the session client talks to. The mock
// implementation ships alongside the HTTP one until the gateway exposes
// credential endpoints.
type API interface {
	SignIn(ctx context.Context, data SignInData) (AuthResult, error)
	SignUp(ctx context.Context, data SignUpData) (AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context) error
}

// HTTPAPI talks to a credential-based auth backend over REST. It targets the
// planned /auth/{signin,signup,refresh,logout} credential surface, which the
// gateway does not serve yet; until then MockAPI is the working transport.
type HTTPAPI struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPAPI constructs an HTTP transport rooted at the given base URL.
func NewHTTPAPI(baseURL string, httpClient *http.Client) (*HTTPAPI, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("client: base url required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPAPI{baseURL: trimmed, httpClient: httpClient}, nil
}

func (a *HTTPAPI) SignIn(ctx context.Context, data SignInData) (AuthResult, error) {
	var result AuthResult
	err := a.post(ctx, "/auth/signin", data, &result)
	return result, err
}

func (a *HTTPAPI) SignUp(ctx context.Context, data SignUpData) (AuthResult, error) {
	var result AuthResult
	err := a.post(ctx, "/auth/signup", data, &result)
	return result, err
}

func (a *HTTPAPI) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	var result struct {
		Token string `json:"token"`
	}
	err := a.post(ctx, "/auth/refresh", map[string]string{"refreshToken": refreshToken}, &result)
	return result.Token, err
}

func (a *HTTPAPI) Logout(ctx context.Context) error {
	return a.post(ctx, "/auth/logout", struct{}{}, nil)
}

func (a *HTTPAPI) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		var failure struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(response.Body).Decode(&failure); decodeErr == nil && failure.Error != "" {
			return errors.New(failure.Error)
		}
		return fmt.Errorf("client: request failed with status %d", response.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(out)
}
