package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cinecircle/cinecircle/internal/identity"
	"github.com/cinecircle/cinecircle/internal/users"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrUnauthorized covers invalid sessions, unknown identities and inactive accounts.
	ErrUnauthorized = errors.New("auth: unauthorized")
	// ErrConflict indicates a registration collided with an existing user.
	ErrConflict = errors.New("auth: conflict")
)

// RegisterRequest carries the registration payload after transport binding.
type RegisterRequest struct {
	ClerkID     string
	Email       string
	Username    string
	DisplayName string
}

// Result pairs the resolved user with a freshly issued session token.
type Result struct {
	User        *users.User
	AccessToken string
}

// ServiceConfig describes the dependencies of the gateway auth service.
type ServiceConfig struct {
	Provider identity.Provider
	Store    users.Store
	Tokens   *TokenIssuer
	Logger   *zap.Logger
	Clock    func() time.Time
}

// Service implements the identity gateway: it delegates session proof to the
// external provider, resolves the local user record and issues session tokens.
type Service struct {
	provider identity.Provider
	store    users.Store
	tokens   *TokenIssuer
	logger   *zap.Logger
	now      func() time.Time
}

// NewService constructs the auth service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("auth: identity provider required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("auth: user store required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("auth: token issuer required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		provider: cfg.Provider,
		store:    cfg.Store,
		tokens:   cfg.Tokens,
		logger:   logger,
		now:      clock,
	}, nil
}

// Login verifies the external session and exchanges it for a gateway token.
// The provider status gates the flow: anything but an active session fails
// before any local lookup happens.
func (s *Service) Login(ctx context.Context, sessionToken string) (Result, error) {
	session, err := s.provider.VerifySession(ctx, sessionToken)
	if err != nil {
		s.logger.Info("session verification failed", zap.Error(err))
		return Result{}, fmt.Errorf("%w: invalid or expired session token", ErrUnauthorized)
	}
	if !session.Active() {
		return Result{}, fmt.Errorf("%w: session status %q", ErrUnauthorized, session.Status)
	}

	user, err := s.store.FindByClerkID(ctx, session.UserID)
	if errors.Is(err, users.ErrUserNotFound) {
		return Result{}, fmt.Errorf("%w: user not found, please register first", ErrUnauthorized)
	}
	if err != nil {
		return Result{}, err
	}
	if !user.IsActive {
		return Result{}, fmt.Errorf("%w: account is deactivated", ErrUnauthorized)
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return Result{}, err
	}
	return Result{User: user, AccessToken: token}, nil
}

// Register confirms the external identity, enforces uniqueness and creates a
// local user with the default role.
func (s *Service) Register(ctx context.Context, request RegisterRequest) (Result, error) {
	clerkID := strings.TrimSpace(request.ClerkID)
	email := strings.TrimSpace(request.Email)
	username := strings.TrimSpace(request.Username)
	if clerkID == "" || email == "" || username == "" {
		return Result{}, fmt.Errorf("%w: clerk id, email and username are required", ErrUnauthorized)
	}

	account, err := s.provider.GetUser(ctx, clerkID)
	if err != nil {
		s.logger.Info("provider account lookup failed", zap.String("clerk_id", clerkID), zap.Error(err))
		return Result{}, fmt.Errorf("%w: invalid external identity", ErrUnauthorized)
	}
	if !account.HasEmail(email) {
		return Result{}, fmt.Errorf("%w: email does not match external identity", ErrUnauthorized)
	}

	if _, err := s.store.FindByClerkID(ctx, clerkID); err == nil {
		return Result{}, fmt.Errorf("%w: user already exists", ErrConflict)
	} else if !errors.Is(err, users.ErrUserNotFound) {
		return Result{}, err
	}
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return Result{}, fmt.Errorf("%w: email already in use", ErrConflict)
	} else if !errors.Is(err, users.ErrUserNotFound) {
		return Result{}, err
	}
	if _, err := s.store.FindByUsername(ctx, username); err == nil {
		return Result{}, fmt.Errorf("%w: username already taken", ErrConflict)
	} else if !errors.Is(err, users.ErrUserNotFound) {
		return Result{}, err
	}

	displayName := strings.TrimSpace(request.DisplayName)
	if displayName == "" {
		displayName = username
	}

	now := s.now().UTC()
	user := &users.User{
		ID:          "user_" + uuid.NewString(),
		ClerkID:     clerkID,
		Username:    username,
		Email:       email,
		DisplayName: displayName,
		Role:        users.RoleUser,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrDuplicateUser) {
			return Result{}, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return Result{}, err
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username))
	return Result{User: user, AccessToken: token}, nil
}

// GetProfile fetches a user record by id.
func (s *Service) GetProfile(ctx context.Context, userID string) (*users.User, error) {
	return s.store.FindByID(ctx, userID)
}

// UpdateProfile applies a shallow patch to the user's mutable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch users.ProfileUpdate) (*users.User, error) {
	return s.store.Update(ctx, userID, patch)
}

// ValidateSessionToken passes the external session token through to the
// provider and surfaces any failure as an authorization error.
func (s *Service) ValidateSessionToken(ctx context.Context, sessionToken string) (identity.Session, error) {
	session, err := s.provider.VerifySession(ctx, sessionToken)
	if err != nil {
		return identity.Session{}, fmt.Errorf("%w: invalid or expired session token", ErrUnauthorized)
	}
	return session, nil
}

// ValidateUser returns the user when it exists and is active, nil otherwise.
func (s *Service) ValidateUser(ctx context.Context, userID string) (*users.User, error) {
	user, err := s.store.FindByID(ctx, userID)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, nil
	}
	return user, nil
}

// ValidateAccessToken parses and validates a gateway-issued session token.
func (s *Service) ValidateAccessToken(tokenString string) (SessionClaims, error) {
	return s.tokens.ValidateToken(tokenString)
}
