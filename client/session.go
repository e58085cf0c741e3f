package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// SessionConfig describes the dependencies of a Session.
type SessionConfig struct {
	API      API
	Store    Store
	OnChange func(*User)
	Clock    func() time.Time
}

// Session holds the client-side auth state: the current user plus the
// persisted credentials backing it. All state transitions write the store
// wholesale before updating the in-memory view.
type Session struct {
	api      API
	store    Store
	onChange func(*User)
	now      func() time.Time

	mu   sync.Mutex
	user *User
}

// NewSession constructs a session with no restored state; call Restore once
// at application start.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.API == nil {
		return nil, errors.New("client: api required")
	}
	if cfg.Store == nil {
		return nil, errors.New("client: store required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Session{
		api:      cfg.API,
		store:    cfg.Store,
		onChange: cfg.OnChange,
		now:      clock,
	}, nil
}

// Restore reads persisted credentials once at startup. A present, valid
// token restores the session; anything else clears the store. No network
// call is made.
func (s *Session) Restore() error {
	creds, err := s.store.Load()
	if err != nil {
		return err
	}
	if creds.Empty() || !TokenValid(creds.AccessToken, s.now()) {
		if err := s.store.Clear(); err != nil {
			return err
		}
		s.setUser(nil)
		return nil
	}
	s.setUser(creds.User)
	return nil
}

// SignIn authenticates and persists the result. On failure the prior state
// is left untouched.
func (s *Session) SignIn(ctx context.Context, data SignInData) error {
	result, err := s.api.SignIn(ctx, data)
	if err != nil {
		return err
	}
	return s.adopt(result)
}

// SignUp registers a new account and persists the result.
func (s *Session) SignUp(ctx context.Context, data SignUpData) error {
	result, err := s.api.SignUp(ctx, data)
	if err != nil {
		return err
	}
	return s.adopt(result)
}

// Logout makes a best-effort remote logout call, then unconditionally clears
// local state.
func (s *Session) Logout(ctx context.Context) error {
	_ = s.api.Logout(ctx) // remote failure never blocks local logout
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.setUser(nil)
	return nil
}

// Refresh exchanges the stored refresh token for a fresh access token.
func (s *Session) Refresh(ctx context.Context) error {
	creds, err := s.store.Load()
	if err != nil {
		return err
	}
	if creds.RefreshToken == "" {
		return errors.New("client: no refresh token available")
	}
	token, err := s.api.RefreshToken(ctx, creds.RefreshToken)
	if err != nil {
		return err
	}
	creds.AccessToken = token
	return s.store.Save(creds)
}

// CurrentUser returns the signed-in user, or nil.
func (s *Session) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	clone := *s.user
	return &clone
}

// Authenticated reports whether a user is currently signed in.
func (s *Session) Authenticated() bool {
	return s.CurrentUser() != nil
}

func (s *Session) adopt(result AuthResult) error {
	user := result.User
	if err := s.store.Save(Credentials{
		AccessToken:  result.Token,
		RefreshToken: result.RefreshToken,
		User:         &user,
	}); err != nil {
		return err
	}
	s.setUser(&user)
	return nil
}

func (s *Session) setUser(user *User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	if s.onChange != nil {
		s.onChange(user)
	}
}
