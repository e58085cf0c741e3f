package client

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	mockSignUpDelay  = 1000 * time.Millisecond
	mockSignInDelay  = 1000 * time.Millisecond
	mockRefreshDelay = 500 * time.Millisecond
	mockLogoutDelay  = 300 * time.Millisecond

	mockKnownEmail    = "test@example.com"
	mockKnownPassword = "password123"
)

var (
	// ErrEmailExists is returned when sign-up reuses the known fixture email.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials is returned for any non-fixture sign-in pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// MockAPI simulates the auth backend with a fixed artificial delay and
// hard-coded credential rules, mirroring the demo-mode behavior the real
// transport replaces.
type MockAPI struct {
	// Delay overrides the simulated network latency when non-zero; negative
	// values disable it entirely (used by tests).
	Delay time.Duration
	now   func() time.Time
}

// NewMockAPI constructs the mock transport.
func NewMockAPI() *MockAPI {
	return &MockAPI{now: time.Now}
}

func (m *MockAPI) sleep(ctx context.Context, fallback time.Duration) error {
	delay := m.Delay
	if delay == 0 {
		delay = fallback
	}
	if delay < 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func (m *MockAPI) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

func (m *MockAPI) SignUp(ctx context.Context, data SignUpData) (AuthResult, error) {
	if err := m.sleep(ctx, mockSignUpDelay); err != nil {
		return AuthResult{}, err
	}
	if data.Email == mockKnownEmail {
		return AuthResult{}, ErrEmailExists
	}
	stamp := m.clock().UnixMilli()
	return AuthResult{
		User: User{
			ID:    "1",
			Name:  data.Name,
			Email: data.Email,
		},
		Token:        fmt.Sprintf("mock-jwt-token-%d", stamp),
		RefreshToken: fmt.Sprintf("mock-refresh-token-%d", stamp),
	}, nil
}

func (m *MockAPI) SignIn(ctx context.Context, data SignInData) (AuthResult, error) {
	if err := m.sleep(ctx, mockSignInDelay); err != nil {
		return AuthResult{}, err
	}
	if data.Email != mockKnownEmail || data.Password != mockKnownPassword {
		return AuthResult{}, ErrInvalidCredentials
	}
	stamp := m.clock().UnixMilli()
	return AuthResult{
		User: User{
			ID:    "1",
			Name:  "Test User",
			Email: data.Email,
		},
		Token:        fmt.Sprintf("mock-jwt-token-%d", stamp),
		RefreshToken: fmt.Sprintf("mock-refresh-token-%d", stamp),
	}, nil
}

func (m *MockAPI) RefreshToken(ctx context.Context, _ string) (string, error) {
	if err := m.sleep(ctx, mockRefreshDelay); err != nil {
		return "", err
	}
	return fmt.Sprintf("refreshed-jwt-token-%d", m.clock().UnixMilli()), nil
}

func (m *MockAPI) Logout(ctx context.Context) error {
	return m.sleep(ctx, mockLogoutDelay)
}
