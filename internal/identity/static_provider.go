package identity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// StaticProvider serves sessions and accounts from fixed in-memory fixtures.
// It stands in for the real identity provider in tests and local development.
type StaticProvider struct {
	mu       sync.RWMutex
	sessions map[string]Session
	accounts map[string]Account
}

// NewStaticProvider constructs an empty fixture provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		sessions: make(map[string]Session),
		accounts: make(map[string]Account),
	}
}

// NewDevProvider returns a provider preloaded with the development fixtures:
// session "valid_session_token" resolving to an active session for clerk_123,
// plus the matching provider accounts.
func NewDevProvider() *StaticProvider {
	provider := NewStaticProvider()
	provider.AddSession("valid_session_token", Session{
		ID:       "sess_123",
		UserID:   "clerk_123",
		Status:   SessionStatusActive,
		ExpireAt: time.Now().Add(24 * time.Hour),
	})
	provider.AddAccount(Account{
		ID:       "clerk_123",
		Emails:   []string{"test@example.com"},
		Username: "testuser",
	})
	provider.AddAccount(Account{
		ID:       "clerk_456",
		Emails:   []string{"admin@example.com"},
		Username: "adminuser",
	})
	return provider
}

// AddSession registers a session fixture under the given token.
func (p *StaticProvider) AddSession(token string, session Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[token] = session
}

// AddAccount registers an account fixture.
func (p *StaticProvider) AddAccount(account Account) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[account.ID] = account
}

func (p *StaticProvider) VerifySession(_ context.Context, sessionToken string) (Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	session, ok := p.sessions[strings.TrimSpace(sessionToken)]
	if !ok {
		return Session{}, ErrSessionInvalid
	}
	return session, nil
}

func (p *StaticProvider) GetUser(_ context.Context, externalID string) (Account, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	account, ok := p.accounts[strings.TrimSpace(externalID)]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return account, nil
}
