package identity

import (
	"context"
	"errors"
	"time"
)

// SessionStatusActive is the only provider status accepted for login.
const SessionStatusActive = "active"

var (
	// ErrSessionInvalid indicates the provider rejected the session token.
	ErrSessionInvalid = errors.New("identity: invalid or expired session")
	// ErrAccountNotFound indicates no provider account matched the external id.
	ErrAccountNotFound = errors.New("identity: account not found")
)

// Session is the provider-verified proof that a human is authenticated. Its
// lifecycle is owned entirely by the provider; the gateway only consumes it.
type Session struct {
	ID       string
	UserID   string
	Status   string
	ExpireAt time.Time
}

// Active reports whether the provider considers the session usable.
func (s Session) Active() bool {
	return s.Status == SessionStatusActive
}

// Account is the provider-side representation of a registered human.
type Account struct {
	ID       string
	Emails   []string
	Username string
	ImageURL string
}

// HasEmail reports whether the account lists the given address.
func (a Account) HasEmail(email string) bool {
	for _, candidate := range a.Emails {
		if candidate == email {
			return true
		}
	}
	return false
}

// Provider is the external identity provider contract: verify a session
// token, or resolve an account by its external id. Both operations treat the
// provider as an opaque black box.
type Provider interface {
	VerifySession(ctx context.Context, sessionToken string) (Session, error)
	GetUser(ctx context.Context, externalID string) (Account, error)
}
