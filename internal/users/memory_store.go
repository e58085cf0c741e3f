package users

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps user records in process memory. It is a disposable
// stand-in for the gorm-backed store, used in tests and local development.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]*User
	now  func() time.Time
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(clock func() time.Time) *MemoryStore {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryStore{
		byID: make(map[string]*User),
		now:  clock,
	}
}

// Seed inserts fixture users, replacing any records with the same id.
func (s *MemoryStore) Seed(fixtures ...User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range fixtures {
		user := fixtures[i]
		s.byID[user.ID] = &user
	}
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.byID[id]; ok {
		return cloneUser(user), nil
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStore) FindByClerkID(_ context.Context, clerkID string) (*User, error) {
	return s.findBy(func(u *User) bool { return u.ClerkID == clerkID })
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	return s.findBy(func(u *User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*User, error) {
	return s.findBy(func(u *User) bool { return u.Username == username })
}

func (s *MemoryStore) findBy(match func(*User) bool) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.byID {
		if match(user) {
			return cloneUser(user), nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStore) Create(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.ClerkID == user.ClerkID {
			return fmt.Errorf("%w: clerk id %s", ErrDuplicateUser, user.ClerkID)
		}
		if strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("%w: email %s", ErrDuplicateUser, user.Email)
		}
		if existing.Username == user.Username {
			return fmt.Errorf("%w: username %s", ErrDuplicateUser, user.Username)
		}
	}
	s.byID[user.ID] = cloneUser(user)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, id string, patch ProfileUpdate) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if patch.DisplayName != nil {
		user.DisplayName = normalize(*patch.DisplayName)
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = normalize(*patch.AvatarURL)
	}
	user.UpdatedAt = s.now().UTC()
	return cloneUser(user), nil
}

func cloneUser(user *User) *User {
	clone := *user
	return &clone
}
