package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// GormStore persists user records through gorm.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// GormStoreConfig describes the dependencies for the gorm-backed store.
type GormStoreConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
}

// NewGormStore constructs the store.
func NewGormStore(cfg GormStoreConfig) (*GormStore, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("users: database connection required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &GormStore{db: cfg.Database, now: clock}, nil
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *GormStore) FindByClerkID(ctx context.Context, clerkID string) (*User, error) {
	return s.findOne(ctx, "clerk_id = ?", clerkID)
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, "email = ?", email)
}

func (s *GormStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.findOne(ctx, "username = ?", username)
}

func (s *GormStore) findOne(ctx context.Context, query string, arg string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) Create(ctx context.Context, user *User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrDuplicateUser, user.ClerkID)
	}
	return err
}

func (s *GormStore) Update(ctx context.Context, id string, patch ProfileUpdate) (*User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": s.now().UTC()}
	if patch.DisplayName != nil {
		updates["display_name"] = normalize(*patch.DisplayName)
	}
	if patch.AvatarURL != nil {
		updates["avatar_url"] = normalize(*patch.AvatarURL)
	}
	if err := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.findOne(ctx, "id = ?", user.ID)
}
