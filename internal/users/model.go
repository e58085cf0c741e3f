package users

import (
	"strings"
	"time"
)

// Role enumerates the access levels a CineCircle user can hold.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

// ParseRole normalizes a role string, defaulting unknown values to RoleUser.
func ParseRole(value string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleModerator:
		return RoleModerator
	default:
		return RoleUser
	}
}

// User is the local identity record backing a Clerk-confirmed account.
type User struct {
	ID          string    `gorm:"column:id;primaryKey;size:64" json:"id"`
	ClerkID     string    `gorm:"column:clerk_id;size:190;not null;uniqueIndex" json:"clerkId"`
	Username    string    `gorm:"column:username;size:64;not null;uniqueIndex" json:"username"`
	Email       string    `gorm:"column:email;size:320;not null;uniqueIndex" json:"email"`
	DisplayName string    `gorm:"column:display_name;size:320" json:"displayName,omitempty"`
	AvatarURL   string    `gorm:"column:avatar_url;size:512" json:"avatarUrl,omitempty"`
	Role        Role      `gorm:"column:role;size:32;not null;default:user" json:"role"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"isActive"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName exposes the table backing user records.
func (User) TableName() string {
	return "auth_users"
}

// ProfileUpdate carries the mutable profile fields. Nil pointers leave the
// stored value untouched.
type ProfileUpdate struct {
	DisplayName *string `json:"displayName,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

func normalize(value string) string {
	return strings.TrimSpace(value)
}
