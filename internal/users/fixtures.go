package users

import "time"

// DevFixtures returns the seed users used by local development and tests.
func DevFixtures() []User {
	createdAt := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return []User{
		{
			ID:          "user_123",
			ClerkID:     "clerk_123",
			Username:    "testuser",
			Email:       "test@example.com",
			DisplayName: "Test User",
			AvatarURL:   "https://example.com/avatar.jpg",
			Role:        RoleUser,
			IsActive:    true,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		},
		{
			ID:          "user_456",
			ClerkID:     "clerk_456",
			Username:    "adminuser",
			Email:       "admin@example.com",
			DisplayName: "Admin User",
			AvatarURL:   "https://example.com/admin-avatar.jpg",
			Role:        RoleAdmin,
			IsActive:    true,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		},
	}
}
