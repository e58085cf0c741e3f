package cineboards

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MovieIDList is an ordered list of TMDB movie identifiers stored as JSON.
type MovieIDList []string

// Value implements driver.Valuer.
func (l MovieIDList) Value() (driver.Value, error) {
	if l == nil {
		l = MovieIDList{}
	}
	encoded, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

// Scan implements sql.Scanner.
func (l *MovieIDList) Scan(value interface{}) error {
	if value == nil {
		*l = MovieIDList{}
		return nil
	}
	switch data := value.(type) {
	case []byte:
		return json.Unmarshal(data, l)
	case string:
		return json.Unmarshal([]byte(data), l)
	default:
		return fmt.Errorf("cineboards: cannot scan movie id list from %T", value)
	}
}

// Board is a curated, ordered movie list a user shares with friends.
type Board struct {
	ID          string      `gorm:"column:id;primaryKey;size:64" json:"id"`
	OwnerUserID string      `gorm:"column:owner_user_id;size:64;not null;index" json:"ownerUserId"`
	Title       string      `gorm:"column:title;size:190;not null" json:"title"`
	Description string      `gorm:"column:description;size:1024" json:"description,omitempty"`
	MovieIDs    MovieIDList `gorm:"column:movie_ids;type:text" json:"movieIds"`
	IsPublic    bool        `gorm:"column:is_public;not null;default:false" json:"isPublic"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName exposes the table backing cineboards.
func (Board) TableName() string {
	return "cineboards"
}

// Recommendation is a CineLink: one movie sent from one user to another with
// a note explaining why the friend should watch it.
type Recommendation struct {
	ID         string    `gorm:"column:id;primaryKey;size:64" json:"id"`
	MovieID    string    `gorm:"column:movie_id;size:64;not null" json:"movieId"`
	FromUserID string    `gorm:"column:from_user_id;size:64;not null;index" json:"fromUserId"`
	ToUserID   string    `gorm:"column:to_user_id;size:64;not null;index" json:"toUserId"`
	Note       string    `gorm:"column:note;size:1024" json:"note"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName exposes the table backing cinelinks.
func (Recommendation) TableName() string {
	return "cinelinks"
}

// BoardUpdate carries the mutable board fields. Nil pointers leave the stored
// value untouched.
type BoardUpdate struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	MovieIDs    *MovieIDList `json:"movieIds,omitempty"`
	IsPublic    *bool        `json:"isPublic,omitempty"`
}
