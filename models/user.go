package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the local account record. Display name and avatar double as the
// profile data the leaderboard resolves entries against.
type User struct {
	ID           string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Username     string  `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"not null" json:"-"`
	DisplayName  string  `gorm:"not null" json:"display_name"`
	AvatarURL    *string `gorm:"type:text" json:"avatar_url,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
