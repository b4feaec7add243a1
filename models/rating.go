package models

import "time"

// RatingRole is the role the ratee played on the task.
type RatingRole string

const (
	RatingRoleCreator RatingRole = "creator"
	RatingRoleDoer    RatingRole = "doer"
)

// UserRating holds one row per user with their running per-role averages.
// Updated in place whenever a new rating is submitted for that user in
// either role.
type UserRating struct {
	UserID             string   `gorm:"primaryKey;type:uuid" json:"user_id"`
	CreatorRating      *float64 `json:"creator_rating,omitempty"`
	CreatorRatingCount int      `gorm:"default:0" json:"creator_rating_count"`
	DoerRating         *float64 `json:"doer_rating,omitempty"`
	DoerRatingCount    int      `gorm:"default:0" json:"doer_rating_count"`

	Timestamps
}

// RatingEvent is the append-only record of a single submitted rating.
// UserRating rows are derivable from these; the reconcile worker uses
// them to repair aggregate drift.
type RatingEvent struct {
	ID        string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TaskID    string     `gorm:"index;not null" json:"task_id"`
	RaterID   string     `gorm:"index;not null" json:"rater_id"`
	RateeID   string     `gorm:"index;not null" json:"ratee_id"`
	Role      RatingRole `gorm:"not null" json:"role"`
	Score     int        `gorm:"not null" json:"score"` // 1..5
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
