package models

import "time"

// TaskStatus indicates where a task is in its lifecycle
type TaskStatus string

const (
	TaskStatusOpen      TaskStatus = "open"
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusCancelled TaskStatus = "cancelled"
	TaskStatusExpired   TaskStatus = "expired"
)

// Task is posted by a creator (the requestor) and claimed by a doer.
// Verification flags flip when each party confirms the other's side of
// completion; rating flags flip exactly once, when that party submits a
// rating. A rating flag may only become true after both verification
// flags are true.
type Task struct {
	ID          string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	CreatorID   string     `gorm:"index;not null" json:"creator_id"`
	DoerID      *string    `gorm:"column:doer_id;index" json:"doer_id,omitempty"` // unset until claimed
	Status      TaskStatus `gorm:"not null;default:'open';index" json:"status"`

	RequestorVerified bool `gorm:"default:false" json:"requestor_verified"`
	DoerVerified      bool `gorm:"default:false" json:"doer_verified"`
	RequestorRated    bool `gorm:"default:false" json:"requestor_rated"`
	DoerRated         bool `gorm:"default:false" json:"doer_rated"`

	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	Timestamps
}

// BothVerified reports whether both parties confirmed completion.
func (t *Task) BothVerified() bool {
	return t.RequestorVerified && t.DoerVerified
}

// NeedsDoerRating reports whether the doer still owes a rating.
func (t *Task) NeedsDoerRating() bool {
	return t.BothVerified() && !t.DoerRated
}

// NeedsRequestorRating reports whether the requestor still owes a rating.
func (t *Task) NeedsRequestorRating() bool {
	return t.BothVerified() && !t.RequestorRated
}

// IsDoer reports whether userID claimed this task.
func (t *Task) IsDoer(userID string) bool {
	return t.DoerID != nil && *t.DoerID == userID
}
