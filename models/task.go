package models

import "time"

// Task is a daily habit item. Completing one grants a fixed XP reward and
// feeds the streak computation.
type Task struct {
	ID             string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string     `gorm:"index;not null" json:"external_user_id"`
	Title          string     `gorm:"not null" json:"title"`
	Notes          string     `json:"notes,omitempty"`
	Completed      bool       `gorm:"default:false" json:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`

	Timestamps
}
