package models

import "time"

// WeightEntry is one bodyweight measurement.
type WeightEntry struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string    `gorm:"index;not null" json:"external_user_id"`
	WeightKg       float64   `gorm:"not null" json:"weight_kg"`
	MeasuredAt     time.Time `gorm:"index" json:"measured_at"`

	Timestamps
}
