package models

// Exercise is static reference data describing one movement. Rows are
// seeded via the admin CSV import; the ID is a slug of the name.
type Exercise struct {
	ID         string   `gorm:"primaryKey" json:"id"` // e.g. "pull-up"
	Name       string   `gorm:"not null" json:"name"`
	Category   Category `gorm:"type:varchar(16);index;not null" json:"category"`
	Difficulty int      `gorm:"default:1" json:"difficulty"` // 1..5, drives the XP award per set

	Timestamps
}

// ExerciseSet records one completed set of an exercise.
type ExerciseSet struct {
	ID             string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string  `gorm:"index;not null" json:"external_user_id"`
	ExerciseID     string  `gorm:"index;not null" json:"exercise_id"`
	Reps           int     `json:"reps"`
	WeightKg       float64 `json:"weight_kg,omitempty"`

	Timestamps
}
