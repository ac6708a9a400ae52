package models

import (
	"time"

	"gorm.io/gorm"
)

// UserProgress tracks gamified progression for each user (denormalized for performance)
type UserProgress struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // links to profile service

	// Core progression
	TotalXP int64 `json:"total_xp" gorm:"default:0"`
	Level   int   `json:"level" gorm:"default:1"` // always LevelFor(TotalXP); recomputed on every mutation

	// Per-category progression, keyed by the closed Category set
	Categories map[Category]CategoryProgress `json:"categories" gorm:"type:jsonb;serializer:json"`

	// Achievement ids already awarded, with unlock time. Append-only.
	UnlockedAchievements map[string]time.Time `json:"unlocked_achievements" gorm:"type:jsonb;serializer:json"`

	// Resolved external counters. Owned by the task/workout subsystems and
	// written here before XP is applied so requirement checks stay pure.
	StreakDays        int            `json:"streak_days" gorm:"default:0"`
	WorkoutsCompleted int64          `json:"workouts_completed" gorm:"default:0"`
	ExerciseMastery   map[string]int `json:"exercise_mastery" gorm:"type:jsonb;serializer:json"`

	Timestamps
}

// CategoryProgress is one category's slice of the progression record.
type CategoryProgress struct {
	XP                int64    `json:"xp"`
	Level             int      `json:"level"`
	UnlockedExercises []string `json:"unlocked_exercises,omitempty"`
}

// NewUserProgress returns the lazily-created default record: level 1,
// zero XP everywhere, empty sets.
func NewUserProgress(externalUserID string) *UserProgress {
	cats := make(map[Category]CategoryProgress, len(Categories()))
	for _, c := range Categories() {
		cats[c] = CategoryProgress{Level: 1}
	}
	return &UserProgress{
		ExternalUserID:       externalUserID,
		Level:                1,
		Categories:           cats,
		UnlockedAchievements: make(map[string]time.Time),
		ExerciseMastery:      make(map[string]int),
	}
}

// Category returns the progress record for c, falling back to the default
// when the jsonb column predates a newly added category key.
func (p *UserProgress) Category(c Category) CategoryProgress {
	if cp, ok := p.Categories[c]; ok {
		return cp
	}
	return CategoryProgress{Level: 1}
}

// Unlocked reports whether the achievement id has already been awarded.
func (p *UserProgress) Unlocked(id string) bool {
	_, ok := p.UnlockedAchievements[id]
	return ok
}

// Clone returns a deep copy safe to hand to callers after the engine's
// per-user lock is released.
func (p *UserProgress) Clone() *UserProgress {
	out := *p
	out.Categories = make(map[Category]CategoryProgress, len(p.Categories))
	for k, v := range p.Categories {
		ex := make([]string, len(v.UnlockedExercises))
		copy(ex, v.UnlockedExercises)
		v.UnlockedExercises = ex
		out.Categories[k] = v
	}
	out.UnlockedAchievements = make(map[string]time.Time, len(p.UnlockedAchievements))
	for k, v := range p.UnlockedAchievements {
		out.UnlockedAchievements[k] = v
	}
	out.ExerciseMastery = make(map[string]int, len(p.ExerciseMastery))
	for k, v := range p.ExerciseMastery {
		out.ExerciseMastery[k] = v
	}
	return &out
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
