package models

import "time"

// AchievementType groups achievements in the UI.
type AchievementType string

const (
	AchievementStrength    AchievementType = "strength"
	AchievementConsistency AchievementType = "consistency"
	AchievementNutrition   AchievementType = "nutrition"
	AchievementMilestone   AchievementType = "milestone"
)

// Requirements is the structured predicate gating an achievement. Every
// populated field must hold (AND); zero values mean "not checked".
type Requirements struct {
	Level             int                 `json:"level,omitempty"`
	TotalXP           int64               `json:"total_xp,omitempty"`
	CategoryLevel     *CategoryLevelReq   `json:"category_level,omitempty"`
	StreakDays        int                 `json:"streak_days,omitempty"`
	WorkoutsCompleted int64               `json:"workouts_completed,omitempty"`
	ExerciseMastery   *ExerciseMasteryReq `json:"exercise_mastery,omitempty"`
}

// CategoryLevelReq requires a named category to reach a level.
type CategoryLevelReq struct {
	Category Category `json:"category"`
	Level    int      `json:"level"`
}

// ExerciseMasteryReq requires mastery of one specific exercise.
type ExerciseMasteryReq struct {
	ExerciseID string `json:"exercise_id"`
	Level      int    `json:"level"`
}

// AchievementDefinition describes a single one-time-awardable milestone.
// Definitions are immutable once the catalog is built.
type AchievementDefinition struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Type         AchievementType `json:"type"`
	Icon         string          `json:"icon"`
	BadgeColor   string          `json:"badge_color,omitempty"`
	Requirements Requirements    `json:"requirements"`
	XPReward     int64           `json:"xp_reward"`
}

// AchievementRecord is the dynamic catalog tier: admin-created definitions
// stored as rows and merged into the catalog behind the same
// AchievementDefinition shape, keyed by title.
type AchievementRecord struct {
	ID           string          `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title        string          `gorm:"uniqueIndex;not null" json:"title"`
	Description  string          `json:"description"`
	Type         AchievementType `gorm:"type:varchar(16)" json:"type"`
	Icon         string          `json:"icon"`
	BadgeColor   string          `json:"badge_color"`
	Requirements Requirements    `gorm:"type:jsonb;serializer:json" json:"requirements"`
	XPReward     int64           `gorm:"default:0" json:"xp_reward"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// Definition converts a stored record into the catalog shape.
func (r *AchievementRecord) Definition() AchievementDefinition {
	return AchievementDefinition{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Type:         r.Type,
		Icon:         r.Icon,
		BadgeColor:   r.BadgeColor,
		Requirements: r.Requirements,
		XPReward:     r.XPReward,
	}
}

// StaticAchievements is the compiled-in catalog tier, in definition order.
// The order is part of the contract: newly qualifying achievements are
// awarded first-defined-first.
var StaticAchievements = []AchievementDefinition{
	{
		ID:           "first-steps",
		Title:        "First Steps",
		Description:  "Earn your first experience points",
		Type:         AchievementMilestone,
		Icon:         "footprints",
		Requirements: Requirements{TotalXP: 1},
		XPReward:     25,
	},
	{
		ID:           "level-2",
		Title:        "Getting Warmed Up",
		Description:  "Reach level 2",
		Type:         AchievementMilestone,
		Icon:         "flame",
		Requirements: Requirements{Level: 2},
		XPReward:     50,
	},
	{
		ID:           "level-5",
		Title:        "Committed",
		Description:  "Reach level 5",
		Type:         AchievementMilestone,
		Icon:         "medal",
		BadgeColor:   "silver",
		Requirements: Requirements{Level: 5},
		XPReward:     100,
	},
	{
		ID:           "level-10",
		Title:        "Dedicated Athlete",
		Description:  "Reach level 10",
		Type:         AchievementMilestone,
		Icon:         "trophy",
		BadgeColor:   "gold",
		Requirements: Requirements{Level: 10},
		XPReward:     250,
	},
	{
		ID:           "xp-10k",
		Title:        "Ten Thousand Club",
		Description:  "Accumulate 10,000 total XP",
		Type:         AchievementMilestone,
		Icon:         "star",
		BadgeColor:   "gold",
		Requirements: Requirements{TotalXP: 10000},
		XPReward:     500,
	},
	{
		ID:           "push-adept",
		Title:        "Push Adept",
		Description:  "Reach level 3 in push training",
		Type:         AchievementStrength,
		Icon:         "dumbbell",
		Requirements: Requirements{CategoryLevel: &CategoryLevelReq{Category: CategoryPush, Level: 3}},
		XPReward:     75,
	},
	{
		ID:           "pull-adept",
		Title:        "Pull Adept",
		Description:  "Reach level 3 in pull training",
		Type:         AchievementStrength,
		Icon:         "dumbbell",
		Requirements: Requirements{CategoryLevel: &CategoryLevelReq{Category: CategoryPull, Level: 3}},
		XPReward:     75,
	},
	{
		ID:           "legs-adept",
		Title:        "Leg Day Loyalist",
		Description:  "Reach level 3 in legs training",
		Type:         AchievementStrength,
		Icon:         "dumbbell",
		Requirements: Requirements{CategoryLevel: &CategoryLevelReq{Category: CategoryLegs, Level: 3}},
		XPReward:     75,
	},
	{
		ID:           "core-adept",
		Title:        "Core Strength",
		Description:  "Reach level 3 in core training",
		Type:         AchievementStrength,
		Icon:         "dumbbell",
		Requirements: Requirements{CategoryLevel: &CategoryLevelReq{Category: CategoryCore, Level: 3}},
		XPReward:     75,
	},
	{
		ID:           "week-streak",
		Title:        "One Week Strong",
		Description:  "Keep a 7-day activity streak",
		Type:         AchievementConsistency,
		Icon:         "calendar",
		Requirements: Requirements{StreakDays: 7},
		XPReward:     100,
	},
	{
		ID:           "month-streak",
		Title:        "Habit Formed",
		Description:  "Keep a 30-day activity streak",
		Type:         AchievementConsistency,
		Icon:         "calendar-check",
		BadgeColor:   "gold",
		Requirements: Requirements{StreakDays: 30},
		XPReward:     300,
	},
	{
		ID:           "workouts-10",
		Title:        "Regular",
		Description:  "Complete 10 workouts",
		Type:         AchievementConsistency,
		Icon:         "repeat",
		Requirements: Requirements{WorkoutsCompleted: 10},
		XPReward:     75,
	},
	{
		ID:           "workouts-100",
		Title:        "Century of Sweat",
		Description:  "Complete 100 workouts",
		Type:         AchievementConsistency,
		Icon:         "award",
		BadgeColor:   "gold",
		Requirements: Requirements{WorkoutsCompleted: 100},
		XPReward:     500,
	},
	{
		ID:           "pullup-master",
		Title:        "Pull-Up Master",
		Description:  "Reach mastery level 5 on the pull-up",
		Type:         AchievementStrength,
		Icon:         "crown",
		BadgeColor:   "platinum",
		Requirements: Requirements{ExerciseMastery: &ExerciseMasteryReq{ExerciseID: "pull-up", Level: 5}},
		XPReward:     200,
	},
	{
		ID:          "balanced-athlete",
		Title:       "Balanced Athlete",
		Description: "Reach level 2 in core while holding global level 3",
		Type:        AchievementStrength,
		Icon:        "scale",
		Requirements: Requirements{
			Level:         3,
			CategoryLevel: &CategoryLevelReq{Category: CategoryCore, Level: 2},
		},
		XPReward: 150,
	},
}
