package models

import "time"

// SourceAchievement marks ledger entries produced by achievement rewards.
const SourceAchievement = "achievement"

// XPEvent is one row of the append-only XP ledger. Totals are maintained
// incrementally on UserProgress; the ledger is the source of truth for
// time-series views only.
type XPEvent struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string    `gorm:"index;not null" json:"external_user_id"`
	Amount         int64     `gorm:"not null" json:"amount"`
	Source         string    `gorm:"not null" json:"source"`
	Category       *Category `gorm:"type:varchar(16)" json:"category,omitempty"`
	AchievementID  string    `json:"achievement_id,omitempty"` // set on achievement-reward entries
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// XPDailyTotal is a rollup row produced by the ledger scheduler: total XP
// granted to a user on one calendar day (UTC).
type XPDailyTotal struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string    `gorm:"index:idx_daily_user_day,unique;not null" json:"external_user_id"`
	Day            time.Time `gorm:"index:idx_daily_user_day,unique;type:date" json:"day"`
	TotalXP        int64     `json:"total_xp"`
	EventCount     int64     `json:"event_count"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
