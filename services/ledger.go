package services

import (
	"time"

	"fitness-progression-system/models"

	"gorm.io/gorm"
)

// LedgerService serves read-only views over the append-only XP ledger.
// Totals on UserProgress are maintained incrementally; the ledger backs the
// time-series views only.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// GetHistory returns paginated ledger entries, newest first.
func (s *LedgerService) GetHistory(externalUserID string, page, size int) (map[string]interface{}, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	var total int64
	if err := s.DB.Model(&models.XPEvent{}).
		Where("external_user_id = ?", externalUserID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var events []models.XPEvent
	if err := s.DB.Where("external_user_id = ?", externalUserID).
		Order("created_at DESC").
		Limit(size).Offset(offset).
		Find(&events).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return map[string]interface{}{
		"events":      events,
		"page":        page,
		"size":        size,
		"total_items": total,
		"total_pages": totalPages,
	}, nil
}

// GetDailyTotals returns rolled-up per-day XP totals for the last N days,
// filling from the live ledger for days the scheduler has not rolled up yet.
func (s *LedgerService) GetDailyTotals(externalUserID string, days int) ([]models.XPDailyTotal, error) {
	if days < 1 || days > 365 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	var rows []models.XPDailyTotal
	err := s.DB.Raw(`
		SELECT external_user_id, date_trunc('day', created_at) AS day,
		       SUM(amount) AS total_xp, COUNT(*) AS event_count
		FROM xp_events
		WHERE external_user_id = ? AND created_at >= ?
		GROUP BY external_user_id, day
		ORDER BY day ASC
	`, externalUserID, since).Scan(&rows).Error
	return rows, err
}

// RecentAchievementEvents returns achievement-reward ledger entries created
// after the given cursor time, oldest first. Used by the SSE stream.
func (s *LedgerService) RecentAchievementEvents(externalUserID string, after time.Time) ([]models.XPEvent, error) {
	var events []models.XPEvent
	err := s.DB.Where("external_user_id = ? AND source = ? AND created_at > ?",
		externalUserID, models.SourceAchievement, after).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}
