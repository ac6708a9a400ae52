// services/scheduler.go
package services

import (
	"log"
	"time"

	"fitness-progression-system/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm/clause"
)

func (s *LedgerService) StartRollupScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every hour: roll up yesterday's ledger entries into daily totals
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			if err := s.RollupDay(time.Now().UTC().AddDate(0, 0, -1)); err != nil {
				log.Printf("[Scheduler] rollup failed: %v", err)
			}
		}),
	)
}

// RollupDay aggregates all ledger entries on the given day (UTC) into
// XPDailyTotal rows, upserting so re-runs are idempotent.
func (s *LedgerService) RollupDay(day time.Time) error {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var rows []models.XPDailyTotal
	err := s.DB.Raw(`
		SELECT external_user_id, ? AS day, SUM(amount) AS total_xp, COUNT(*) AS event_count
		FROM xp_events
		WHERE created_at >= ? AND created_at < ?
		GROUP BY external_user_id
	`, start, start, end).Scan(&rows).Error
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_user_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_xp", "event_count"}),
	}).Create(&rows).Error; err != nil {
		return err
	}

	log.Printf("✅ Rolled up %d daily XP totals for %s", len(rows), start.Format("2006-01-02"))
	return nil
}
