package workers

import (
	"context"
	"log"
	"time"

	"fitness-progression-system/services"

	"gorm.io/gorm"
)

// StreakWorker periodically re-resolves task streaks so a streak that
// lapses overnight is reflected on the progress record without waiting for
// the user's next completion. It only refreshes the resolved counter; the
// achievement scan still runs on XP-granting events only.
type StreakWorker struct {
	DB     *gorm.DB
	Tasks  *services.TaskService
	Engine *services.ProgressionEngine
}

func NewStreakWorker(db *gorm.DB, tasks *services.TaskService, engine *services.ProgressionEngine) *StreakWorker {
	return &StreakWorker{DB: db, Tasks: tasks, Engine: engine}
}

// PollStreaks runs the refresh loop until ctx is cancelled.
func PollStreaks(ctx context.Context, w *StreakWorker, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Streak worker stopped")
			return
		case <-ticker.C:
			if err := w.refresh(ctx); err != nil {
				log.Printf("[StreakWorker] refresh failed: %v", err)
			}
		}
	}
}

// refresh recomputes streaks for users with recent task activity. Users
// idle beyond the window already have a stale streak of zero relevance —
// their record is corrected the next time they show up.
func (w *StreakWorker) refresh(ctx context.Context) error {
	since := time.Now().UTC().AddDate(0, 0, -2)

	var userIDs []string
	err := w.DB.Raw(`
		SELECT DISTINCT external_user_id
		FROM tasks
		WHERE completed = true AND completed_at >= ? AND deleted_at IS NULL
	`, since).Scan(&userIDs).Error
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, userID := range userIDs {
		streak, err := w.Tasks.ComputeStreak(userID, now)
		if err != nil {
			log.Printf("[StreakWorker] streak compute failed for %s: %v", userID, err)
			continue
		}
		if err := w.Engine.UpdateCounters(ctx, userID, streak, -1, nil); err != nil {
			log.Printf("[StreakWorker] counter update failed for %s: %v", userID, err)
		}
	}
	return nil
}
