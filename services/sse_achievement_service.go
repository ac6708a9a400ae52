package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"fitness-progression-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StreamAchievementsSSE streams newly unlocked achievements for the
// authenticated user by tailing the achievement entries of the XP ledger.
func (s *LedgerService) StreamAchievementsSSE(catalog *AchievementCatalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		// SSE headers
		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no") // nginx

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()

			var lastMaxCreatedAt time.Time

			// Initialize cursor at the newest existing entry so only fresh
			// unlocks are streamed.
			var latest models.XPEvent
			if err := s.DB.
				Where("external_user_id = ? AND source = ?", userID, models.SourceAchievement).
				Order("created_at DESC").
				First(&latest).Error; err == nil {
				lastMaxCreatedAt = latest.CreatedAt
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("SSE init error for user %s: %v", userID, err)
			}

			// Initial keepalive (comment event)
			w.WriteString(":\n\n")
			w.Flush()

			for {
				select {
				case <-ticker.C:
					events, err := s.RecentAchievementEvents(userID, lastMaxCreatedAt)
					if err != nil {
						log.Printf("SSE query error for user %s: %v", userID, err)
						continue
					}
					if len(events) == 0 {
						continue
					}
					lastMaxCreatedAt = events[len(events)-1].CreatedAt

					for _, ev := range events {
						payload, _ := json.Marshal(achievementFrame(catalog, ev))
						fmt.Fprintf(w, "event: achievement\ndata: %s\n\n", payload)
					}

					if err := w.Flush(); err != nil {
						// Client disconnected.
						return
					}

				case <-c.Context().Done():
					return
				}
			}
		})

		return nil
	}
}

// achievementFrame joins a ledger entry with its catalog definition via the
// achievement id recorded on the reward entry.
func achievementFrame(catalog *AchievementCatalog, ev models.XPEvent) fiber.Map {
	frame := fiber.Map{
		"xp_reward":   ev.Amount,
		"unlocked_at": ev.CreatedAt,
		"title":       ev.Description,
	}
	if def, ok := catalog.ByID(ev.AchievementID); ok {
		frame["achievement"] = def
	}
	return frame
}
