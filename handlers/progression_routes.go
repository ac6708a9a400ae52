// handlers/progression_routes.go
package handlers

import (
	"errors"
	"strconv"

	"fitness-progression-system/middleware"
	"fitness-progression-system/models"
	"fitness-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(app *fiber.App, engine *services.ProgressionEngine, ledger *services.LedgerService, authClient *services.AuthServiceClient) {
	// 🔐 Secured routes — require user context (userID, roles)
	// The gateway should forward paths like /api/v1/fitness/s/user/progress -> /user/progress
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prog, err := engine.Progress(c.UserContext(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load progress",
				"cause": err.Error(),
			})
		}

		info := services.LevelFor(prog.TotalXP)
		categories := fiber.Map{}
		for _, cat := range models.Categories() {
			stats, statErr := services.GetCategoryStatistics(cat, prog)
			if statErr != nil {
				continue
			}
			categories[string(cat)] = stats
		}

		return c.JSON(fiber.Map{
			"id":                 prog.ID,
			"total_xp":           prog.TotalXP,
			"level":              prog.Level,
			"xp_to_next_level":   info.XPToNextLevel,
			"xp_at_level_start":  info.XPAtLevelStart,
			"categories":         categories,
			"streak_days":        prog.StreakDays,
			"workouts_completed": prog.WorkoutsCompleted,
			"achievements":       prog.UnlockedAchievements,
			"last_updated":       prog.UpdatedAt,
		})
	})

	securedGroup.Get("/user/progress/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))
		history, err := ledger.GetHistory(userID, page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get history",
				"cause": err.Error(),
			})
		}
		return c.JSON(history)
	})

	securedGroup.Get("/user/progress/history/daily", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		days, _ := strconv.Atoi(c.Query("days", "30"))
		totals, err := ledger.GetDailyTotals(userID, days)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get daily totals",
				"cause": err.Error(),
			})
		}
		return c.JSON(totals)
	})

	securedGroup.Get("/user/progress/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prog, err := engine.Progress(c.UserContext(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load progress",
				"cause": err.Error(),
			})
		}

		var response []fiber.Map
		for _, def := range engine.Catalog().All() {
			entry := fiber.Map{
				"id":          def.ID,
				"title":       def.Title,
				"description": def.Description,
				"type":        def.Type,
				"icon":        def.Icon,
				"badge_color": def.BadgeColor,
				"xp_reward":   def.XPReward,
				"unlocked":    false,
			}
			if at, ok := prog.UnlockedAchievements[def.ID]; ok {
				entry["unlocked"] = true
				entry["unlocked_at"] = at
			}
			response = append(response, entry)
		}
		return c.JSON(response)
	})

	securedGroup.Get("/user/progress/category/:category", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		category, err := models.ParseCategory(c.Params("category"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unknown category",
			})
		}

		prog, err := engine.Progress(c.UserContext(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load progress",
				"cause": err.Error(),
			})
		}

		stats, err := services.GetCategoryStatistics(category, prog)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		unlocked := prog.Category(category).UnlockedExercises
		return c.JSON(fiber.Map{
			"stats":              stats,
			"unlocked_exercises": unlocked,
		})
	})

	// SSE: token auth rides on the query string because EventSource cannot set headers
	app.Get("/user/achievements/stream",
		middleware.SSEAuthMiddleware(authClient),
		ledger.StreamAchievementsSSE(engine.Catalog()))

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserID      string `json:"user_id" validate:"required,uuid"`
			XP          int64  `json:"xp" validate:"required,min=1"`
			Source      string `json:"source" validate:"required,max=64"`
			Category    string `json:"category" validate:"omitempty,oneof=push pull legs core"`
			Description string `json:"description" validate:"max=255"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.Source == "" {
			req.Source = "admin"
		}

		var category *models.Category
		if req.Category != "" {
			parsed, err := models.ParseCategory(req.Category)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown category"})
			}
			category = &parsed
		}

		result, err := engine.ApplyXP(c.UserContext(), req.UserID, req.XP, req.Source, category, req.Description)
		if err != nil {
			return progressionError(c, err)
		}

		return c.JSON(fiber.Map{
			"message":        "XP granted successfully",
			"user_id":        req.UserID,
			"xp":             req.XP,
			"newly_unlocked": result.NewlyUnlocked,
			"achievement_xp": result.AchievementXP,
			"level":          result.Progress.Level,
			"total_xp":       result.Progress.TotalXP,
		})
	})
}

// progressionError maps engine error kinds to HTTP statuses.
func progressionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidSource),
		errors.Is(err, services.ErrUnknownCategory):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "XP grant failed",
			"cause": err.Error(),
		})
	}
}
