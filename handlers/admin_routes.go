// handlers/admin_routes.go
package handlers

import (
	"fmt"
	"path/filepath"

	"fitness-progression-system/middleware"
	"fitness-progression-system/models"
	"fitness-progression-system/services"
	"fitness-progression-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func SetupAdminRoutes(app *fiber.App, db *gorm.DB) {
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	// Create a dynamic achievement definition. The catalog is built once at
	// process start, so new definitions become evaluable on the next restart.
	adminGroup.Post("/achievements", func(c *fiber.Ctx) error {
		var req struct {
			Title        string              `json:"title" validate:"required,max=255"`
			Description  string              `json:"description" validate:"max=1024"`
			Type         string              `json:"type" validate:"required,oneof=strength consistency nutrition milestone"`
			Icon         string              `json:"icon"`
			BadgeColor   string              `json:"badge_color"`
			Requirements models.Requirements `json:"requirements"`
			XPReward     int64               `json:"xp_reward" validate:"min=0"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.Title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
		}
		if req.XPReward < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "xp_reward must be >= 0"})
		}

		record := &models.AchievementRecord{
			ID:           uuid.NewString(),
			Title:        req.Title,
			Description:  req.Description,
			Type:         models.AchievementType(req.Type),
			Icon:         req.Icon,
			BadgeColor:   req.BadgeColor,
			Requirements: req.Requirements,
			XPReward:     req.XPReward,
		}

		// Validate the definition the same way the startup catalog load does.
		def := record.Definition()
		if err := services.ValidateDefinition(&def); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		if err := db.Create(record).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save achievement",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"achievement": record,
			"note":        "definition becomes evaluable at next service restart",
		})
	})

	// Upload an achievement icon to R2 and return its CDN URL
	adminGroup.Post("/achievements/icon", func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("icon")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "icon file is required"})
		}

		key := fmt.Sprintf("icons/%s%s", uuid.NewString(), filepath.Ext(fileHeader.Filename))
		url, err := utils.UploadFileToR2(fileHeader, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "icon upload failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"icon_url": url})
	})

	// Import exercise reference data from CSV (name,category,difficulty)
	adminGroup.Post("/exercises/import", func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "csv file is required"})
		}

		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to open upload"})
		}
		defer file.Close()

		exercises, err := utils.ParseExerciseCSV(file)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if len(exercises) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no exercises in file"})
		}

		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "category", "difficulty"}),
		}).Create(&exercises).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to import exercises",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"imported": len(exercises),
		})
	})
}
