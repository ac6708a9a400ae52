// services/nutrition_service.go
package services

import (
	"errors"
	"time"

	"fitness-progression-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NutritionService struct {
	DB     *gorm.DB
	Engine *ProgressionEngine
}

func NewNutritionService(db *gorm.DB, engine *ProgressionEngine) *NutritionService {
	return &NutritionService{DB: db, Engine: engine}
}

// CreateMeal logs a meal and grants the nutrition XP
func (s *NutritionService) CreateMeal(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		Name     string  `json:"name" validate:"required"`
		Calories int     `json:"calories"`
		ProteinG float64 `json:"protein_g"`
		CarbsG   float64 `json:"carbs_g"`
		FatG     float64 `json:"fat_g"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Meal name is required"})
	}

	meal := &models.Meal{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		Name:           req.Name,
		Calories:       req.Calories,
		ProteinG:       req.ProteinG,
		CarbsG:         req.CarbsG,
		FatG:           req.FatG,
	}
	if err := s.DB.Create(meal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save meal",
			"cause": err.Error(),
		})
	}

	result, err := s.Engine.ApplyXP(c.UserContext(), userID, DefaultXPWeights.MealXP, "meal", nil, meal.Name)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "meal saved but XP grant failed",
			"cause": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"meal":        meal,
		"progression": result,
	})
}

// ListMeals returns the user's meals for the last N days (default 7)
func (s *NutritionService) ListMeals(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	days := c.QueryInt("days", 7)
	since := time.Now().AddDate(0, 0, -days)

	var meals []models.Meal
	if err := s.DB.Where("external_user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Find(&meals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list meals",
			"cause": err.Error(),
		})
	}
	return c.JSON(meals)
}

// CreateWeightEntry logs a bodyweight measurement and grants a small XP reward
func (s *NutritionService) CreateWeightEntry(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		WeightKg   float64    `json:"weight_kg" validate:"required,gt=0"`
		MeasuredAt *time.Time `json:"measured_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.WeightKg <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "weight_kg must be positive"})
	}

	measuredAt := time.Now().UTC()
	if req.MeasuredAt != nil {
		measuredAt = req.MeasuredAt.UTC()
	}

	entry := &models.WeightEntry{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		WeightKg:       req.WeightKg,
		MeasuredAt:     measuredAt,
	}
	if err := s.DB.Create(entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save weight entry",
			"cause": err.Error(),
		})
	}

	result, err := s.Engine.ApplyXP(c.UserContext(), userID, DefaultXPWeights.WeightEntryXP, "weight", nil, "")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "entry saved but XP grant failed",
			"cause": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"entry":       entry,
		"progression": result,
	})
}

// ListWeightEntries returns weight history, newest first
func (s *NutritionService) ListWeightEntries(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var entries []models.WeightEntry
	err := s.DB.Where("external_user_id = ?", userID).
		Order("measured_at DESC").
		Limit(200).
		Find(&entries).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON([]models.WeightEntry{})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list weight entries",
			"cause": err.Error(),
		})
	}
	return c.JSON(entries)
}
