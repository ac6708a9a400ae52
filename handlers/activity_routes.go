// handlers/activity_routes.go
package handlers

import (
	"fitness-progression-system/middleware"
	"fitness-progression-system/models"
	"fitness-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupActivityRoutes(app *fiber.App, tasks *services.TaskService, workouts *services.WorkoutService, nutrition *services.NutritionService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	// --- Tasks ---

	securedGroup.Post("/tasks", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Title string `json:"title" validate:"required,max=255"`
			Notes string `json:"notes" validate:"max=1024"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}

		task, err := tasks.CreateTask(userID, req.Title, req.Notes)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(task)
	})

	securedGroup.Get("/tasks", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		list, err := tasks.ListTasks(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list tasks",
				"cause": err.Error(),
			})
		}
		return c.JSON(list)
	})

	securedGroup.Post("/tasks/:id/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		result, err := tasks.CompleteTask(c.UserContext(), userID, c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to complete task",
				"cause": err.Error(),
			})
		}
		return c.JSON(result)
	})

	// --- Workouts ---

	securedGroup.Get("/exercises", func(c *fiber.Ctx) error {
		var category *models.Category
		if raw := c.Query("category"); raw != "" {
			parsed, err := models.ParseCategory(raw)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown category"})
			}
			category = &parsed
		}

		list, err := workouts.ListExercises(category)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list exercises",
				"cause": err.Error(),
			})
		}
		return c.JSON(list)
	})

	securedGroup.Post("/workouts/sets", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			ExerciseID string  `json:"exercise_id" validate:"required"`
			Reps       int     `json:"reps" validate:"min=1"`
			WeightKg   float64 `json:"weight_kg"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}
		if req.ExerciseID == "" || req.Reps < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "exercise_id and reps are required"})
		}

		result, err := workouts.RecordSet(c.UserContext(), userID, req.ExerciseID, req.Reps, req.WeightKg)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to record set",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	})

	securedGroup.Post("/workouts/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		result, err := workouts.CompleteWorkout(c.UserContext(), userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to complete workout",
				"cause": err.Error(),
			})
		}
		return c.JSON(result)
	})

	// --- Nutrition & body metrics ---

	securedGroup.Post("/meals", nutrition.CreateMeal)
	securedGroup.Get("/meals", nutrition.ListMeals)
	securedGroup.Post("/weight", nutrition.CreateWeightEntry)
	securedGroup.Get("/weight", nutrition.ListWeightEntries)
}
