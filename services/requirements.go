package services

import (
	"fmt"

	"fitness-progression-system/models"
)

// Satisfied reports whether every populated requirement field of def holds
// against the given progress snapshot. Pure and deterministic: no I/O, no
// hidden state. Streak and workout counts are read straight off the
// snapshot — resolving them is the caller's job.
//
// A definition referencing a category outside the closed set fails with
// ErrCatalogIntegrity; that is a catalog bug, never a silent false.
func Satisfied(def *models.AchievementDefinition, progress *models.UserProgress) (bool, error) {
	req := def.Requirements

	if req.Level > 0 && progress.Level < req.Level {
		return false, nil
	}
	if req.TotalXP > 0 && progress.TotalXP < req.TotalXP {
		return false, nil
	}
	if req.CategoryLevel != nil {
		if !req.CategoryLevel.Category.Valid() {
			return false, fmt.Errorf("%w: achievement %q references category %q",
				ErrCatalogIntegrity, def.ID, req.CategoryLevel.Category)
		}
		if progress.Category(req.CategoryLevel.Category).Level < req.CategoryLevel.Level {
			return false, nil
		}
	}
	if req.StreakDays > 0 && progress.StreakDays < req.StreakDays {
		return false, nil
	}
	if req.WorkoutsCompleted > 0 && progress.WorkoutsCompleted < req.WorkoutsCompleted {
		return false, nil
	}
	if req.ExerciseMastery != nil {
		if req.ExerciseMastery.ExerciseID == "" {
			return false, fmt.Errorf("%w: achievement %q has an exercise mastery requirement without an exercise id",
				ErrCatalogIntegrity, def.ID)
		}
		if progress.ExerciseMastery[req.ExerciseMastery.ExerciseID] < req.ExerciseMastery.Level {
			return false, nil
		}
	}
	return true, nil
}

// ValidateDefinition checks one definition for catalog bugs without needing
// user state. Run over the whole catalog once at startup so bad data fails
// the process instead of a request.
func ValidateDefinition(def *models.AchievementDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("%w: definition %q has an empty id", ErrCatalogIntegrity, def.Title)
	}
	if def.XPReward < 0 {
		return fmt.Errorf("%w: achievement %q has a negative reward", ErrCatalogIntegrity, def.ID)
	}
	probe := models.NewUserProgress("catalog-validation")
	if _, err := Satisfied(def, probe); err != nil {
		return err
	}
	return nil
}
