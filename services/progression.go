package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fitness-progression-system/models"

	"github.com/google/uuid"
)

// ProgressionEngine owns all mutation of UserProgress: applying XP deltas,
// recomputing levels and awarding achievements exactly once. It performs no
// internal parallelism; concurrency comes from the surrounding request
// handlers, so the read-modify-write of one user's record runs under a
// per-user lock.
type ProgressionEngine struct {
	repo    ProgressRepository
	catalog *AchievementCatalog

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewProgressionEngine(repo ProgressRepository, catalog *AchievementCatalog) *ProgressionEngine {
	return &ProgressionEngine{
		repo:      repo,
		catalog:   catalog,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// ProgressionResult describes what one ApplyXP call changed. It is only
// returned after a successful save.
type ProgressionResult struct {
	Progress      *models.UserProgress           `json:"progress"`
	NewlyUnlocked []models.AchievementDefinition `json:"newly_unlocked"`
	AchievementXP int64                          `json:"achievement_xp"`
}

// ApplyXP grants amount XP to the user from the given source, optionally
// scoped to one category, and runs a single achievement scan against the
// post-update state. Achievement rewards are applied within the same call
// but do not trigger a second scan pass.
//
// Validation failures (ErrInvalidAmount, ErrInvalidSource,
// ErrUnknownCategory) reject before any state is touched. A repository
// failure surfaces as ErrPersistence and the caller must assume nothing
// changed.
func (e *ProgressionEngine) ApplyXP(ctx context.Context, externalUserID string, amount int64, source string, category *models.Category, description string) (*ProgressionResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}
	if source == "" {
		return nil, ErrInvalidSource
	}
	if category != nil && !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, *category)
	}

	unlock := e.lockUser(externalUserID)
	defer unlock()

	prog, err := e.repo.LoadOrCreate(ctx, externalUserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	prog.TotalXP += amount
	if category != nil {
		cp := prog.Category(*category)
		cp.XP += amount
		cp.Level = LevelFor(cp.XP).Level
		if prog.Categories == nil {
			prog.Categories = make(map[models.Category]models.CategoryProgress)
		}
		prog.Categories[*category] = cp
	}
	prog.Level = LevelFor(prog.TotalXP).Level

	events := []models.XPEvent{{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		Amount:         amount,
		Source:         source,
		Category:       category,
		Description:    description,
		CreatedAt:      now,
	}}

	// Single scan over the catalog against the post-update snapshot. The
	// scan is a pure collection pass: rewards are applied only after every
	// definition has been evaluated, so reward XP from an earlier catalog
	// entry cannot unlock a later one within the same call.
	var newly []models.AchievementDefinition
	for _, def := range e.catalog.All() {
		if prog.Unlocked(def.ID) {
			continue
		}
		ok, err := Satisfied(&def, prog)
		if err != nil {
			// Catalog bug; nothing has been persisted yet.
			return nil, err
		}
		if ok {
			newly = append(newly, def)
		}
	}

	var achievementXP int64
	for _, def := range newly {
		if prog.UnlockedAchievements == nil {
			prog.UnlockedAchievements = make(map[string]time.Time)
		}
		prog.UnlockedAchievements[def.ID] = now
		prog.TotalXP += def.XPReward
		achievementXP += def.XPReward
		events = append(events, models.XPEvent{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			Amount:         def.XPReward,
			Source:         models.SourceAchievement,
			AchievementID:  def.ID,
			Description:    def.Title,
			CreatedAt:      now,
		})
	}

	// Reward XP may cross a level boundary, but it does not re-trigger the
	// achievement scan within this call.
	prog.Level = LevelFor(prog.TotalXP).Level

	if err := e.repo.Save(ctx, prog, events); err != nil {
		return nil, err
	}

	return &ProgressionResult{
		Progress:      prog.Clone(),
		NewlyUnlocked: newly,
		AchievementXP: achievementXP,
	}, nil
}

// Progress returns the user's current record, creating the default on first
// access.
func (e *ProgressionEngine) Progress(ctx context.Context, externalUserID string) (*models.UserProgress, error) {
	unlock := e.lockUser(externalUserID)
	defer unlock()

	prog, err := e.repo.LoadOrCreate(ctx, externalUserID)
	if err != nil {
		return nil, err
	}
	return prog.Clone(), nil
}

// UpdateCounters writes resolved external counters (streak days, workouts
// completed, per-exercise mastery) onto the record under the user lock.
// Passing a negative int leaves that counter untouched. The evaluator reads
// these numbers off the snapshot; it never computes them.
func (e *ProgressionEngine) UpdateCounters(ctx context.Context, externalUserID string, streakDays int, workoutsCompleted int64, mastery map[string]int) error {
	unlock := e.lockUser(externalUserID)
	defer unlock()

	prog, err := e.repo.LoadOrCreate(ctx, externalUserID)
	if err != nil {
		return err
	}
	if streakDays >= 0 {
		prog.StreakDays = streakDays
	}
	if workoutsCompleted >= 0 {
		prog.WorkoutsCompleted = workoutsCompleted
	}
	for id, lvl := range mastery {
		if prog.ExerciseMastery == nil {
			prog.ExerciseMastery = make(map[string]int)
		}
		if lvl > prog.ExerciseMastery[id] {
			prog.ExerciseMastery[id] = lvl
		}
	}
	return e.repo.Save(ctx, prog, nil)
}

// IncrementWorkouts bumps the completed-workout counter by one. The whole
// read-modify-write runs under the user lock so racing completions cannot
// lose an increment.
func (e *ProgressionEngine) IncrementWorkouts(ctx context.Context, externalUserID string) error {
	unlock := e.lockUser(externalUserID)
	defer unlock()

	prog, err := e.repo.LoadOrCreate(ctx, externalUserID)
	if err != nil {
		return err
	}
	prog.WorkoutsCompleted++
	return e.repo.Save(ctx, prog, nil)
}

// UnlockExercise records an exercise reference id in the category's
// unlocked set. Idempotent.
func (e *ProgressionEngine) UnlockExercise(ctx context.Context, externalUserID string, category models.Category, exerciseID string) error {
	if !category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	unlock := e.lockUser(externalUserID)
	defer unlock()

	prog, err := e.repo.LoadOrCreate(ctx, externalUserID)
	if err != nil {
		return err
	}
	cp := prog.Category(category)
	for _, id := range cp.UnlockedExercises {
		if id == exerciseID {
			return nil
		}
	}
	cp.UnlockedExercises = append(cp.UnlockedExercises, exerciseID)
	if prog.Categories == nil {
		prog.Categories = make(map[models.Category]models.CategoryProgress)
	}
	prog.Categories[category] = cp
	return e.repo.Save(ctx, prog, nil)
}

// Catalog exposes the merged achievement catalog for read-only listing.
func (e *ProgressionEngine) Catalog() *AchievementCatalog {
	return e.catalog
}

// lockUser acquires the per-user mutex, creating it on first use. Locks are
// never evicted; one mutex per known user for the process lifetime.
func (e *ProgressionEngine) lockUser(externalUserID string) func() {
	e.mu.Lock()
	l, ok := e.userLocks[externalUserID]
	if !ok {
		l = &sync.Mutex{}
		e.userLocks[externalUserID] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}
