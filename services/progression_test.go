package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"fitness-progression-system/models"
)

// memRepo is an in-memory ProgressRepository. Load hands out deep copies so
// a failed save cannot leak half-applied state back into the store,
// matching the transactional behavior of the gorm repository.
type memRepo struct {
	mu       sync.Mutex
	records  map[string]*models.UserProgress
	events   []models.XPEvent
	failSave bool
	saves    int
}

func newMemRepo() *memRepo {
	return &memRepo{records: make(map[string]*models.UserProgress)}
}

func (r *memRepo) LoadOrCreate(_ context.Context, userID string) (*models.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.records[userID]; ok {
		return p.Clone(), nil
	}
	fresh := models.NewUserProgress(userID)
	r.records[userID] = fresh.Clone()
	return fresh, nil
}

func (r *memRepo) Save(_ context.Context, progress *models.UserProgress, newEvents []models.XPEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return fmt.Errorf("%w: save rejected", ErrPersistence)
	}
	r.records[progress.ExternalUserID] = progress.Clone()
	r.events = append(r.events, newEvents...)
	r.saves++
	return nil
}

func (r *memRepo) stored(userID string) *models.UserProgress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[userID].Clone()
}

func (r *memRepo) eventCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func emptyEngine(t *testing.T, repo ProgressRepository) *ProgressionEngine {
	t.Helper()
	catalog, err := NewCatalog(nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewProgressionEngine(repo, catalog)
}

func engineWith(t *testing.T, repo ProgressRepository, defs ...models.AchievementDefinition) *ProgressionEngine {
	t.Helper()
	catalog, err := NewCatalog(defs)
	if err != nil {
		t.Fatal(err)
	}
	return NewProgressionEngine(repo, catalog)
}

func TestApplyXP_RejectsNonPositiveAmount(t *testing.T) {
	repo := newMemRepo()
	e := emptyEngine(t, repo)

	for _, amount := range []int64{0, -5} {
		_, err := e.ApplyXP(context.Background(), "u1", amount, "x", nil, "")
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if repo.saves != 0 {
		t.Errorf("rejected calls performed %d saves, want 0", repo.saves)
	}
	if repo.eventCount() != 0 {
		t.Errorf("rejected calls wrote %d ledger entries, want 0", repo.eventCount())
	}
}

func TestApplyXP_RejectsEmptySource(t *testing.T) {
	repo := newMemRepo()
	e := emptyEngine(t, repo)

	if _, err := e.ApplyXP(context.Background(), "u1", 10, "", nil, ""); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("expected ErrInvalidSource, got %v", err)
	}
	if repo.saves != 0 {
		t.Error("rejected call touched the repository")
	}
}

func TestApplyXP_RejectsUnknownCategory(t *testing.T) {
	repo := newMemRepo()
	e := emptyEngine(t, repo)

	arms := models.Category("arms")
	if _, err := e.ApplyXP(context.Background(), "u1", 10, "x", &arms, ""); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
	if repo.saves != 0 {
		t.Error("rejected call touched the repository")
	}
}

func TestApplyXP_AccumulatesAndLevels(t *testing.T) {
	repo := newMemRepo()
	e := emptyEngine(t, repo)
	ctx := context.Background()

	amounts := []int64{100, 250, 700}
	var sum int64
	for _, a := range amounts {
		res, err := e.ApplyXP(ctx, "u1", a, "workout", nil, "")
		if err != nil {
			t.Fatalf("ApplyXP(%d): %v", a, err)
		}
		sum += a
		if res.Progress.TotalXP != sum {
			t.Errorf("TotalXP = %d, want %d", res.Progress.TotalXP, sum)
		}
		if res.Progress.Level != LevelFor(sum).Level {
			t.Errorf("Level = %d, want %d", res.Progress.Level, LevelFor(sum).Level)
		}
	}

	if got := repo.eventCount(); got != len(amounts) {
		t.Errorf("ledger has %d entries, want %d", got, len(amounts))
	}
}

func TestApplyXP_CategoryIsolation(t *testing.T) {
	repo := newMemRepo()
	e := emptyEngine(t, repo)

	core := models.CategoryCore
	res, err := e.ApplyXP(context.Background(), "u1", 1200, "exercise", &core, "plank")
	if err != nil {
		t.Fatal(err)
	}

	cp := res.Progress.Category(core)
	if cp.XP != 1200 {
		t.Errorf("core xp = %d, want 1200", cp.XP)
	}
	if cp.Level != 2 {
		t.Errorf("core level = %d, want 2", cp.Level)
	}
	for _, other := range []models.Category{models.CategoryPush, models.CategoryPull, models.CategoryLegs} {
		op := res.Progress.Category(other)
		if op.XP != 0 || op.Level != 1 {
			t.Errorf("category %s changed: xp=%d level=%d", other, op.XP, op.Level)
		}
	}
}

func TestApplyXP_LevelBoundaryUnlocksAchievement(t *testing.T) {
	repo := newMemRepo()
	seed := models.NewUserProgress("u1")
	seed.TotalXP = 990
	repo.records["u1"] = seed

	e := engineWith(t, repo, models.AchievementDefinition{
		ID:           "level-2",
		Title:        "Getting Warmed Up",
		Requirements: models.Requirements{Level: 2},
		XPReward:     50,
	})

	res, err := e.ApplyXP(context.Background(), "u1", 20, "workout", nil, "")
	if err != nil {
		t.Fatal(err)
	}

	if res.Progress.TotalXP != 1060 {
		t.Errorf("TotalXP = %d, want 1060 (990 + 20 + 50 reward)", res.Progress.TotalXP)
	}
	if res.Progress.Level != 2 {
		t.Errorf("Level = %d, want 2", res.Progress.Level)
	}
	if len(res.NewlyUnlocked) != 1 || res.NewlyUnlocked[0].ID != "level-2" {
		t.Fatalf("NewlyUnlocked = %v, want [level-2]", res.NewlyUnlocked)
	}
	if res.AchievementXP != 50 {
		t.Errorf("AchievementXP = %d, want 50", res.AchievementXP)
	}
	if !res.Progress.Unlocked("level-2") {
		t.Error("level-2 not recorded in unlocked set")
	}

	// 1 grant entry + 1 achievement entry
	if repo.eventCount() != 2 {
		t.Errorf("ledger has %d entries, want 2", repo.eventCount())
	}
	last := repo.events[len(repo.events)-1]
	if last.Source != models.SourceAchievement || last.Amount != 50 {
		t.Errorf("achievement entry = {%s %d}, want {achievement 50}", last.Source, last.Amount)
	}
	if last.AchievementID != "level-2" {
		t.Errorf("achievement entry id = %q, want level-2", last.AchievementID)
	}
}

func TestApplyXP_NoDoubleGrant(t *testing.T) {
	repo := newMemRepo()
	e := engineWith(t, repo, models.AchievementDefinition{
		ID:           "first-steps",
		Title:        "First Steps",
		Requirements: models.Requirements{TotalXP: 1},
		XPReward:     25,
	})
	ctx := context.Background()

	first, err := e.ApplyXP(ctx, "u1", 10, "task", nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(first.NewlyUnlocked) != 1 {
		t.Fatalf("first call unlocked %d achievements, want 1", len(first.NewlyUnlocked))
	}

	second, err := e.ApplyXP(ctx, "u1", 10, "task", nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(second.NewlyUnlocked) != 0 {
		t.Errorf("second call unlocked %d achievements, want 0", len(second.NewlyUnlocked))
	}

	// 10 + 25 + 10 — the reward applied exactly once.
	if second.Progress.TotalXP != 45 {
		t.Errorf("TotalXP = %d, want 45", second.Progress.TotalXP)
	}
}

func TestApplyXP_SinglePassNoCascade(t *testing.T) {
	repo := newMemRepo()
	// Unlocking "hundred" pushes the total over 200, which would satisfy
	// "two-hundred" — but cascades are deferred to the next call.
	e := engineWith(t, repo,
		models.AchievementDefinition{
			ID: "hundred", Title: "Hundred",
			Requirements: models.Requirements{TotalXP: 100},
			XPReward:     150,
		},
		models.AchievementDefinition{
			ID: "two-hundred", Title: "Two Hundred",
			Requirements: models.Requirements{TotalXP: 200},
			XPReward:     10,
		},
	)
	ctx := context.Background()

	res, err := e.ApplyXP(ctx, "u1", 100, "workout", nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.NewlyUnlocked) != 1 || res.NewlyUnlocked[0].ID != "hundred" {
		t.Fatalf("first call unlocked %v, want [hundred] only", res.NewlyUnlocked)
	}
	if res.Progress.TotalXP != 250 {
		t.Errorf("TotalXP = %d, want 250", res.Progress.TotalXP)
	}

	// The next XP event picks up the deferred unlock.
	res, err = e.ApplyXP(ctx, "u1", 1, "task", nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.NewlyUnlocked) != 1 || res.NewlyUnlocked[0].ID != "two-hundred" {
		t.Errorf("second call unlocked %v, want [two-hundred]", res.NewlyUnlocked)
	}
}

func TestApplyXP_CatalogOrderIsAwardOrder(t *testing.T) {
	repo := newMemRepo()
	e := engineWith(t, repo,
		models.AchievementDefinition{ID: "a", Title: "A", Requirements: models.Requirements{TotalXP: 1}, XPReward: 1},
		models.AchievementDefinition{ID: "b", Title: "B", Requirements: models.Requirements{TotalXP: 1}, XPReward: 1},
		models.AchievementDefinition{ID: "c", Title: "C", Requirements: models.Requirements{TotalXP: 1}, XPReward: 1},
	)

	res, err := e.ApplyXP(context.Background(), "u1", 5, "x", nil, "")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c"}
	if len(res.NewlyUnlocked) != len(want) {
		t.Fatalf("unlocked %d achievements, want %d", len(res.NewlyUnlocked), len(want))
	}
	for i, id := range want {
		if res.NewlyUnlocked[i].ID != id {
			t.Errorf("unlock[%d] = %s, want %s", i, res.NewlyUnlocked[i].ID, id)
		}
	}
}

func TestApplyXP_PersistenceFailureLeavesStateUntouched(t *testing.T) {
	repo := newMemRepo()
	e := engineWith(t, repo, models.AchievementDefinition{
		ID: "first", Title: "First",
		Requirements: models.Requirements{TotalXP: 1},
		XPReward:     25,
	})
	ctx := context.Background()

	// Materialize the default record, then make saves fail.
	if _, err := e.Progress(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	repo.failSave = true

	res, err := e.ApplyXP(ctx, "u1", 10, "task", nil, "")
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if res != nil {
		t.Error("result returned despite failed save")
	}

	stored := repo.stored("u1")
	if stored.TotalXP != 0 || len(stored.UnlockedAchievements) != 0 {
		t.Errorf("stored state mutated by failed call: xp=%d unlocks=%d",
			stored.TotalXP, len(stored.UnlockedAchievements))
	}

	// A retry after the failure re-derives the same outcome.
	repo.failSave = false
	retry, err := e.ApplyXP(ctx, "u1", 10, "task", nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if retry.Progress.TotalXP != 35 || len(retry.NewlyUnlocked) != 1 {
		t.Errorf("retry got xp=%d unlocks=%d, want 35 and 1",
			retry.Progress.TotalXP, len(retry.NewlyUnlocked))
	}
}

func TestApplyXP_ConcurrentCallsLoseNothing(t *testing.T) {
	repo := newMemRepo()
	e := emptyEngine(t, repo)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, amount := range []int64{100, 50} {
		wg.Add(1)
		go func(a int64) {
			defer wg.Done()
			if _, err := e.ApplyXP(ctx, "u1", a, "race", nil, ""); err != nil {
				errs <- err
			}
		}(amount)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	stored := repo.stored("u1")
	if stored.TotalXP != 150 {
		t.Errorf("TotalXP = %d, want 150 (lost update)", stored.TotalXP)
	}
	if repo.eventCount() != 2 {
		t.Errorf("ledger has %d entries, want 2", repo.eventCount())
	}
}

func TestApplyXP_ConcurrentCallsNeverDoubleGrant(t *testing.T) {
	repo := newMemRepo()
	e := engineWith(t, repo, models.AchievementDefinition{
		ID: "first", Title: "First",
		Requirements: models.Requirements{TotalXP: 1},
		XPReward:     5,
	})
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	unlocks := make(chan int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.ApplyXP(ctx, "u1", 10, "race", nil, "")
			if err == nil {
				unlocks <- len(res.NewlyUnlocked)
			}
		}()
	}
	wg.Wait()
	close(unlocks)

	total := 0
	for n := range unlocks {
		total += n
	}
	if total != 1 {
		t.Errorf("achievement unlocked %d times across racers, want exactly 1", total)
	}

	stored := repo.stored("u1")
	want := int64(callers*10 + 5)
	if stored.TotalXP != want {
		t.Errorf("TotalXP = %d, want %d", stored.TotalXP, want)
	}
}

func TestIncrementWorkouts_ConcurrentCompletionsAllCount(t *testing.T) {
	repo := newMemRepo()
	e := emptyEngine(t, repo)
	ctx := context.Background()

	const completions = 10
	var wg sync.WaitGroup
	for i := 0; i < completions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := e.IncrementWorkouts(ctx, "u1"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	stored := repo.stored("u1")
	if stored.WorkoutsCompleted != completions {
		t.Errorf("WorkoutsCompleted = %d after %d completions, want %d (lost update)",
			stored.WorkoutsCompleted, completions, completions)
	}
}

func TestUpdateCounters(t *testing.T) {
	repo := newMemRepo()
	e := emptyEngine(t, repo)
	ctx := context.Background()

	if err := e.UpdateCounters(ctx, "u1", 7, 12, map[string]int{"pull-up": 3}); err != nil {
		t.Fatal(err)
	}
	stored := repo.stored("u1")
	if stored.StreakDays != 7 || stored.WorkoutsCompleted != 12 || stored.ExerciseMastery["pull-up"] != 3 {
		t.Errorf("counters = streak %d, workouts %d, mastery %d",
			stored.StreakDays, stored.WorkoutsCompleted, stored.ExerciseMastery["pull-up"])
	}

	// Negative values leave counters untouched; mastery never regresses.
	if err := e.UpdateCounters(ctx, "u1", -1, -1, map[string]int{"pull-up": 2}); err != nil {
		t.Fatal(err)
	}
	stored = repo.stored("u1")
	if stored.StreakDays != 7 || stored.WorkoutsCompleted != 12 || stored.ExerciseMastery["pull-up"] != 3 {
		t.Errorf("counters regressed: streak %d, workouts %d, mastery %d",
			stored.StreakDays, stored.WorkoutsCompleted, stored.ExerciseMastery["pull-up"])
	}
}

func TestUnlockExercise_Idempotent(t *testing.T) {
	repo := newMemRepo()
	e := emptyEngine(t, repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := e.UnlockExercise(ctx, "u1", models.CategoryPull, "pull-up"); err != nil {
			t.Fatal(err)
		}
	}
	stored := repo.stored("u1")
	got := stored.Category(models.CategoryPull).UnlockedExercises
	if len(got) != 1 || got[0] != "pull-up" {
		t.Errorf("unlocked exercises = %v, want [pull-up]", got)
	}

	if err := e.UnlockExercise(ctx, "u1", "arms", "curl"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}
