package services

import (
	"fmt"
	"sort"

	"fitness-progression-system/models"
)

// CategoryStats are display-oriented numbers derived from a loaded
// progress record. Pure read; no mutation.
type CategoryStats struct {
	Category       models.Category `json:"category"`
	XP             int64           `json:"xp"`
	Level          int             `json:"level"`
	XPToNextLevel  int64           `json:"xp_to_next_level"`
	PercentOfTotal float64         `json:"percent_of_total"`
	Rank           int             `json:"rank"` // 1 = highest-XP category for this user
}

// GetCategoryStatistics derives stats for one category from the given
// snapshot. Fails only on an unknown category.
func GetCategoryStatistics(category models.Category, progress *models.UserProgress) (*CategoryStats, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	cp := progress.Category(category)
	info := LevelFor(cp.XP)

	pct := 0.0
	if progress.TotalXP > 0 {
		pct = float64(cp.XP) / float64(progress.TotalXP) * 100
	}

	// Rank among the four categories by XP, stable order breaking ties.
	cats := models.Categories()
	sort.SliceStable(cats, func(i, j int) bool {
		return progress.Category(cats[i]).XP > progress.Category(cats[j]).XP
	})
	rank := 1
	for i, c := range cats {
		if c == category {
			rank = i + 1
			break
		}
	}

	return &CategoryStats{
		Category:       category,
		XP:             cp.XP,
		Level:          cp.Level,
		XPToNextLevel:  info.XPToNextLevel,
		PercentOfTotal: pct,
		Rank:           rank,
	}, nil
}
