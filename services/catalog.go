package services

import (
	"fmt"

	"fitness-progression-system/models"

	"gorm.io/gorm"
)

// AchievementCatalog is the merged, immutable achievement set: the
// compiled-in static tier first, then admin-created dynamic definitions in
// creation order. Built once at startup; safe for concurrent reads without
// locking.
type AchievementCatalog struct {
	defs []models.AchievementDefinition
	byID map[string]int
}

// LoadCatalog builds the catalog from the static tier plus the dynamic
// achievement_records table. Dynamic entries whose title collides with a
// static definition are skipped — the static tier wins.
func LoadCatalog(db *gorm.DB) (*AchievementCatalog, error) {
	var records []models.AchievementRecord
	if err := db.Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: loading dynamic achievements: %v", ErrPersistence, err)
	}

	titles := make(map[string]bool, len(models.StaticAchievements))
	defs := make([]models.AchievementDefinition, 0, len(models.StaticAchievements)+len(records))
	for _, d := range models.StaticAchievements {
		titles[d.Title] = true
		defs = append(defs, d)
	}
	for i := range records {
		if titles[records[i].Title] {
			continue
		}
		titles[records[i].Title] = true
		defs = append(defs, records[i].Definition())
	}

	return NewCatalog(defs)
}

// NewCatalog validates the given definitions and builds the id index.
func NewCatalog(defs []models.AchievementDefinition) (*AchievementCatalog, error) {
	byID := make(map[string]int, len(defs))
	for i := range defs {
		if err := ValidateDefinition(&defs[i]); err != nil {
			return nil, err
		}
		if _, dup := byID[defs[i].ID]; dup {
			return nil, fmt.Errorf("%w: duplicate achievement id %q", ErrCatalogIntegrity, defs[i].ID)
		}
		byID[defs[i].ID] = i
	}
	return &AchievementCatalog{defs: defs, byID: byID}, nil
}

// All returns the full catalog in its stable definition order. The returned
// slice is a copy; the catalog itself never changes after load.
func (c *AchievementCatalog) All() []models.AchievementDefinition {
	out := make([]models.AchievementDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// ByID looks up a definition. O(1).
func (c *AchievementCatalog) ByID(id string) (models.AchievementDefinition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.AchievementDefinition{}, false
	}
	return c.defs[i], true
}

// Len returns the catalog size.
func (c *AchievementCatalog) Len() int {
	return len(c.defs)
}
