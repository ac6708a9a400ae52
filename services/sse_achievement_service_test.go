package services

import (
	"testing"
	"time"

	"fitness-progression-system/models"
)

func TestAchievementFrame(t *testing.T) {
	catalog, err := NewCatalog(models.StaticAchievements)
	if err != nil {
		t.Fatal(err)
	}

	ev := models.XPEvent{
		Amount:        250,
		Source:        models.SourceAchievement,
		AchievementID: "level-10",
		Description:   "Dedicated Athlete",
		CreatedAt:     time.Now().UTC(),
	}
	frame := achievementFrame(catalog, ev)
	def, ok := frame["achievement"].(models.AchievementDefinition)
	if !ok {
		t.Fatal("frame missing achievement definition")
	}
	if def.ID != "level-10" {
		t.Errorf("joined definition %q, want level-10", def.ID)
	}
	if frame["xp_reward"] != ev.Amount || frame["title"] != ev.Description {
		t.Errorf("frame = %v, want amount and title from the ledger entry", frame)
	}
}

func TestAchievementFrame_UnknownID(t *testing.T) {
	catalog, err := NewCatalog(models.StaticAchievements)
	if err != nil {
		t.Fatal(err)
	}

	// Rows written before the id column existed still render title and amount.
	frame := achievementFrame(catalog, models.XPEvent{Amount: 50, Description: "Old Unlock"})
	if _, ok := frame["achievement"]; ok {
		t.Error("frame joined a definition without an achievement id")
	}
	if frame["title"] != "Old Unlock" {
		t.Errorf("title = %v, want Old Unlock", frame["title"])
	}
}
