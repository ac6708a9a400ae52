package models

import "testing"

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		if err != nil {
			t.Errorf("ParseCategory(%q): %v", c, err)
		}
		if got != c {
			t.Errorf("ParseCategory(%q) = %q", c, got)
		}
	}

	for _, bad := range []string{"", "arms", "Push", "cardio"} {
		if _, err := ParseCategory(bad); err == nil {
			t.Errorf("ParseCategory(%q) succeeded, want error", bad)
		}
	}
}

func TestCategoriesStableOrder(t *testing.T) {
	want := []Category{CategoryPush, CategoryPull, CategoryLegs, CategoryCore}
	got := Categories()
	if len(got) != len(want) {
		t.Fatalf("Categories() has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestUserProgressClone(t *testing.T) {
	p := NewUserProgress("u1")
	p.ExerciseMastery["pull-up"] = 2
	p.Categories[CategoryPush] = CategoryProgress{XP: 10, Level: 1, UnlockedExercises: []string{"push-up"}}

	c := p.Clone()
	c.ExerciseMastery["pull-up"] = 9
	cp := c.Categories[CategoryPush]
	cp.UnlockedExercises[0] = "mutated"
	c.Categories[CategoryPush] = cp

	if p.ExerciseMastery["pull-up"] != 2 {
		t.Error("clone shares mastery map with original")
	}
	if p.Categories[CategoryPush].UnlockedExercises[0] != "push-up" {
		t.Error("clone shares unlocked-exercise slice with original")
	}
}
