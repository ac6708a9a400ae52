package utils

import (
	"strings"
	"testing"

	"fitness-progression-system/models"
)

func TestParseExerciseCSV(t *testing.T) {
	input := "name,category,difficulty\n" +
		"Pull Up,pull,3\n" +
		"diamond push up, push ,4\n" +
		"PLANK,core,1\n"

	exercises, err := ParseExerciseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(exercises) != 3 {
		t.Fatalf("parsed %d exercises, want 3", len(exercises))
	}

	first := exercises[0]
	if first.ID != "pull-up" {
		t.Errorf("ID = %q, want pull-up", first.ID)
	}
	if first.Name != "Pull Up" {
		t.Errorf("Name = %q, want Pull Up", first.Name)
	}
	if first.Category != models.CategoryPull || first.Difficulty != 3 {
		t.Errorf("row = %s/%d, want pull/3", first.Category, first.Difficulty)
	}

	if exercises[1].ID != "diamond-push-up" || exercises[1].Name != "Diamond Push Up" {
		t.Errorf("slug/title casing wrong: %q / %q", exercises[1].ID, exercises[1].Name)
	}
	if exercises[2].Name != "Plank" {
		t.Errorf("all-caps name not normalized: %q", exercises[2].Name)
	}
}

func TestParseExerciseCSV_NoHeader(t *testing.T) {
	exercises, err := ParseExerciseCSV(strings.NewReader("Squat,legs,2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(exercises) != 1 || exercises[0].ID != "squat" {
		t.Errorf("headerless file parsed as %v", exercises)
	}
}

func TestParseExerciseCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad category", "Curl,arms,2\n"},
		{"difficulty too high", "Squat,legs,6\n"},
		{"difficulty not a number", "Squat,legs,hard\n"},
		{"missing column", "Squat,legs\n"},
		{"empty name", ",legs,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseExerciseCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
