package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fitness-progression-system/models"

	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// ParseExerciseCSV reads exercise reference rows from a CSV stream with the
// columns: name, category, difficulty. A header row is detected and
// skipped. IDs are slugs of the normalized name ("Pull Up" -> "pull-up").
func ParseExerciseCSV(r io.Reader) ([]models.Exercise, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	var exercises []models.Exercise
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line+1, err)
		}
		line++

		if len(record) < 3 {
			return nil, fmt.Errorf("csv line %d: expected name,category,difficulty", line)
		}
		name := strings.TrimSpace(record[0])
		if line == 1 && strings.EqualFold(name, "name") {
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("csv line %d: empty exercise name", line)
		}

		category, err := models.ParseCategory(strings.ToLower(strings.TrimSpace(record[1])))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}

		difficulty, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil || difficulty < 1 || difficulty > 5 {
			return nil, fmt.Errorf("csv line %d: difficulty must be an integer 1-5", line)
		}

		exercises = append(exercises, models.Exercise{
			ID:         slug.Make(name),
			Name:       titleCaser.String(strings.ToLower(name)),
			Category:   category,
			Difficulty: difficulty,
		})
	}
	return exercises, nil
}
