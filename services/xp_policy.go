package services

// XPWeights define relative values (tunable via config/env later)
type XPWeights struct {
	TaskXP             int64 `default:"25"`
	WorkoutXP          int64 `default:"50"`
	MealXP             int64 `default:"15"`
	WeightEntryXP      int64 `default:"10"`
	SetXPPerDifficulty int64 `default:"10"` // multiplied by the exercise difficulty (1..5)
}

var DefaultXPWeights = XPWeights{
	TaskXP:             25,
	WorkoutXP:          50,
	MealXP:             15,
	WeightEntryXP:      10,
	SetXPPerDifficulty: 10,
}
