package models

// Meal is a logged meal entry. Logging one grants nutrition XP.
type Meal struct {
	ID             string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string  `gorm:"index;not null" json:"external_user_id"`
	Name           string  `gorm:"not null" json:"name"`
	Calories       int     `json:"calories"`
	ProteinG       float64 `json:"protein_g"`
	CarbsG         float64 `json:"carbs_g"`
	FatG           float64 `json:"fat_g"`

	Timestamps
}
