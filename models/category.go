package models

import "fmt"

// Category is the closed set of training groupings. Every piece of code that
// branches on category goes through this type so an unknown key can only
// enter the system at the parse boundary.
type Category string

const (
	CategoryPush Category = "push"
	CategoryPull Category = "pull"
	CategoryLegs Category = "legs"
	CategoryCore Category = "core"
)

// Categories returns all categories in a stable order.
func Categories() []Category {
	return []Category{CategoryPush, CategoryPull, CategoryLegs, CategoryCore}
}

// ParseCategory validates a raw category key.
func ParseCategory(raw string) (Category, error) {
	switch Category(raw) {
	case CategoryPush, CategoryPull, CategoryLegs, CategoryCore:
		return Category(raw), nil
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}
