package types

import "fmt"

// Category represents the hazard category of a risk assessment
type Category string

const (
	CategorySafety        Category = "SAFETY"
	CategoryHealth        Category = "HEALTH"
	CategoryEnvironmental Category = "ENVIRONMENTAL"
	CategorySecurity      Category = "SECURITY"
)

// AllCategories returns all valid categories
func AllCategories() []Category {
	return []Category{
		CategorySafety,
		CategoryHealth,
		CategoryEnvironmental,
		CategorySecurity,
	}
}

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategorySafety,
		CategoryHealth,
		CategoryEnvironmental,
		CategorySecurity:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// ParseCategory parses a string into a Category
func ParseCategory(s string) (Category, error) {
	category := Category(s)
	if !category.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return category, nil
}
