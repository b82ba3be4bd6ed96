package domain

import "strings"

// Category is one label of the fixed task taxonomy.
type Category string

const (
	CategoryPersonalDevelopment Category = "Personal Development"
	CategoryHobbies             Category = "Hobbies"
	CategoryCareerDevelopment   Category = "Career Development"
	CategoryAcademics           Category = "Academics"
	CategoryOthers              Category = "Others"
)

// Categories lists the taxonomy in display order.
var Categories = []Category{
	CategoryPersonalDevelopment,
	CategoryHobbies,
	CategoryCareerDevelopment,
	CategoryAcademics,
	CategoryOthers,
}

// ParseCategory validates membership. An empty value falls back to Others.
func ParseCategory(value string) (Category, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return CategoryOthers, nil
	}
	for _, c := range Categories {
		if string(c) == value {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
