package constants

import (
	"strings"
)

type Category string

const (
	FoodGroceries  Category = "Food & Groceries"
	DiningOut      Category = "Dining Out"
	Transportation Category = "Transportation"
	HousingRent    Category = "Housing / Rent"
	Utilities      Category = "Utilities"
	HealthMedical  Category = "Health & Medical"
	Entertainment  Category = "Entertainment"
	Shopping       Category = "Shopping"
	Education      Category = "Education"
	PersonalCare   Category = "Personal Care"
	Other          Category = "Other"
)

var allCategories = []Category{
	FoodGroceries,
	DiningOut,
	Transportation,
	HousingRent,
	Utilities,
	HealthMedical,
	Entertainment,
	Shopping,
	Education,
	PersonalCare,
	Other,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Category{
		"groceries":   FoodGroceries,
		"food":        FoodGroceries,
		"restaurant":  DiningOut,
		"dining":      DiningOut,
		"transport":   Transportation,
		"fuel":        Transportation,
		"rent":        HousingRent,
		"housing":     HousingRent,
		"medical":     HealthMedical,
		"health":      HealthMedical,
		"pharmacy":    HealthMedical,
		"clothes":     Shopping,
		"electronics": Shopping,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	// check if it matches any category string
	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Other, false
}
