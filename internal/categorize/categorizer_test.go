package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/karim-nassar/invoice-extractor/constants"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		vendor string
		items  []string
		want   constants.Category
	}{
		{"Tabali", []string{"Pepsi"}, constants.DiningOut},
		{"Chicken Fila", []string{"Spicy Chicken Ranch Pizzawich", "Cheese Fries"}, constants.DiningOut},
		{"Carrefour", []string{"Bread", "Milk", "Eggs"}, constants.FoodGroceries},
		{"Uber", nil, constants.Transportation},
		{"Seif Pharmacy", []string{"Medicine"}, constants.HealthMedical},
		{"Vodafone", []string{"Monthly bill"}, constants.Utilities},
		{"Unknown Store", nil, constants.Other},
		{"", nil, constants.Other},
	}

	c := NewCategorizer()
	for _, tt := range tests {
		t.Run(tt.vendor, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Categorize(tt.vendor, tt.items))
		})
	}
}

func TestBrandsOutweighKeywords(t *testing.T) {
	// "gas" alone hits both Transportation and Utilities keywords; the
	// Careem brand hit must settle it.
	c := NewCategorizer()
	assert.Equal(t, constants.Transportation, c.Categorize("Careem", []string{"gas"}))
}

func TestArabicText(t *testing.T) {
	c := NewCategorizer()
	assert.Equal(t, constants.FoodGroceries, c.Categorize("كارفور", []string{"خبز", "لبن"}))
	assert.Equal(t, constants.DiningOut, c.Categorize("مطعم", []string{"بيتزا"}))
}
