package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		dishName string
		expected Category
	}{
		{"salad_exact", "Salade niçoise", CategorySalad},
		{"salad_lowercase", "petite salade verte", CategorySalad},
		{"dessert", "Dessert du jour", CategoryDessert},
		{"dessert_mixed_case", "Mini DeSsErT", CategoryDessert},
		{"other", "Boeuf bourguignon", CategoryOther},
		{"fruit_salad_is_salad", "Salade de fruits", CategorySalad},
		{"empty_name", "", CategoryOther},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, Classify(testCase.dishName))
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    Category
		expectedErr error
	}{
		{"empty_means_all", "", CategoryAll, nil},
		{"all", "all", CategoryAll, nil},
		{"salad", "salad", CategorySalad, nil},
		{"dessert_uppercase", "DESSERT", CategoryDessert, nil},
		{"other", "other", CategoryOther, nil},
		{"garbage", "starter", "", ErrUnknownCategory},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			c, err := ParseCategory(testCase.input)
			assert.ErrorIs(t, err, testCase.expectedErr)
			assert.Equal(t, testCase.expected, c)
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    float64
		expectedErr error
	}{
		{"period", "12.50", 12.50, nil},
		{"comma", "12,50", 12.50, nil},
		{"integer", "8", 8, nil},
		{"whitespace", " 9,90 ", 9.90, nil},
		{"empty", "", 0, ErrInvalidPrice},
		{"letters", "cher", 0, ErrInvalidPrice},
		{"negative", "-3,50", 0, ErrInvalidPrice},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			v, err := ParsePrice(testCase.input)
			assert.ErrorIs(t, err, testCase.expectedErr)
			assert.Equal(t, testCase.expected, v)
		})
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "12,50", FormatPrice(12.5))
	assert.Equal(t, "8,00", FormatPrice(8))
}

func TestNormalizePrice(t *testing.T) {
	assert.Equal(t, "12.50", NormalizePrice("12,50"))
	assert.Equal(t, "12.50", NormalizePrice(" 12.50 "))
}

func TestOrderDay(t *testing.T) {
	o := Order{OrderDate: "2024-03-18T11:42:07.123"}
	assert.Equal(t, "2024-03-18", o.OrderDay())

	assert.Equal(t, "2024-03-18", Order{OrderDate: "2024-03-18"}.OrderDay())
	assert.Equal(t, "", Order{}.OrderDay())
}

func TestDishPatchEmpty(t *testing.T) {
	name := "Tarte"
	assert.True(t, DishPatch{}.Empty())
	assert.False(t, DishPatch{Name: &name}.Empty())
	assert.False(t, DishPatch{Photo: []byte{1}}.Empty())
}

func TestOrderQueryMatches(t *testing.T) {
	flag := func(v bool) *bool { return &v }

	base := OrderQuery{Page: 1, PageSize: 10, Paid: flag(false), Served: flag(false)}

	// Same values through fresh pointers still match.
	assert.True(t, base.Matches(OrderQuery{Page: 1, PageSize: 10, Paid: flag(false), Served: flag(false)}))

	assert.False(t, base.Matches(OrderQuery{Page: 2, PageSize: 10, Paid: flag(false), Served: flag(false)}))
	assert.False(t, base.Matches(OrderQuery{Page: 1, PageSize: 10, Paid: flag(true), Served: flag(false)}))
	assert.False(t, base.Matches(OrderQuery{Page: 1, PageSize: 10, Served: flag(false)}))
	assert.True(t, OrderQuery{Page: 1, PageSize: 10}.Matches(OrderQuery{Page: 1, PageSize: 10}))
}
