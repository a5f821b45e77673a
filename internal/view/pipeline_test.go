package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"talanch-backoffice/internal/domain"
)

func sampleDishes() []domain.Dish {
	return []domain.Dish{
		{ID: 1, Name: "Salade niçoise", Description: "thon, olives", Price: 9.50},
		{ID: 2, Name: "Boeuf bourguignon", Description: "des légumes", Price: 14.00},
		{ID: 3, Name: "Dessert du jour", Description: "", Price: 5.00},
		{ID: 4, Name: "Quiche lorraine", Description: "", Price: 8.00},
		{ID: 5, Name: "Salade de fruits", Description: "", Price: 4.50},
	}
}

func dishIDs(dishes []domain.Dish) []int {
	ids := make([]int, 0, len(dishes))
	for _, d := range dishes {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestDishes_BucketOrderIsFixed(t *testing.T) {
	out := Dishes(sampleDishes(), DishQuery{Category: domain.CategoryAll, Sort: SortByName})

	// Salads, then desserts, then everything else; the order of the
	// buckets never depends on the sort key or the filter.
	assert.Equal(t, []int{5, 1, 3, 2, 4}, dishIDs(out))
}

func TestDishes_PriceSortStaysInsideBuckets(t *testing.T) {
	out := Dishes(sampleDishes(), DishQuery{Category: domain.CategoryAll, Sort: SortByPrice})

	// Dish 5 is cheapest overall and stays in the salad bucket; dish 4 is
	// cheaper than dish 2 and leads the others bucket.
	assert.Equal(t, []int{5, 1, 3, 4, 2}, dishIDs(out))
}

func TestDishes_SearchMatchesNameAndDescription(t *testing.T) {
	tests := []struct {
		name     string
		query    DishQuery
		expected []int
	}{
		{
			name:     "description_match",
			query:    DishQuery{Search: "des légumes", Category: domain.CategoryAll, Sort: SortByName},
			expected: []int{2},
		},
		{
			name:     "name_match_case_insensitive",
			query:    DishQuery{Search: "SALADE", Category: domain.CategoryAll, Sort: SortByName},
			expected: []int{5, 1},
		},
		{
			name:     "empty_search_is_identity",
			query:    DishQuery{Category: domain.CategoryAll, Sort: SortByName},
			expected: []int{5, 1, 3, 2, 4},
		},
		{
			name:     "category_filter",
			query:    DishQuery{Category: domain.CategorySalad, Sort: SortByName},
			expected: []int{5, 1},
		},
		{
			name:     "search_and_category",
			query:    DishQuery{Search: "fruits", Category: domain.CategorySalad, Sort: SortByName},
			expected: []int{5},
		},
		{
			name:     "no_match",
			query:    DishQuery{Search: "pizza", Category: domain.CategoryAll, Sort: SortByName},
			expected: []int{},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			out := Dishes(sampleDishes(), testCase.query)
			assert.Equal(t, testCase.expected, dishIDs(out))
		})
	}
}

func TestDishes_RenameMovesBucket(t *testing.T) {
	dishes := sampleDishes()
	out := Dishes(dishes, DishQuery{Category: domain.CategoryDessert, Sort: SortByName})
	assert.Equal(t, []int{3}, dishIDs(out))

	// The category is derived from the name on every read, so a rename
	// reclassifies without any stored state.
	dishes[3].Name = "Dessert quiche"
	out = Dishes(dishes, DishQuery{Category: domain.CategoryDessert, Sort: SortByName})
	assert.Equal(t, []int{3, 4}, dishIDs(out))
}

func TestDishes_InputNotMutated(t *testing.T) {
	dishes := sampleDishes()
	Dishes(dishes, DishQuery{Category: domain.CategoryAll, Sort: SortByPrice})
	assert.Equal(t, 1, dishes[0].ID)
	assert.Equal(t, 2, dishes[1].ID)
}

func TestCategoryAverages(t *testing.T) {
	averages := CategoryAverages(sampleDishes())

	assert.InDelta(t, 7.0, averages[domain.CategorySalad], 0.001)
	assert.InDelta(t, 5.0, averages[domain.CategoryDessert], 0.001)
	assert.InDelta(t, 11.0, averages[domain.CategoryOther], 0.001)
}

func TestCategoryAverages_Empty(t *testing.T) {
	assert.Empty(t, CategoryAverages(nil))
}

func TestMenus_MenuOfTheDayFirstThenDishCount(t *testing.T) {
	menus := []domain.Menu{
		{ID: 1, Description: "Menu printemps", Dishes: make([]domain.MenuDish, 2)},
		{ID: 2, Description: "Menu hiver", Dishes: make([]domain.MenuDish, 4)},
		{ID: 3, Description: "Menu été", IsMenuOfTheDay: true, Dishes: make([]domain.MenuDish, 1)},
	}

	out := Menus(menus, "")
	assert.Equal(t, 3, out[0].ID)
	assert.Equal(t, 2, out[1].ID)
	assert.Equal(t, 1, out[2].ID)
}

func TestMenus_SearchFiltersDescription(t *testing.T) {
	menus := []domain.Menu{
		{ID: 1, Description: "Menu printemps"},
		{ID: 2, Description: "Menu hiver"},
	}

	out := Menus(menus, "HIVER")
	assert.Len(t, out, 1)
	assert.Equal(t, 2, out[0].ID)
}

func TestTabParams(t *testing.T) {
	paid, served := TabParams(TabUnpaidUnserved)
	assert.False(t, *paid)
	assert.False(t, *served)

	paid, served = TabParams(TabToServe)
	assert.Nil(t, paid)
	assert.False(t, *served)

	paid, served = TabParams(TabUnpaid)
	assert.False(t, *paid)
	assert.Nil(t, served)

	paid, served = TabParams(TabSettled)
	assert.True(t, *paid)
	assert.True(t, *served)
}

func TestTodayOnly(t *testing.T) {
	today := Today(time.Date(2024, 3, 18, 15, 0, 0, 0, time.Local))
	assert.Equal(t, "2024-03-18", today)

	orders := []domain.Order{
		{ID: 1, OrderDate: "2024-03-18T09:00:00"},
		{ID: 2, OrderDate: "2024-03-17T23:59:59"},
		{ID: 3, OrderDate: "2024-03-18T12:30:00"},
	}

	out := TodayOnly(orders, today)
	assert.Len(t, out, 2)
	assert.Equal(t, 1, out[0].ID)
	assert.Equal(t, 3, out[1].ID)
}
