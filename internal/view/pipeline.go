// Package view computes the visible lists from cached snapshots. Everything
// here is a pure function of its inputs.
package view

import (
	"sort"
	"strings"

	"talanch-backoffice/internal/domain"
)

type SortKey string

const (
	SortByName  SortKey = "name"
	SortByPrice SortKey = "price"
)

func ParseSortKey(s string) SortKey {
	if SortKey(strings.ToLower(s)) == SortByPrice {
		return SortByPrice
	}
	return SortByName
}

type DishQuery struct {
	Search   string
	Category domain.Category
	Sort     SortKey
}

// Dishes runs the dish pipeline: text filter, category filter, partition into
// the fixed buckets, per-bucket sort, concatenate. The bucket order
// [salads, desserts, others] is a presentation invariant and holds even when
// the category filter is "all"; sorting never crosses a bucket boundary.
func Dishes(dishes []domain.Dish, q DishQuery) []domain.Dish {
	result := filterDishes(dishes, q)

	var salads, desserts, others []domain.Dish
	for _, d := range result {
		switch d.Category() {
		case domain.CategorySalad:
			salads = append(salads, d)
		case domain.CategoryDessert:
			desserts = append(desserts, d)
		default:
			others = append(others, d)
		}
	}

	sortBucket(salads, q.Sort)
	sortBucket(desserts, q.Sort)
	sortBucket(others, q.Sort)

	out := make([]domain.Dish, 0, len(result))
	out = append(out, salads...)
	out = append(out, desserts...)
	out = append(out, others...)
	return out
}

func filterDishes(dishes []domain.Dish, q DishQuery) []domain.Dish {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]domain.Dish, 0, len(dishes))
	for _, d := range dishes {
		if term != "" &&
			!strings.Contains(strings.ToLower(d.Name), term) &&
			!strings.Contains(strings.ToLower(d.Description), term) {
			continue
		}
		if q.Category != "" && q.Category != domain.CategoryAll && d.Category() != q.Category {
			continue
		}
		out = append(out, d)
	}
	return out
}

func sortBucket(bucket []domain.Dish, key SortKey) {
	sort.SliceStable(bucket, func(i, j int) bool {
		if key == SortByPrice {
			// A NaN price never compares less, so its position is
			// wherever the stable sort leaves it.
			return bucket[i].Price < bucket[j].Price
		}
		return strings.ToLower(bucket[i].Name) < strings.ToLower(bucket[j].Name)
	})
}

// CategoryAverages reports the mean price per derived category over the full
// snapshot, ignoring the active filter.
func CategoryAverages(dishes []domain.Dish) map[domain.Category]float64 {
	sums := map[domain.Category]float64{}
	counts := map[domain.Category]int{}
	for _, d := range dishes {
		c := d.Category()
		sums[c] += d.Price
		counts[c]++
	}

	out := map[domain.Category]float64{}
	for c, n := range counts {
		out[c] = sums[c] / float64(n)
	}
	return out
}

// Menus filters by description and orders the menu of the day first, then by
// dish count descending.
func Menus(menus []domain.Menu, search string) []domain.Menu {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Menu, 0, len(menus))
	for _, m := range menus {
		if term != "" && !strings.Contains(strings.ToLower(m.Description), term) {
			continue
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsMenuOfTheDay != out[j].IsMenuOfTheDay {
			return out[i].IsMenuOfTheDay
		}
		return len(out[i].Dishes) > len(out[j].Dishes)
	})
	return out
}
