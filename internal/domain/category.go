package domain

import (
	"errors"
	"strconv"
	"strings"
)

type Category string

const (
	CategoryAll     Category = "all"
	CategorySalad   Category = "salad"
	CategoryDessert Category = "dessert"
	CategoryOther   Category = "other"
)

var ErrUnknownCategory = errors.New("unknown category")

// Classify derives a dish category from its name. The match is a
// case-insensitive substring check against the French menu vocabulary, so a
// dish like "Salade de fruits" classifies as salad even when it is a dessert.
func Classify(name string) Category {
	upper := strings.ToUpper(name)
	if strings.Contains(upper, "SALADE") {
		return CategorySalad
	}
	if strings.Contains(upper, "DESSERT") {
		return CategoryDessert
	}
	return CategoryOther
}

// ParseCategory parses a category query value. Empty input means "all".
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(s)) {
	case "":
		return CategoryAll, nil
	case CategoryAll:
		return CategoryAll, nil
	case CategorySalad:
		return CategorySalad, nil
	case CategoryDessert:
		return CategoryDessert, nil
	case CategoryOther:
		return CategoryOther, nil
	}
	return "", ErrUnknownCategory
}

var ErrInvalidPrice = errors.New("invalid price")

// ParsePrice accepts a decimal with either a comma or a period separator,
// the two forms the admin forms produce.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidPrice
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || v < 0 {
		return 0, ErrInvalidPrice
	}
	return v, nil
}

// NormalizePrice converts user input to the period form the upstream expects.
func NormalizePrice(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
}

// FormatPrice renders a price in the comma display form used by the forms.
func FormatPrice(v float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(v, 'f', 2, 64), ".", ",")
}
