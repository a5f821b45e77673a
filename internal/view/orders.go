package view

import (
	"time"

	"talanch-backoffice/internal/domain"
)

// Order tabs partition the day's orders by the two independent status flags.
const (
	TabUnpaidUnserved = 0 // unpaid and unserved
	TabToServe        = 1 // unserved, paid or not
	TabUnpaid         = 2 // unpaid, served or not
	TabSettled        = 3 // paid and served
)

// TabParams maps a tab to the upstream isPaid/isServed constraints. A nil
// return means the flag is unconstrained.
func TabParams(tab int) (paid, served *bool) {
	t := true
	f := false
	switch tab {
	case TabUnpaidUnserved:
		return &f, &f
	case TabToServe:
		return nil, &f
	case TabUnpaid:
		return &f, nil
	case TabSettled:
		return &t, &t
	}
	return nil, nil
}

// Today renders the reference date the order screens compare against.
func Today(now time.Time) string {
	return now.Format("2006-01-02")
}

// TodayOnly keeps orders whose date portion equals today. The upstream
// already filters server-side; this is the extra client-side guard layered
// on top of it.
func TodayOnly(orders []domain.Order, today string) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.OrderDay() == today {
			out = append(out, o)
		}
	}
	return out
}
