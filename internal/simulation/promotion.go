package simulation

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
)

const weekendPreference = 0.7

// PromotionCalendar is the set of promotion dates of a run
type PromotionCalendar map[time.Time]bool

// Contains reports whether date is a promotion day
func (c PromotionCalendar) Contains(date time.Time) bool {
	return c[dayOf(date)]
}

// Dates returns the promotion dates in ascending order
func (c PromotionCalendar) Dates() []time.Time {
	dates := make([]time.Time, 0, len(c))
	for d := range c {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	return dates
}

func isWeekendish(t time.Time) bool {
	switch t.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	}
	return false
}

// PickPromotionDays draws perMonth promotion days for every calendar month touched by [start, end].
// Each pick prefers a Friday to Sunday date 70% of the time and takes whichever kind is left
// once the other runs out.
func PickPromotionDays(rng *rand.Rand, start, end time.Time, perMonth config.IntRange) PromotionCalendar {
	cal := make(PromotionCalendar)
	start, end = dayOf(start), dayOf(end)

	for monthStart := start; !monthStart.After(end); {
		y, m, _ := monthStart.Date()
		next := time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC)

		var weekend, weekday []time.Time
		for d := monthStart; d.Before(next) && !d.After(end); d = d.AddDate(0, 0, 1) {
			if isWeekendish(d) {
				weekend = append(weekend, d)
			} else {
				weekday = append(weekday, d)
			}
		}

		n := perMonth.Min + rng.IntN(perMonth.Max-perMonth.Min+1)
		for range n {
			if len(weekend)+len(weekday) == 0 {
				break
			}
			pool := &weekday
			if len(weekend) > 0 && (len(weekday) == 0 || rng.Float64() < weekendPreference) {
				pool = &weekend
			}
			i := rng.IntN(len(*pool))
			cal[(*pool)[i]] = true
			*pool = slices.Delete(*pool, i, i+1)
		}

		monthStart = next
	}

	return cal
}
