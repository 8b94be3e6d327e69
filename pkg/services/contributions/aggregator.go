package contributions

import (
	"time"

	"github.com/de-tools/contriview/pkg/models/domain"
)

// weekLength is the number of trailing records summed for the week window.
// It counts records, not calendar days.
const weekLength = 7

// Sum returns the activity of series inside window, relative to ref.
// Only the calendar date of ref matters.
func Sum(series domain.DailySeries, ref time.Time, window domain.Window) int {
	switch window {
	case domain.WindowToday:
		return today(series, ref)
	case domain.WindowWeek:
		return sumCounts(trailing(series, weekLength))
	case domain.WindowMonth:
		y, m, _ := ref.Date()
		return sumWhere(series, func(r domain.DailyRecord) bool {
			ry, rm, _ := r.Date.Date()
			return ry == y && rm == m
		})
	case domain.WindowYear:
		y := ref.Year()
		return sumWhere(series, func(r domain.DailyRecord) bool {
			return r.Date.Year() == y
		})
	case domain.WindowAllTime:
		return sumCounts(series)
	default:
		return 0
	}
}

// Aggregate computes every window sum of series relative to ref.
func Aggregate(series domain.DailySeries, ref time.Time) domain.WindowSums {
	var sums domain.WindowSums
	sums.AllTime = Sum(series, ref, domain.WindowAllTime)
	sums.Week = Sum(series, ref, domain.WindowWeek)
	sums.Year = Sum(series, ref, domain.WindowYear)
	sums.Month = Sum(series, ref, domain.WindowMonth)
	sums.Today = Sum(series, ref, domain.WindowToday)
	return sums
}

func today(series domain.DailySeries, ref time.Time) int {
	for _, r := range series {
		if sameDay(r.Date, ref) {
			return r.Count
		}
	}
	return 0
}

func trailing(series domain.DailySeries, n int) domain.DailySeries {
	if len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}

func sumCounts(series domain.DailySeries) int {
	total := 0
	for _, r := range series {
		total += r.Count
	}
	return total
}

func sumWhere(series domain.DailySeries, match func(domain.DailyRecord) bool) int {
	total := 0
	for _, r := range series {
		if match(r) {
			total += r.Count
		}
	}
	return total
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
