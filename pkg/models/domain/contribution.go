package domain

import "time"

// DailyRecord is one day of activity as found in a contributions document.
type DailyRecord struct {
	Date  time.Time
	Count int
}

// DailySeries keeps the order in which records appear in the document.
// Records are expected, not guaranteed, to be sorted by date.
type DailySeries []DailyRecord

type Window int

const (
	WindowToday Window = iota
	WindowWeek
	WindowMonth
	WindowYear
	WindowAllTime
)

func (w Window) String() string {
	switch w {
	case WindowToday:
		return "today"
	case WindowWeek:
		return "week"
	case WindowMonth:
		return "month"
	case WindowYear:
		return "year"
	case WindowAllTime:
		return "all_time"
	default:
		return "unknown"
	}
}

// Windows lists every aggregation window.
var Windows = []Window{WindowToday, WindowWeek, WindowMonth, WindowYear, WindowAllTime}

type WindowSums struct {
	Today   int
	Week    int
	Month   int
	Year    int
	AllTime int
}

// ContributionView is the aggregated result for one document and reference date.
// The zero value is the view of a document without any per-day records.
type ContributionView struct {
	TodayContributions int
	WeekContributions  int
	MonthContributions int
	YearContributions  int
	SumContributions   int
	WeekAve            int
	MonthAve           int
	SumAve             int
}

// ViewField is a rendered label/value pair of a ContributionView.
type ViewField struct {
	Label string
	Value int
}

// Fields returns the view in its canonical rendering order.
func (v ContributionView) Fields() []ViewField {
	return []ViewField{
		{Label: "today_contributions", Value: v.TodayContributions},
		{Label: "week_contributions", Value: v.WeekContributions},
		{Label: "month_contributions", Value: v.MonthContributions},
		{Label: "year_contributions", Value: v.YearContributions},
		{Label: "sum_contributions", Value: v.SumContributions},
		{Label: "week_ave", Value: v.WeekAve},
		{Label: "month_ave", Value: v.MonthAve},
		{Label: "sum_ave", Value: v.SumAve},
	}
}

// Snapshot is a view recorded for a user at a given reference date.
type Snapshot struct {
	Username      string
	ReferenceDate time.Time
	View          ContributionView
	CreatedAt     time.Time
}
