package api

import "time"

type ContributionView struct {
	Username           string `json:"username"`
	Date               string `json:"date"`
	TodayContributions int    `json:"today_contributions"`
	WeekContributions  int    `json:"week_contributions"`
	MonthContributions int    `json:"month_contributions"`
	YearContributions  int    `json:"year_contributions"`
	SumContributions   int    `json:"sum_contributions"`
	WeekAve            int    `json:"week_ave"`
	MonthAve           int    `json:"month_ave"`
	SumAve             int    `json:"sum_ave"`
}

type DayContributions struct {
	Username string `json:"username"`
	Date     string `json:"date"`
	Count    int    `json:"count"`
	Found    bool   `json:"found"`
}

type Snapshot struct {
	ContributionView
	CreatedAt time.Time `json:"created_at"`
}

type TrackedAccount struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

type Error struct {
	Message string `json:"error"`
}
