package domain

import "time"

// Report represents a rendered contributions report
type Report struct {
	Username      string
	ReferenceDate time.Time
	View          ContributionView
}

// DayReport represents the activity of a single day
type DayReport struct {
	Username string
	Date     time.Time
	Count    int
	Found    bool
}
