package commands

import (
	"fmt"
	"time"

	"github.com/de-tools/contriview/pkg/models/domain"
	"github.com/de-tools/contriview/pkg/services/contributions"
	"github.com/de-tools/contriview/pkg/services/report"
)

// Env gives commands access to what the root command prepared.
type Env interface {
	Reports() report.Service
	Now() time.Time
}

type ReportHandler interface {
	Handle(report *domain.Report) error
}

type DayHandler interface {
	HandleDay(report *domain.DayReport) error
}

// resolveDate parses a YYYY-MM-DD flag value, falling back to the current local day.
func resolveDate(env Env, value string) (time.Time, error) {
	if value == "" {
		y, m, d := env.Now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}

	date, err := time.Parse(contributions.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return date, nil
}
