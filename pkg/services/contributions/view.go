package contributions

import (
	"fmt"
	"time"

	"github.com/de-tools/contriview/pkg/models/domain"
)

const (
	daysPerWeek = 7
	// daysPerYear is fixed; leap years are not accounted for.
	daysPerYear = 365
)

// Builder turns contributions documents into views.
type Builder struct {
	parser *Parser
}

func NewBuilder(parser *Parser) *Builder {
	if parser == nil {
		parser = defaultParser
	}
	return &Builder{parser: parser}
}

// Build extracts the daily series of html and assembles its view as of ref.
// The only error it returns wraps ErrMissingRequiredField.
func (b *Builder) Build(html string, ref time.Time) (domain.ContributionView, error) {
	series, err := b.parser.Extract(html)
	if err != nil {
		return domain.ContributionView{}, fmt.Errorf("failed to extract daily records: %w", err)
	}
	return Assemble(series, ref), nil
}

// Day looks up the activity of a single date in html.
func (b *Builder) Day(html string, date time.Time) (domain.DayReport, error) {
	count, found, err := b.parser.ExtractOne(html, date)
	if err != nil {
		return domain.DayReport{}, fmt.Errorf("failed to extract %s: %w", date.Format(DateLayout), err)
	}
	return domain.DayReport{Date: date, Count: count, Found: found}, nil
}

// Assemble computes the window sums of series and derives the averages.
func Assemble(series domain.DailySeries, ref time.Time) domain.ContributionView {
	sums := Aggregate(series, ref)

	return domain.ContributionView{
		TodayContributions: sums.Today,
		WeekContributions:  sums.Week,
		MonthContributions: sums.Month,
		YearContributions:  sums.Year,
		SumContributions:   sums.AllTime,
		WeekAve:            sums.Week / daysPerWeek,
		// Day() is never below 1
		MonthAve: sums.Month / ref.Day(),
		SumAve:   sums.AllTime / daysPerYear,
	}
}

var defaultBuilder = NewBuilder(nil)

// Build assembles the view of html as of ref with the default parser.
func Build(html string, ref time.Time) (domain.ContributionView, error) {
	return defaultBuilder.Build(html, ref)
}
