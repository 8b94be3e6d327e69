package report

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/contriview/pkg/models/domain"
	"github.com/de-tools/contriview/pkg/services/contributions"
	"github.com/de-tools/contriview/pkg/services/fetcher"
	"github.com/rs/zerolog"
)

// Service fetches a user's contributions document and evaluates it.
type Service interface {
	GetReport(ctx context.Context, username string, ref time.Time) (*domain.Report, error)
	GetDay(ctx context.Context, username string, date time.Time) (*domain.DayReport, error)
}

type reportService struct {
	fetcher fetcher.Fetcher
	builder *contributions.Builder
}

func NewService(f fetcher.Fetcher, builder *contributions.Builder) Service {
	if builder == nil {
		builder = contributions.NewBuilder(nil)
	}
	return &reportService{fetcher: f, builder: builder}
}

func (s *reportService) GetReport(ctx context.Context, username string, ref time.Time) (*domain.Report, error) {
	document, err := s.fetcher.Fetch(ctx, username)
	if err != nil {
		return nil, err
	}

	view, err := s.builder.Build(document, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to build contributions of %s: %w", username, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("username", username).
		Str("date", ref.Format(contributions.DateLayout)).
		Int("sum_contributions", view.SumContributions).
		Msg("contributions evaluated")

	return &domain.Report{
		Username:      username,
		ReferenceDate: ref,
		View:          view,
	}, nil
}

func (s *reportService) GetDay(ctx context.Context, username string, date time.Time) (*domain.DayReport, error) {
	document, err := s.fetcher.Fetch(ctx, username)
	if err != nil {
		return nil, err
	}

	day, err := s.builder.Day(document, date)
	if err != nil {
		return nil, fmt.Errorf("failed to read contributions of %s: %w", username, err)
	}
	day.Username = username
	return &day, nil
}
