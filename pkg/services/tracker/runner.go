package tracker

import (
	"context"
	"database/sql"
	"time"

	"github.com/de-tools/contriview/pkg/adapters"
	"github.com/de-tools/contriview/pkg/models/domain"
	"github.com/de-tools/contriview/pkg/services/registry"
	"github.com/de-tools/contriview/pkg/services/report"
	"github.com/de-tools/contriview/pkg/store/duckdb"
	"github.com/de-tools/contriview/pkg/store/duckdb/snapshot"
	"github.com/rs/zerolog"
)

// ServiceFactory returns the report service used for an account.
type ServiceFactory func(account domain.TrackedAccount) (report.Service, error)

type RunnerConfig struct {
	Interval time.Duration
	// Now supplies the reference date of each sweep.
	Now func() time.Time
}

type RunnerProgress struct {
	Sweep    int
	Saved    int
	Failed   int
	Accounts int
	At       time.Time
}

// Runner snapshots every registered account once per interval.
type Runner struct {
	registry      registry.Registry
	services      ServiceFactory
	snapshotStore snapshot.Store
	db            *sql.DB
	done          chan struct{}
	progress      chan RunnerProgress
	config        RunnerConfig
}

func NewRunner(
	reg registry.Registry,
	services ServiceFactory,
	snapshotStore snapshot.Store,
	db *sql.DB,
	config RunnerConfig,
) *Runner {
	if config.Interval <= 0 {
		config.Interval = time.Hour
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Runner{
		registry:      reg,
		services:      services,
		snapshotStore: snapshotStore,
		db:            db,
		done:          make(chan struct{}),
		progress:      make(chan RunnerProgress, 100),
		config:        config,
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

// Run sweeps immediately and then on every tick until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("component", "tracker").Logger()
	ctx = logger.WithContext(ctx)

	defer close(r.done)
	defer close(r.progress)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for sweep := 1; ; sweep++ {
		progress := r.Sweep(ctx)
		progress.Sweep = sweep

		select {
		case r.progress <- progress:
		default:
			logger.Warn().Int("sweep", sweep).Msg("progress channel full, dropping update")
		}

		select {
		case <-ctx.Done():
			logger.Info().Msg("tracker stopped")
			return
		case <-ticker.C:
		}
	}
}

// Sweep snapshots every registered account once. Failures of single accounts
// are logged and counted; they do not stop the sweep.
func (r *Runner) Sweep(ctx context.Context) RunnerProgress {
	logger := zerolog.Ctx(ctx)
	now := r.config.Now()
	progress := RunnerProgress{At: now}

	accounts, err := r.registry.ListAccounts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list tracked accounts")
		return progress
	}
	progress.Accounts = len(accounts)

	for _, account := range accounts {
		if ctx.Err() != nil {
			break
		}
		if err := r.snapshotAccount(ctx, account, now); err != nil {
			logger.Error().Err(err).Str("account", account.String()).Msg("failed to snapshot account")
			progress.Failed++
			continue
		}
		progress.Saved++
	}

	logger.Info().
		Int("accounts", progress.Accounts).
		Int("saved", progress.Saved).
		Int("failed", progress.Failed).
		Msg("sweep finished")
	return progress
}

// snapshotAccount fetches outside of any transaction; only the save of the
// account runs in one, so a conflicting write fails this account alone.
func (r *Runner) snapshotAccount(ctx context.Context, account domain.TrackedAccount, now time.Time) error {
	svc, err := r.services(account)
	if err != nil {
		return err
	}

	rep, err := svc.GetReport(ctx, account.Username, now)
	if err != nil {
		return err
	}

	record := adapters.MapSnapshotDomainToStore(domain.Snapshot{
		Username:      rep.Username,
		ReferenceDate: rep.ReferenceDate,
		View:          rep.View,
		CreatedAt:     now.UTC(),
	})
	save := func(ctx context.Context) error {
		return r.snapshotStore.Save(ctx, record)
	}

	if r.db == nil {
		return save(ctx)
	}
	return duckdb.InTransaction(ctx, r.db, save)
}
