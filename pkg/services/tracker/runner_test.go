package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/contriview/pkg/models/domain"
	"github.com/de-tools/contriview/pkg/models/store"
	"github.com/de-tools/contriview/pkg/services/report"
	"github.com/de-tools/contriview/pkg/store/duckdb"
	"github.com/de-tools/contriview/pkg/store/duckdb/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) ListAccounts(ctx context.Context) ([]domain.TrackedAccount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.TrackedAccount), args.Error(1)
}

func (m *mockRegistry) GetAccount(ctx context.Context, name string) (domain.TrackedAccount, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.TrackedAccount), args.Error(1)
}

type mockService struct {
	mock.Mock
}

func (m *mockService) GetReport(ctx context.Context, username string, ref time.Time) (*domain.Report, error) {
	args := m.Called(ctx, username, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockService) GetDay(ctx context.Context, username string, date time.Time) (*domain.DayReport, error) {
	args := m.Called(ctx, username, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayReport), args.Error(1)
}

type mockSnapshotStore struct {
	mock.Mock
}

func (m *mockSnapshotStore) Save(ctx context.Context, snapshot store.Snapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

func (m *mockSnapshotStore) Get(ctx context.Context, id store.SnapshotIdentity) (*store.Snapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Snapshot), args.Error(1)
}

func (m *mockSnapshotStore) List(ctx context.Context, username string, limit int) ([]store.Snapshot, error) {
	args := m.Called(ctx, username, limit)
	return args.Get(0).([]store.Snapshot), args.Error(1)
}

var now = time.Date(2019, 1, 26, 18, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return now
}

type fixture struct {
	registry  *mockRegistry
	service   *mockService
	snapshots *mockSnapshotStore
	factory   ServiceFactory
}

func setupFixture(accounts ...domain.TrackedAccount) *fixture {
	f := &fixture{
		registry:  new(mockRegistry),
		service:   new(mockService),
		snapshots: new(mockSnapshotStore),
	}
	f.registry.On("ListAccounts", mock.Anything).Return(accounts, nil)
	f.factory = func(account domain.TrackedAccount) (report.Service, error) {
		if account.BaseURL == "broken" {
			return nil, errors.New("invalid base url")
		}
		return f.service, nil
	}
	return f
}

func TestRunner_Sweep(t *testing.T) {
	// Given
	f := setupFixture(
		domain.TrackedAccount{Name: "octocat", Username: "octocat"},
		domain.TrackedAccount{Name: "ghost", Username: "ghost"},
		domain.TrackedAccount{Name: "enterprise", Username: "octo", BaseURL: "broken"},
	)
	view := domain.ContributionView{TodayContributions: 3, SumContributions: 3532, SumAve: 9}
	f.service.On("GetReport", mock.Anything, "octocat", now).
		Return(&domain.Report{Username: "octocat", ReferenceDate: now, View: view}, nil)
	f.service.On("GetReport", mock.Anything, "ghost", now).
		Return(nil, errors.New("user not found"))
	f.snapshots.On("Save", mock.Anything, store.Snapshot{
		Username:      "octocat",
		ReferenceDate: now,
		Today:         3,
		AllTime:       3532,
		SumAve:        9,
		CreatedAt:     now,
	}).Return(nil)

	runner := NewRunner(f.registry, f.factory, f.snapshots, nil, RunnerConfig{Now: fixedClock})

	// When
	progress := runner.Sweep(context.Background())

	// Then
	assert.Equal(t, RunnerProgress{Saved: 1, Failed: 2, Accounts: 3, At: now}, progress)
	f.service.AssertExpectations(t)
	f.snapshots.AssertExpectations(t)
}

func TestRunner_Sweep_Transaction(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	f := setupFixture(domain.TrackedAccount{Name: "octocat", Username: "octocat"})
	f.service.On("GetReport", mock.Anything, "octocat", now).
		Return(&domain.Report{Username: "octocat", ReferenceDate: now}, nil)
	f.snapshots.On("Save", mock.Anything, mock.Anything).Return(nil)

	t.Run("committed", func(t *testing.T) {
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		runner := NewRunner(f.registry, f.factory, f.snapshots, db, RunnerConfig{Now: fixedClock})
		progress := runner.Sweep(context.Background())

		assert.Equal(t, 1, progress.Saved)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		sqlMock.ExpectBegin().WillReturnError(errors.New("locked"))

		runner := NewRunner(f.registry, f.factory, f.snapshots, db, RunnerConfig{Now: fixedClock})
		progress := runner.Sweep(context.Background())

		assert.Equal(t, RunnerProgress{Failed: 1, Accounts: 1, At: now}, progress)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestRunner_Sweep_CommitFailureFailsOnlyItsAccount(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Given
	f := setupFixture(
		domain.TrackedAccount{Name: "octocat", Username: "octocat"},
		domain.TrackedAccount{Name: "hubot", Username: "hubot"},
	)
	for _, username := range []string{"octocat", "hubot"} {
		f.service.On("GetReport", mock.Anything, username, now).
			Return(&domain.Report{Username: username, ReferenceDate: now}, nil)
	}
	f.snapshots.On("Save", mock.Anything, mock.Anything).Return(nil)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit().WillReturnError(errors.New("conflict"))
	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	// When
	runner := NewRunner(f.registry, f.factory, f.snapshots, db, RunnerConfig{Now: fixedClock})
	progress := runner.Sweep(context.Background())

	// Then
	assert.Equal(t, RunnerProgress{Saved: 1, Failed: 1, Accounts: 2, At: now}, progress)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRunner_Sweep_DuckDB_ConcurrentWriteKeepsOtherAccounts(t *testing.T) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: filepath.Join(t.TempDir(), "tracker.db")})
	require.NoError(t, err)
	defer db.Close()

	snapshotStore, err := snapshot.NewStore(db)
	require.NoError(t, err)

	// Given
	f := setupFixture(
		domain.TrackedAccount{Name: "octocat", Username: "octocat"},
		domain.TrackedAccount{Name: "ghost", Username: "ghost"},
		domain.TrackedAccount{Name: "hubot", Username: "hubot"},
	)
	for _, username := range []string{"octocat", "hubot"} {
		f.service.On("GetReport", mock.Anything, username, now).
			Return(&domain.Report{Username: username, ReferenceDate: now}, nil)
	}
	// the web endpoint records octocat again while the tracker fetches ghost
	f.service.On("GetReport", mock.Anything, "ghost", now).
		Run(func(mock.Arguments) {
			require.NoError(t, snapshotStore.Save(context.Background(), store.Snapshot{
				Username:      "octocat",
				ReferenceDate: now,
				Today:         3,
				CreatedAt:     now,
			}))
		}).
		Return(&domain.Report{Username: "ghost", ReferenceDate: now}, nil)

	// When
	runner := NewRunner(f.registry, f.factory, snapshotStore, db, RunnerConfig{Now: fixedClock})
	progress := runner.Sweep(context.Background())

	// Then
	assert.Equal(t, RunnerProgress{Saved: 3, Failed: 0, Accounts: 3, At: now}, progress)
	for _, username := range []string{"octocat", "ghost", "hubot"} {
		records, err := snapshotStore.List(context.Background(), username, 0)
		require.NoError(t, err)
		assert.Len(t, records, 1, username)
	}
}

func TestRunner_Sweep_RegistryFailure(t *testing.T) {
	reg := new(mockRegistry)
	reg.On("ListAccounts", mock.Anything).Return([]domain.TrackedAccount(nil), errors.New("unreadable"))

	runner := NewRunner(reg, nil, nil, nil, RunnerConfig{Now: fixedClock})

	assert.Equal(t, RunnerProgress{At: now}, runner.Sweep(context.Background()))
}

func TestRunner_Run(t *testing.T) {
	f := setupFixture()
	runner := NewRunner(f.registry, f.factory, f.snapshots, nil, RunnerConfig{
		Interval: 10 * time.Millisecond,
		Now:      fixedClock,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go runner.Run(ctx)

	first := <-runner.Progress()
	second := <-runner.Progress()
	assert.Equal(t, 1, first.Sweep)
	assert.Equal(t, 2, second.Sweep)

	cancel()
	select {
	case <-runner.Done():
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}

	for range runner.Progress() {
		// drain until closed
	}
}

func TestController_StartStop(t *testing.T) {
	f := setupFixture()
	ctrl := NewController(func() *Runner {
		return NewRunner(f.registry, f.factory, f.snapshots, nil, RunnerConfig{
			Interval: time.Hour,
			Now:      fixedClock,
		})
	})
	ctx := context.Background()

	require.Error(t, ctrl.Stop(ctx))
	require.NoError(t, ctrl.Start(ctx))
	require.Error(t, ctrl.Start(ctx))
	require.NoError(t, ctrl.Stop(ctx))
	require.NoError(t, ctrl.Start(ctx))
	require.NoError(t, ctrl.Stop(ctx))
}
