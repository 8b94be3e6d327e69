package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/contriview/pkg/models/store"
	"github.com/de-tools/contriview/pkg/store/duckdb"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("snapshot not found")

// Store persists contribution views per user and reference date.
// Saving a snapshot twice for the same day replaces the earlier one.
type Store interface {
	Save(ctx context.Context, snapshot store.Snapshot) error
	Get(ctx context.Context, id store.SnapshotIdentity) (*store.Snapshot, error)
	List(ctx context.Context, username string, limit int) ([]store.Snapshot, error)
}

type snapshotStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &snapshotStore{
		db: db,
	}, nil
}

const upsertQuery = `
		INSERT INTO contribution_snapshots (
			username, reference_date, today, week, month, year,
			all_time, week_ave, month_ave, sum_ave, created_at
		) VALUES (
			?, CAST(? AS DATE), ?, ?, ?, ?, ?, ?, ?, ?, ?
		)
		ON CONFLICT (username, reference_date) DO UPDATE SET
			today = EXCLUDED.today,
			week = EXCLUDED.week,
			month = EXCLUDED.month,
			year = EXCLUDED.year,
			all_time = EXCLUDED.all_time,
			week_ave = EXCLUDED.week_ave,
			month_ave = EXCLUDED.month_ave,
			sum_ave = EXCLUDED.sum_ave,
			created_at = EXCLUDED.created_at`

func (s *snapshotStore) Save(ctx context.Context, snapshot store.Snapshot) error {
	if snapshot.Username == "" {
		return fmt.Errorf("snapshot username is required")
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	args := []interface{}{
		snapshot.Username,
		calendarDate(snapshot.ReferenceDate),
		snapshot.Today,
		snapshot.Week,
		snapshot.Month,
		snapshot.Year,
		snapshot.AllTime,
		snapshot.WeekAve,
		snapshot.MonthAve,
		snapshot.SumAve,
		snapshot.CreatedAt,
	}

	if _, err := duckdb.Executor(ctx, s.db).ExecContext(ctx, upsertQuery, args...); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("username", snapshot.Username).
		Time("reference_date", calendarDate(snapshot.ReferenceDate)).
		Msg("snapshot saved")
	return nil
}

const selectColumns = `
		SELECT username, reference_date, today, week, month, year,
			all_time, week_ave, month_ave, sum_ave, created_at
		FROM contribution_snapshots`

func (s *snapshotStore) Get(ctx context.Context, id store.SnapshotIdentity) (*store.Snapshot, error) {
	query := selectColumns + `
		WHERE username = ? AND reference_date = CAST(? AS DATE)`

	rows, err := s.db.QueryContext(ctx, query, id.Username, calendarDate(id.ReferenceDate))
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	snapshots, err := scanSnapshotRows(rows)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, ErrNotFound
	}
	return &snapshots[0], nil
}

// List returns the snapshots of username, newest reference date first.
// A non-positive limit returns all of them.
func (s *snapshotStore) List(ctx context.Context, username string, limit int) ([]store.Snapshot, error) {
	query := selectColumns + `
		WHERE username = ?
		ORDER BY reference_date DESC`
	args := []interface{}{username}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()
	return scanSnapshotRows(rows)
}

func scanSnapshotRows(rows *sql.Rows) ([]store.Snapshot, error) {
	snapshots := make([]store.Snapshot, 0)
	for rows.Next() {
		var s store.Snapshot
		if err := rows.Scan(
			&s.Username,
			&s.ReferenceDate,
			&s.Today,
			&s.Week,
			&s.Month,
			&s.Year,
			&s.AllTime,
			&s.WeekAve,
			&s.MonthAve,
			&s.SumAve,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// calendarDate drops the clock and location of t, keeping its calendar day.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
