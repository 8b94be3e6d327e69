package duckdb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_BootstrapsSnapshotTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(Settings{
		DbPath: dbPath,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	refDate := time.Date(2019, 1, 26, 0, 0, 0, 0, time.UTC)
	_, err = db.Exec(
		`INSERT INTO contribution_snapshots
			(username, reference_date, today, week, month, year, all_time, week_ave, month_ave, sum_ave)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"octocat", refDate, 3, 51, 260, 260, 3532, 7, 10, 9,
	)
	require.NoError(t, err)

	var total int64
	err = db.QueryRow("SELECT all_time FROM contribution_snapshots WHERE username = ?", "octocat").Scan(&total)
	require.NoError(t, err)
	assert.Equal(t, int64(3532), total)

	_, err = db.Exec(
		`INSERT INTO contribution_snapshots
			(username, reference_date, today, week, month, year, all_time, week_ave, month_ave, sum_ave)
		VALUES (?, ?, 0, 0, 0, 0, 0, 0, 0, 0)`,
		"octocat", refDate,
	)
	assert.Error(t, err, "one snapshot per user and day")
}
