package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const SnapshotTableSchema = `
	CREATE TABLE IF NOT EXISTS contribution_snapshots (
		username VARCHAR NOT NULL,
		reference_date DATE NOT NULL,
		today BIGINT NOT NULL,
		week BIGINT NOT NULL,
		month BIGINT NOT NULL,
		year BIGINT NOT NULL,
		all_time BIGINT NOT NULL,
		week_ave BIGINT NOT NULL,
		month_ave BIGINT NOT NULL,
		sum_ave BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (username, reference_date)
	);
`

var bootQueries = []string{
	SnapshotTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
