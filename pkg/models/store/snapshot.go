package store

import "time"

type Snapshot struct {
	Username      string
	ReferenceDate time.Time
	Today         int64
	Week          int64
	Month         int64
	Year          int64
	AllTime       int64
	WeekAve       int64
	MonthAve      int64
	SumAve        int64
	CreatedAt     time.Time
}

type SnapshotIdentity struct {
	Username      string
	ReferenceDate time.Time
}
