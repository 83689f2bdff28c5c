package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"elearning/internal/adapters/http/perf"
)

// Querier runs statements. *sql.DB, *sql.Tx and *TimedDB all satisfy it, so
// a store built on a Querier works both standalone and inside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLDB is the database handle given to store constructors.
type SQLDB interface {
	Querier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var (
	_ SQLDB   = (*sql.DB)(nil)
	_ SQLDB   = (*TimedDB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// TimedDB wraps a *sql.DB, logs slow statements and records every timing to
// the perf collector shown on the admin dashboard.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	threshold float64
}

// NewTimedDB wraps db. A non-positive slowMs falls back to DefaultSlowQueryMs.
// PRE: db is a valid database connection
// POST: Returns a TimedDB that logs slow queries and records to collector (if non-nil)
func NewTimedDB(db *sql.DB, collector *perf.Collector, slowMs int) *TimedDB {
	if slowMs <= 0 {
		slowMs = DefaultSlowQueryMs
	}
	return &TimedDB{db: db, collector: collector, threshold: float64(slowMs)}
}

// RawDB returns the underlying *sql.DB.
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

func (t *TimedDB) observe(op, query string, start time.Time) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0

	if durationMs >= t.threshold {
		slog.Warn("slow_query", "op", op, "statement", statementLabel(query), "duration_ms", durationMs)
	} else {
		slog.Debug("query", "op", op, "statement", statementLabel(query), "duration_ms", durationMs)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Path:       op + " " + statementLabel(query),
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

// ExecContext wraps sql.DB.ExecContext with timing.
// PRE: ctx is valid, query is non-empty
// POST: statement executed, timing recorded
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := t.db.ExecContext(ctx, query, args...)
	t.observe("exec", query, start)
	return res, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing recorded
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.observe("query", query, start)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing recorded
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.observe("query_row", query, start)
	return row
}

// BeginTx wraps sql.DB.BeginTx with timing. Statements run on the returned
// *sql.Tx are not individually timed.
// PRE: ctx is valid
// POST: transaction started, timing recorded
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.observe("begin", "BEGIN", start)
	return tx, err
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

// PingContext verifies the database connection.
// POST: returns nil if connection is alive
func (t *TimedDB) PingContext(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

// statementLabel reduces a statement to "VERB table" for grouping in perf stats.
func statementLabel(query string) string {
	fields := strings.Fields(strings.ReplaceAll(query, "(", " "))
	if len(fields) == 0 {
		return ""
	}
	verb := strings.ToUpper(fields[0])
	for i, f := range fields[:len(fields)-1] {
		switch strings.ToUpper(f) {
		case "FROM", "INTO", "UPDATE":
			return verb + " " + fields[i+1]
		}
	}
	return verb
}
