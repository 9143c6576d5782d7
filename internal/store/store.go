// Package store persists projects, versioned reports, niche rankings, preview
// quota counters and aggregated insights on SQLite or Postgres.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// The DDL sticks to types both drivers accept. Timestamps are RFC3339 text
// and booleans are 0/1 integers.
const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	input       TEXT NOT NULL DEFAULT '{}',
	website_url TEXT NOT NULL DEFAULT '',
	niche       TEXT NOT NULL DEFAULT '',
	slug        TEXT NOT NULL UNIQUE,
	is_public   INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis_reports (
	id                 TEXT PRIMARY KEY,
	project_id         TEXT NOT NULL,
	version            INTEGER NOT NULL,
	report_json        TEXT NOT NULL,
	score              INTEGER NOT NULL,
	category_breakdown TEXT NOT NULL DEFAULT '{}',
	percentile         DOUBLE PRECISION,
	niche              TEXT NOT NULL DEFAULT '',
	created_at         TEXT NOT NULL,
	UNIQUE (project_id, version)
);

CREATE TABLE IF NOT EXISTS project_rankings (
	project_id TEXT PRIMARY KEY,
	score      INTEGER NOT NULL,
	percentile DOUBLE PRECISION,
	niche      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rate_limit_attempts (
	ip_hash       TEXT PRIMARY KEY,
	attempt_count INTEGER NOT NULL DEFAULT 0,
	window_start  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis_patterns (
	id                    TEXT PRIMARY KEY,
	project_id            TEXT NOT NULL,
	niche_category        TEXT NOT NULL,
	category_scores       TEXT NOT NULL DEFAULT '{}',
	top_killers           TEXT NOT NULL DEFAULT '[]',
	pricing_issue_flag    INTEGER NOT NULL DEFAULT 0,
	conversion_issue_flag INTEGER NOT NULL DEFAULT 0,
	created_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS global_insights (
	id                    INTEGER PRIMARY KEY,
	avg_total_score       DOUBLE PRECISION NOT NULL DEFAULT 0,
	avg_niche_score       DOUBLE PRECISION NOT NULL DEFAULT 0,
	avg_positioning_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	avg_pricing_score     DOUBLE PRECISION NOT NULL DEFAULT 0,
	avg_conversion_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
	avg_traffic_score     DOUBLE PRECISION NOT NULL DEFAULT 0,
	most_common_killer    TEXT NOT NULL DEFAULT '',
	total_analyzed        INTEGER NOT NULL DEFAULT 0,
	updated_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS case_snapshots (
	id               TEXT PRIMARY KEY,
	summary_text     TEXT NOT NULL,
	niche            TEXT NOT NULL DEFAULT '',
	before_score     INTEGER,
	after_score      INTEGER NOT NULL,
	improvement_area TEXT NOT NULL DEFAULT '',
	created_at       TEXT NOT NULL
);
`

type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open connects and applies the schema. For sqlite, dsn is a file path.
func Open(driver, dsn string) (*Store, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch driver {
	case DriverSQLite, "":
		db, err = sqlx.Open(DriverSQLite, dsn+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
		if err == nil {
			db.SetMaxOpenConns(1)
		}
	case DriverPostgres:
		db, err = sqlx.Open(DriverPostgres, dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) timestamp() string {
	return formatTime(s.now())
}

// timeLayout is fixed width so stored timestamps order correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, v)
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
