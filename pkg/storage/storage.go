// Package storage persists accepted scrape results as pending submissions
// for human moderation. The extraction engine itself never writes here;
// the HTTP boundary and the backfill command do.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eventscope/eventscope/pkg/event"
	"github.com/eventscope/eventscope/pkg/scrape"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS submissions (
  id          INTEGER PRIMARY KEY,
  slug        TEXT NOT NULL,
  source_url  TEXT NOT NULL,
  payload     TEXT NOT NULL,
  confidence  TEXT NOT NULL CHECK (confidence IN ('high','medium','low')),
  price_text  TEXT,
  price_type  TEXT,
  price_value REAL,
  is_free     INTEGER NOT NULL DEFAULT 0 CHECK (is_free IN (0,1)),
  status      TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','approved','rejected')),
  created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);
CREATE INDEX IF NOT EXISTS idx_submissions_slug ON submissions(slug);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Submission is one stored scrape result awaiting moderation.
type Submission struct {
	ID         int64                  `json:"id"`
	Slug       string                 `json:"slug"`
	SourceURL  string                 `json:"source_url"`
	Data       event.ScrapedEventData `json:"data"`
	Confidence event.Confidence       `json:"confidence"`
	Status     string                 `json:"status"`
	CreatedAt  time.Time              `json:"created_at"`
}

// InsertSubmission stores one scrape result as pending. The price columns
// are denormalized from the payload so the backfill can work on them
// without unpacking JSON.
func (d *DB) InsertSubmission(ctx context.Context, res *scrape.Result) (int64, error) {
	payload, err := json.Marshal(res.Data)
	if err != nil {
		return 0, fmt.Errorf("marshaling submission payload: %w", err)
	}

	var priceType sql.NullString
	if res.Data.PriceType != "" {
		priceType = sql.NullString{String: string(res.Data.PriceType), Valid: true}
	}
	var priceValue sql.NullFloat64
	if res.Data.PriceValue != nil {
		priceValue = sql.NullFloat64{Float64: *res.Data.PriceValue, Valid: true}
	}

	r, err := d.sql.ExecContext(ctx,
		`INSERT INTO submissions(slug, source_url, payload, confidence, price_type, price_value, is_free)
		 VALUES(?,?,?,?,?,?,?)`,
		res.Data.Slug, res.Meta.SourceURL, string(payload), string(res.Meta.Confidence),
		priceType, priceValue, boolToInt(res.Data.IsFree))
	if err != nil {
		return 0, err
	}
	return r.LastInsertId()
}

// ListSubmissions returns submissions in a given status, newest first.
// An empty status lists everything.
func (d *DB) ListSubmissions(ctx context.Context, status string) ([]Submission, error) {
	query := `SELECT id, slug, source_url, payload, confidence, status, created_at FROM submissions`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var s Submission
		var payload string
		if err := rows.Scan(&s.ID, &s.Slug, &s.SourceURL, &payload, &s.Confidence, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &s.Data); err != nil {
			return nil, fmt.Errorf("submission %d has a corrupt payload: %w", s.ID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
