package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"ETFAdvisor/internal/model"
)

// SQLiteRecorder persists history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the web shell read history while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS picks (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			session_id    TEXT,
			tier          TEXT NOT NULL,
			ticker        TEXT NOT NULL,
			annual_return REAL,
			volatility    REAL,
			sharpe_ratio  REAL,
			observations  INTEGER,
			last_close    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_picks_ts ON picks(timestamp)`,

		`CREATE TABLE IF NOT EXISTS refreshes (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			source      TEXT,
			ok_count    INTEGER,
			failed      INTEGER,
			duration_ms INTEGER,
			note        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refreshes_ts ON refreshes(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordPick(evt *PickEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := evt.Metrics
	_, err := r.db.Exec(`INSERT INTO picks
		(timestamp, session_id, tier, ticker, annual_return, volatility, sharpe_ratio, observations, last_close)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().UnixNano(), evt.SessionID, string(evt.Tier), string(m.Ticker),
		m.AnnualReturn, m.Volatility, m.SharpeRatio, m.Observations, m.LastClose,
	)
	return err
}

func (r *SQLiteRecorder) RecordRefresh(evt *RefreshEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO refreshes
		(timestamp, source, ok_count, failed, duration_ms, note)
		VALUES (?,?,?,?,?,?)`,
		time.Now().UnixNano(), evt.Source, evt.OK, evt.Failed, evt.Duration.Milliseconds(), evt.Note,
	)
	return err
}

// RecentPicks returns up to limit picks, newest first.
func (r *SQLiteRecorder) RecentPicks(limit int) ([]PickRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT timestamp, session_id, tier, ticker, annual_return, volatility, sharpe_ratio
		FROM picks ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query picks: %w", err)
	}
	defer rows.Close()

	var out []PickRecord
	for rows.Next() {
		var (
			ts        int64
			sessionID sql.NullString
			tierLabel string
			ticker    string
			rec       PickRecord
		)
		if err := rows.Scan(&ts, &sessionID, &tierLabel, &ticker, &rec.AnnualReturn, &rec.Volatility, &rec.SharpeRatio); err != nil {
			return nil, fmt.Errorf("scan pick: %w", err)
		}
		rec.At = time.Unix(0, ts)
		rec.SessionID = sessionID.String
		rec.Tier = model.RiskTier(tierLabel)
		rec.Ticker = model.Ticker(ticker)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
