// Package history persists one row per analysis run. Only run metadata
// and headline totals are stored; the ledger's own transactions never
// touch the database.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Status classifies how an analysis run ended.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

const defaultRecent = 20

// Amounts are stored as TEXT through decimal's Valuer/Scanner, so the
// exact mantissa survives a round trip.
const schema = `
CREATE TABLE IF NOT EXISTS analyses (
    id                TEXT PRIMARY KEY,
    filename          TEXT NOT NULL,
    status            TEXT NOT NULL,
    duration_ms       INTEGER NOT NULL,
    total_expenses    TEXT NOT NULL,
    total_income      TEXT NOT NULL,
    total_assets      TEXT NOT NULL,
    total_liabilities TEXT NOT NULL,
    net_worth         TEXT NOT NULL,
    transactions      INTEGER NOT NULL,
    error             TEXT NOT NULL DEFAULT '',
    created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`

// Run is one recorded analysis.
type Run struct {
	ID               string          `json:"id"`
	Filename         string          `json:"filename"`
	Status           Status          `json:"status"`
	DurationMS       int64           `json:"duration_ms"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	NetWorth         decimal.Decimal `json:"net_worth"`
	Transactions     int             `json:"transactions"`
	Error            string          `json:"error,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Store is a SQLite-backed log of analysis runs.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a run. An empty ID is filled with a fresh UUID;
// created_at is assigned by the database.
func (s *Store) Record(run Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	_, err := s.db.Exec(`
		INSERT INTO analyses (id, filename, status, duration_ms,
			total_expenses, total_income, total_assets, total_liabilities, net_worth,
			transactions, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Filename, string(run.Status), run.DurationMS,
		run.TotalExpenses, run.TotalIncome, run.TotalAssets, run.TotalLiabilities, run.NetWorth,
		run.Transactions, run.Error,
	)
	if err != nil {
		return fmt.Errorf("recording analysis: %w", err)
	}
	return nil
}

// Recent returns up to n runs, newest first. n <= 0 falls back to a
// default page size.
func (s *Store) Recent(n int) ([]Run, error) {
	if n <= 0 {
		n = defaultRecent
	}

	// rowid breaks ties between rows created within the same second.
	rows, err := s.db.Query(`
		SELECT id, filename, status, duration_ms,
			total_expenses, total_income, total_assets, total_liabilities, net_worth,
			transactions, error, created_at
		FROM analyses
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			run    Run
			status string
		)
		if err := rows.Scan(&run.ID, &run.Filename, &status, &run.DurationMS,
			&run.TotalExpenses, &run.TotalIncome, &run.TotalAssets, &run.TotalLiabilities, &run.NetWorth,
			&run.Transactions, &run.Error, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning analysis row: %w", err)
		}
		run.Status = Status(status)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	return runs, nil
}
