package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS payoff_runs (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp           INTEGER NOT NULL,
			plan_id             TEXT,
			strategy            TEXT,
			total_debt          REAL,
			total_interest_paid REAL,
			total_paid          REAL,
			months_to_payoff    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON payoff_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS plan_progress (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp          INTEGER NOT NULL,
			plan_id            TEXT,
			months_elapsed     INTEGER,
			expected_remaining REAL,
			months_left        INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_progress_ts ON plan_progress(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO payoff_runs
		(timestamp, plan_id, strategy, total_debt, total_interest_paid, total_paid, months_to_payoff)
		VALUES (?,?,?,?,?,?,?)`,
		rec.CreatedAt.Unix(), rec.PlanID, rec.Strategy,
		rec.TotalDebt, rec.TotalInterestPaid, rec.TotalPaid,
		rec.MonthsToPayoff,
	)
	return err
}

func (r *SQLiteRecorder) RecordProgress(rec ProgressRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO plan_progress
		(timestamp, plan_id, months_elapsed, expected_remaining, months_left)
		VALUES (?,?,?,?,?)`,
		rec.SnapshotAt.Unix(), rec.PlanID,
		rec.MonthsElapsed, rec.ExpectedRemaining, rec.MonthsLeft,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
