package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockLens/internal/model"
)

// SQLiteRecorder persists analysis runs to a SQLite database.
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
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			period       TEXT,
			interval     TEXT,
			source       TEXT,
			bar_count    INTEGER,
			first_date   TEXT,
			last_date    TEXT,
			latest_close REAL,
			high_52w     REAL,
			low_52w      REAL,
			position_52w REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol_ts ON analysis_runs(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS indicator_points (
			run_id    INTEGER NOT NULL REFERENCES analysis_runs(id),
			date      TEXT NOT NULL,
			indicator TEXT NOT NULL,
			value     REAL,
			PRIMARY KEY (run_id, indicator, date)
		)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// RecordAnalysis stores the run header and every indicator point in one
// transaction. Undefined points are stored as NULL.
func (r *SQLiteRecorder) RecordAnalysis(a *model.Analysis) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := a.ComputedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	var first, last string
	if n := len(a.Bars); n > 0 {
		first = a.Bars[0].Date.Format(model.DateLayout)
		last = a.Bars[n-1].Date.Format(model.DateLayout)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO analysis_runs
		(timestamp, symbol, period, interval, source, bar_count, first_date, last_date,
		 latest_close, high_52w, low_52w, position_52w)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		ts.Unix(), a.Symbol, a.Period, a.Interval, a.Source, len(a.Bars), first, last,
		a.LatestClose(), a.Ranges.High52w, a.Ranges.Low52w, a.Ranges.Position52w,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`INSERT INTO indicator_points (run_id, date, indicator, value) VALUES (?,?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, nl := range a.Indicators {
		for i, v := range nl.Line {
			if i >= len(a.Bars) {
				break
			}
			val := sql.NullFloat64{Float64: v.Float, Valid: v.Valid}
			if _, err := stmt.Exec(runID, a.Bars[i].Date.Format(model.DateLayout), nl.Name, val); err != nil {
				return 0, fmt.Errorf("insert %s point: %w", nl.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// LatestRun loads the most recent run of symbol with the value of each
// indicator at its last date.
func (r *SQLiteRecorder) LatestRun(symbol string) (*Run, error) {
	run := &Run{Latest: make(map[string]model.Value)}
	var ts int64
	err := r.db.QueryRow(`SELECT id, timestamp, symbol, period, interval, source, bar_count,
			first_date, last_date, latest_close, position_52w
		FROM analysis_runs WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT 1`, symbol).
		Scan(&run.ID, &ts, &run.Symbol, &run.Period, &run.Interval, &run.Source, &run.BarCount,
			&run.FirstDate, &run.LastDate, &run.LatestClose, &run.Position52w)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	run.ComputedAt = time.Unix(ts, 0)

	rows, err := r.db.Query(`SELECT indicator, value FROM indicator_points
		WHERE run_id = ? AND date = ?`, run.ID, run.LastDate)
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var val sql.NullFloat64
		if err := rows.Scan(&name, &val); err != nil {
			return nil, err
		}
		run.Latest[name] = model.Value{Float: val.Float64, Valid: val.Valid}
	}
	return run, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
