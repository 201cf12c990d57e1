// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/shiftcrack/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Run kinds recorded in history.
const (
	KindText     = "text"
	KindWord     = "word"
	KindAnalysis = "analysis"
)

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			kind TEXT NOT NULL,
			direction TEXT NOT NULL,
			alphabet TEXT NOT NULL,
			params TEXT NOT NULL,
			input TEXT NOT NULL,
			output TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS word_shifts (
			run_id INTEGER NOT NULL,
			word_index INTEGER NOT NULL,
			original TEXT NOT NULL,
			shift INTEGER NOT NULL,
			transformed TEXT NOT NULL,
			PRIMARY KEY (run_id, word_index)
		);`,
		`CREATE TABLE IF NOT EXISTS frequency_rows (
			run_id INTEGER NOT NULL,
			shift INTEGER NOT NULL,
			letter TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, shift, letter)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a run and, for word mode, its per-word shift log.
func (s *Store) InsertRun(ctx context.Context, rec model.RunRecord, entries []model.ShiftLogEntry) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	id, err = insertRunRow(ctx, tx, rec)
	if err != nil {
		return 0, err
	}
	if len(entries) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO word_shifts (run_id, word_index, original, shift, transformed) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer closeStmt(stmt)
		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, id, e.WordIndex, e.Original, e.Shift, e.Transformed); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertAnalysis stores an analysis run and its frequency table.
func (s *Store) InsertAnalysis(ctx context.Context, rec model.RunRecord, table model.FrequencyTable) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	id, err = insertRunRow(ctx, tx, rec)
	if err != nil {
		return 0, err
	}
	if len(table.Rows) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO frequency_rows (run_id, shift, letter, count) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer closeStmt(stmt)
		for _, row := range table.Rows {
			for _, letter := range table.Alphabet {
				if _, err := stmt.ExecContext(ctx, id, row.Shift, string(letter), row.Counts[letter]); err != nil {
					return 0, err
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func insertRunRow(ctx context.Context, tx *sql.Tx, rec model.RunRecord) (int64, error) {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, kind, direction, alphabet, params, input, output)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		createdAt.Format(time.RFC3339Nano),
		rec.Kind,
		string(rec.Direction),
		rec.Alphabet,
		rec.Params,
		rec.Input,
		rec.Output,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRuns returns the most recent runs, newest last. Empty kind matches all.
func (s *Store) ListRuns(ctx context.Context, kind string, limit int) ([]model.RunRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, kind)
	}
	limitClause := ""
	if limit > 0 {
		limitClause = "LIMIT ?"
		args = append(args, limit)
	}
	query := fmt.Sprintf(`SELECT id, created_at, kind, direction, alphabet, params, input, output FROM (
		SELECT * FROM runs
		WHERE %s
		ORDER BY id DESC
		%s
	) ORDER BY id ASC`, strings.Join(clauses, " AND "), limitClause)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var runs []model.RunRecord
	for rows.Next() {
		var rec model.RunRecord
		var createdAt, direction string
		if err := rows.Scan(&rec.ID, &createdAt, &rec.Kind, &direction, &rec.Alphabet, &rec.Params, &rec.Input, &rec.Output); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		rec.CreatedAt = parsed
		rec.Direction = model.Direction(direction)
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun returns a single run by id.
func (s *Store) GetRun(ctx context.Context, id int64) (model.RunRecord, error) {
	var rec model.RunRecord
	var createdAt, direction string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, kind, direction, alphabet, params, input, output FROM runs WHERE id = ?`, id,
	).Scan(&rec.ID, &createdAt, &rec.Kind, &direction, &rec.Alphabet, &rec.Params, &rec.Input, &rec.Output)
	if err != nil {
		return model.RunRecord{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.RunRecord{}, err
	}
	rec.CreatedAt = parsed
	rec.Direction = model.Direction(direction)
	return rec, nil
}

// ListWordShifts returns the word log of a run ordered by word index.
func (s *Store) ListWordShifts(ctx context.Context, runID int64) ([]model.ShiftLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word_index, original, shift, transformed FROM word_shifts WHERE run_id = ? ORDER BY word_index ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var entries []model.ShiftLogEntry
	for rows.Next() {
		var e model.ShiftLogEntry
		if err := rows.Scan(&e.WordIndex, &e.Original, &e.Shift, &e.Transformed); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetFrequencyTable rebuilds the stored table of an analysis run.
func (s *Store) GetFrequencyTable(ctx context.Context, runID int64) (model.FrequencyTable, error) {
	var alphabet string
	if err := s.db.QueryRowContext(ctx, `SELECT alphabet FROM runs WHERE id = ?`, runID).Scan(&alphabet); err != nil {
		return model.FrequencyTable{}, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT shift, letter, count FROM frequency_rows WHERE run_id = ? ORDER BY shift ASC`, runID)
	if err != nil {
		return model.FrequencyTable{}, err
	}
	defer closeRows(rows)

	table := model.FrequencyTable{Alphabet: alphabet}
	for rows.Next() {
		var shift, count int
		var letter string
		if err := rows.Scan(&shift, &letter, &count); err != nil {
			return model.FrequencyTable{}, err
		}
		if n := len(table.Rows); n == 0 || table.Rows[n-1].Shift != shift {
			table.Rows = append(table.Rows, model.FrequencyRow{Shift: shift, Counts: map[rune]int{}})
		}
		for _, r := range letter {
			table.Rows[len(table.Rows)-1].Counts[r] = count
		}
	}
	if err := rows.Err(); err != nil {
		return model.FrequencyTable{}, err
	}
	return table, nil
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}

func closeStmt(stmt *sql.Stmt) {
	if cerr := stmt.Close(); cerr != nil {
		// Best-effort statement close.
		_ = cerr
	}
}
