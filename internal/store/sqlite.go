// Package store archives finished exercise sessions.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kiliankoe/calculecrit/internal/game"
	_ "modernc.org/sqlite"
)

// Result is one finished session as archived.
type Result struct {
	Code           string
	Module         int
	Level          int
	Score          int
	TotalQuestions int
	Points         int
	BestStreak     int
	Perfects       int
	FinishedAt     time.Time
}

// ResultFromRoom captures the archive row of a room in the result phase.
func ResultFromRoom(r *game.Room, now time.Time) (Result, error) {
	snap := r.Snapshot()
	if snap.Phase != game.PhaseResult {
		return Result{}, fmt.Errorf("archive session %s: %w: %s", r.Code, game.ErrInvalidPhase, snap.Phase)
	}
	return Result{
		Code:           r.Code,
		Module:         snap.Module,
		Level:          snap.Level,
		Score:          snap.Score,
		TotalQuestions: snap.TotalQuestions,
		Points:         snap.Progress.Points,
		BestStreak:     snap.Progress.BestStreak,
		Perfects:       snap.Progress.Perfects,
		FinishedAt:     now.UTC(),
	}, nil
}

// SQLiteStore keeps results in a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the results database at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL,
		module INTEGER NOT NULL,
		level INTEGER NOT NULL,
		score INTEGER NOT NULL,
		total_questions INTEGER NOT NULL,
		points INTEGER NOT NULL,
		best_streak INTEGER NOT NULL,
		perfects INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_level ON results(level, finished_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save archives one result.
func (s *SQLiteStore) Save(ctx context.Context, r Result) error {
	query := `
		INSERT INTO results (code, module, level, score, total_questions, points, best_streak, perfects, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		r.Code, r.Module, r.Level, r.Score, r.TotalQuestions,
		r.Points, r.BestStreak, r.Perfects, r.FinishedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// Recent returns the latest results of a level, newest first. level 0 means
// every level.
func (s *SQLiteStore) Recent(ctx context.Context, level int, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT code, module, level, score, total_questions, points, best_streak, perfects, finished_at
		FROM results
		WHERE (? = 0 OR level = ?)
		ORDER BY finished_at DESC, id DESC
		LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, level, level, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		var finished int64
		if err := rows.Scan(&r.Code, &r.Module, &r.Level, &r.Score, &r.TotalQuestions,
			&r.Points, &r.BestStreak, &r.Perfects, &finished); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		r.FinishedAt = time.Unix(finished, 0).UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}
