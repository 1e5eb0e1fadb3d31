// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build sqlite

package wtstore

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists runs in a single sqlite database file
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("wtstore: sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run RunInfo, entries []WtEntry) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if run.ID == "" {
		return errors.New("wtstore: run ID is required")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := saveRunTx(ctx, tx, run, entries); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func saveRunTx(ctx context.Context, tx *sql.Tx, run RunInfo, entries []WtEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, name, episodes, final_reward, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			episodes = excluded.episodes,
			final_reward = excluded.final_reward,
			saved_at = excluded.saved_at
	`, run.ID, run.Name, run.Episodes, run.FinalReward, run.SavedAt.UnixNano())
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM weights WHERE run_id = ?`, run.ID); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO weights (run_id, si, ri, wt) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, run.ID, e.Si, e.Ri, e.Wt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) LoadRun(ctx context.Context, id string) (RunInfo, []WtEntry, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return RunInfo{}, nil, false, err
	}

	var run RunInfo
	var savedAt int64
	err = db.QueryRowContext(ctx, `
		SELECT id, name, episodes, final_reward, saved_at FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Name, &run.Episodes, &run.FinalReward, &savedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunInfo{}, nil, false, nil
		}
		return RunInfo{}, nil, false, err
	}
	run.SavedAt = time.Unix(0, savedAt)

	rows, err := db.QueryContext(ctx, `
		SELECT si, ri, wt FROM weights WHERE run_id = ? ORDER BY si, ri
	`, id)
	if err != nil {
		return RunInfo{}, nil, false, err
	}
	defer rows.Close()

	var entries []WtEntry
	for rows.Next() {
		var e WtEntry
		if err := rows.Scan(&e.Si, &e.Ri, &e.Wt); err != nil {
			return RunInfo{}, nil, false, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return RunInfo{}, nil, false, err
	}
	return run, entries, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]RunInfo, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, episodes, final_reward, saved_at FROM runs ORDER BY saved_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var run RunInfo
		var savedAt int64
		if err := rows.Scan(&run.ID, &run.Name, &run.Episodes, &run.FinalReward, &savedAt); err != nil {
			return nil, err
		}
		run.SavedAt = time.Unix(0, savedAt)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("wtstore: store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			episodes INTEGER NOT NULL,
			final_reward REAL NOT NULL,
			saved_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS weights (
			run_id TEXT NOT NULL,
			si INTEGER NOT NULL,
			ri INTEGER NOT NULL,
			wt REAL NOT NULL,
			PRIMARY KEY (run_id, si, ri)
		);
	`)
	return err
}
