// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wtstore

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// MemStore is the in-memory Store: the default backend, and the fixture
// for tests.  Entries are copied on save and load so callers cannot
// alias stored state.
type MemStore struct {
	mu      sync.RWMutex
	inited  bool
	runs    map[string]RunInfo
	weights map[string][]WtEntry
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = make(map[string]RunInfo)
	s.weights = make(map[string][]WtEntry)
	s.inited = true
	return nil
}

func (s *MemStore) SaveRun(_ context.Context, run RunInfo, entries []WtEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inited {
		return errors.New("wtstore: store is not initialized")
	}
	if run.ID == "" {
		return errors.New("wtstore: run ID is required")
	}
	s.runs[run.ID] = run
	s.weights[run.ID] = append([]WtEntry(nil), entries...)
	return nil
}

func (s *MemStore) LoadRun(_ context.Context, id string) (RunInfo, []WtEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.inited {
		return RunInfo{}, nil, false, errors.New("wtstore: store is not initialized")
	}
	run, ok := s.runs[id]
	if !ok {
		return RunInfo{}, nil, false, nil
	}
	return run, append([]WtEntry(nil), s.weights[id]...), true, nil
}

func (s *MemStore) ListRuns(_ context.Context) ([]RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.inited {
		return nil, errors.New("wtstore: store is not initialized")
	}
	runs := make([]RunInfo, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].SavedAt.Equal(runs[j].SavedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].SavedAt.Before(runs[j].SavedAt)
	})
	return runs, nil
}

func (s *MemStore) Close() error {
	return nil
}
