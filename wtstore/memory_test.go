// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wtstore

import (
	"context"
	"testing"
	"time"
)

func TestMemStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := []WtEntry{{Si: 0, Ri: 2, Wt: 0.5}, {Si: 1, Ri: 2, Wt: 0.75}}
	run := RunInfo{
		ID:          "run-1",
		Name:        "baseline",
		Episodes:    20,
		FinalReward: 4.25,
		SavedAt:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.SaveRun(ctx, run, input); err != nil {
		t.Fatalf("save run: %v", err)
	}

	got, entries, ok, err := store.LoadRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted run")
	}
	if got != run {
		t.Fatalf("unexpected run info: %+v", got)
	}
	if len(entries) != 2 || entries[1].Wt != 0.75 {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	_, _, ok, err = store.LoadRun(ctx, "no-such-run")
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if ok {
		t.Fatal("missing run must report ok = false")
	}
}

func TestMemStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	run := RunInfo{ID: "run-1", Name: "first", Episodes: 10}
	if err := store.SaveRun(ctx, run, []WtEntry{{Si: 0, Ri: 1, Wt: 0.5}, {Si: 0, Ri: 2, Wt: 0.5}}); err != nil {
		t.Fatalf("save run: %v", err)
	}
	run.Name = "second"
	run.Episodes = 20
	if err := store.SaveRun(ctx, run, []WtEntry{{Si: 0, Ri: 1, Wt: 0.875}}); err != nil {
		t.Fatalf("resave run: %v", err)
	}

	got, entries, ok, err := store.LoadRun(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("load run: ok %v err %v", ok, err)
	}
	if got.Name != "second" || got.Episodes != 20 {
		t.Fatalf("resave must replace info: %+v", got)
	}
	if len(entries) != 1 || entries[0].Wt != 0.875 {
		t.Fatalf("resave must replace entries: %+v", entries)
	}
}

func TestMemStoreListRuns(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, run := range []RunInfo{
		{ID: "run-c", SavedAt: t0.Add(2 * time.Hour)},
		{ID: "run-a", SavedAt: t0},
		{ID: "run-b", SavedAt: t0.Add(time.Hour)},
	} {
		if err := store.SaveRun(ctx, run, nil); err != nil {
			t.Fatalf("save %s: %v", run.ID, err)
		}
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("unexpected run count: %v", len(runs))
	}
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		if runs[i].ID != id {
			t.Errorf("run %v: %v, want %v", i, runs[i].ID, id)
		}
	}
}

func TestMemStoreUninitialized(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	if err := store.SaveRun(ctx, RunInfo{ID: "run-1"}, nil); err == nil {
		t.Error("save before Init must fail")
	}
	if _, _, _, err := store.LoadRun(ctx, "run-1"); err == nil {
		t.Error("load before Init must fail")
	}
	if _, err := store.ListRuns(ctx); err == nil {
		t.Error("list before Init must fail")
	}
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := store.SaveRun(ctx, RunInfo{}, nil); err == nil {
		t.Error("empty run ID must fail")
	}
}

func TestMemStoreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := []WtEntry{{Si: 0, Ri: 1, Wt: 0.5}}
	if err := store.SaveRun(ctx, RunInfo{ID: "run-1"}, input); err != nil {
		t.Fatalf("save run: %v", err)
	}
	input[0].Wt = 99

	_, entries, _, err := store.LoadRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	if entries[0].Wt != 0.5 {
		t.Fatalf("stored entries must not alias the caller's slice: %v", entries[0].Wt)
	}
	entries[0].Wt = 42

	_, again, _, err := store.LoadRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("reload run: %v", err)
	}
	if again[0].Wt != 0.5 {
		t.Fatalf("loaded entries must not alias stored state: %v", again[0].Wt)
	}
}
