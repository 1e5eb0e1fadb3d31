// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wtstore

import (
	"context"
	"time"
)

// WtEntry is one synapse's weight, addressed by the global indexes of
// its sending and receiving neurons.
type WtEntry struct {
	Si int32   `desc:"global index of the sending neuron"`
	Ri int32   `desc:"global index of the receiving neuron"`
	Wt float32 `desc:"synaptic weight"`
}

// RunInfo identifies one saved run
type RunInfo struct {
	ID          string    `desc:"unique run id -- a uuid when generated by SaveNetwork"`
	Name        string    `desc:"human-readable run label"`
	Episodes    int       `desc:"number of episodes the run completed"`
	FinalReward float32   `desc:"accumulated reward of the final episode"`
	SavedAt     time.Time `desc:"time the run was saved"`
}

// Store persists run weight tables.  Implementations are safe for
// concurrent use.  Saving an existing run id replaces both its info and
// its weights; loading a missing id reports ok = false with no error.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run RunInfo, entries []WtEntry) error
	LoadRun(ctx context.Context, id string) (RunInfo, []WtEntry, bool, error)
	ListRuns(ctx context.Context) ([]RunInfo, error)
	Close() error
}
