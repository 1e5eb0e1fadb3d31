// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wtstore

import (
	"context"
	"fmt"
	"time"

	"github.com/emer/astroloop/snet"
	"github.com/google/uuid"
)

// NetworkEntries returns the network's weight table in the stable
// sender-major order of its synapse slice
func NetworkEntries(nt *snet.Network) []WtEntry {
	entries := make([]WtEntry, len(nt.Syns))
	for i := range nt.Syns {
		sy := &nt.Syns[i]
		entries[i] = WtEntry{Si: sy.Si, Ri: sy.Ri, Wt: sy.Wt}
	}
	return entries
}

// SaveNetwork persists the network's current weights under the given
// run info.  An empty ID gets a fresh uuid and a zero SavedAt the
// current time; the completed info is returned.
func SaveNetwork(ctx context.Context, st Store, nt *snet.Network, info RunInfo) (RunInfo, error) {
	if info.ID == "" {
		info.ID = uuid.NewString()
	}
	if info.SavedAt.IsZero() {
		info.SavedAt = time.Now()
	}
	if err := st.SaveRun(ctx, info, NetworkEntries(nt)); err != nil {
		return RunInfo{}, err
	}
	return info, nil
}

// LoadNetwork sets the network's weights from the run saved under id.
// The network must have the connectivity the weights were saved from;
// learning state (traces, pending changes) is untouched.
func LoadNetwork(ctx context.Context, st Store, nt *snet.Network, id string) (RunInfo, error) {
	info, entries, ok, err := st.LoadRun(ctx, id)
	if err != nil {
		return RunInfo{}, err
	}
	if !ok {
		return RunInfo{}, fmt.Errorf("wtstore: no saved run %s", id)
	}
	for _, e := range entries {
		idx := nt.SynIdx(int(e.Si), int(e.Ri))
		if idx < 0 {
			return RunInfo{}, fmt.Errorf("wtstore: run %s: no synapse %d -> %d in this network", id, e.Si, e.Ri)
		}
		nt.Syns[idx].Wt = e.Wt
	}
	return info, nil
}
