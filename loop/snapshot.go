// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loop

import (
	"github.com/emer/astroloop/decode"
	"github.com/emer/astroloop/snet"
	"github.com/emer/astroloop/world"
)

// Snapshot is one tick of loop state for observers: the full contract
// with any renderer or exporter.  The slices are private copies, so
// retaining a snapshot is safe; nothing here aliases loop state.
type Snapshot struct {
	Tick     int                  `desc:"tick within the episode"`
	Episode  int                  `desc:"episode within the run"`
	Ship     world.Ship           `desc:"ship pose"`
	Asts     []world.Asteroid     `desc:"asteroid states"`
	Spikes   []snet.SpikeEvent    `desc:"spike raster for this tick"`
	Act      decode.ActionCommand `desc:"action in force"`
	Reward   float32              `desc:"reward scalar applied this tick"`
	EpReward float32              `desc:"cumulative reward this episode"`
	Outcome  world.Outcome        `desc:"episode outcome after this tick"`
}

// Observer receives each tick's snapshot, synchronously, after feedback
// has been applied.  An observer is a point of observation, not
// control: it must not mutate the snapshot, and it should return
// promptly since the loop waits for it.
type Observer interface {
	Snapshot(sn *Snapshot)
}
