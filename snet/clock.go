// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snet

// snet.Time contains all the timing state and parameter information for
// running the control loop.  One tick = one pass through the full
// encode / simulate / decode / physics / feedback pipeline.
type Time struct {
	Time    float32 `desc:"accumulated amount of time the loop has been running, in simulation-time (not real world time), in seconds"`
	Tick    int     `desc:"tick counter within the current episode -- starts at 0 each episode"`
	TickTot int     `desc:"total tick count -- this increments continuously from whenever it was last reset, across episodes"`
	Episode int     `desc:"episode counter -- incremented by EpisodeInc at the start of each new episode"`

	TimePerTick float32 `def:"0.01" desc:"duration of one tick of simulated time, in seconds"`
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.TimePerTick = 0.01
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Tick = 0
	tm.TickTot = 0
	tm.Episode = 0
	if tm.TimePerTick == 0 {
		tm.Defaults()
	}
}

// EpisodeStart resets the within-episode tick counter at the start of
// an episode, leaving total counts and accumulated time intact.
func (tm *Time) EpisodeStart() {
	tm.Tick = 0
}

// EpisodeInc increments the episode counter and resets the tick counter
func (tm *Time) EpisodeInc() {
	tm.Episode++
	tm.EpisodeStart()
}

// TickInc increments at the tick level
func (tm *Time) TickInc() {
	tm.Tick++
	tm.TickTot++
	tm.Time += tm.TimePerTick
}
