// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"fmt"

	"github.com/emer/astroloop/snet"
)

// decode.Params has the decision-window parameters
type Params struct {
	Window  int     `def:"10" min:"1" desc:"decision window length in ticks -- the decoded action is held for this many ticks"`
	RateThr float32 `def:"5" min:"0" desc:"minimum firing rate in Hz -- if every output neuron is below this at window close, the decode is ambiguous and None is selected"`
}

func (dp *Params) Defaults() {
	dp.Window = 10
	dp.RateThr = 5
}

// Update must be called after any changes to parameters
func (dp *Params) Update() {
}

// Validate returns an error for parameter values that cannot decode
func (dp *Params) Validate() error {
	if dp.Window < 1 {
		return fmt.Errorf("decode: Window is %d ticks -- must be at least 1", dp.Window)
	}
	if dp.RateThr < 0 {
		return fmt.Errorf("decode: RateThr is %g Hz -- must not be negative", dp.RateThr)
	}
	return nil
}

// decode.Decoder accumulates output-layer spikes over the decision window
// and decodes one ActionCommand per window close.  The output layer must
// have exactly ActionN neurons, one per action in constant order.
type Decoder struct {
	Params

	OutStart int           `inactive:"+" desc:"global index of the first output neuron, set at Init"`
	Counts   []int         `inactive:"+" desc:"per output neuron spike counts for the open window"`
	Tick     int           `inactive:"+" desc:"ticks accumulated in the open window"`
	Rates    []float32     `inactive:"+" desc:"firing rates in Hz from the last closed window"`
	CurAct   ActionCommand `inactive:"+" desc:"current action -- persists between window closes"`
	Ambig    bool          `inactive:"+" desc:"last closed window had all rates below threshold"`
	NAmbig   int           `inactive:"+" desc:"total ambiguous windows since Init"`
}

func NewDecoder() *Decoder {
	dc := &Decoder{}
	dc.Defaults()
	return dc
}

// Init opens a fresh window with the action reset to None.  outStart is
// the global index of the first output neuron.
func (dc *Decoder) Init(outStart int) {
	dc.OutStart = outStart
	if len(dc.Counts) != int(ActionN) {
		dc.Counts = make([]int, ActionN)
		dc.Rates = make([]float32, ActionN)
	}
	for i := range dc.Counts {
		dc.Counts[i] = 0
		dc.Rates[i] = 0
	}
	dc.Tick = 0
	dc.CurAct = None
	dc.Ambig = false
	dc.NAmbig = 0
}

// EpisodeInit reopens the window and resets the action to None for a
// new episode.  The ambiguity total keeps counting across episodes.
func (dc *Decoder) EpisodeInit() {
	for i := range dc.Counts {
		dc.Counts[i] = 0
		dc.Rates[i] = 0
	}
	dc.Tick = 0
	dc.CurAct = None
	dc.Ambig = false
}

// AddSpikes accumulates one tick's spike events into the open window.
// Only output-layer events are counted; events from other layers are
// ignored, so the full per-tick event list can be passed straight in.
func (dc *Decoder) AddSpikes(evs []snet.SpikeEvent) {
	for _, ev := range evs {
		if ev.Kind != snet.Output {
			continue
		}
		oi := int(ev.Ni) - dc.OutStart
		if oi >= 0 && oi < len(dc.Counts) {
			dc.Counts[oi]++
		}
	}
	dc.Tick++
}

// WindowDone reports whether the open window has accumulated a full
// Window of ticks and is ready to Decode
func (dc *Decoder) WindowDone() bool {
	return dc.Tick >= dc.Window
}

// Decode closes the window: firing rates are spike count over window
// duration (Window ticks of dt seconds each), the highest rate wins, and
// equal rates resolve to the lower action value.  If every rate is below
// RateThr the decode is ambiguous: the action is None and the second
// return value is true.  The decoded action persists as CurAction until
// the next close.  Counts and tick reset for the next window.
func (dc *Decoder) Decode(dt float32) (ActionCommand, bool) {
	dur := float32(dc.Window) * dt
	best := Thrust
	for i := range dc.Counts {
		dc.Rates[i] = float32(dc.Counts[i]) / dur
		if dc.Rates[i] > dc.Rates[best] {
			best = ActionCommand(i)
		}
		dc.Counts[i] = 0
	}
	dc.Tick = 0
	dc.Ambig = dc.Rates[best] < dc.RateThr
	if dc.Ambig {
		dc.NAmbig++
		dc.CurAct = None
	} else {
		dc.CurAct = best
	}
	return dc.CurAct, dc.Ambig
}

// CurAction returns the action currently in force: the result of the
// last window close, or None before the first
func (dc *Decoder) CurAction() ActionCommand {
	return dc.CurAct
}
