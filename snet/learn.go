// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snet

import (
	"math/rand"

	"github.com/emer/emergent/erand"
	"github.com/emer/etable/minmax"
)

///////////////////////////////////////////////////////////////////////
//  learn.go contains the eligibility-trace and reward-modulated
//  learning params and functions

// TraceParams govern the fast, local plasticity loop: per-synapse
// eligibility traces that mark recent causal spiking activity,
// independent of outcome.
type TraceParams struct {
	Inc   float32 `def:"1" min:"0" desc:"amount added to the eligibility trace each tick the sending neuron spikes"`
	Decay float32 `def:"0.2" min:"0" max:"1" desc:"proportion of the eligibility trace that decays away each tick -- sets the credit-assignment time window: at 0.2 and dt = 10 msec, the trace half-life is about 31 msec"`
}

func (tp *TraceParams) Defaults() {
	tp.Inc = 1
	tp.Decay = 0.2
}

func (tp *TraceParams) Update() {
}

// TrFmSpike returns the updated eligibility trace from the current trace
// value and the sending neuron's spike (0 or 1) this tick:
// tr += Inc * spike - Decay * tr
func (tp *TraceParams) TrFmSpike(tr, spike float32) float32 {
	return tr + tp.Inc*spike - tp.Decay*tr
}

// snet.LearnParams manages all the synapse-level learning state and
// computation: weight initialization, the slow reward-modulated loop that
// converts reward x trace into weight changes, and the hard weight bounds.
type LearnParams struct {
	Trace  TraceParams     `view:"inline" desc:"eligibility trace parameters -- the fast local loop"`
	Lrate  float32         `def:"0.1" min:"0" desc:"learning rate multiplying reward x trace in computing the weight change"`
	WtInit erand.RndParams `view:"inline" desc:"initial random weight distribution -- Mean and Var with Dist = Uniform by default"`

	WtRange minmax.F32 `view:"inline" desc:"hard bounds for synaptic weights -- every applied weight change is clipped into this range, so weights remain bounded after every tick"`
}

func (lp *LearnParams) Defaults() {
	lp.Trace.Defaults()
	lp.Lrate = 0.1
	lp.WtInit.Mean = 0.5
	lp.WtInit.Var = 0.25
	lp.WtInit.Dist = erand.Uniform
	lp.WtRange.Min = 0
	lp.WtRange.Max = 1
	lp.Update()
}

// Update must be called after any changes to parameters
func (lp *LearnParams) Update() {
	lp.Trace.Update()
}

// InitWts initializes the synapse weight from the WtInit random
// distribution using the passed rand source, and clears learning state.
func (lp *LearnParams) InitWts(sy *Synapse, rnd *rand.Rand) {
	sy.Wt = lp.WtRange.ClipVal(RndGen(&lp.WtInit, rnd))
	sy.DWt = 0
	sy.Tr = 0
}

// DWtFmDa computes the weight change from the global reward scalar da
// (positive = reinforce, negative = punish) and the synapse's current
// eligibility trace: dwt = Lrate * da * tr.
func (lp *LearnParams) DWtFmDa(sy *Synapse, da float32) {
	sy.DWt += lp.Lrate * da * sy.Tr
}

// WtFmDWt applies the pending weight change, clipping the result into
// WtRange, and zeroes the pending change.
func (lp *LearnParams) WtFmDWt(sy *Synapse) {
	if sy.DWt != 0 {
		sy.Wt = lp.WtRange.ClipVal(sy.Wt + sy.DWt)
		sy.DWt = 0
	}
}

// RndGen generates a value from the given distribution parameters using
// the passed rand source.  Unlike RndParams.Gen, which draws from package
// global state, this keeps all randomness on the explicitly threaded
// source so runs replay identically from a seed.  Uniform spans
// Mean +/- Var; Gaussian uses Var as the standard deviation; anything
// else returns Mean.
func RndGen(rp *erand.RndParams, rnd *rand.Rand) float32 {
	switch rp.Dist {
	case erand.Uniform:
		return float32(rp.Mean + rp.Var*(2*rnd.Float64()-1))
	case erand.Gaussian:
		return float32(rp.Mean + rp.Var*rnd.NormFloat64())
	default:
		return float32(rp.Mean)
	}
}
