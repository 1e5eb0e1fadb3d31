// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snet

import (
	"math/rand"

	"github.com/emer/etable/minmax"
	"github.com/goki/ki/kit"
)

///////////////////////////////////////////////////////////////////////
//  act.go contains the activation params and functions for the
//  integrate-and-fire neuron model

// snet.ActParams contains all the activation computation params and functions
// for the leaky integrate-and-fire neuron, at the neuron level.
// This is included in snet.Network to drive the computation.
type ActParams struct {
	Init ActInitParams  `view:"inline" desc:"initial values for key network state variables -- initialized at start of episode with InitActs"`
	Dt   DtParams       `view:"inline" desc:"time and rate constants for temporal derivatives / updating of activation state"`
	Gen  SpikeGenParams `view:"inline" desc:"how input-layer neurons generate spikes from stimulation frequencies"`

	Rest        float32    `def:"0.3" desc:"resting membrane potential -- Vm decays toward this value with time constant Dt.VmTau"`
	Thr         float32    `def:"0.5" desc:"membrane potential threshold for spiking -- crossing it emits a spike and resets Vm"`
	Reset       float32    `def:"0.3" desc:"post-spike reset value for the membrane potential"`
	Gbar        float32    `def:"1" min:"0" desc:"maximal conductance level -- multiplies the integrated synaptic conductance Ge in computing net current"`
	RefracTicks float32    `def:"3" min:"0" desc:"refractory period in ticks after a spike, during which incoming current is ignored and no spike can occur"`
	VmRange     minmax.F32 `view:"inline" desc:"range for Vm membrane potential -- clamped every tick to guarantee bounded values"`
}

func (ac *ActParams) Defaults() {
	ac.Init.Defaults()
	ac.Dt.Defaults()
	ac.Gen.Defaults()
	ac.Rest = 0.3
	ac.Thr = 0.5
	ac.Reset = 0.3
	ac.Gbar = 1
	ac.RefracTicks = 3
	ac.VmRange.Max = 2.0
	ac.Update()
}

// Update must be called after any changes to parameters
func (ac *ActParams) Update() {
	ac.Init.Update()
	ac.Dt.Update()
	ac.Gen.Update()
}

///////////////////////////////////////////////////////////////////////
//  Init

// InitActs initializes activation state in neuron -- called at episode
// start: every neuron returns to rest, spikes and refractory countdowns
// clear, but synaptic weights are untouched.
func (ac *ActParams) InitActs(nrn *Neuron) {
	nrn.Spike = 0
	nrn.Vm = ac.Init.Vm
	nrn.Inet = 0
	nrn.Ge = ac.Init.Ge
	nrn.GeRaw = 0
	nrn.RefracCyc = 0
	nrn.ISI = -1
	nrn.ISIAvg = -1
}

///////////////////////////////////////////////////////////////////////
//  Cycle

// GeFmRaw integrates Ge excitatory conductance from the raw spike-weighted
// input received this tick, then clears the raw accumulator for the next tick.
func (ac *ActParams) GeFmRaw(nrn *Neuron) {
	ac.Dt.GFmRaw(nrn.GeRaw, &nrn.Ge)
	nrn.GeRaw = 0
}

// VmFmG computes membrane potential Vm from the integrated conductance Ge.
// Vm decays toward Rest and is clamped into VmRange.
func (ac *ActParams) VmFmG(nrn *Neuron) {
	ge := nrn.Ge * ac.Gbar
	nrn.Inet = ge - (nrn.Vm - ac.Rest)
	nwVm := nrn.Vm + ac.Dt.VmDt*nrn.Inet
	nrn.Vm = ac.VmRange.ClipVal(nwVm)
}

// SpikeFmVm computes the discrete spike from the membrane potential: a
// threshold crossing emits a spike, resets Vm, and starts the refractory
// countdown.
func (ac *ActParams) SpikeFmVm(nrn *Neuron) {
	if nrn.Vm >= ac.Thr {
		nrn.Spike = 1
		nrn.Vm = ac.Reset
		nrn.RefracCyc = ac.RefracTicks
		ac.ISIFmSpike(nrn)
		nrn.ISI = 0
	} else {
		nrn.Spike = 0
		if nrn.ISI >= 0 {
			nrn.ISI++
		}
	}
}

// RefracStep handles one tick for a neuron in its refractory period:
// incoming current is discarded, the countdown decrements (never below
// zero), and no spike can occur.  Returns true if the neuron was
// refractory this tick.
func (ac *ActParams) RefracStep(nrn *Neuron) bool {
	if nrn.RefracCyc <= 0 {
		return false
	}
	nrn.RefracCyc--
	if nrn.RefracCyc < 0 {
		nrn.RefracCyc = 0
	}
	nrn.Spike = 0
	nrn.GeRaw = 0
	nrn.Ge = 0
	nrn.Inet = 0
	if nrn.ISI >= 0 {
		nrn.ISI++
	}
	return true
}

// ISIFmSpike updates the average inter-spike-interval from the current ISI
// at the point of a new spike.  ISIAvg is -1 before any spike, -2 after the
// first, and a running average thereafter.
func (ac *ActParams) ISIFmSpike(nrn *Neuron) {
	if nrn.ISIAvg == -1 {
		nrn.ISIAvg = -2
	} else if nrn.ISI > 0 {
		if nrn.ISIAvg == -2 {
			nrn.ISIAvg = nrn.ISI
		} else {
			nrn.ISIAvg += ac.Dt.ISIDt * (nrn.ISI - nrn.ISIAvg)
		}
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  ActInitParams

// ActInitParams are initial values for key network state variables.
// Initialized at start of episode with InitActs.
type ActInitParams struct {
	Vm float32 `def:"0.4" desc:"initial membrane potential -- see Rest for the resting potential (typically .3) -- often works better to have a somewhat elevated initial membrane potential relative to that"`
	Ge float32 `def:"0" desc:"baseline level of excitatory conductance (net input) -- Ge is initialized to this value -- captures tonic drive not represented in the model"`
}

func (ai *ActInitParams) Update() {
}

func (ai *ActInitParams) Defaults() {
	ai.Vm = 0.4
	ai.Ge = 0
}

//////////////////////////////////////////////////////////////////////////////////////
//  DtParams

// DtParams are time and rate constants for temporal derivatives in the
// neuron update (Vm, synaptic conductance, ISI averaging)
type DtParams struct {
	Integ  float32 `def:"1" min:"0" desc:"overall rate constant for numerical integration, for all equations at the unit level -- all time constants are specified in tick units -- for improved numerical stability you may need to reduce this value to 0.5 or lower"`
	VmTau  float32 `def:"3.3" min:"1" desc:"membrane potential time constant in ticks (roughly, how long it takes for value to change significantly -- 1.4x the half-life) -- reflects the capacitance of the neuron in principle"`
	GTau   float32 `def:"1.4" min:"1" desc:"time constant for integrating synaptic conductances, in ticks -- damps single-tick spike impulses into a decaying current"`
	ISITau float32 `def:"5" min:"1" desc:"time constant for integrating the average inter-spike-interval, in spikes"`

	VmDt  float32 `view:"-" json:"-" xml:"-" desc:"nominal rate = Integ / tau"`
	GDt   float32 `view:"-" json:"-" xml:"-" desc:"rate = Integ / tau"`
	ISIDt float32 `view:"-" json:"-" xml:"-" desc:"rate = 1 / tau"`
}

func (dp *DtParams) Update() {
	dp.VmDt = dp.Integ / dp.VmTau
	dp.GDt = dp.Integ / dp.GTau
	dp.ISIDt = 1 / dp.ISITau
}

func (dp *DtParams) Defaults() {
	dp.Integ = 1
	dp.VmTau = 3.3
	dp.GTau = 1.4
	dp.ISITau = 5
	dp.Update()
}

func (dp *DtParams) GFmRaw(geRaw float32, ge *float32) {
	*ge += dp.GDt * (geRaw - *ge)
}

//////////////////////////////////////////////////////////////////////////////////////
//  SpikeGen

// SpikeGenType are the different renewal processes for generating input-layer
// spikes from a stimulation frequency
type SpikeGenType int

//go:generate stringer -type=SpikeGenType

var KiT_SpikeGenType = kit.Enums.AddEnum(SpikeGenTypeN, kit.NotBitFlag, nil)

func (ev SpikeGenType) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *SpikeGenType) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The spike generator types
const (
	// Poisson draws a spike each tick with probability hz * dt from the
	// passed rand source -- a Poisson renewal process in the small-dt limit.
	// Reproducible only for identical seeds.
	Poisson SpikeGenType = iota

	// Periodic spikes deterministically every round(1/(hz*dt)) ticks --
	// identical across runs regardless of seed.
	Periodic

	SpikeGenTypeN
)

// SpikeGenParams determine how input-layer neurons generate spikes from the
// per-channel stimulation frequencies supplied by the sensory encoder.
type SpikeGenParams struct {
	Type   SpikeGenType `desc:"renewal process used for spike generation -- this choice determines reproducibility, so it is an explicit parameter: Poisson (default) matches stochastic stimulation, Periodic gives seed-independent deterministic timing"`
	Refrac float32      `def:"0" min:"0" desc:"refractory ticks enforced between generated input spikes -- 0 (default) leaves timing entirely to the generator, preserving the encoded frequency at the top of the range"`
}

func (sg *SpikeGenParams) Defaults() {
	sg.Type = Poisson
	sg.Refrac = 0
}

func (sg *SpikeGenParams) Update() {
}

// GenSpike generates this tick's spike (or not) for an input neuron driven
// at the given frequency (Hz) over timestep dt (seconds), using the passed
// rand source for the Poisson case.  Respects any configured generator
// refractory period via the neuron's RefracCyc countdown.
func (sg *SpikeGenParams) GenSpike(nrn *Neuron, hz, dt float32, rnd *rand.Rand) {
	if nrn.RefracCyc > 0 {
		nrn.RefracCyc--
		if nrn.RefracCyc < 0 {
			nrn.RefracCyc = 0
		}
		nrn.Spike = 0
		if nrn.ISI >= 0 {
			nrn.ISI++
		}
		return
	}
	spike := false
	switch sg.Type {
	case Poisson:
		p := hz * dt
		if p > 0 {
			if p > 1 {
				p = 1
			}
			spike = rnd.Float32() < p
		}
	case Periodic:
		if hz > 0 {
			itv := int(1/(hz*dt) + 0.5)
			if itv < 1 {
				itv = 1
			}
			spike = nrn.ISI < 0 || int(nrn.ISI)+1 >= itv
		}
	}
	if spike {
		nrn.Spike = 1
		nrn.RefracCyc = sg.Refrac
		nrn.ISI = 0
	} else {
		nrn.Spike = 0
		if nrn.ISI >= 0 {
			nrn.ISI++
		}
	}
}
