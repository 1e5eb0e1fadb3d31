// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snet

import (
	"fmt"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/goki/ki/bitflag"
	"github.com/goki/ki/kit"
)

// NeuronVarStart is the byte offset of fields in the Neuron structure
// where the float32 named variables start.
// Note: all non-float32 infrastructure variables must be at the start!
const NeuronVarStart = 8

// snet.Neuron holds all of the neuron (unit) level variables for the
// integrate-and-fire model.  This is a tagged variant: the same state shape
// serves input, hidden, and output neurons, dispatched on Kind.
// All variables accessible via VarByName / VarByIndex must be float32 and
// start at NeuronVarStart, in contiguous order.
type Neuron struct {
	Flags NeurFlags  `desc:"bit flags for binary state variables"`
	Kind  NeuronKind `desc:"which layer this neuron belongs to (input, hidden, output) -- determines how it is updated each tick"`

	Spike float32 `desc:"whether neuron has spiked or not this tick (0 or 1)"`
	Vm    float32 `desc:"membrane potential -- integrates Inet current over time, decays toward Act.Rest, clamped to Act.VmRange"`
	Inet  float32 `desc:"net current produced by excitatory input and leak -- drives update of Vm"`
	Ge    float32 `desc:"integrated excitatory synaptic conductance -- time-integral of GeRaw"`
	GeRaw float32 `desc:"raw excitatory conductance received from sending units this tick (spikes weighted by synaptic weight)"`

	RefracCyc float32 `desc:"refractory countdown in ticks -- while > 0 the neuron ignores input and cannot spike -- never negative"`
	ISI       float32 `desc:"current inter-spike-interval -- counts up ticks since last spike.  Starts at -1 when initialized, meaning no spike yet"`
	ISIAvg    float32 `desc:"average inter-spike-interval -- average ticks between spikes.  Starts at -1 when initialized, and goes to -2 after first spike, and is only valid after the second spike post-initialization"`
}

// NeuronVars are the names of the float32 neuron variables, in field order,
// for observability interfaces (snapshots, logging, tests).
var NeuronVars = []string{"Spike", "Vm", "Inet", "Ge", "GeRaw", "RefracCyc", "ISI", "ISIAvg"}

var NeuronVarsMap map[string]int

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

func (nrn *Neuron) VarNames() []string {
	return NeuronVars
}

// NeuronVarByName returns the index of the variable in the Neuron, or error
func NeuronVarByName(varNm string) (int, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("Neuron VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) VarByIndex(idx int) float32 {
	fv := (*float32)(unsafe.Pointer(uintptr(unsafe.Pointer(nrn)) + uintptr(NeuronVarStart+4*idx)))
	return *fv
}

// VarByName returns variable by name, or error
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, err := NeuronVarByName(varNm)
	if err != nil {
		return math32.NaN(), err
	}
	return nrn.VarByIndex(i), nil
}

func (nrn *Neuron) HasFlag(flag NeurFlags) bool {
	return bitflag.Has32(int32(nrn.Flags), int(flag))
}

func (nrn *Neuron) SetFlag(flag NeurFlags) {
	bitflag.Set32((*int32)(&nrn.Flags), int(flag))
}

func (nrn *Neuron) ClearFlag(flag NeurFlags) {
	bitflag.Clear32((*int32)(&nrn.Flags), int(flag))
}

// IsOff returns true if the neuron has been turned off (lesioned)
func (nrn *Neuron) IsOff() bool {
	return nrn.HasFlag(NeurOff)
}

//////////////////////////////////////////////////////////////////////////////////////
//  NeuronKind

// NeuronKind is the layer role of a neuron: the same Neuron state shape is
// used for all roles, with integration dispatched by a switch over Kind.
type NeuronKind int32

//go:generate stringer -type=NeuronKind

var KiT_NeuronKind = kit.Enums.AddEnum(NeuronKindN, kit.NotBitFlag, nil)

func (ev NeuronKind) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *NeuronKind) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The neuron kinds
const (
	// Input neurons generate spikes from stimulation frequencies via the
	// configured renewal process -- they do not integrate synaptic current
	Input NeuronKind = iota

	// Hidden neurons integrate synaptic current from input (and other hidden)
	// neurons and relay spiking activity toward the output layer
	Hidden

	// Output neurons integrate synaptic current -- their spike rates over a
	// decision window are decoded into the ship action
	Output

	NeuronKindN
)

//////////////////////////////////////////////////////////////////////////////////////
//  NeurFlags

// NeurFlags are bit-flags encoding relevant binary state for neurons
type NeurFlags int32

//go:generate stringer -type=NeurFlags

var KiT_NeurFlags = kit.Enums.AddEnum(NeurFlagsN, kit.BitFlag, nil)

func (ev NeurFlags) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *NeurFlags) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The neuron flags
const (
	// NeurOff flag indicates that this neuron has been turned off (i.e., lesioned)
	NeurOff NeurFlags = iota

	// NeurHasStim means the neuron is currently driven by a nonzero
	// stimulation frequency from the sensory encoder
	NeurHasStim

	NeurFlagsN
)
