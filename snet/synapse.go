// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snet

import (
	"fmt"
	"reflect"
)

// snet.Synapse holds state for the synaptic connection between two neurons.
// Weights are the learned state of the system: they persist across episodes
// and are the only values saved by the weight store.  The eligibility trace
// is transient and is cleared at every episode start.
// Note: all float32 variables accessible via VarByName / VarByIndex must
// come first, in contiguous order.
type Synapse struct {
	Wt  float32 `desc:"synaptic weight value -- increments of incoming excitatory conductance per source spike -- always within Learn.WtRange"`
	DWt float32 `desc:"change in synaptic weight, from reward-modulated learning -- applied and zeroed by WtFmDWt"`
	Tr  float32 `desc:"eligibility trace -- decaying marker of recent source-neuron spiking, multiplied by the reward scalar to produce DWt"`

	Si    int32 `desc:"index of the sending (source) neuron"`
	Ri    int32 `desc:"index of the receiving (target) neuron"`
	Delay int32 `desc:"extra conduction delay in ticks -- a spike fired at tick t drives the receiver at tick t+1+Delay, so 0 = arrival on the next tick"`
}

var SynapseVars = []string{"Wt", "DWt", "Tr"}

var SynapseVarsMap map[string]int

func init() {
	SynapseVarsMap = make(map[string]int, len(SynapseVars))
	for i, v := range SynapseVars {
		SynapseVarsMap[v] = i
	}
}

func (sy *Synapse) VarNames() []string {
	return SynapseVars
}

// SynapseVarByName returns the index of the variable in the Synapse, or error
func SynapseVarByName(varNm string) (int, error) {
	i, ok := SynapseVarsMap[varNm]
	if !ok {
		return 0, fmt.Errorf("Synapse VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in SynapseVars list)
func (sy *Synapse) VarByIndex(idx int) float32 {
	// todo: would be ideal to avoid having to use reflect here..
	v := reflect.ValueOf(*sy)
	return v.Field(idx).Interface().(float32)
}

// VarByName returns variable by name, or error
func (sy *Synapse) VarByName(varNm string) (float32, error) {
	i, err := SynapseVarByName(varNm)
	if err != nil {
		return 0, err
	}
	return sy.VarByIndex(i), nil
}

func (sy *Synapse) SetVarByIndex(idx int, val float32) {
	// todo: would be ideal to avoid having to use reflect here..
	v := reflect.ValueOf(sy)
	v.Elem().Field(idx).SetFloat(float64(val))
}

// SetVarByName sets synapse variable to given value
func (sy *Synapse) SetVarByName(varNm string, val float32) error {
	i, err := SynapseVarByName(varNm)
	if err != nil {
		return err
	}
	sy.SetVarByIndex(i, val)
	return nil
}
