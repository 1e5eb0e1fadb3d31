// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snet

import (
	"fmt"

	"github.com/chewxy/math32"
)

// DivergedError reports a non-finite value in the simulation state: a
// membrane potential or synaptic weight that went NaN or Inf.  It is fatal
// to the current episode but not to the run: the loop aborts the episode
// and starts a fresh one with the last-good weights retained.
type DivergedError struct {
	Var string  `desc:"name of the diverged variable (Vm or Wt)"`
	Idx int     `desc:"index of the neuron (for Vm) or synapse (for Wt)"`
	Val float32 `desc:"the offending value"`
}

func (de *DivergedError) Error() string {
	return fmt.Sprintf("snet: simulation diverged: %s[%d] = %v is not finite", de.Var, de.Idx, de.Val)
}

// Finite returns true if the value is neither NaN nor infinite
func Finite(val float32) bool {
	return !math32.IsNaN(val) && !math32.IsInf(val, 0)
}
