// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package decode turns windows of output-layer spikes into discrete ship
actions.

The decoder accumulates output spikes over a decision window of a fixed
number of ticks.  When the window closes it computes each output
neuron's firing rate and selects the action of the highest-rate neuron,
with ties resolved by the fixed priority Thrust > Left > Right > None.
If every rate is below the configured threshold the window is ambiguous
and None is selected (logged by the caller, never an error).  Between
window closes the previously decoded action stays in force, so the ship
never changes control mid-window.
*/
package decode
