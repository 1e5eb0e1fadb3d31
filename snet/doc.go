// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package snet implements the spiking network at the center of the control
loop: leaky integrate-and-fire neurons organized into input, hidden, and
output layers, connected by synapses that carry a bounded weight and a
decaying eligibility trace.

Input neurons generate spikes from per-channel stimulation frequencies
using a renewal process (Poisson by default, or a deterministic periodic
generator).  Hidden and output neurons integrate synaptic current into a
membrane potential that decays toward rest, spikes at threshold, resets,
and then sits out a refractory period.  All per-tick randomness comes from
an explicitly passed rand source, so identical seeds replay identically.

Learning is reward-modulated: each tick the eligibility traces are updated
from the spikes just produced, and a global reward scalar multiplies the
traces into immediate, clamped weight changes (DWtFmDa then WtFmDWt).
Weights persist across episodes; everything else resets.
*/
package snet
