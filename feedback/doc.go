// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package feedback computes the slow global reward signal that shapes
synaptic weights.  Each tick the Shaper turns the world's step events
into a scalar reward (da): the collision penalty when the episode ends
in a hit, otherwise the survival bonus plus a bonus per near miss
scored.  The network multiplies da into each synapse's eligibility
trace (snet.Network DWtFmDa then WtFmDWt), so credit flows only through
recently active synapses.

The fast local loop (the eligibility trace itself) lives in snet and
updates from each tick's spikes before the reward multiply.

A configured sensory pause (PausePunish / PauseReward) rests the
network after a feedback delivery: while the countdown runs, the loop
gates stimulation to the baseline frequency instead of the encoded
threat pattern.
*/
package feedback
