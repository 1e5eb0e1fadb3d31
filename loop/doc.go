// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package loop closes the control loop: encode → simulate → decode →
physics → feedback, strictly sequential within a tick.

Controller owns the spiking network, the action decoder, the
asteroid-field world and the reward shaper, and drives them from a
single Config.  StepTick runs one complete tick; RunEpisode steps until
collision or timeout; Run executes the configured episode budget,
logging and skipping diverged episodes while keeping the weights
learned so far.  Episode resets clear neuron state, eligibility traces,
the decode window and the reward accumulators, and always retain
synaptic weights.

The network is driven through the SpikeSource capability, so another
spike producer (a hardware rig) can stand in for the simulation.

Observers receive an immutable per-tick Snapshot after feedback has
been applied; the fan-out is synchronous and copies every slice, so the
loop never blocks on or shares state with a renderer or exporter.

All randomness flows through sources derived from Config.Seed plus the
run number: an identical seed and config reproduces the identical
snapshot sequence.
*/
package loop
