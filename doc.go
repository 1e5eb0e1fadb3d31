// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package astroloop is the overall repository for a closed-loop spiking-neuron
controller driving an asteroid-avoidance task, implemented in the Go language
(golang).

This top-level of the repository has no functional code -- everything is
organized into the following sub-repositories:

* snet: the spiking network simulator -- leaky integrate-and-fire neurons,
synapses with eligibility traces, reward-modulated plasticity, and the
simulation clock.  This is the core of the loop.

* encode: the sensory encoder, mapping asteroid threat geometry into
per-sector stimulation frequencies, plus biphasic pulse-train synthesis
for stimulation hardware.

* decode: the action decoder, accumulating output-layer spikes over a
decision window and extracting one discrete ship action per window.

* world: the asteroid field environment -- ship and asteroid kinematics,
spawning, collision and near-miss detection -- implemented as a standard
emergent env.Env.

* feedback: the reward shaper, turning world events into the per-tick
reward scalar that modulates plasticity.

* loop: the loop controller, orchestrating one full tick of the pipeline
and the episode lifecycle, and emitting per-tick snapshots to observers.

* wtstore: optional persistence of learned synaptic weights across runs,
with in-memory and SQLite backends.

* examples: these compile into runnable programs.  examples/avoid is the
headless training loop that learns to dodge asteroids and logs per-episode
performance.
*/
package astroloop
