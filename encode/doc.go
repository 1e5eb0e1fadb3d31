// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package encode maps the current threat geometry around the ship into
per-channel stimulation frequencies for the spiking network's input
layer.

Channels correspond to spatial sectors relative to the ship's heading:
sector 0 is a narrow front cone, and the remaining sectors sweep
counter-clockwise (to the ship's left) around the rest of the circle.
The k nearest visible threats are scored by distance, closing speed,
and size; within a sector the worst threat dominates.  Intensities in
[0, 1] project onto the configured frequency range, so an empty sector
still drives its channel at the baseline frequency and the network
stays tonically active.

Encoding is a pure function of the poses passed in: the world invokes
it after each step so its state tensors always reflect the current
tick, and tests can drive it directly.
*/
package encode
