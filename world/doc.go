// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package world implements the asteroid-field environment the controller
flies in, as an env.Env.  Each Step advances the world one tick: the
last decoded action steers the ship, asteroids drift, spawn at the
field edges and despawn when they leave, collisions and near misses
are scored, and the sensory encoder refreshes the stimulus state from
the new geometry.

An episode ends in Collision when an asteroid overlaps the ship, or in
Timeout when MaxTicks elapse first.  A near miss latches while an
asteroid is inside the annulus NearMargin beyond contact range, and
scores once when the asteroid leaves again (or despawns) without
hitting.  NextEpisode clears the field and recenters the ship for the
next episode of the same run.
*/
package world
