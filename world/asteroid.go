// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package world

import (
	"github.com/emer/astroloop/encode"
	"github.com/goki/mat32"
)

// Asteroid is one hazard: a circle drifting at constant velocity.
// Near latches when the asteroid enters the near-miss annulus around the
// ship, and scores a single near-miss when it leaves again (or despawns)
// without colliding.
type Asteroid struct {
	ID     int        `desc:"unique id within the run, assigned at spawn"`
	Pos    mat32.Vec2 `desc:"position"`
	Vel    mat32.Vec2 `desc:"velocity"`
	Radius float32    `desc:"radius"`
	Near   bool       `inactive:"+" desc:"inside the near-miss annulus at some point, not yet scored"`
	TTL    int        `inactive:"+" desc:"remaining lifetime in ticks, only used when the world wraps"`
}

// Step integrates position for one tick.  Asteroids ignore drag.
func (as *Asteroid) Step(wp *Params) {
	as.Pos = as.Pos.Add(as.Vel.MulScalar(wp.Dt))
	if wp.Wrap {
		as.Pos.X = wrapCoord(as.Pos.X, wp.Size.X)
		as.Pos.Y = wrapCoord(as.Pos.Y, wp.Size.Y)
		as.TTL--
	}
}

// Gone reports whether the asteroid should despawn: fully outside the
// playfield, or out of lifetime in wrap mode.
func (as *Asteroid) Gone(wp *Params) bool {
	if wp.Wrap {
		return as.TTL <= 0
	}
	r := as.Radius
	return as.Pos.X < -r || as.Pos.X > wp.Size.X+r ||
		as.Pos.Y < -r || as.Pos.Y > wp.Size.Y+r
}

// Threat returns the asteroid in encoder terms
func (as *Asteroid) Threat() encode.Threat {
	return encode.Threat{Pos: as.Pos, Vel: as.Vel, Radius: as.Radius}
}
