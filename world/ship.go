// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package world

import (
	"github.com/emer/astroloop/decode"
	"github.com/emer/astroloop/encode"
	"github.com/goki/mat32"
)

// Ship is the controlled vessel: a circle with a heading.
type Ship struct {
	Pos mat32.Vec2 `desc:"position"`
	Vel mat32.Vec2 `desc:"velocity"`
	Hd  float32    `desc:"heading in degrees, 0 = +X axis, counter-clockwise positive"`
}

// Init places the ship at the center of the playfield, at rest,
// pointing up
func (sh *Ship) Init(wp *Params) {
	sh.Pos = wp.Size.MulScalar(0.5)
	sh.Vel = mat32.Vec2{}
	sh.Hd = 90
}

// HdVec returns the unit vector along the current heading
func (sh *Ship) HdVec() mat32.Vec2 {
	a := mat32.DegToRad(sh.Hd)
	return mat32.Vec2{mat32.Cos(a), mat32.Sin(a)}
}

// Act applies one tick of the given action: Left / Right rotate at
// TurnRate, Thrust accelerates along the heading, None does nothing here
// (drag applies in Step regardless).
func (sh *Ship) Act(act decode.ActionCommand, wp *Params) {
	switch act {
	case decode.Left:
		sh.Hd = encode.AngMod180(sh.Hd + wp.TurnRate*wp.Dt)
	case decode.Right:
		sh.Hd = encode.AngMod180(sh.Hd - wp.TurnRate*wp.Dt)
	case decode.Thrust:
		sh.Vel = sh.Vel.Add(sh.HdVec().MulScalar(wp.ThrustAccel * wp.Dt))
	}
}

// Step applies drag and integrates position for one tick, then keeps the
// ship on the playfield: positions wrap if Wrap is on, otherwise the ship
// stops at the wall (position clamps, the normal velocity component
// zeroes).
func (sh *Ship) Step(wp *Params) {
	drag := 1 - wp.Drag*wp.Dt
	if drag < 0 {
		drag = 0
	}
	sh.Vel = sh.Vel.MulScalar(drag)
	sh.Pos = sh.Pos.Add(sh.Vel.MulScalar(wp.Dt))
	if wp.Wrap {
		sh.Pos.X = wrapCoord(sh.Pos.X, wp.Size.X)
		sh.Pos.Y = wrapCoord(sh.Pos.Y, wp.Size.Y)
		return
	}
	r := wp.ShipRadius
	if sh.Pos.X < r {
		sh.Pos.X = r
		sh.Vel.X = 0
	} else if sh.Pos.X > wp.Size.X-r {
		sh.Pos.X = wp.Size.X - r
		sh.Vel.X = 0
	}
	if sh.Pos.Y < r {
		sh.Pos.Y = r
		sh.Vel.Y = 0
	} else if sh.Pos.Y > wp.Size.Y-r {
		sh.Pos.Y = wp.Size.Y - r
		sh.Vel.Y = 0
	}
}

// Pose returns the ship state in encoder terms
func (sh *Ship) Pose() encode.Pose {
	return encode.Pose{Pos: sh.Pos, Vel: sh.Vel, Hd: sh.Hd}
}

// wrapCoord wraps a coordinate into [0, size)
func wrapCoord(v, size float32) float32 {
	for v < 0 {
		v += size
	}
	for v >= size {
		v -= size
	}
	return v
}
