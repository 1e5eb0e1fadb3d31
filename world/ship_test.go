// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package world

import (
	"testing"

	"github.com/emer/astroloop/decode"
	"github.com/goki/mat32"
)

// exactWorldParams returns physics parameters whose per-tick quantities
// are all exactly representable in float32, so goldens are exact:
// 4 degrees per tick of turn, 2 units per tick of thrust delta-v.
func exactWorldParams() Params {
	wp := Params{}
	wp.Defaults()
	wp.Dt = 0.0625
	wp.Size = mat32.Vec2{512, 512}
	wp.ShipRadius = 8
	wp.TurnRate = 64
	wp.ThrustAccel = 32
	wp.Drag = 0
	wp.SpawnPerSec = 0
	wp.NearMargin = 16
	wp.MaxTicks = 1000
	return wp
}

func TestShipThrust(t *testing.T) {
	wp := exactWorldParams()
	var sh Ship
	sh.Init(&wp)
	if sh.Pos.X != 256 || sh.Pos.Y != 256 || sh.Hd != 90 {
		t.Errorf("init: pos %v, %v hd %v, want 256, 256 hd 90", sh.Pos.X, sh.Pos.Y, sh.Hd)
	}
	sh.Hd = 0 // point along +X so the heading vector is exact

	corvx := []float32{2, 4, 6}
	corx := []float32{256.125, 256.375, 256.75}

	for i := range corvx {
		sh.Act(decode.Thrust, &wp)
		sh.Step(&wp)
		if sh.Vel.X != corvx[i] || sh.Vel.Y != 0 {
			t.Errorf("vel err: tick: %v, val: %v, cor: %v\n", i, sh.Vel.X, corvx[i])
		}
		if sh.Pos.X != corx[i] || sh.Pos.Y != 256 {
			t.Errorf("pos err: tick: %v, val: %v, cor: %v\n", i, sh.Pos.X, corx[i])
		}
	}
}

func TestShipTurn(t *testing.T) {
	wp := exactWorldParams()
	var sh Ship
	sh.Init(&wp)

	corhd := []float32{94, 98, 102}
	for i := range corhd {
		sh.Act(decode.Left, &wp)
		if sh.Hd != corhd[i] {
			t.Errorf("hd err: tick: %v, val: %v, cor: %v\n", i, sh.Hd, corhd[i])
		}
	}
	for i := 0; i < 6; i++ {
		sh.Act(decode.Right, &wp)
	}
	if sh.Hd != 78 {
		t.Errorf("hd after right turns: %v, want 78", sh.Hd)
	}

	// heading wraps across the 180 boundary
	sh.Hd = 178
	sh.Act(decode.Left, &wp)
	if sh.Hd != -178 {
		t.Errorf("hd wrap: %v, want -178", sh.Hd)
	}

	// None changes nothing
	sh.Act(decode.None, &wp)
	if sh.Hd != -178 || sh.Vel.X != 0 || sh.Vel.Y != 0 {
		t.Errorf("None should be inert: hd %v vel %v, %v", sh.Hd, sh.Vel.X, sh.Vel.Y)
	}
}

func TestShipDrag(t *testing.T) {
	wp := exactWorldParams()
	wp.Drag = 8 // halves velocity every tick at dt = 0.0625
	var sh Ship
	sh.Init(&wp)
	sh.Vel = mat32.Vec2{4, 0}

	corvx := []float32{2, 1, 0.5}
	corx := []float32{256.125, 256.1875, 256.21875}

	for i := range corvx {
		sh.Step(&wp)
		if sh.Vel.X != corvx[i] {
			t.Errorf("vel err: tick: %v, val: %v, cor: %v\n", i, sh.Vel.X, corvx[i])
		}
		if sh.Pos.X != corx[i] {
			t.Errorf("pos err: tick: %v, val: %v, cor: %v\n", i, sh.Pos.X, corx[i])
		}
	}

	// over-damped drag clamps to a full stop instead of reversing
	wp.Drag = 32
	sh.Vel = mat32.Vec2{4, 4}
	sh.Step(&wp)
	if sh.Vel.X != 0 || sh.Vel.Y != 0 {
		t.Errorf("over-damped vel: %v, %v, want 0, 0", sh.Vel.X, sh.Vel.Y)
	}
}

func TestShipClampWrap(t *testing.T) {
	wp := exactWorldParams()
	var sh Ship
	sh.Init(&wp)

	// hits the right wall: X clamps at Size.X - ShipRadius and the
	// normal velocity zeroes, Y keeps moving
	sh.Pos = mat32.Vec2{503, 256}
	sh.Vel = mat32.Vec2{32, 16}
	sh.Step(&wp)
	if sh.Pos.X != 504 || sh.Vel.X != 0 {
		t.Errorf("clamp high: pos %v vel %v, want 504 0", sh.Pos.X, sh.Vel.X)
	}
	if sh.Pos.Y != 257 || sh.Vel.Y != 16 {
		t.Errorf("free axis: pos %v vel %v, want 257 16", sh.Pos.Y, sh.Vel.Y)
	}

	sh.Pos = mat32.Vec2{9, 9}
	sh.Vel = mat32.Vec2{-32, -32}
	sh.Step(&wp)
	if sh.Pos.X != 8 || sh.Pos.Y != 8 || sh.Vel.X != 0 || sh.Vel.Y != 0 {
		t.Errorf("clamp low: pos %v, %v vel %v, %v", sh.Pos.X, sh.Pos.Y, sh.Vel.X, sh.Vel.Y)
	}

	// wrap mode carries position around and keeps velocity
	wp.Wrap = true
	sh.Pos = mat32.Vec2{511, 256}
	sh.Vel = mat32.Vec2{32, 0}
	sh.Step(&wp)
	if sh.Pos.X != 1 {
		t.Errorf("wrap: pos %v, want 1", sh.Pos.X)
	}
	if sh.Vel.X != 32 {
		t.Errorf("wrap should keep velocity: %v, want 32", sh.Vel.X)
	}
}
