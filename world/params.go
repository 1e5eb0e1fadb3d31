// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package world

import (
	"fmt"

	"github.com/emer/etable/minmax"
	"github.com/goki/mat32"
)

// world.Params has all the physics, spawning, and episode-termination
// parameters for the playfield.
type Params struct {
	Dt   float32    `def:"0.01" min:"0" desc:"duration of one tick in seconds -- must match the network clock"`
	Size mat32.Vec2 `desc:"playfield size -- 800 x 600 by default"`

	ShipRadius  float32 `def:"10" min:"0" desc:"collision radius of the ship"`
	TurnRate    float32 `def:"180" min:"0" desc:"ship turn rate for Left / Right actions, in degrees per second"`
	ThrustAccel float32 `def:"50" min:"0" desc:"ship acceleration along heading for Thrust, in units per second squared"`
	Drag        float32 `def:"0.1" min:"0" desc:"velocity decay rate per second, applied every tick regardless of action"`

	SpawnPerSec float32    `def:"1.5" min:"0" desc:"mean asteroid spawn rate per second (Poisson)"`
	SpawnSpeed  minmax.F32 `view:"inline" desc:"asteroid speed range at spawn"`
	SpawnRadius minmax.F32 `view:"inline" desc:"asteroid radius range at spawn"`

	NearMargin   float32 `def:"20" min:"0" desc:"distance beyond overlap within which a passing asteroid counts as a near miss"`
	MaxTicks     int     `def:"3000" min:"1" desc:"episode tick budget -- reaching it without a collision is a Timeout"`
	MaxAsteroids int     `def:"12" min:"0" desc:"spawn is skipped while this many asteroids are live"`

	Wrap    bool `desc:"wrap positions around the playfield edges instead of clamping the ship and despawning asteroids"`
	WrapTTL int  `def:"600" min:"1" desc:"asteroid lifetime in ticks when Wrap is on, replacing out-of-bounds despawn"`
}

func (wp *Params) Defaults() {
	wp.Dt = 0.01
	wp.Size = mat32.Vec2{800, 600}
	wp.ShipRadius = 10
	wp.TurnRate = 180
	wp.ThrustAccel = 50
	wp.Drag = 0.1
	wp.SpawnPerSec = 1.5
	wp.SpawnSpeed.Set(50, 150)
	wp.SpawnRadius.Set(10, 30)
	wp.NearMargin = 20
	wp.MaxTicks = 3000
	wp.MaxAsteroids = 12
	wp.Wrap = false
	wp.WrapTTL = 600
	wp.Update()
}

// Update must be called after any changes to parameters
func (wp *Params) Update() {
}

// Validate returns an error for parameter values that cannot run an
// episode.  Spawn ranges are deliberately not checked here: a malformed
// spawn range surfaces at spawn time as a SpawnBoundsError, which skips
// that spawn and logs rather than failing the run.
func (wp *Params) Validate() error {
	if wp.Dt <= 0 {
		return fmt.Errorf("world: Dt is %g -- must be positive", wp.Dt)
	}
	if wp.ShipRadius <= 0 {
		return fmt.Errorf("world: ShipRadius is %g -- must be positive", wp.ShipRadius)
	}
	if wp.Size.X <= 2*wp.ShipRadius || wp.Size.Y <= 2*wp.ShipRadius {
		return fmt.Errorf("world: size %gx%g cannot contain the ship", wp.Size.X, wp.Size.Y)
	}
	if wp.MaxTicks < 1 {
		return fmt.Errorf("world: MaxTicks is %d -- episodes need at least one tick", wp.MaxTicks)
	}
	if wp.Drag < 0 || wp.TurnRate < 0 || wp.ThrustAccel < 0 || wp.NearMargin < 0 || wp.SpawnPerSec < 0 {
		return fmt.Errorf("world: negative rate parameter")
	}
	if wp.Wrap && wp.WrapTTL < 1 {
		return fmt.Errorf("world: WrapTTL is %d -- wrapped asteroids need a lifetime", wp.WrapTTL)
	}
	return nil
}

// SpawnBoundsError reports a spawn configuration that cannot place an
// asteroid.  Non-fatal: the spawn is skipped and the loop continues.
type SpawnBoundsError struct {
	Speed  minmax.F32 `desc:"configured spawn speed range"`
	Radius minmax.F32 `desc:"configured spawn radius range"`
}

func (e *SpawnBoundsError) Error() string {
	return fmt.Sprintf("world: cannot place asteroid: spawn speed [%g, %g], radius [%g, %g]",
		e.Speed.Min, e.Speed.Max, e.Radius.Min, e.Radius.Max)
}
