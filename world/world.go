// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package world

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/emer/astroloop/decode"
	"github.com/emer/astroloop/encode"
	"github.com/emer/emergent/env"
	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
)

// StepEvents reports what happened during the most recent Step
type StepEvents struct {
	Outcome    Outcome `desc:"episode outcome after this step"`
	NearMisses int     `desc:"near misses scored this step"`
	Collided   int     `desc:"id of the asteroid that hit the ship, -1 if none"`
}

// World is the asteroid-avoidance environment: a ship steered by
// decoded action commands in a field of drifting asteroids.  It
// implements env.Env with continuous 2D physics instead of a grid.
// State elements: Stim = per-sector stimulus frequencies in Hz,
// Sectors = per-sector threat intensities, Pose = ship X, Y, VX, VY, Hd.
type World struct {
	Nm     string        `desc:"name of this environment"`
	Dsc    string        `desc:"description of this environment"`
	Params Params        `view:"inline" desc:"physics and episode parameters"`
	Enc    encode.Params `view:"inline" desc:"sensory encoder parameters"`

	Ship        Ship                 `desc:"the controlled ship"`
	Asts        []Asteroid           `desc:"live asteroids"`
	NextID      int                  `inactive:"+" desc:"id assigned to the next spawned asteroid"`
	LastAct     decode.ActionCommand `inactive:"+" desc:"action applied on the next Step"`
	Outcome     Outcome              `inactive:"+" desc:"episode outcome, Running until the episode ends"`
	LastEvents  StepEvents           `inactive:"+" desc:"events from the most recent Step"`
	NearMissTot int                  `inactive:"+" desc:"total near misses scored this episode"`
	NSpawnErrs  int                  `inactive:"+" desc:"spawns skipped this run due to inverted spawn ranges"`

	ActMap map[string]decode.ActionCommand `view:"-" desc:"lookup for action names"`

	Stim      *etensor.Float32          `view:"-" desc:"current per-sector stimulus frequencies in Hz"`
	Sectors   *etensor.Float32          `view:"-" desc:"current per-sector threat intensities"`
	PoseTsr   *etensor.Float32          `view:"-" desc:"current ship pose: X, Y, VX, VY, Hd"`
	CurStates map[string]etensor.Tensor `view:"-" desc:"current state tensors by element name"`

	Run   env.Ctr `view:"inline" desc:"current run of model as provided during Init"`
	Epoch env.Ctr `view:"inline" desc:"episode counter within the run"`
	Tick  env.Ctr `view:"inline" desc:"tick within the current episode"`

	RndSeed int64      `inactive:"+" desc:"base random seed, offset by run number in Init"`
	Rand    *rand.Rand `view:"-" desc:"random source for spawning, seeded per run"`

	ths []encode.Threat `view:"-" desc:"scratch threat list for the encoder"`
}

func (ev *World) Name() string { return ev.Nm }
func (ev *World) Desc() string { return ev.Dsc }

// Config sets default parameters and builds the action map.  Parameter
// fields can be overridden after Config, before Init.
func (ev *World) Config() {
	if ev.Nm == "" {
		ev.Nm = "AsteroidField"
		ev.Dsc = "ship steered by decoded actions through a field of drifting asteroids"
	}
	ev.Params.Defaults()
	ev.Enc.Defaults()
	if ev.RndSeed == 0 {
		ev.RndSeed = 1
	}
	ev.ActMap = make(map[string]decode.ActionCommand, int(decode.ActionN))
	for ac := decode.Thrust; ac < decode.ActionN; ac++ {
		ev.ActMap[ac.String()] = ac
	}
}

// ConfigStates allocates the state tensors from the current encoder
// geometry.  Init calls this, so overriding Enc.NSectors after Config
// is safe.
func (ev *World) ConfigStates() {
	ns := ev.Enc.NSectors
	ev.Stim = etensor.NewFloat32([]int{ns}, nil, []string{"Sector"})
	ev.Sectors = etensor.NewFloat32([]int{ns}, nil, []string{"Sector"})
	ev.PoseTsr = etensor.NewFloat32([]int{5}, nil, []string{"Var"})
	ev.CurStates = map[string]etensor.Tensor{
		"Stim":    ev.Stim,
		"Sectors": ev.Sectors,
		"Pose":    ev.PoseTsr,
	}
}

func (ev *World) Validate() error {
	if ev.ActMap == nil {
		return fmt.Errorf("World: %v has no actions -- need to Config", ev.Nm)
	}
	if err := ev.Params.Validate(); err != nil {
		return err
	}
	return ev.Enc.Validate()
}

func (ev *World) State(element string) etensor.Tensor {
	return ev.CurStates[element]
}

// String returns the current tick, field size and pending action
func (ev *World) String() string {
	return fmt.Sprintf("T_%d_Ast_%d_Act_%s", ev.Tick.Cur, len(ev.Asts), ev.LastAct)
}

// Init restarts the environment for the given run: counters reset, the
// random source is re-seeded from RndSeed offset by run, and the first
// episode begins with a clear field.
func (ev *World) Init(run int) {
	if ev.ActMap == nil {
		ev.Config()
	}
	ev.ConfigStates()
	ev.Run.Scale = env.Run
	ev.Epoch.Scale = env.Epoch
	ev.Tick.Scale = env.Tick
	ev.Run.Init()
	ev.Epoch.Init()
	ev.Run.Cur = run
	ev.Rand = rand.New(rand.NewSource(ev.RndSeed + int64(run)))
	ev.NextID = 1
	ev.NSpawnErrs = 0
	ev.startEpisode()
}

// startEpisode resets the per-episode state: ship recentered at rest,
// field cleared, outcome Running, tick at the pre-step init state
func (ev *World) startEpisode() {
	ev.Ship.Init(&ev.Params)
	ev.Asts = ev.Asts[:0]
	ev.LastAct = decode.None
	ev.Outcome = Running
	ev.LastEvents = StepEvents{Outcome: Running, Collided: -1}
	ev.NearMissTot = 0
	ev.Tick.Init()
	ev.Tick.Cur = -1 // init state -- key so that first Step() = 0
	ev.RefreshStates()
}

// NextEpisode begins a new episode within the same run: the epoch
// counter advances and the field resets.  Anything learned by the
// controller (network weights) is owned by the caller and persists.
func (ev *World) NextEpisode() {
	ev.Epoch.Incr()
	ev.startEpisode()
}

// EpisodeDone reports whether the current episode has ended
func (ev *World) EpisodeDone() bool {
	return ev.Outcome != Running
}

// Step advances the world one tick: the pending action steers the ship,
// asteroids move, despawn and spawn, and collisions, near misses and
// timeout are scored.  The sensory state refreshes from the resulting
// geometry.  Once the episode has ended Step does nothing until
// NextEpisode.
func (ev *World) Step() bool {
	if ev.Outcome != Running {
		return false
	}
	ev.Epoch.Same() // good idea to just reset all non-inner-most counters at start
	ev.Tick.Incr()
	ev.LastEvents = StepEvents{Outcome: Running, Collided: -1}
	ev.Ship.Act(ev.LastAct, &ev.Params)
	ev.Ship.Step(&ev.Params)
	ev.stepAsteroids()
	ev.spawn()
	ev.score()
	if ev.Outcome == Running && ev.Tick.Cur+1 >= ev.Params.MaxTicks {
		ev.Outcome = Timeout
	}
	ev.LastEvents.Outcome = ev.Outcome
	ev.RefreshStates()
	return true
}

// stepAsteroids integrates all asteroids and despawns those that left
// the field (or expired, in wrap mode).  A despawning asteroid that
// still holds the near-miss latch scores its near miss on the way out.
func (ev *World) stepAsteroids() {
	kept := ev.Asts[:0]
	for i := range ev.Asts {
		as := &ev.Asts[i]
		as.Step(&ev.Params)
		if as.Gone(&ev.Params) {
			if as.Near {
				ev.scoreNearMiss()
			}
			continue
		}
		kept = append(kept, *as)
	}
	ev.Asts = kept
}

// spawn rolls for a new asteroid at a random field edge, aimed through
// the central region.  Spawning is skipped silently at the MaxAsteroids
// cap, and skipped with a logged SpawnBoundsError when a spawn range is
// inverted.
func (ev *World) spawn() {
	wp := &ev.Params
	if wp.SpawnPerSec <= 0 || len(ev.Asts) >= wp.MaxAsteroids {
		return
	}
	if ev.Rand.Float64() >= float64(wp.SpawnPerSec*wp.Dt) {
		return
	}
	if wp.SpawnSpeed.Min > wp.SpawnSpeed.Max || wp.SpawnRadius.Min > wp.SpawnRadius.Max {
		ev.NSpawnErrs++
		log.Println(&SpawnBoundsError{Speed: wp.SpawnSpeed, Radius: wp.SpawnRadius})
		return
	}
	rad := wp.SpawnRadius.ProjVal(rand32(ev.Rand))
	spd := wp.SpawnSpeed.ProjVal(rand32(ev.Rand))
	var pos mat32.Vec2
	switch ev.Rand.Intn(4) {
	case 0: // left edge
		pos = mat32.Vec2{-rad, rand32(ev.Rand) * wp.Size.Y}
	case 1: // right edge
		pos = mat32.Vec2{wp.Size.X + rad, rand32(ev.Rand) * wp.Size.Y}
	case 2: // bottom edge
		pos = mat32.Vec2{rand32(ev.Rand) * wp.Size.X, -rad}
	case 3: // top edge
		pos = mat32.Vec2{rand32(ev.Rand) * wp.Size.X, wp.Size.Y + rad}
	}
	aim := mat32.Vec2{wp.Size.X * (0.25 + 0.5*rand32(ev.Rand)), wp.Size.Y * (0.25 + 0.5*rand32(ev.Rand))}
	dir := aim.Sub(pos)
	if dl := dir.Length(); dl > 0 {
		dir = dir.DivScalar(dl)
	} else {
		dir = mat32.Vec2{1, 0}
	}
	ev.Asts = append(ev.Asts, Asteroid{
		ID:     ev.NextID,
		Pos:    pos,
		Vel:    dir.MulScalar(spd),
		Radius: rad,
		TTL:    wp.WrapTTL,
	})
	ev.NextID++
}

// score checks each live asteroid against the ship: overlap ends the
// episode in a Collision, entering the near-miss annulus sets the
// latch, and leaving the annulus again scores one near miss.
func (ev *World) score() {
	wp := &ev.Params
	for i := range ev.Asts {
		as := &ev.Asts[i]
		d := as.Pos.DistTo(ev.Ship.Pos)
		hit := wp.ShipRadius + as.Radius
		switch {
		case d < hit:
			ev.Outcome = Collision
			ev.LastEvents.Collided = as.ID
			return
		case d < hit+wp.NearMargin:
			as.Near = true
		case as.Near:
			as.Near = false
			ev.scoreNearMiss()
		}
	}
}

func (ev *World) scoreNearMiss() {
	ev.LastEvents.NearMisses++
	ev.NearMissTot++
}

// rand32 returns a uniform float32 in [0, 1)
func rand32(rnd *rand.Rand) float32 {
	return float32(rnd.Float64())
}

// RefreshStates re-encodes the sensory state from the current world
// geometry, filling the Stim, Sectors and Pose tensors
func (ev *World) RefreshStates() {
	ev.ths = ev.ths[:0]
	for i := range ev.Asts {
		ev.ths = append(ev.ths, ev.Asts[i].Threat())
	}
	pose := ev.Ship.Pose()
	ev.Enc.Encode(&pose, ev.ths, ev.Sectors.Values, ev.Stim.Values)
	ev.PoseTsr.Values[0] = ev.Ship.Pos.X
	ev.PoseTsr.Values[1] = ev.Ship.Pos.Y
	ev.PoseTsr.Values[2] = ev.Ship.Vel.X
	ev.PoseTsr.Values[3] = ev.Ship.Vel.Y
	ev.PoseTsr.Values[4] = ev.Ship.Hd
}

// CurStim returns the per-sector stimulus frequencies from the last
// encode, one value per input neuron
func (ev *World) CurStim() []float32 {
	return ev.Stim.Values
}

// SetAction sets the action to apply on the next Step directly from a
// decoded command
func (ev *World) SetAction(act decode.ActionCommand) {
	ev.LastAct = act
}

// Action sets the action to apply on the next Step by name.  The nop
// tensor is ignored: actions are discrete commands.
func (ev *World) Action(action string, nop etensor.Tensor) {
	act, ok := ev.ActMap[action]
	if !ok {
		fmt.Printf("Action not recognized: %s\n", action)
		return
	}
	ev.LastAct = act
}

func (ev *World) Counter(scale env.TimeScales) (cur, prv int, chg bool) {
	switch scale {
	case env.Run:
		return ev.Run.Query()
	case env.Epoch:
		return ev.Epoch.Query()
	case env.Tick:
		return ev.Tick.Query()
	}
	return -1, -1, false
}

// Compile-time check that implements Env interface
var _ env.Env = (*World)(nil)
