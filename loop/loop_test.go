// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loop

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/astroloop/decode"
	"github.com/emer/astroloop/snet"
	"github.com/emer/astroloop/world"
	"github.com/emer/emergent/erand"
	"github.com/goki/mat32"
)

// testConfig uses exact-arithmetic physics (dt 1/16) and power-of-two
// rewards so accumulated values are exact in float32
func testConfig() *Config {
	cfg := &Config{}
	cfg.Defaults()
	cfg.Seed = 7
	cfg.Episodes = 2
	cfg.NHidden = 4
	cfg.World.Dt = 0.0625
	cfg.World.Size = mat32.Vec2{512, 512}
	cfg.World.ShipRadius = 8
	cfg.World.TurnRate = 64
	cfg.World.ThrustAccel = 32
	cfg.World.Drag = 0
	cfg.World.SpawnPerSec = 0
	cfg.World.NearMargin = 16
	cfg.World.MaxTicks = 64
	cfg.Decode.Window = 8
	cfg.Decode.RateThr = 10
	cfg.Reward.CollisionPenalty = -1
	cfg.Reward.NearMissBonus = 0.25
	cfg.Reward.SurviveBonus = 0.0625
	return cfg
}

// silent zeroes the weights and freezes learning, so the motor layer
// never fires and the ship never acts
func silent(cfg *Config) {
	cfg.Learn.Lrate = 0
	cfg.Learn.WtInit.Dist = erand.Mean
	cfg.Learn.WtInit.Mean = 0
}

func newTestController(t *testing.T, cfg *Config) *Controller {
	t.Helper()
	ct := &Controller{}
	ct.Cfg = *cfg
	if err := ct.Config(); err != nil {
		t.Fatal(err)
	}
	if err := ct.Init(0); err != nil {
		t.Fatal(err)
	}
	return ct
}

// TestLoopBaseline: an empty field and a silent network hold None for
// the whole episode, ending in Timeout at the tick budget.
func TestLoopBaseline(t *testing.T) {
	cfg := testConfig()
	silent(cfg)
	ct := newTestController(t, cfg)

	out, err := ct.RunEpisode()
	if err != nil {
		t.Fatal(err)
	}
	if out != world.Timeout {
		t.Errorf("outcome: %v, want Timeout", out)
	}
	if ct.Time.Tick != 64 {
		t.Errorf("ticks: %v, want 64", ct.Time.Tick)
	}
	if ct.World.NearMissTot != 0 {
		t.Errorf("near misses: %v, want 0", ct.World.NearMissTot)
	}
	if ct.Decoder.NAmbig != 8 { // every window of a silent net is ambiguous
		t.Errorf("ambiguous windows: %v, want 8", ct.Decoder.NAmbig)
	}
	if ct.Decoder.CurAction() != decode.None {
		t.Errorf("action: %v, want None", ct.Decoder.CurAction())
	}
	if ct.Shaper.EpReward != 4 { // 64 ticks x 0.0625 survival
		t.Errorf("episode reward: %v, want 4", ct.Shaper.EpReward)
	}
	if ct.World.Ship.Pos.X != 256 || ct.World.Ship.Pos.Y != 256 {
		t.Errorf("ship moved without actions: %v, %v", ct.World.Ship.Pos.X, ct.World.Ship.Pos.Y)
	}
	for _, hz := range ct.World.CurStim() {
		if hz != cfg.Encode.FreqRange.Min {
			t.Errorf("empty field stim: %v, want %v", hz, cfg.Encode.FreqRange.Min)
		}
	}
	for i := range ct.Net.Syns {
		if ct.Net.Syns[i].Wt != 0 {
			t.Fatalf("weights changed with zero lrate")
		}
	}
}

// TestLoopCollision: an asteroid on a head-on course with no evasive
// action collides at the first overlap tick and the penalty lands the
// same tick.
func TestLoopCollision(t *testing.T) {
	cfg := testConfig()
	silent(cfg)
	ct := newTestController(t, cfg)
	ct.World.Asts = append(ct.World.Asts, world.Asteroid{ID: 3, Pos: mat32.Vec2{276, 256}, Vel: mat32.Vec2{-32, 0}, Radius: 4})
	ct.World.RefreshStates()

	out, err := ct.RunEpisode()
	if err != nil {
		t.Fatal(err)
	}
	if out != world.Collision {
		t.Fatalf("outcome: %v, want Collision", out)
	}
	if ct.Time.Tick != 5 { // first overlap: d = 20 closing at 2/tick, contact at 12
		t.Errorf("collision tick: %v, want 5", ct.Time.Tick)
	}
	if ct.World.LastEvents.Collided != 3 {
		t.Errorf("collided id: %v, want 3", ct.World.LastEvents.Collided)
	}
	if ct.Shaper.LastDa != -1 {
		t.Errorf("penalty not applied on the collision tick: %v", ct.Shaper.LastDa)
	}
	if ct.Shaper.EpReward != -0.75 { // 4 survived ticks - the penalty
		t.Errorf("episode reward: %v, want -0.75", ct.Shaper.EpReward)
	}
}

// TestLoopNearMiss: a passing asteroid scores exactly one near miss and
// one bonus, and the episode still times out.
func TestLoopNearMiss(t *testing.T) {
	cfg := testConfig()
	silent(cfg)
	ct := newTestController(t, cfg)
	ct.World.Asts = append(ct.World.Asts, world.Asteroid{ID: 1, Pos: mat32.Vec2{200, 276}, Vel: mat32.Vec2{32, 0}, Radius: 4})
	ct.World.RefreshStates()

	out, err := ct.RunEpisode()
	if err != nil {
		t.Fatal(err)
	}
	if out != world.Timeout {
		t.Fatalf("outcome: %v, want Timeout", out)
	}
	if ct.World.NearMissTot != 1 {
		t.Errorf("near misses: %v, want 1", ct.World.NearMissTot)
	}
	if ct.Shaper.EpReward != 4.25 { // 64 x 0.0625 + one 0.25 bonus
		t.Errorf("episode reward: %v, want 4.25", ct.Shaper.EpReward)
	}
}

// TestLoopLearning: with learning on, baseline input spiking builds
// traces, positive reward grows the touched weights, and weights
// persist across the episode reset while neuron state clears.
func TestLoopLearning(t *testing.T) {
	cfg := testConfig()
	cfg.Learn.Lrate = 0.5
	cfg.Learn.WtInit.Dist = erand.Mean
	cfg.Learn.WtInit.Mean = 0.5
	ct := newTestController(t, cfg)

	if _, err := ct.RunEpisode(); err != nil {
		t.Fatal(err)
	}
	grew := false
	for i := range ct.Net.Syns {
		wt := ct.Net.Syns[i].Wt
		if wt < cfg.Learn.WtRange.Min || wt > cfg.Learn.WtRange.Max {
			t.Fatalf("weight out of bounds: %v", wt)
		}
		if wt > 0.5 {
			grew = true
		}
	}
	if !grew {
		t.Errorf("no weight grew from positive reward")
	}

	wts := make([]float32, len(ct.Net.Syns))
	for i := range ct.Net.Syns {
		wts[i] = ct.Net.Syns[i].Wt
	}
	ct.NextEpisode()
	for i := range ct.Net.Syns {
		if ct.Net.Syns[i].Wt != wts[i] {
			t.Fatalf("weights must survive the episode reset")
		}
		if ct.Net.Syns[i].Tr != 0 {
			t.Fatalf("traces must clear at episode reset")
		}
	}
	for i := range ct.Net.Neurons {
		if ct.Net.Neurons[i].Vm != cfg.Act.Init.Vm {
			t.Fatalf("neuron state must clear at episode reset")
		}
	}
}

// TestLoopDiverged: a non-finite membrane potential aborts the episode
// with a DivergedError; Run logs it and continues with the next episode
// on reinitialized neuron state.
func TestLoopDiverged(t *testing.T) {
	cfg := testConfig()
	silent(cfg)
	cfg.World.MaxTicks = 16
	ct := newTestController(t, cfg)

	hid, err := ct.Net.LayerByName("Hidden")
	if err != nil {
		t.Fatal(err)
	}
	ct.Net.Neurons[hid.Start].Vm = math32.NaN()
	_, err = ct.RunEpisode()
	var de *snet.DivergedError
	if !errors.As(err, &de) {
		t.Fatalf("expected DivergedError, got %v", err)
	}
	if de.Var != "Vm" {
		t.Errorf("diverged var: %v, want Vm", de.Var)
	}

	if err := ct.Init(0); err != nil {
		t.Fatal(err)
	}
	ct.Net.Neurons[hid.Start].Vm = math32.NaN()
	if err := ct.Run(); err != nil {
		t.Fatal(err)
	}
	if ct.Diverged != 1 {
		t.Errorf("diverged episodes: %v, want 1", ct.Diverged)
	}
	if ct.World.Outcome != world.Timeout {
		t.Errorf("second episode should complete: %v", ct.World.Outcome)
	}
	if ct.Time.Episode != 1 {
		t.Errorf("episode counter: %v, want 1", ct.Time.Episode)
	}
}

type recObs struct {
	lines []string
}

func (ro *recObs) Snapshot(sn *Snapshot) {
	ro.lines = append(ro.lines, fmt.Sprintf("%d:%d:%v:%v:%v:%v:%v:%d:%d",
		sn.Episode, sn.Tick, sn.Act, sn.Reward, sn.EpReward,
		sn.Ship.Pos.X, sn.Ship.Pos.Y, len(sn.Asts), len(sn.Spikes)))
}

// TestLoopSameSeed: the full stochastic pipeline -- Poisson inputs,
// uniform weights, learning, spawning -- replays exactly from the seed.
func TestLoopSameSeed(t *testing.T) {
	run := func() *recObs {
		cfg := testConfig()
		cfg.Seed = 11
		cfg.World.SpawnPerSec = 16
		cfg.World.MaxTicks = 48
		ob := &recObs{}
		ct := &Controller{}
		ct.Cfg = *cfg
		if err := ct.Config(); err != nil {
			t.Fatal(err)
		}
		if err := ct.Init(0); err != nil {
			t.Fatal(err)
		}
		ct.AddObserver(ob)
		if err := ct.Run(); err != nil {
			t.Fatal(err)
		}
		return ob
	}
	a := run()
	b := run()
	if len(a.lines) == 0 {
		t.Fatalf("no snapshots recorded")
	}
	if len(a.lines) != len(b.lines) {
		t.Fatalf("snapshot counts diverged: %v vs %v", len(a.lines), len(b.lines))
	}
	for i := range a.lines {
		if a.lines[i] != b.lines[i] {
			t.Fatalf("snapshot %v diverged:\n%v\n%v", i, a.lines[i], b.lines[i])
		}
	}
}

// scriptSrc stands in for the network: one Thrust motor spike per tick
type scriptSrc struct {
	outStart int
	evs      []snet.SpikeEvent
}

func (ss *scriptSrc) Cycle(tm *snet.Time, freqs []float32, rnd *rand.Rand) ([]snet.SpikeEvent, error) {
	ss.evs = ss.evs[:0]
	ss.evs = append(ss.evs, snet.SpikeEvent{
		Ni:   int32(ss.outStart + int(decode.Thrust)),
		Kind: snet.Output,
		Tick: int32(tm.Tick),
	})
	return ss.evs, nil
}

func (ss *scriptSrc) TraceFmSpikes()     {}
func (ss *scriptSrc) DWtFmDa(da float32) {}
func (ss *scriptSrc) WtFmDWt() error     { return nil }
func (ss *scriptSrc) EpisodeInit()       {}

// TestLoopSpikeSource: any SpikeSource can drive the loop; a scripted
// Thrust stream pushes the ship into the top wall.
func TestLoopSpikeSource(t *testing.T) {
	cfg := testConfig()
	silent(cfg)
	ct := newTestController(t, cfg)
	motor, err := ct.Net.LayerByName("Motor")
	if err != nil {
		t.Fatal(err)
	}
	ct.Src = &scriptSrc{outStart: motor.Start}

	out, err := ct.RunEpisode()
	if err != nil {
		t.Fatal(err)
	}
	if out != world.Timeout {
		t.Fatalf("outcome: %v, want Timeout", out)
	}
	if ct.Decoder.NAmbig != 0 {
		t.Errorf("ambiguous windows: %v, want 0", ct.Decoder.NAmbig)
	}
	if ct.Decoder.CurAction() != decode.Thrust {
		t.Errorf("action: %v, want Thrust", ct.Decoder.CurAction())
	}
	// thrust engages at the first window close (tick 7), so 57 thrust
	// steps: vy = 57 x 2, y = 256 + 0.125 x 57 x 58 / 2
	if math32.Abs(ct.World.Ship.Vel.Y-114) > 0.01 {
		t.Errorf("ship vy: %v, want 114", ct.World.Ship.Vel.Y)
	}
	if math32.Abs(ct.World.Ship.Pos.Y-462.625) > 0.1 {
		t.Errorf("ship y: %v, want 462.625", ct.World.Ship.Pos.Y)
	}
}

// TestLoopPause: a collision arms the punish pause, which carries into
// the next episode and gates its opening ticks.
func TestLoopPause(t *testing.T) {
	cfg := testConfig()
	silent(cfg)
	cfg.Reward.PausePunish = 4
	ct := newTestController(t, cfg)
	ct.World.Asts = append(ct.World.Asts, world.Asteroid{ID: 1, Pos: mat32.Vec2{276, 256}, Vel: mat32.Vec2{-32, 0}, Radius: 4})
	ct.World.RefreshStates()

	out, err := ct.RunEpisode()
	if err != nil {
		t.Fatal(err)
	}
	if out != world.Collision {
		t.Fatalf("outcome: %v, want Collision", out)
	}
	if !ct.Shaper.Paused() {
		t.Fatalf("collision should arm the pause")
	}
	ct.NextEpisode()
	if !ct.Shaper.Paused() {
		t.Fatalf("pause should carry into the next episode")
	}
	if err := ct.StepTick(); err != nil {
		t.Fatal(err)
	}
	if ct.Shaper.Pause != 3 {
		t.Errorf("pause ticks: %v, want 3", ct.Shaper.Pause)
	}
}

func TestLoopConfigErrors(t *testing.T) {
	cfg := testConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	cases := []func(c *Config){
		func(c *Config) { c.NHidden = 0 },
		func(c *Config) { c.Episodes = 0 },
		func(c *Config) { c.Decode.Window = 0 },
		func(c *Config) { c.World.Dt = 0 },
		func(c *Config) { c.Encode.NSectors = 2 },
		func(c *Config) { c.Learn.WtRange.Set(1, 1) },
		func(c *Config) { c.Act.VmRange.Set(2, 0) },
	}
	for i, brk := range cases {
		c := *testConfig()
		brk(&c)
		err := c.Validate()
		if err == nil {
			t.Errorf("case %v: invalid config accepted", i)
		} else if !errors.Is(err, ErrConfig) {
			t.Errorf("case %v: error does not wrap ErrConfig: %v", i, err)
		}
	}

	ct := &Controller{}
	ct.Defaults()
	ct.Cfg.World.Dt = 0
	if err := ct.Config(); err == nil {
		t.Errorf("Config should reject an invalid Cfg")
	}
	ct2 := &Controller{}
	ct2.Defaults()
	if err := ct2.Init(0); err == nil {
		t.Errorf("Init before Config should fail")
	}
}
