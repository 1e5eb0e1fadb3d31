// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loop

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/emer/astroloop/decode"
	"github.com/emer/astroloop/feedback"
	"github.com/emer/astroloop/snet"
	"github.com/emer/astroloop/world"
)

// SpikeSource is the capability the loop requires of a spiking
// controller: produce one tick of spikes from the stimulation
// frequencies, maintain eligibility traces, and absorb the reward
// multiply.  snet.Network is the simulated implementation; a hardware
// rig can stand in.
type SpikeSource interface {
	Cycle(ctime *snet.Time, freqs []float32, rnd *rand.Rand) ([]snet.SpikeEvent, error)
	TraceFmSpikes()
	DWtFmDa(da float32)
	WtFmDWt() error
	EpisodeInit()
}

var _ SpikeSource = (*snet.Network)(nil)

// Controller drives the full closed loop from a single Config: encode →
// simulate → decode → physics → feedback, one tick at a time, strictly
// sequential.  Set Cfg, call Config once, then Init per run.
type Controller struct {
	Cfg Config `desc:"complete loop configuration"`

	Net     *snet.Network   `view:"no-inline" desc:"the simulated spiking network built by Config"`
	Src     SpikeSource     `view:"-" desc:"spike producer driving the loop -- Net unless swapped"`
	Time    snet.Time       `desc:"loop clock"`
	Decoder decode.Decoder  `desc:"spike-window action decoder"`
	World   world.World     `view:"no-inline" desc:"asteroid-field environment"`
	Shaper  feedback.Shaper `desc:"reward shaper"`

	Observers []Observer `view:"-" desc:"per-tick snapshot receivers, called synchronously"`

	RunNum   int        `inactive:"+" desc:"run number from the last Init"`
	Diverged int        `inactive:"+" desc:"episodes aborted by simulation divergence this run"`
	NetRnd   *rand.Rand `view:"-" desc:"random stream for weight init and spike generation, seeded per run"`

	stim        []float32
	ambigLogged bool
}

func NewController() *Controller {
	ct := &Controller{}
	ct.Defaults()
	return ct
}

func (ct *Controller) Defaults() {
	ct.Cfg.Defaults()
}

// Config validates the configuration and builds the network and the
// environment from it.  Call once after setting Cfg, before Init.
func (ct *Controller) Config() error {
	if err := ct.Cfg.Validate(); err != nil {
		return err
	}
	ct.ConfigEnv()
	if err := ct.ConfigNet(); err != nil {
		return err
	}
	ct.Src = ct.Net
	return nil
}

// ConfigEnv applies the world and encoder configuration.  The world's
// random stream is offset from the network's so the two never share a
// seed within a run.
func (ct *Controller) ConfigEnv() {
	ct.World.Config()
	ct.World.Params = ct.Cfg.World
	ct.World.Enc = ct.Cfg.Encode
	ct.World.RndSeed = ct.Cfg.Seed + 1
}

// ConfigNet builds the three-layer network: one input neuron per
// encoder sector, the hidden layer, and one motor neuron per action in
// constant order.
func (ct *Controller) ConfigNet() error {
	net := snet.NewNetwork("AstroLoop")
	net.Act = ct.Cfg.Act
	net.Learn = ct.Cfg.Learn
	net.UpdateParams()
	net.AddLayer("Stim", ct.Cfg.Encode.NSectors, snet.Input)
	net.AddLayer("Hidden", ct.Cfg.NHidden, snet.Hidden)
	net.AddLayer("Motor", int(decode.ActionN), snet.Output)
	net.ConnectLayers("Stim", "Hidden", ct.Cfg.Delay)
	net.ConnectLayers("Hidden", "Motor", ct.Cfg.Delay)
	if err := net.Build(); err != nil {
		return err
	}
	ct.Net = net
	return nil
}

// Init prepares a run: random streams reseed from Cfg.Seed offset by
// run, weights reinitialize, and all episode state clears.  Call after
// Config.
func (ct *Controller) Init(run int) error {
	if ct.Src == nil {
		return fmt.Errorf("%w: controller used before Config", ErrConfig)
	}
	ct.RunNum = run
	ct.Diverged = 0
	ct.Time.Reset()
	ct.Time.TimePerTick = ct.Cfg.World.Dt
	ct.NetRnd = rand.New(rand.NewSource(ct.Cfg.Seed + int64(run)))
	ct.World.Init(run)
	outStart := 0
	if ct.Net != nil {
		ct.Net.InitWts(ct.NetRnd)
		ct.Net.EpisodeInit()
		ly, err := ct.Net.LayerByName("Motor")
		if err != nil {
			return err
		}
		outStart = int(ly.Start)
	}
	ct.Decoder.Params = ct.Cfg.Decode
	ct.Decoder.Init(outStart)
	ct.Shaper.Reward = ct.Cfg.Reward
	ct.Shaper.Init()
	ct.ambigLogged = false
	if len(ct.stim) != ct.Cfg.Encode.NSectors {
		ct.stim = make([]float32, ct.Cfg.Encode.NSectors)
	}
	return nil
}

// StepTick runs one complete tick: stimulation from the world's current
// encoding (or baseline during a sensory pause), one network cycle, the
// trace update, a decode on window close, the physics step, the reward
// multiply into the weights, and the snapshot fan-out.  Returns a
// DivergedError when the simulation produced a non-finite value; the
// caller decides episode policy.  On a completed episode StepTick is a
// no-op until NextEpisode.
func (ct *Controller) StepTick() error {
	if ct.World.EpisodeDone() {
		return nil
	}
	stim := ct.World.CurStim()
	if ct.Shaper.PauseStep() {
		for i := range ct.stim {
			ct.stim[i] = ct.Cfg.Encode.FreqRange.Min
		}
		stim = ct.stim
	}
	evs, err := ct.Src.Cycle(&ct.Time, stim, ct.NetRnd)
	if err != nil {
		return err
	}
	ct.Src.TraceFmSpikes()
	ct.Decoder.AddSpikes(evs)
	if ct.Decoder.WindowDone() {
		act, ambig := ct.Decoder.Decode(ct.Time.TimePerTick)
		if ambig && !ct.ambigLogged { // once per episode, NAmbig has the total
			log.Printf("loop: episode %d tick %d: ambiguous decode -- holding None\n", ct.Time.Episode, ct.Time.Tick)
			ct.ambigLogged = true
		}
		ct.World.SetAction(act)
	}
	ct.World.Step()
	da := ct.Shaper.RewardFmEvents(&ct.World.LastEvents)
	if da != 0 {
		ct.Src.DWtFmDa(da)
		if err := ct.Src.WtFmDWt(); err != nil {
			return err
		}
	}
	ct.notify(evs, da)
	ct.Time.TickInc()
	return nil
}

// RunEpisode steps until the current episode ends, returning its
// outcome.  A DivergedError ends the episode early; any other error is
// fatal to the run.
func (ct *Controller) RunEpisode() (world.Outcome, error) {
	for !ct.World.EpisodeDone() {
		if err := ct.StepTick(); err != nil {
			return ct.World.Outcome, err
		}
	}
	return ct.World.Outcome, nil
}

// NextEpisode advances to a new episode: world and neuron state,
// traces, the decode window and the reward accumulators reset, while
// synaptic weights carry forward.
func (ct *Controller) NextEpisode() {
	ct.World.NextEpisode()
	ct.Src.EpisodeInit()
	ct.Decoder.EpisodeInit()
	ct.Shaper.EpisodeInit()
	ct.Time.EpisodeInc()
	ct.ambigLogged = false
}

// Run executes the configured episode budget.  A diverged episode is
// logged and abandoned, keeping the weights learned so far; any other
// error stops the run.
func (ct *Controller) Run() error {
	for ep := 0; ep < ct.Cfg.Episodes; ep++ {
		_, err := ct.RunEpisode()
		if err != nil {
			var de *snet.DivergedError
			if !errors.As(err, &de) {
				return err
			}
			log.Println(err)
			ct.Diverged++
		}
		if ep < ct.Cfg.Episodes-1 {
			ct.NextEpisode()
		}
	}
	return nil
}

// AddObserver registers an observer for per-tick snapshots
func (ct *Controller) AddObserver(ob Observer) {
	ct.Observers = append(ct.Observers, ob)
}

// notify builds the tick snapshot and fans it out.  Slices are copied
// so observers may retain them.
func (ct *Controller) notify(evs []snet.SpikeEvent, da float32) {
	if len(ct.Observers) == 0 {
		return
	}
	sn := &Snapshot{
		Tick:     ct.Time.Tick,
		Episode:  ct.Time.Episode,
		Ship:     ct.World.Ship,
		Act:      ct.Decoder.CurAction(),
		Reward:   da,
		EpReward: ct.Shaper.EpReward,
		Outcome:  ct.World.Outcome,
	}
	if len(ct.World.Asts) > 0 {
		sn.Asts = append([]world.Asteroid(nil), ct.World.Asts...)
	}
	if len(evs) > 0 {
		sn.Spikes = append([]snet.SpikeEvent(nil), evs...)
	}
	for _, ob := range ct.Observers {
		ob.Snapshot(sn)
	}
}
