// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feedback

import (
	"fmt"

	"github.com/emer/astroloop/world"
)

// RewardParams has the scalar reward magnitudes for each world outcome,
// and the optional post-feedback sensory pauses.
type RewardParams struct {
	CollisionPenalty float32 `def:"-1" desc:"reward delivered on a collision -- large and negative"`
	NearMissBonus    float32 `def:"0.1" desc:"reward per near miss scored -- an avoided collision"`
	SurviveBonus     float32 `def:"0.001" desc:"reward per tick survived"`
	PausePunish      int     `def:"0" min:"0" desc:"ticks of sensory pause after a collision, gating stimulation to baseline -- 0 disables"`
	PauseReward      int     `def:"0" min:"0" desc:"ticks of sensory pause after a near miss -- 0 disables"`
}

func (rp *RewardParams) Defaults() {
	rp.CollisionPenalty = -1
	rp.NearMissBonus = 0.1
	rp.SurviveBonus = 0.001
	rp.PausePunish = 0
	rp.PauseReward = 0
}

// Update must be called after any changes to parameters
func (rp *RewardParams) Update() {
}

func (rp *RewardParams) Validate() error {
	if rp.PausePunish < 0 || rp.PauseReward < 0 {
		return fmt.Errorf("feedback: negative pause ticks: punish %d reward %d", rp.PausePunish, rp.PauseReward)
	}
	return nil
}

// Shaper turns world step events into the global reward scalar (da)
// that multiplies each synapse's eligibility trace, and tracks the
// cumulative reward over the episode.  It also runs the sensory pause
// countdown when pauses are configured.
type Shaper struct {
	Reward RewardParams `view:"inline" desc:"reward magnitudes and pause lengths"`

	LastDa   float32 `inactive:"+" desc:"reward scalar computed on the most recent tick"`
	EpReward float32 `inactive:"+" desc:"cumulative reward over the current episode"`
	Pause    int     `inactive:"+" desc:"remaining sensory pause ticks -- 0 = sensing"`
}

func (fs *Shaper) Defaults() {
	fs.Reward.Defaults()
}

func (fs *Shaper) Validate() error {
	return fs.Reward.Validate()
}

// Init clears all reward and pause state, for the start of a run
func (fs *Shaper) Init() {
	fs.LastDa = 0
	fs.EpReward = 0
	fs.Pause = 0
}

// EpisodeInit clears the per-episode reward state.  A pause armed on
// the previous episode's final tick keeps running, so the rest after a
// collision carries into the next episode's opening ticks.
func (fs *Shaper) EpisodeInit() {
	fs.LastDa = 0
	fs.EpReward = 0
}

// RewardFmEvents computes the reward scalar for one tick of world
// events: the collision penalty when the episode ended in a hit,
// otherwise the survival bonus plus NearMissBonus per near miss scored
// this tick.  The scalar accumulates into EpReward, and a configured
// pause arms on delivery.
func (fs *Shaper) RewardFmEvents(ev *world.StepEvents) float32 {
	var da float32
	if ev.Outcome == world.Collision {
		da = fs.Reward.CollisionPenalty
		if fs.Reward.PausePunish > 0 {
			fs.Pause = fs.Reward.PausePunish
		}
	} else {
		da = fs.Reward.SurviveBonus + float32(ev.NearMisses)*fs.Reward.NearMissBonus
		if ev.NearMisses > 0 && fs.Reward.PauseReward > 0 {
			fs.Pause = fs.Reward.PauseReward
		}
	}
	fs.LastDa = da
	fs.EpReward += da
	return da
}

// PauseStep consumes one tick of a running sensory pause, reporting
// whether stimulation should be gated to baseline this tick
func (fs *Shaper) PauseStep() bool {
	if fs.Pause <= 0 {
		return false
	}
	fs.Pause--
	return true
}

// Paused reports whether a sensory pause is currently running
func (fs *Shaper) Paused() bool {
	return fs.Pause > 0
}
