// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loop

import (
	"errors"
	"fmt"

	"github.com/emer/astroloop/decode"
	"github.com/emer/astroloop/encode"
	"github.com/emer/astroloop/feedback"
	"github.com/emer/astroloop/snet"
	"github.com/emer/astroloop/world"
)

// ErrConfig is wrapped by every configuration failure, so callers can
// errors.Is for the class
var ErrConfig = errors.New("invalid configuration")

// Config aggregates every parameter of the closed loop.  One Config
// plus one run number fully determines a run.  The input layer has one
// neuron per encoder sector and the motor layer one per action; only
// the hidden layer size is free.
type Config struct {
	NHidden int `def:"16" min:"1" desc:"neurons in the hidden layer"`
	Delay   int `def:"0" min:"0" desc:"conduction delay in ticks on both projections"`

	Act    snet.ActParams        `view:"no-inline" desc:"membrane and spike-generation parameters"`
	Learn  snet.LearnParams      `view:"no-inline" desc:"eligibility trace and reward learning parameters"`
	Encode encode.Params         `view:"no-inline" desc:"threat encoding parameters"`
	Decode decode.Params         `view:"inline" desc:"decision window parameters"`
	World  world.Params          `view:"no-inline" desc:"physics and episode parameters"`
	Reward feedback.RewardParams `view:"inline" desc:"reward magnitudes and pauses"`

	Episodes int   `def:"20" min:"1" desc:"episode budget for a run"`
	Seed     int64 `def:"1" desc:"base random seed -- the run number offsets it"`
}

func (cfg *Config) Defaults() {
	cfg.NHidden = 16
	cfg.Delay = 0
	cfg.Act.Defaults()
	cfg.Learn.Defaults()
	cfg.Encode.Defaults()
	cfg.Decode.Defaults()
	cfg.World.Defaults()
	cfg.Reward.Defaults()
	cfg.Episodes = 20
	cfg.Seed = 1
}

// Update must be called after any changes to parameters
func (cfg *Config) Update() {
	cfg.Act.Update()
	cfg.Learn.Update()
	cfg.Encode.Update()
	cfg.Decode.Update()
	cfg.World.Update()
	cfg.Reward.Update()
}

// Validate checks every fatal configuration condition: non-positive dt
// or decision window, empty layers, inverted bounds, and each
// component's own parameter checks.  Every failure wraps ErrConfig.
func (cfg *Config) Validate() error {
	if cfg.NHidden < 1 {
		return fmt.Errorf("%w: NHidden is %d -- the hidden layer cannot be empty", ErrConfig, cfg.NHidden)
	}
	if cfg.Delay < 0 {
		return fmt.Errorf("%w: conduction delay is %d ticks", ErrConfig, cfg.Delay)
	}
	if cfg.Episodes < 1 {
		return fmt.Errorf("%w: Episodes is %d", ErrConfig, cfg.Episodes)
	}
	if cfg.Learn.WtRange.Min >= cfg.Learn.WtRange.Max {
		return fmt.Errorf("%w: weight bounds [%g, %g]", ErrConfig, cfg.Learn.WtRange.Min, cfg.Learn.WtRange.Max)
	}
	if cfg.Act.VmRange.Min >= cfg.Act.VmRange.Max {
		return fmt.Errorf("%w: Vm bounds [%g, %g]", ErrConfig, cfg.Act.VmRange.Min, cfg.Act.VmRange.Max)
	}
	if err := cfg.Encode.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := cfg.Decode.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := cfg.World.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := cfg.Reward.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return nil
}
