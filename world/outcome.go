// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package world

import (
	"github.com/goki/ki/kit"
)

// Outcome is the episode status after a step.
type Outcome int

//go:generate stringer -type=Outcome

var KiT_Outcome = kit.Enums.AddEnum(OutcomeN, kit.NotBitFlag, nil)

func (ev Outcome) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Outcome) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The episode outcomes
const (
	// Running means the episode continues
	Running Outcome = iota

	// Collision means an asteroid overlapped the ship this tick -- the
	// episode is over
	Collision

	// Timeout means the episode reached the configured tick budget
	// without a collision
	Timeout

	OutcomeN
)
