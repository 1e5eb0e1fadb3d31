// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"github.com/goki/ki/kit"
)

// ActionCommand is the discrete control decoded from the output layer.
// There is exactly one output neuron per action, in this order, and the
// constant order is also the tie-break priority: on equal rates the
// lower value wins.
type ActionCommand int

//go:generate stringer -type=ActionCommand

var KiT_ActionCommand = kit.Enums.AddEnum(ActionN, kit.NotBitFlag, nil)

func (ev ActionCommand) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ActionCommand) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The action commands
const (
	// Thrust accelerates the ship along its current heading
	Thrust ActionCommand = iota

	// Left rotates the ship counter-clockwise
	Left

	// Right rotates the ship clockwise
	Right

	// None applies no control -- drag only
	None

	ActionN
)
