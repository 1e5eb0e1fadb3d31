// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"github.com/emer/etable/etensor"
)

// PulseParams define the biphasic stimulation pulse shape used when
// exporting a stimulation pattern as an electrode drive waveform:
// each pulse is a positive phase immediately followed by an equal
// negative phase, so the waveform is charge-balanced.
type PulseParams struct {
	Amp      float32 `def:"75" min:"0" desc:"pulse amplitude in mV -- the negative phase mirrors it"`
	PhaseSec float32 `def:"0.0002" min:"0" desc:"duration of each phase of the biphasic pulse, in seconds"`
	SampleHz float32 `def:"20000" min:"0" desc:"waveform sample rate in Hz"`
}

func (pp *PulseParams) Defaults() {
	pp.Amp = 75
	pp.PhaseSec = 0.0002
	pp.SampleHz = 20000
}

// Update must be called after any changes to parameters
func (pp *PulseParams) Update() {
}

// NSamples returns the number of waveform samples spanning dur seconds
func (pp *PulseParams) NSamples(dur float32) int {
	return int(dur*pp.SampleHz + 0.5)
}

// Train renders the pulse train for one channel at the given frequency
// (Hz) over dur seconds into out, which must have NSamples(dur) elements.
// Pulses start at regular intervals of SampleHz / hz samples; a phase
// cut off by the end of the window is truncated.
func (pp *PulseParams) Train(hz, dur float32, out []float32) {
	for i := range out {
		out[i] = 0
	}
	if hz <= 0 {
		return
	}
	nsmp := len(out)
	period := pp.SampleHz / hz
	phSmp := int(pp.PhaseSec*pp.SampleHz + 0.5)
	if phSmp < 1 {
		phSmp = 1
	}
	for p := 0; ; p++ {
		start := int(float32(p)*period + 0.5)
		if start >= nsmp {
			break
		}
		for i := start; i < start+phSmp && i < nsmp; i++ {
			out[i] = pp.Amp
		}
		for i := start + phSmp; i < start+2*phSmp && i < nsmp; i++ {
			out[i] = -pp.Amp
		}
	}
}

// Trains renders the full stimulation pattern (one frequency per channel)
// as a Chan x Time waveform tensor spanning dur seconds.
func (pp *PulseParams) Trains(pat []float32, dur float32) *etensor.Float32 {
	nsmp := pp.NSamples(dur)
	tsr := etensor.NewFloat32([]int{len(pat), nsmp}, nil, []string{"Chan", "Time"})
	for ci := range pat {
		pp.Train(pat[ci], dur, tsr.Values[ci*nsmp:(ci+1)*nsmp])
	}
	return tsr
}
