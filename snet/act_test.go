// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snet

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-8)

// exactActParams returns ActParams with time constants chosen so every
// intermediate value is exactly representable in float32
func exactActParams() ActParams {
	ac := ActParams{}
	ac.Defaults()
	ac.Init.Vm = 0.25
	ac.Rest = 0.25
	ac.Thr = 0.5
	ac.Reset = 0.25
	ac.Dt.VmTau = 2
	ac.Dt.GTau = 2
	ac.Update()
	return ac
}

func TestActUpdate(t *testing.T) {
	gein := []float32{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	corge := []float32{0.25, 0.375, 0, 0, 0, 0.25, 0.375, 0}
	ge := make([]float32, len(gein))
	corinet := []float32{0.25, 0.25, 0, 0, 0, 0.25, 0.25, 0}
	inet := make([]float32, len(gein))
	corvm := []float32{0.375, 0.25, 0.25, 0.25, 0.25, 0.375, 0.25, 0.25}
	vm := make([]float32, len(gein))
	corspk := []float32{0, 1, 0, 0, 0, 0, 1, 0}
	spk := make([]float32, len(gein))
	corisi := []float32{-1, 0, 1, 2, 3, 4, 0, 1}
	isi := make([]float32, len(gein))
	corisiavg := []float32{-1, -2, -2, -2, -2, -2, 4, 4}
	isiavg := make([]float32, len(gein))

	ac := exactActParams()
	nrn := &Neuron{}
	ac.InitActs(nrn)

	for i := range gein {
		nrn.GeRaw = gein[i]
		if !ac.RefracStep(nrn) {
			ac.GeFmRaw(nrn)
			ac.VmFmG(nrn)
			ac.SpikeFmVm(nrn)
		}
		ge[i] = nrn.Ge
		inet[i] = nrn.Inet
		vm[i] = nrn.Vm
		spk[i] = nrn.Spike
		isi[i] = nrn.ISI
		isiavg[i] = nrn.ISIAvg
		difge := math32.Abs(ge[i] - corge[i])
		if difge > difTol { // allow for small numerical diffs
			t.Errorf("ge err: idx: %v, gein: %v, ge: %v, corge: %v, dif: %v\n", i, gein[i], ge[i], corge[i], difge)
		}
		difinet := math32.Abs(inet[i] - corinet[i])
		if difinet > difTol { // allow for small numerical diffs
			t.Errorf("Inet err: idx: %v, gein: %v, inet: %v, corinet: %v, dif: %v\n", i, gein[i], inet[i], corinet[i], difinet)
		}
		difvm := math32.Abs(vm[i] - corvm[i])
		if difvm > difTol { // allow for small numerical diffs
			t.Errorf("Vm err: idx: %v, gein: %v, vm: %v, corvm: %v, dif: %v\n", i, gein[i], vm[i], corvm[i], difvm)
		}
		difspk := math32.Abs(spk[i] - corspk[i])
		if difspk > difTol {
			t.Errorf("Spike err: idx: %v, gein: %v, spk: %v, corspk: %v, dif: %v\n", i, gein[i], spk[i], corspk[i], difspk)
		}
		difisi := math32.Abs(isi[i] - corisi[i])
		if difisi > difTol {
			t.Errorf("ISI err: idx: %v, gein: %v, isi: %v, corisi: %v, dif: %v\n", i, gein[i], isi[i], corisi[i], difisi)
		}
		difisiavg := math32.Abs(isiavg[i] - corisiavg[i])
		if difisiavg > difTol {
			t.Errorf("ISIAvg err: idx: %v, gein: %v, isiavg: %v, corisiavg: %v, dif: %v\n", i, gein[i], isiavg[i], corisiavg[i], difisiavg)
		}
	}
}

func TestActVmDecay(t *testing.T) {
	// with no input, Vm relaxes back toward Rest, halving the gap each
	// tick at VmTau = 2
	corvm := []float32{0.3125, 0.28125, 0.265625, 0.2578125, 0.25390625}

	ac := exactActParams()
	nrn := &Neuron{}
	ac.InitActs(nrn)
	nrn.Vm = 0.375

	for i := range corvm {
		ac.GeFmRaw(nrn)
		ac.VmFmG(nrn)
		ac.SpikeFmVm(nrn)
		if nrn.Spike != 0 {
			t.Errorf("spike err: idx: %v, unexpected spike during decay, vm: %v\n", i, nrn.Vm)
		}
		difvm := math32.Abs(nrn.Vm - corvm[i])
		if difvm > difTol {
			t.Errorf("Vm err: idx: %v, vm: %v, corvm: %v, dif: %v\n", i, nrn.Vm, corvm[i], difvm)
		}
	}
}

func TestGenSpikePeriodic(t *testing.T) {
	// 25 Hz at 10 msec ticks = one spike every 4 ticks, starting immediately
	corspk := []float32{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}

	ac := exactActParams()
	ac.Gen.Type = Periodic
	nrn := &Neuron{}
	ac.InitActs(nrn)

	for i := range corspk {
		ac.Gen.GenSpike(nrn, 25, 0.01, nil)
		if nrn.Spike != corspk[i] {
			t.Errorf("spike err: idx: %v, spk: %v, corspk: %v\n", i, nrn.Spike, corspk[i])
		}
	}

	// zero frequency never spikes and never starts the ISI counter
	ac.InitActs(nrn)
	for i := 0; i < 10; i++ {
		ac.Gen.GenSpike(nrn, 0, 0.01, nil)
		if nrn.Spike != 0 {
			t.Errorf("spike err: idx: %v, spike at zero hz\n", i)
		}
	}
	if nrn.ISI != -1 {
		t.Errorf("isi err: isi: %v, should remain -1 at zero hz\n", nrn.ISI)
	}
}

func TestGenSpikePoisson(t *testing.T) {
	ac := exactActParams()
	nrn := &Neuron{}

	// p = hz * dt clamps at 1: spikes every tick
	ac.InitActs(nrn)
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		ac.Gen.GenSpike(nrn, 200, 0.01, rnd)
		if nrn.Spike != 1 {
			t.Errorf("spike err: idx: %v, no spike at clamped p = 1\n", i)
		}
	}

	// 50 Hz at 10 msec ticks: p = 0.5 per tick, count over many ticks
	// should be near half
	ac.InitActs(nrn)
	rnd = rand.New(rand.NewSource(42))
	n := 10000
	cnt := 0
	for i := 0; i < n; i++ {
		ac.Gen.GenSpike(nrn, 50, 0.01, rnd)
		if nrn.Spike == 1 {
			cnt++
		}
	}
	if cnt < 4500 || cnt > 5500 {
		t.Errorf("rate err: %v spikes in %v ticks at p = 0.5\n", cnt, n)
	}

	// identical seeds generate identical spike trains
	na := &Neuron{}
	nb := &Neuron{}
	ac.InitActs(na)
	ac.InitActs(nb)
	ra := rand.New(rand.NewSource(7))
	rb := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		ac.Gen.GenSpike(na, 40, 0.01, ra)
		ac.Gen.GenSpike(nb, 40, 0.01, rb)
		if na.Spike != nb.Spike {
			t.Errorf("determinism err: idx: %v, same seed, spikes differ: %v vs %v\n", i, na.Spike, nb.Spike)
		}
	}
}

func TestGenSpikeRefrac(t *testing.T) {
	// generator refractory of 2 ticks between input spikes: at p = 1 the
	// pattern is spike, 2 silent, spike..
	corspk := []float32{1, 0, 0, 1, 0, 0, 1, 0, 0}

	ac := exactActParams()
	ac.Gen.Refrac = 2
	nrn := &Neuron{}
	ac.InitActs(nrn)
	rnd := rand.New(rand.NewSource(1))

	for i := range corspk {
		ac.Gen.GenSpike(nrn, 200, 0.01, rnd)
		if nrn.Spike != corspk[i] {
			t.Errorf("spike err: idx: %v, spk: %v, corspk: %v\n", i, nrn.Spike, corspk[i])
		}
	}
}
