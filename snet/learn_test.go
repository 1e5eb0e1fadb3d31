// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snet

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/emergent/erand"
)

func TestTrFmSpike(t *testing.T) {
	spks := []float32{1, 0, 0, 1, 1, 0}
	cortr := []float32{1, 0.75, 0.5625, 1.421875, 2.06640625, 1.5498046875}

	tp := TraceParams{}
	tp.Defaults()
	tp.Decay = 0.25

	tr := float32(0)
	for i := range spks {
		tr = tp.TrFmSpike(tr, spks[i])
		dif := math32.Abs(tr - cortr[i])
		if dif > difTol {
			t.Errorf("tr err: idx: %v, spk: %v, tr: %v, cortr: %v, dif: %v\n", i, spks[i], tr, cortr[i], dif)
		}
	}
}

func TestDWtFmDa(t *testing.T) {
	lp := LearnParams{}
	lp.Defaults()
	lp.Lrate = 0.5

	sy := &Synapse{}
	sy.Tr = 0.5

	lp.DWtFmDa(sy, 1)
	if math32.Abs(sy.DWt-0.25) > difTol {
		t.Errorf("dwt err: dwt: %v, cordwt: 0.25\n", sy.DWt)
	}
	lp.DWtFmDa(sy, -2)
	if math32.Abs(sy.DWt-(-0.25)) > difTol {
		t.Errorf("dwt err: dwt: %v, cordwt: -0.25\n", sy.DWt)
	}
}

func TestWtFmDWt(t *testing.T) {
	lp := LearnParams{}
	lp.Defaults()

	sy := &Synapse{Wt: 0.5, DWt: -0.25}
	lp.WtFmDWt(sy)
	if math32.Abs(sy.Wt-0.25) > difTol || sy.DWt != 0 {
		t.Errorf("wt err: wt: %v, corwt: 0.25, dwt: %v\n", sy.Wt, sy.DWt)
	}

	// clips at the top of the weight range
	sy = &Synapse{Wt: 0.875, DWt: 0.5}
	lp.WtFmDWt(sy)
	if sy.Wt != 1 || sy.DWt != 0 {
		t.Errorf("wt err: wt: %v, corwt: 1, dwt: %v\n", sy.Wt, sy.DWt)
	}

	// clips at the bottom
	sy = &Synapse{Wt: 0.125, DWt: -0.5}
	lp.WtFmDWt(sy)
	if sy.Wt != 0 || sy.DWt != 0 {
		t.Errorf("wt err: wt: %v, corwt: 0, dwt: %v\n", sy.Wt, sy.DWt)
	}

	// zero pending change leaves the weight alone
	sy = &Synapse{Wt: 0.75}
	lp.WtFmDWt(sy)
	if sy.Wt != 0.75 {
		t.Errorf("wt err: wt: %v, corwt: 0.75\n", sy.Wt)
	}
}

func TestInitWts(t *testing.T) {
	lp := LearnParams{}
	lp.Defaults() // uniform mean .5 var .25

	rnd := rand.New(rand.NewSource(1))
	n := 100
	wts := make([]float32, n)
	for i := 0; i < n; i++ {
		sy := &Synapse{Tr: 1, DWt: 1}
		lp.InitWts(sy, rnd)
		if sy.Wt < 0.25 || sy.Wt > 0.75 {
			t.Errorf("wt err: idx: %v, wt: %v outside mean +/- var\n", i, sy.Wt)
		}
		if sy.Tr != 0 || sy.DWt != 0 {
			t.Errorf("init err: idx: %v, tr: %v, dwt: %v not cleared\n", i, sy.Tr, sy.DWt)
		}
		wts[i] = sy.Wt
	}

	// same seed reproduces the same weights
	rnd = rand.New(rand.NewSource(1))
	for i := 0; i < n; i++ {
		sy := &Synapse{}
		lp.InitWts(sy, rnd)
		if sy.Wt != wts[i] {
			t.Errorf("determinism err: idx: %v, wt: %v, prior: %v\n", i, sy.Wt, wts[i])
		}
	}

	// gaussian draws are clipped into the weight range
	lp.WtInit.Dist = erand.Gaussian
	rnd = rand.New(rand.NewSource(2))
	for i := 0; i < n; i++ {
		sy := &Synapse{}
		lp.InitWts(sy, rnd)
		if sy.Wt < 0 || sy.Wt > 1 {
			t.Errorf("wt err: idx: %v, wt: %v outside weight range\n", i, sy.Wt)
		}
	}

	// mean dist is deterministic
	lp.WtInit.Dist = erand.Mean
	sy := &Synapse{}
	lp.InitWts(sy, rnd)
	if sy.Wt != 0.5 {
		t.Errorf("wt err: wt: %v, corwt: 0.5 for mean dist\n", sy.Wt)
	}
}
