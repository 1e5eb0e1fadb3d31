// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"fmt"
	"sort"

	"github.com/emer/etable/minmax"
	"github.com/goki/mat32"
)

// Pose is the ship state the encoder needs: position, velocity, and
// heading in degrees (0 = +X axis, counter-clockwise positive).
type Pose struct {
	Pos mat32.Vec2 `desc:"position"`
	Vel mat32.Vec2 `desc:"velocity"`
	Hd  float32    `desc:"heading in degrees, 0 = +X axis, counter-clockwise positive"`
}

// Threat is one asteroid as seen by the encoder.
type Threat struct {
	Pos    mat32.Vec2 `desc:"position"`
	Vel    mat32.Vec2 `desc:"velocity"`
	Radius float32    `desc:"radius"`
}

// encode.Params has all the parameters for mapping threat geometry to
// stimulation frequencies.
type Params struct {
	NSectors int     `def:"3" min:"3" desc:"number of spatial sectors = input channels -- sector 0 is the front cone, the rest divide the remaining circle counter-clockwise"`
	FrontDeg float32 `def:"10" min:"0" desc:"half-angle of the front cone sector, in degrees"`
	K        int     `def:"3" min:"1" desc:"number of nearest threats encoded per tick -- all others are ignored"`
	MaxDist  float32 `def:"400" min:"0" desc:"sensing range -- threats beyond this distance are invisible, and the distance term falls linearly to 0 at this range"`

	SpeedNorm float32 `def:"200" min:"0" desc:"closing speed that saturates the speed term"`
	SizeNorm  float32 `def:"40" min:"0" desc:"threat radius that saturates the size term"`
	WDist     float32 `def:"0.5" desc:"weight on the distance term of threat intensity"`
	WSpeed    float32 `def:"0.3" desc:"weight on the closing-speed term of threat intensity"`
	WSize     float32 `def:"0.2" desc:"weight on the size term of threat intensity"`

	FreqRange minmax.F32 `view:"inline" desc:"stimulation frequency range in Hz -- Min is the baseline for an empty sector (must be positive to keep the network tonically active), Max is saturation at intensity 1"`
}

func (ep *Params) Defaults() {
	ep.NSectors = 3
	ep.FrontDeg = 10
	ep.K = 3
	ep.MaxDist = 400
	ep.SpeedNorm = 200
	ep.SizeNorm = 40
	ep.WDist = 0.5
	ep.WSpeed = 0.3
	ep.WSize = 0.2
	ep.FreqRange.Set(5, 50)
	ep.Update()
}

// Update must be called after any changes to parameters
func (ep *Params) Update() {
}

// Validate returns an error for parameter values that cannot produce a
// well-formed stimulation pattern
func (ep *Params) Validate() error {
	if ep.NSectors < 3 {
		return fmt.Errorf("encode: NSectors is %d -- need at least left, front, right", ep.NSectors)
	}
	if ep.K < 1 {
		return fmt.Errorf("encode: K is %d -- must encode at least one threat", ep.K)
	}
	if ep.MaxDist <= 0 {
		return fmt.Errorf("encode: MaxDist is %g -- must be positive", ep.MaxDist)
	}
	if ep.FreqRange.Min <= 0 {
		return fmt.Errorf("encode: baseline frequency is %g Hz -- must be positive to keep the network tonically active", ep.FreqRange.Min)
	}
	if ep.FreqRange.Min >= ep.FreqRange.Max {
		return fmt.Errorf("encode: frequency range [%g, %g] is empty", ep.FreqRange.Min, ep.FreqRange.Max)
	}
	return nil
}

// NewPat returns a stimulation pattern slice of the right size, one
// element per sector channel -- allocate once and reuse across ticks
func (ep *Params) NewPat() []float32 {
	return make([]float32, ep.NSectors)
}

// AngMod180 wraps an angle in degrees into (-180, 180]
func AngMod180(ang float32) float32 {
	for ang > 180 {
		ang -= 360
	}
	for ang <= -180 {
		ang += 360
	}
	return ang
}

// Sector returns the sector index for a bearing relative to the ship's
// heading, in degrees wrapped to (-180, 180].  Sector 0 is the front cone;
// the remaining sectors divide the rest of the circle evenly, counting
// counter-clockwise (to the left) from the cone edge.
func (ep *Params) Sector(relDeg float32) int {
	if mat32.Abs(relDeg) <= ep.FrontDeg {
		return 0
	}
	off := relDeg
	if off < 0 {
		off += 360
	}
	arc := (360 - 2*ep.FrontDeg) / float32(ep.NSectors-1)
	si := 1 + int((off-ep.FrontDeg)/arc)
	if si < 1 {
		si = 1
	}
	if si >= ep.NSectors {
		si = ep.NSectors - 1
	}
	return si
}

// Intensity returns the threat intensity in [0, 1] for one threat:
// a weighted sum of normalized proximity, closing speed, and size.
// A threat at zero distance is maximal by definition.
func (ep *Params) Intensity(pose *Pose, th *Threat) float32 {
	rel := th.Pos.Sub(pose.Pos)
	d := rel.Length()
	if d == 0 {
		return 1
	}
	dterm := 1 - d/ep.MaxDist
	if dterm < 0 {
		dterm = 0
	}
	relv := th.Vel.Sub(pose.Vel)
	closing := -rel.Dot(relv) / d
	if closing < 0 {
		closing = 0
	}
	sterm := closing / ep.SpeedNorm
	if sterm > 1 {
		sterm = 1
	}
	zterm := th.Radius / ep.SizeNorm
	if zterm > 1 {
		zterm = 1
	}
	in := ep.WDist*dterm + ep.WSpeed*sterm + ep.WSize*zterm
	if in < 0 {
		in = 0
	}
	if in > 1 {
		in = 1
	}
	return in
}

// Encode computes the stimulation pattern for the current tick: the K
// nearest threats within sensing range are scored and binned into sectors
// by bearing, the maximum intensity in each sector wins, and intensities
// project onto FreqRange (empty sectors sit at the baseline).  intens and
// pat must each have length NSectors; intens receives the per-sector
// intensities (for state display), pat the frequencies in Hz.
// Pure: no state is retained between calls.
func (ep *Params) Encode(pose *Pose, ths []Threat, intens, pat []float32) {
	for si := range intens {
		intens[si] = 0
	}
	type nearTh struct {
		idx  int
		dist float32
	}
	var near []nearTh
	for ti := range ths {
		d := ths[ti].Pos.DistTo(pose.Pos)
		if d > ep.MaxDist {
			continue
		}
		near = append(near, nearTh{idx: ti, dist: d})
	}
	sort.Slice(near, func(a, b int) bool {
		if near[a].dist != near[b].dist {
			return near[a].dist < near[b].dist
		}
		return near[a].idx < near[b].idx
	})
	if len(near) > ep.K {
		near = near[:ep.K]
	}
	for _, nr := range near {
		th := &ths[nr.idx]
		rel := th.Pos.Sub(pose.Pos)
		brg := mat32.RadToDeg(mat32.Atan2(rel.Y, rel.X))
		si := ep.Sector(AngMod180(brg - pose.Hd))
		in := ep.Intensity(pose, th)
		if in > intens[si] {
			intens[si] = in
		}
	}
	for si := range pat {
		pat[si] = ep.FreqRange.ProjVal(intens[si])
	}
}
