// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snet

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/goki/ki/kit"
)

// SpikeEvent is one discrete spike: which neuron fired, its layer kind,
// and the tick on which it fired.  Events are ephemeral -- they exist only
// within the current decision-window buffer and any snapshot copies.
type SpikeEvent struct {
	Ni   int32      `desc:"global index of the neuron that spiked"`
	Kind NeuronKind `desc:"layer kind of the spiking neuron"`
	Tick int32      `desc:"tick on which the spike occurred"`
}

// LayerStru holds the name, kind, and index range of one layer of neurons
// within the network's flat neuron slice.
type LayerStru struct {
	Nm    string     `desc:"name of the layer -- referenced in connection specs"`
	Kind  NeuronKind `desc:"role of this layer's neurons"`
	Start int        `desc:"starting index of this layer's neurons in the Neurons slice"`
	N     int        `desc:"number of neurons in the layer"`
}

// Name returns the layer name
func (ls *LayerStru) Name() string { return ls.Nm }

// conSpec is a pending connectivity specification, expanded at Build time
type conSpec struct {
	send, recv string
	delay      int32
}

// snet.Network maintains all neuron and synapse state for the spiking
// controller, and implements the per-tick Cycle that turns stimulation
// frequencies into spike events.  Synapses are stored sender-major so that
// spike propagation and eligibility-trace updates iterate each source
// neuron's outgoing connections contiguously.
type Network struct {
	Nm       string            `desc:"network name"`
	MetaData map[string]string `desc:"optional metadata saved and loaded with the weights"`

	Act   ActParams   `view:"add-fields" desc:"activation (integrate-and-fire) parameters, shared by all neurons"`
	Learn LearnParams `view:"add-fields" desc:"learning parameters, shared by all synapses"`

	Layers  []LayerStru `desc:"layers in order of addition -- neurons are allocated in this order"`
	Neurons []Neuron    `desc:"all neurons, flat, indexed by layer Start + offset"`
	Syns    []Synapse   `desc:"all synapses in sender-major order"`

	SendStart []int32 `view:"-" desc:"per neuron, starting index of its sending synapses in Syns"`
	SendN     []int32 `view:"-" desc:"per neuron, number of sending synapses"`

	geBuf    []float32 `view:"-" desc:"conduction-delay ring buffer of pending excitatory input, bufLen slots per neuron"`
	bufLen   int       `view:"-"`
	bufPos   int       `view:"-"`
	maxDelay int32     `view:"-"`

	cons  []conSpec    `view:"-" desc:"pending full-connectivity specs, consumed by Build"`
	exCon []Synapse    `view:"-" desc:"pending explicit synapse specs, consumed by Build"`
	evBuf []SpikeEvent `view:"-" desc:"reused spike event buffer -- contents valid until the next Cycle"`
	built bool         `view:"-"`
}

var KiT_Network = kit.Types.AddType(&Network{}, nil)

// NewNetwork returns a new Network with default parameters
func NewNetwork(name string) *Network {
	nt := &Network{Nm: name}
	nt.Defaults()
	return nt
}

// Defaults sets all the default parameters for the network
func (nt *Network) Defaults() {
	nt.Act.Defaults()
	nt.Learn.Defaults()
}

// UpdateParams updates all derived parameters after any parameter change
func (nt *Network) UpdateParams() {
	nt.Act.Update()
	nt.Learn.Update()
}

// Name returns the network name
func (nt *Network) Name() string { return nt.Nm }

// NNeurons returns the total number of neurons
func (nt *Network) NNeurons() int { return len(nt.Neurons) }

// NSyns returns the total number of synapses
func (nt *Network) NSyns() int { return len(nt.Syns) }

// AddLayer adds a layer of n neurons with the given name and kind.
// Must be called before Build.
func (nt *Network) AddLayer(name string, n int, kind NeuronKind) *LayerStru {
	start := 0
	for li := range nt.Layers {
		start += nt.Layers[li].N
	}
	nt.Layers = append(nt.Layers, LayerStru{Nm: name, Kind: kind, Start: start, N: n})
	return &nt.Layers[len(nt.Layers)-1]
}

// LayerByName returns the layer with the given name, or error if not found
func (nt *Network) LayerByName(name string) (*LayerStru, error) {
	for li := range nt.Layers {
		if nt.Layers[li].Nm == name {
			return &nt.Layers[li], nil
		}
	}
	return nil, fmt.Errorf("snet: layer %q not found in network %q", name, nt.Nm)
}

// KindLayers returns all layers of the given kind, in order
func (nt *Network) KindLayers(kind NeuronKind) []*LayerStru {
	var ls []*LayerStru
	for li := range nt.Layers {
		if nt.Layers[li].Kind == kind {
			ls = append(ls, &nt.Layers[li])
		}
	}
	return ls
}

// KindN returns the total number of neurons of the given kind
func (nt *Network) KindN(kind NeuronKind) int {
	n := 0
	for li := range nt.Layers {
		if nt.Layers[li].Kind == kind {
			n += nt.Layers[li].N
		}
	}
	return n
}

// ConnectLayers records a full (all-to-all) connection from the send layer
// to the recv layer, with the given conduction delay in ticks (0 = spikes
// arrive on the next tick).  Expanded into synapses at Build.
func (nt *Network) ConnectLayers(send, recv string, delay int) {
	nt.cons = append(nt.cons, conSpec{send: send, recv: recv, delay: int32(delay)})
}

// Connect records one explicit synapse from neuron si to neuron ri with the
// given conduction delay, for custom topologies.  Indexes are validated at
// Build.
func (nt *Network) Connect(si, ri, delay int) {
	nt.exCon = append(nt.exCon, Synapse{Si: int32(si), Ri: int32(ri), Delay: int32(delay)})
}

// Build allocates neurons from the layer specs and expands all recorded
// connection specs into the sender-major synapse slice.  Returns an error
// for empty or inconsistent specifications.
func (nt *Network) Build() error {
	if len(nt.Layers) == 0 {
		return fmt.Errorf("snet: network %q has no layers", nt.Nm)
	}
	tot := 0
	for li := range nt.Layers {
		ls := &nt.Layers[li]
		if ls.N <= 0 {
			return fmt.Errorf("snet: layer %q has %d neurons -- every layer must be non-empty", ls.Nm, ls.N)
		}
		tot += ls.N
	}
	nt.Neurons = make([]Neuron, tot)
	for li := range nt.Layers {
		ls := &nt.Layers[li]
		for ni := 0; ni < ls.N; ni++ {
			nt.Neurons[ls.Start+ni].Kind = ls.Kind
		}
	}

	syns := make([]Synapse, 0, len(nt.exCon))
	for _, cs := range nt.cons {
		sl, err := nt.LayerByName(cs.send)
		if err != nil {
			return err
		}
		rl, err := nt.LayerByName(cs.recv)
		if err != nil {
			return err
		}
		for si := 0; si < sl.N; si++ {
			for ri := 0; ri < rl.N; ri++ {
				syns = append(syns, Synapse{Si: int32(sl.Start + si), Ri: int32(rl.Start + ri), Delay: cs.delay})
			}
		}
	}
	for _, sy := range nt.exCon {
		if int(sy.Si) >= tot || int(sy.Ri) >= tot || sy.Si < 0 || sy.Ri < 0 {
			return fmt.Errorf("snet: explicit synapse %d -> %d out of range (%d neurons)", sy.Si, sy.Ri, tot)
		}
		syns = append(syns, sy)
	}
	sort.SliceStable(syns, func(a, b int) bool {
		if syns[a].Si != syns[b].Si {
			return syns[a].Si < syns[b].Si
		}
		return syns[a].Ri < syns[b].Ri
	})
	for i := 1; i < len(syns); i++ {
		if syns[i].Si == syns[i-1].Si && syns[i].Ri == syns[i-1].Ri {
			return fmt.Errorf("snet: duplicate synapse %d -> %d", syns[i].Si, syns[i].Ri)
		}
	}
	nt.Syns = syns

	nt.SendStart = make([]int32, tot)
	nt.SendN = make([]int32, tot)
	nt.maxDelay = 0
	for i := range nt.Syns {
		sy := &nt.Syns[i]
		if sy.Delay < 0 {
			return fmt.Errorf("snet: synapse %d -> %d has negative delay %d", sy.Si, sy.Ri, sy.Delay)
		}
		if sy.Delay > nt.maxDelay {
			nt.maxDelay = sy.Delay
		}
		nt.SendN[sy.Si]++
	}
	pos := int32(0)
	for ni := range nt.SendStart {
		nt.SendStart[ni] = pos
		pos += nt.SendN[ni]
	}

	nt.bufLen = int(nt.maxDelay) + 2
	nt.geBuf = make([]float32, tot*nt.bufLen)
	nt.bufPos = 0
	nt.cons = nil
	nt.exCon = nil
	nt.built = true
	return nil
}

// InitWts initializes all synaptic weights from the Learn.WtInit
// distribution using the passed rand source, and initializes all neuron
// activation state.  Call once at the start of a run; weights then evolve
// only through learning.
func (nt *Network) InitWts(rnd *rand.Rand) {
	for i := range nt.Syns {
		nt.Learn.InitWts(&nt.Syns[i], rnd)
	}
	nt.InitActs()
}

// InitActs initializes all neuron activation state and clears any pending
// delayed input.  Does not touch synapses.
func (nt *Network) InitActs() {
	for ni := range nt.Neurons {
		nt.Act.InitActs(&nt.Neurons[ni])
	}
	for i := range nt.geBuf {
		nt.geBuf[i] = 0
	}
	nt.bufPos = 0
}

// ClearTraces zeroes the eligibility traces and any pending weight changes
// on all synapses, leaving weights intact.
func (nt *Network) ClearTraces() {
	for i := range nt.Syns {
		sy := &nt.Syns[i]
		sy.Tr = 0
		sy.DWt = 0
	}
}

// EpisodeInit resets all per-episode state -- neuron activations, pending
// delayed input, eligibility traces -- while retaining the learned weights.
func (nt *Network) EpisodeInit() {
	nt.InitActs()
	nt.ClearTraces()
}

// Cycle runs one tick of the network: input neurons generate spikes from
// the per-channel stimulation frequencies (freqs, one per input neuron in
// index order), integrating neurons update their membrane potentials from
// arriving synaptic current, and every spike is propagated into the delay
// buffer for its receivers.  Returns the tick's spike events, ordered by
// neuron index (and therefore grouped by layer); the returned slice is
// reused on the next Cycle.  A non-finite membrane potential returns a
// DivergedError.
func (nt *Network) Cycle(ctime *Time, freqs []float32, rnd *rand.Rand) ([]SpikeEvent, error) {
	if !nt.built {
		return nil, fmt.Errorf("snet: network %q used before Build", nt.Nm)
	}
	nIn := nt.KindN(Input)
	if len(freqs) != nIn {
		return nil, fmt.Errorf("snet: %d stimulation channels for %d input neurons", len(freqs), nIn)
	}
	dt := ctime.TimePerTick

	// deliver this tick's arrivals from the delay buffer
	for ni := range nt.Neurons {
		slot := ni*nt.bufLen + nt.bufPos
		nt.Neurons[ni].GeRaw += nt.geBuf[slot]
		nt.geBuf[slot] = 0
	}

	chn := 0
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		if nrn.IsOff() {
			if nrn.Kind == Input {
				chn++
			}
			continue
		}
		switch nrn.Kind {
		case Input:
			hz := freqs[chn]
			chn++
			if hz > 0 {
				nrn.SetFlag(NeurHasStim)
			} else {
				nrn.ClearFlag(NeurHasStim)
			}
			nrn.GeRaw = 0
			nt.Act.Gen.GenSpike(nrn, hz, dt, rnd)
		default:
			if nt.Act.RefracStep(nrn) {
				continue
			}
			nt.Act.GeFmRaw(nrn)
			nt.Act.VmFmG(nrn)
			if !Finite(nrn.Vm) {
				return nil, &DivergedError{Var: "Vm", Idx: ni, Val: nrn.Vm}
			}
			nt.Act.SpikeFmVm(nrn)
		}
	}

	// propagate spikes to receivers at tick + 1 + delay
	nt.evBuf = nt.evBuf[:0]
	for ni := range nt.Neurons {
		nrn := &nt.Neurons[ni]
		if nrn.Spike != 1 {
			continue
		}
		nt.evBuf = append(nt.evBuf, SpikeEvent{Ni: int32(ni), Kind: nrn.Kind, Tick: int32(ctime.Tick)})
		st := nt.SendStart[ni]
		for ci := int32(0); ci < nt.SendN[ni]; ci++ {
			sy := &nt.Syns[st+ci]
			slot := int(sy.Ri)*nt.bufLen + (nt.bufPos+1+int(sy.Delay))%nt.bufLen
			nt.geBuf[slot] += sy.Wt
		}
	}
	nt.bufPos = (nt.bufPos + 1) % nt.bufLen
	return nt.evBuf, nil
}

// TraceFmSpikes updates every synapse's eligibility trace from its sending
// neuron's spike this tick: traces of spiking senders increment, all traces
// decay.  Called once per tick, after Cycle and before the reward multiply.
func (nt *Network) TraceFmSpikes() {
	for ni := range nt.Neurons {
		spk := nt.Neurons[ni].Spike
		st := nt.SendStart[ni]
		for ci := int32(0); ci < nt.SendN[ni]; ci++ {
			sy := &nt.Syns[st+ci]
			sy.Tr = nt.Learn.Trace.TrFmSpike(sy.Tr, spk)
		}
	}
}

// DWtFmDa computes weight changes on all synapses from the global reward
// scalar da: dwt = Lrate * da * trace.
func (nt *Network) DWtFmDa(da float32) {
	for i := range nt.Syns {
		nt.Learn.DWtFmDa(&nt.Syns[i], da)
	}
}

// WtFmDWt applies pending weight changes on all synapses, clipping into
// the configured weight range.  A non-finite weight returns a
// DivergedError.
func (nt *Network) WtFmDWt() error {
	for i := range nt.Syns {
		sy := &nt.Syns[i]
		nt.Learn.WtFmDWt(sy)
		if !Finite(sy.Wt) {
			return &DivergedError{Var: "Wt", Idx: i, Val: sy.Wt}
		}
	}
	return nil
}

// SynIdx returns the index into Syns of the synapse from si to ri,
// or -1 if not connected
func (nt *Network) SynIdx(si, ri int) int {
	if si < 0 || si >= len(nt.SendStart) {
		return -1
	}
	st := nt.SendStart[si]
	for ci := int32(0); ci < nt.SendN[si]; ci++ {
		if nt.Syns[st+ci].Ri == int32(ri) {
			return int(st + ci)
		}
	}
	return -1
}

// SynVal returns the value of the named synapse variable on the synapse
// from si to ri, or error if not connected
func (nt *Network) SynVal(varNm string, si, ri int) (float32, error) {
	idx := nt.SynIdx(si, ri)
	if idx < 0 {
		return 0, fmt.Errorf("snet: no synapse %d -> %d", si, ri)
	}
	return nt.Syns[idx].VarByName(varNm)
}

// SetSynVal sets the named synapse variable on the synapse from si to ri,
// or error if not connected
func (nt *Network) SetSynVal(varNm string, si, ri int, val float32) error {
	idx := nt.SynIdx(si, ri)
	if idx < 0 {
		return fmt.Errorf("snet: no synapse %d -> %d", si, ri)
	}
	return nt.Syns[idx].SetVarByName(varNm, val)
}

// SizeReport returns a string report of the size of the network in terms
// of neurons and synapses and the memory used by each
func (nt *Network) SizeReport() string {
	var b strings.Builder
	neur := len(nt.Neurons)
	nrnMem := neur * int(unsafe.Sizeof(Neuron{}))
	syn := len(nt.Syns)
	synMem := syn * int(unsafe.Sizeof(Synapse{}))
	fmt.Fprintf(&b, "%14s:\t Neurons: %d\t NeurMem: %v \t Syns: %d \t SynMem: %v\n",
		nt.Nm, neur, (datasize.ByteSize)(nrnMem).HumanReadable(), syn, (datasize.ByteSize)(synMem).HumanReadable())
	return b.String()
}
