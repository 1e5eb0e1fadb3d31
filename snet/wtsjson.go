// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snet

import (
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/emer/emergent/weights"
	"github.com/goki/ki/indent"
)

// wtsjson.go implements saving and loading of the learned synaptic weights
// in the standard emergent network weights JSON format: layers containing
// projections from each sending layer, with layer-relative receiver and
// sender indexes.  This is the stable on-disk contract for resuming
// learning across runs.

// layerOf returns the layer containing the given global neuron index,
// or nil if out of range
func (nt *Network) layerOf(ni int32) *LayerStru {
	for li := range nt.Layers {
		ls := &nt.Layers[li]
		if int(ni) >= ls.Start && int(ni) < ls.Start+ls.N {
			return ls
		}
	}
	return nil
}

// SaveWtsJSON saves network weights (and any other state that adapts with
// learning) to a JSON-formatted file.  If filename has .gz extension, then
// file is gzip compressed.
func (nt *Network) SaveWtsJSON(filename string) error {
	fp, err := os.Create(filename)
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	ext := filepath.Ext(filename)
	if ext == ".gz" {
		gzr := gzip.NewWriter(fp)
		defer gzr.Close()
		nt.WriteWtsJSON(gzr)
	} else {
		nt.WriteWtsJSON(fp)
	}
	return nil
}

// OpenWtsJSON opens network weights (and any other state that adapts with
// learning) from a JSON-formatted file.  If filename has .gz extension,
// then file is gzip uncompressed.
func (nt *Network) OpenWtsJSON(filename string) error {
	fp, err := os.Open(filename)
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	ext := filepath.Ext(filename)
	if ext == ".gz" {
		gzr, err := gzip.NewReader(fp)
		defer gzr.Close()
		if err != nil {
			log.Println(err)
			return err
		}
		return nt.ReadWtsJSON(gzr)
	}
	return nt.ReadWtsJSON(fp)
}

// WriteWtsJSON writes the weights from this network in a JSON text format.
// We build in the indentation logic to make it much faster and more
// efficient.
func (nt *Network) WriteWtsJSON(w io.Writer) {
	depth := 0
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Network\": %q,\n", nt.Nm)))
	if len(nt.MetaData) > 0 {
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"MetaData\": {\n"))
		depth++
		keys := make([]string, 0, len(nt.MetaData))
		for k := range nt.MetaData {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for ki, k := range keys {
			w.Write(indent.TabBytes(depth))
			if ki == len(keys)-1 {
				w.Write([]byte(fmt.Sprintf("%q: %q\n", k, nt.MetaData[k])))
			} else {
				w.Write([]byte(fmt.Sprintf("%q: %q,\n", k, nt.MetaData[k])))
			}
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("},\n"))
	}
	w.Write(indent.TabBytes(depth))
	onls := nt.recvLayers()
	nl := len(onls)
	if nl == 0 {
		w.Write([]byte("\"Layers\": null\n"))
	} else {
		w.Write([]byte("\"Layers\": [\n"))
		depth++
		for li, ls := range onls {
			nt.writeLayerWtsJSON(w, ls, depth)
			if li == nl-1 {
				w.Write([]byte("\n"))
			} else {
				w.Write([]byte(",\n"))
			}
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("]\n"))
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}\n"))
}

// recvLayers returns the layers that receive at least one synapse, in order
func (nt *Network) recvLayers() []*LayerStru {
	var ls []*LayerStru
	for li := range nt.Layers {
		l := &nt.Layers[li]
		has := false
		for i := range nt.Syns {
			if nt.layerOf(nt.Syns[i].Ri) == l {
				has = true
				break
			}
		}
		if has {
			ls = append(ls, l)
		}
	}
	return ls
}

// sendLayers returns the layers sending at least one synapse into rl, in order
func (nt *Network) sendLayers(rl *LayerStru) []*LayerStru {
	var ls []*LayerStru
	for li := range nt.Layers {
		l := &nt.Layers[li]
		has := false
		for i := range nt.Syns {
			if nt.layerOf(nt.Syns[i].Ri) == rl && nt.layerOf(nt.Syns[i].Si) == l {
				has = true
				break
			}
		}
		if has {
			ls = append(ls, l)
		}
	}
	return ls
}

// writeLayerWtsJSON writes the weights for one receiving layer, as a set of
// projections from each sending layer
func (nt *Network) writeLayerWtsJSON(w io.Writer, rl *LayerStru, depth int) {
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Layer\": %q,\n", rl.Nm)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("\"Prjns\": [\n"))
	depth++
	sls := nt.sendLayers(rl)
	for si, sl := range sls {
		nt.writePrjnWtsJSON(w, sl, rl, depth)
		if si == len(sls)-1 {
			w.Write([]byte("\n"))
		} else {
			w.Write([]byte(",\n"))
		}
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("]\n"))
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}"))
}

// writePrjnWtsJSON writes the weights for the projection from sl into rl,
// from the receiver-side perspective with layer-relative indexes
func (nt *Network) writePrjnWtsJSON(w io.Writer, sl, rl *LayerStru, depth int) {
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"From\": %q,\n", sl.Nm)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("\"Rs\": [\n"))
	depth++
	for ri := 0; ri < rl.N; ri++ {
		gri := int32(rl.Start + ri)
		var sis []int
		var wts []float32
		for si := 0; si < sl.N; si++ {
			idx := nt.SynIdx(sl.Start+si, int(gri))
			if idx >= 0 {
				sis = append(sis, si)
				wts = append(wts, nt.Syns[idx].Wt)
			}
		}
		nc := len(sis)
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("{\n"))
		depth++
		w.Write(indent.TabBytes(depth))
		w.Write([]byte(fmt.Sprintf("\"Ri\": %v,\n", ri)))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte(fmt.Sprintf("\"N\": %v,\n", nc)))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"Si\": [ "))
		for ci := 0; ci < nc; ci++ {
			w.Write([]byte(fmt.Sprintf("%v", sis[ci])))
			if ci == nc-1 {
				w.Write([]byte(" "))
			} else {
				w.Write([]byte(", "))
			}
		}
		w.Write([]byte("],\n"))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"Wt\": [ "))
		for ci := 0; ci < nc; ci++ {
			w.Write([]byte(strconv.FormatFloat(float64(wts[ci]), 'g', weights.Prec, 32)))
			if ci == nc-1 {
				w.Write([]byte(" "))
			} else {
				w.Write([]byte(", "))
			}
		}
		w.Write([]byte("]\n"))
		depth--
		w.Write(indent.TabBytes(depth))
		if ri == rl.N-1 {
			w.Write([]byte("}\n"))
		} else {
			w.Write([]byte("},\n"))
		}
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("]\n"))
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}"))
}

// ReadWtsJSON reads network weights in a JSON text format.  Reads entire
// file into a temporary weights.Network structure that is then passed to
// SetWts to update the network.
func (nt *Network) ReadWtsJSON(r io.Reader) error {
	nw, err := weights.NetReadJSON(r)
	if err != nil {
		return err // note: already logged
	}
	err = nt.SetWts(nw)
	if err != nil {
		log.Println(err)
	}
	return err
}

// SetWts sets the weights for this network from weights.Network decoded
// values, mapping layer-relative indexes back onto the flat synapse slice
func (nt *Network) SetWts(nw *weights.Network) error {
	var err error
	if nw.Network != "" {
		nt.Nm = nw.Network
	}
	if nw.MetaData != nil {
		if nt.MetaData == nil {
			nt.MetaData = nw.MetaData
		} else {
			for mk, mv := range nw.MetaData {
				nt.MetaData[mk] = mv
			}
		}
	}
	for li := range nw.Layers {
		lw := &nw.Layers[li]
		rl, er := nt.LayerByName(lw.Layer)
		if er != nil {
			err = er
			continue
		}
		for pi := range lw.Prjns {
			pw := &lw.Prjns[pi]
			sl, er := nt.LayerByName(pw.From)
			if er != nil {
				err = er
				continue
			}
			for i := range pw.Rs {
				pr := &pw.Rs[i]
				for si := range pr.Si {
					er := nt.SetSynVal("Wt", sl.Start+pr.Si[si], rl.Start+pr.Ri, pr.Wt[si])
					if er != nil {
						err = er
					}
				}
			}
		}
	}
	return err
}
