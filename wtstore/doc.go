// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package wtstore persists learned synaptic weights across runs.

A run's weights are a flat (Si, Ri, Wt) table in the stable sender-major
order of the network's synapse slice, keyed by a RunInfo record.  Store
is the persistence interface: MemStore is always available, and
SQLiteStore is compiled in with -tags sqlite.  SaveNetwork and
LoadNetwork bridge between a live snet.Network and a Store, so a later
run can pick up exactly the weights an earlier run learned.
*/
package wtstore
