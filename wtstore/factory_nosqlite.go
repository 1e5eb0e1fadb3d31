// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !sqlite

package wtstore

import "fmt"

func newSQLiteStore(_ string) (Store, error) {
	return nil, fmt.Errorf("wtstore: sqlite backend unavailable in this build; rebuild with -tags sqlite")
}
