// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build sqlite

package wtstore

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}
