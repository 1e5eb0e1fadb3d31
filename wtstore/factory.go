// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wtstore

import "fmt"

// NewStore returns a store for the named backend: "memory" (or empty)
// always works; "sqlite" needs a path and the sqlite build tag.
func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemStore(), nil
	case "sqlite":
		return newSQLiteStore(path)
	default:
		return nil, fmt.Errorf("wtstore: unsupported store backend: %s", kind)
	}
}
