//////////////////////////////////////////////////////////////////
//
// Copyright (c) 2026 h5typed contributors.
// All rights reserved.
//
//	Use of this source code is governed by the license
//	that can be found in the LICENSE file.
//
//////////////////////////////////////////////////////////////////

// Scoped acquisition of native handles. Every dataspace, datatype,
// attribute, property-list and dataset identifier obtained during one
// logical operation is recorded in a registry and released in
// reverse-acquisition order on every exit path, including panics.

package hdf5

import (
	"github.com/h5typed/hdf5/h5err"
	"github.com/h5typed/hdf5/internal/h5"
)

type regEntry struct {
	id      h5.ID
	release func(h5.ID) error
}

// registry tracks native handles acquired during a single logical call.
// A registry never outlives the call that created it and is not safe for
// concurrent use; operations against a file are serialized anyway.
type registry struct {
	entries  []regEntry
	released bool
}

func newRegistry() *registry {
	return &registry{}
}

// add records a handle with its release function and hands the id back so
// acquisition sites stay one-liners.
func (r *registry) add(id h5.ID, release func(h5.ID) error) h5.ID {
	if r.released {
		panic(errorf(h5err.DoubleRelease, "handle %d registered after cleanup already ran", id))
	}
	r.entries = append(r.entries, regEntry{id: id, release: release})
	return id
}

func (r *registry) space(id h5.ID) h5.ID     { return r.add(id, h5.CloseSpace) }
func (r *registry) datatype(id h5.ID) h5.ID  { return r.add(id, h5.CloseType) }
func (r *registry) attribute(id h5.ID) h5.ID { return r.add(id, h5.CloseAttribute) }
func (r *registry) plist(id h5.ID) h5.ID     { return r.add(id, h5.ClosePlist) }
func (r *registry) dataset(id h5.ID) h5.ID   { return r.add(id, h5.CloseDataset) }
func (r *registry) object(id h5.ID) h5.ID    { return r.add(id, h5.CloseObject) }
func (r *registry) group(id h5.ID) h5.ID     { return r.add(id, h5.CloseGroup) }

// cleanUp releases all registered handles in reverse-acquisition order.
// Running it twice is a programming error: handles must be released exactly
// once, and a second pass would close identifiers the library may already
// have reassigned.
func (r *registry) cleanUp() error {
	if r.released {
		panic(errorf(h5err.DoubleRelease, "cleanup registry released twice"))
	}
	r.released = true
	var firstErr error
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if err := e.release(e.id); err != nil && firstErr == nil {
			firstErr = nativeError(h5err.Resource, err)
		}
	}
	r.entries = nil
	return firstErr
}

// runScoped executes op with a fresh registry and guarantees cleanup on all
// exit paths. The operation's outcome wins; a release failure surfaces only
// when the operation itself succeeded.
func runScoped(op func(reg *registry) error) (err error) {
	reg := newRegistry()
	defer func() {
		cleanupErr := reg.cleanUp()
		if err == nil {
			err = cleanupErr
		}
	}()
	return op(reg)
}

// runScopedValue is runScoped for operations that produce a value.
func runScopedValue[T any](op func(reg *registry) (T, error)) (val T, err error) {
	reg := newRegistry()
	defer func() {
		cleanupErr := reg.cleanUp()
		if err == nil {
			err = cleanupErr
		}
	}()
	return op(reg)
}
