//////////////////////////////////////////////////////////////////
//
// Copyright (c) 2026 h5typed contributors.
// All rights reserved.
//
//	Use of this source code is governed by the license
//	that can be found in the LICENSE file.
//
//////////////////////////////////////////////////////////////////

// Package h5err contains the error codes used by hdf5.Error.
// Codes are positive numbers; the raw status values returned by the
// native HDF5 library are negative and are never exposed directly.
package h5err

// Error codes for use by the hdf5 package.
const (
	Init              = iota + 1 // Library initialization failed
	VersionMismatch              // Native library version outside the supported range
	Library                      // A native call failed; message carries the HDF5 error stack text
	Resource                     // Native handle acquisition or release failure
	NotFound                     // Requested path, attribute or member does not exist
	WrongType                    // Path resolves to an object of an incompatible kind
	ShapeMismatch                // Rank or dimension mismatch between request and dataset
	OutOfBounds                  // Requested offset/block exceeds the current extent
	Unsupported                  // Operation not meaningful for the given storage class
	Encoding                     // Datatype conversion failure
	ClosedHandle                 // Operation on a file handle that has been closed
	UnknownMember                // Enum or compound member ordinal out of the defined set
	DoubleRelease                // A native handle was released twice (programmer error)
	OutOfMemory                  // Not enough memory for an attempted allocation
	IteratorGoroutine            // Natural-block iterator advanced from the wrong goroutine
	InvalidArgument              // Argument failed validation before any native call
)
