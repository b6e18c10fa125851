//////////////////////////////////////////////////////////////////
//
// Copyright (c) 2026 h5typed contributors.
// All rights reserved.
//
//	Use of this source code is governed by the license
//	that can be found in the LICENSE file.
//
//////////////////////////////////////////////////////////////////

// Package h5 is the native call surface over the HDF5 C library.
//
// Every function wraps exactly one H5* call (plus argument marshalling) and
// translates the library's status convention -- non-negative is success,
// negative is failure -- into a Go error carrying the text of the HDF5 error
// stack. No policy lives here; validation, typed error codes and handle
// lifecycle are the caller's business.
package h5

/*
#cgo pkg-config: hdf5
#include <stdio.h>
#include <stdlib.h>
#include <hdf5.h>

// Capture the most specific entry of the HDF5 error stack into buf.
// The stack grows from API entry point down to the failing internal routine,
// so walking downward and keeping the last description gives the most
// detailed message.
static herr_t h5go_walk_cb(unsigned n, const H5E_error2_t *err, void *data) {
	snprintf((char *)data, 512, "%s (%s)", err->desc, err->func_name);
	return 0;
}

static void h5go_error_text(char *buf) {
	buf[0] = '\0';
	H5Ewalk2(H5E_DEFAULT, H5E_WALK_DOWNWARD, h5go_walk_cb, buf);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// ID is a native HDF5 object identifier (hid_t). Negative values are invalid.
type ID int64

// Default stands in for H5P_DEFAULT wherever a property list is optional.
const Default ID = 0

// AllSpace stands in for H5S_ALL in read/write calls selecting a full extent.
const AllSpace ID = 0

// Error is a failed native call together with the HDF5 error stack text
// captured at the time of the failure.
type Error struct {
	Call  string // name of the H5* function that failed
	Stack string // most specific HDF5 error stack entry, may be empty
}

func (e *Error) Error() string {
	if e.Stack == "" {
		return fmt.Sprintf("%s failed", e.Call)
	}
	return fmt.Sprintf("%s failed: %s", e.Call, e.Stack)
}

// callError builds an *Error for the named native call from the thread's
// current HDF5 error stack. Must be called before any further native call
// clears or replaces the stack.
func callError(call string) error {
	buf := make([]byte, 512)
	C.h5go_error_text((*C.char)(unsafe.Pointer(&buf[0])))
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return &Error{Call: call, Stack: string(buf[:n])}
}

// Open initializes the HDF5 library. Safe to call more than once.
func Open() error {
	if C.H5open() < 0 {
		return callError("H5open")
	}
	return nil
}

// LibVersion returns the major/minor/release version of the linked library.
func LibVersion() (major, minor, release int, err error) {
	var maj, min, rel C.uint
	if C.H5get_libversion(&maj, &min, &rel) < 0 {
		return 0, 0, 0, callError("H5get_libversion")
	}
	return int(maj), int(min), int(rel), nil
}

// SilenceErrorOutput turns off the library's automatic error-stack printing.
// Failures are reported through Go errors instead; without this every failed
// probe (e.g. an H5Aopen existence check) would dump a stack trace to stderr.
func SilenceErrorOutput() error {
	if C.H5Eset_auto2(C.H5E_DEFAULT, nil, nil) < 0 {
		return callError("H5Eset_auto2")
	}
	return nil
}

// FreeMemory releases a buffer that the library allocated on our behalf.
func FreeMemory(p unsafe.Pointer) {
	C.H5free_memory(p)
}

// ---- Identifier introspection (H5I)

// Identifier kinds returned by IDKind (H5I_type_t).
const (
	IDFile      = int(C.H5I_FILE)
	IDGroup     = int(C.H5I_GROUP)
	IDDatatype  = int(C.H5I_DATATYPE)
	IDDataspace = int(C.H5I_DATASPACE)
	IDDataset   = int(C.H5I_DATASET)
	IDAttribute = int(C.H5I_ATTR)
)

// IDKind returns what kind of object an identifier refers to (H5Iget_type).
func IDKind(id ID) (int, error) {
	kind := C.H5Iget_type(C.hid_t(id))
	if kind <= C.H5I_BADID {
		return 0, callError("H5Iget_type")
	}
	return int(kind), nil
}

// hsizes converts a Go dimension slice to a C hsize_t array.
// Returns nil for a nil slice so optional maxdims arguments pass through.
func hsizes(dims []uint64) *C.hsize_t {
	if dims == nil {
		return nil
	}
	c := make([]C.hsize_t, len(dims))
	for i, d := range dims {
		c[i] = C.hsize_t(d)
	}
	return &c[0]
}
