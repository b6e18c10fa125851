//////////////////////////////////////////////////////////////////
//
// Copyright (c) 2026 h5typed contributors.
// All rights reserved.
//
//	Use of this source code is governed by the license
//	that can be found in the LICENSE file.
//
//////////////////////////////////////////////////////////////////

package h5

// Object references (H5R). The fixed-size hobj_ref_t representation is used
// so references can live inside datasets and compound members like any other
// 8-byte element.

// #cgo pkg-config: hdf5
// #include <stdlib.h>
// #include <hdf5.h>
import "C"

import "unsafe"

// RefSize is the size of one object reference in bytes.
const RefSize = int(C.sizeof_hobj_ref_t)

// CreateReference stores an object reference to path into the 8 bytes at buf
// (H5Rcreate with H5R_OBJECT).
func CreateReference(loc ID, path string, buf unsafe.Pointer) error {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	if C.H5Rcreate(buf, C.hid_t(loc), cpath, C.H5R_OBJECT, -1) < 0 {
		return callError("H5Rcreate")
	}
	return nil
}

// DereferenceObject opens the object a stored reference points to
// (H5Rdereference2). The caller owns the returned identifier and closes it
// with CloseObject.
func DereferenceObject(loc ID, buf unsafe.Pointer) (ID, error) {
	id := C.H5Rdereference2(C.hid_t(loc), C.H5P_DEFAULT, C.H5R_OBJECT, buf)
	if id < 0 {
		return -1, callError("H5Rdereference2")
	}
	return ID(id), nil
}

// ReferencePath returns the path of the object a stored reference points to
// (H5Rget_name).
func ReferencePath(loc ID, buf unsafe.Pointer) (string, error) {
	n := C.H5Rget_name(C.hid_t(loc), C.H5R_OBJECT, buf, nil, 0)
	if n < 0 {
		return "", callError("H5Rget_name")
	}
	name := make([]C.char, n+1)
	if C.H5Rget_name(C.hid_t(loc), C.H5R_OBJECT, buf, &name[0], C.size_t(n+1)) < 0 {
		return "", callError("H5Rget_name")
	}
	return C.GoStringN(&name[0], C.int(n)), nil
}

// ---- C-heap buffers
//
// Variable-length data crosses the cgo boundary as pointers stored inside
// record buffers. Those buffers must live on the C heap: the library reads
// and writes pointer fields in them, which the cgo pointer-passing rules
// forbid for Go-managed memory.

// Buffer is a C-heap allocation visible to Go as a byte slice.
type Buffer struct {
	ptr  unsafe.Pointer
	size int
}

// AllocBuffer allocates a zeroed C-heap buffer of the given size.
func AllocBuffer(size int) *Buffer {
	p := C.calloc(1, C.size_t(size))
	if p == nil {
		panic("h5: out of memory allocating C buffer")
	}
	return &Buffer{ptr: p, size: size}
}

// Bytes returns the buffer contents as a Go slice backed by the C allocation.
func (b *Buffer) Bytes() []byte {
	return unsafe.Slice((*byte)(b.ptr), b.size)
}

// Pointer returns the raw C pointer for passing to native calls.
func (b *Buffer) Pointer() unsafe.Pointer {
	return b.ptr
}

// Free releases the C allocation. The Buffer must not be used afterwards.
func (b *Buffer) Free() {
	if b.ptr != nil {
		C.free(b.ptr)
		b.ptr = nil
	}
}

// PackString stores a NUL-terminated C copy of s as a char* at offset off
// inside the buffer, for use as a variable-length string member value.
// FreePackedStrings must run after the native call that consumed it.
func (b *Buffer) PackString(off int, s string) {
	p := C.CString(s)
	*(*unsafe.Pointer)(unsafe.Add(b.ptr, off)) = unsafe.Pointer(p)
}

// UnpackString reads the char* at offset off and returns it as a Go string.
// The empty string is returned for a NULL pointer.
func (b *Buffer) UnpackString(off int) string {
	p := *(*unsafe.Pointer)(unsafe.Add(b.ptr, off))
	if p == nil {
		return ""
	}
	return C.GoString((*C.char)(p))
}

// FreePackedStrings releases the C strings previously stored with PackString
// at the given offsets and clears the pointer fields.
func (b *Buffer) FreePackedStrings(offsets []int) {
	for _, off := range offsets {
		slot := (*unsafe.Pointer)(unsafe.Add(b.ptr, off))
		if *slot != nil {
			C.free(*slot)
			*slot = nil
		}
	}
}
