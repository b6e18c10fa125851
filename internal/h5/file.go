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

// #cgo pkg-config: hdf5
// #include <stdlib.h>
// #include <hdf5.h>
import "C"

import "unsafe"

// File access modes for OpenFile.
var (
	ReadOnly  = uint(C.H5F_ACC_RDONLY)
	ReadWrite = uint(C.H5F_ACC_RDWR)
)

// File creation modes for CreateFile.
var (
	Truncate  = uint(C.H5F_ACC_TRUNC)
	Exclusive = uint(C.H5F_ACC_EXCL)
)

// CreateFile creates a new HDF5 file (H5Fcreate).
func CreateFile(name string, flags uint) (ID, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	id := C.H5Fcreate(cname, C.uint(flags), C.H5P_DEFAULT, C.H5P_DEFAULT)
	if id < 0 {
		return -1, callError("H5Fcreate")
	}
	return ID(id), nil
}

// OpenFile opens an existing HDF5 file (H5Fopen).
func OpenFile(name string, flags uint) (ID, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	id := C.H5Fopen(cname, C.uint(flags), C.H5P_DEFAULT)
	if id < 0 {
		return -1, callError("H5Fopen")
	}
	return ID(id), nil
}

// CloseFile closes a file identifier (H5Fclose).
func CloseFile(file ID) error {
	if C.H5Fclose(C.hid_t(file)) < 0 {
		return callError("H5Fclose")
	}
	return nil
}

// FlushFile flushes all buffers of the file to disk (H5Fflush, global scope).
func FlushFile(file ID) error {
	if C.H5Fflush(C.hid_t(file), C.H5F_SCOPE_GLOBAL) < 0 {
		return callError("H5Fflush")
	}
	return nil
}

// IsHDF5 reports whether the named file is in HDF5 format (H5Fis_accessible).
func IsHDF5(name string) (bool, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	tri := C.H5Fis_accessible(cname, C.H5P_DEFAULT)
	if tri < 0 {
		return false, callError("H5Fis_accessible")
	}
	return tri > 0, nil
}
