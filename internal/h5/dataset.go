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

// OpenDataset opens an existing dataset (H5Dopen2).
func OpenDataset(loc ID, name string) (ID, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	id := C.H5Dopen2(C.hid_t(loc), cname, C.H5P_DEFAULT)
	if id < 0 {
		return -1, callError("H5Dopen2")
	}
	return ID(id), nil
}

// CreateDataset creates a dataset (H5Dcreate2). lcpl and dcpl may be Default.
func CreateDataset(loc ID, name string, datatype, space, lcpl, dcpl ID) (ID, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	id := C.H5Dcreate2(C.hid_t(loc), cname, C.hid_t(datatype), C.hid_t(space),
		C.hid_t(lcpl), C.hid_t(dcpl), C.H5P_DEFAULT)
	if id < 0 {
		return -1, callError("H5Dcreate2")
	}
	return ID(id), nil
}

// CloseDataset closes a dataset identifier (H5Dclose).
func CloseDataset(dataset ID) error {
	if C.H5Dclose(C.hid_t(dataset)) < 0 {
		return callError("H5Dclose")
	}
	return nil
}

// DatasetSpace returns a copy of the dataset's dataspace (H5Dget_space).
// The caller owns the returned identifier.
func DatasetSpace(dataset ID) (ID, error) {
	id := C.H5Dget_space(C.hid_t(dataset))
	if id < 0 {
		return -1, callError("H5Dget_space")
	}
	return ID(id), nil
}

// DatasetType returns a copy of the dataset's datatype (H5Dget_type).
// The caller owns the returned identifier.
func DatasetType(dataset ID) (ID, error) {
	id := C.H5Dget_type(C.hid_t(dataset))
	if id < 0 {
		return -1, callError("H5Dget_type")
	}
	return ID(id), nil
}

// DatasetCreatePlist returns the dataset creation property list (H5Dget_create_plist).
// The caller owns the returned identifier.
func DatasetCreatePlist(dataset ID) (ID, error) {
	id := C.H5Dget_create_plist(C.hid_t(dataset))
	if id < 0 {
		return -1, callError("H5Dget_create_plist")
	}
	return ID(id), nil
}

// ReadDataset reads dataset content into buf (H5Dread).
// buf must point to at least the number of bytes the selection covers and
// must not contain Go pointers.
func ReadDataset(dataset, memType, memSpace, fileSpace ID, buf unsafe.Pointer) error {
	if C.H5Dread(C.hid_t(dataset), C.hid_t(memType), C.hid_t(memSpace),
		C.hid_t(fileSpace), C.H5P_DEFAULT, buf) < 0 {
		return callError("H5Dread")
	}
	return nil
}

// WriteDataset writes buf into the dataset (H5Dwrite).
func WriteDataset(dataset, memType, memSpace, fileSpace ID, buf unsafe.Pointer) error {
	if C.H5Dwrite(C.hid_t(dataset), C.hid_t(memType), C.hid_t(memSpace),
		C.hid_t(fileSpace), C.H5P_DEFAULT, buf) < 0 {
		return callError("H5Dwrite")
	}
	return nil
}

// SetExtent grows (or shrinks) the dataset to the given dimensions (H5Dset_extent).
func SetExtent(dataset ID, dims []uint64) error {
	if C.H5Dset_extent(C.hid_t(dataset), hsizes(dims)) < 0 {
		return callError("H5Dset_extent")
	}
	return nil
}

// ReclaimVlen releases library-allocated variable-length backing buffers that
// a previous read placed behind the pointers in buf (H5Treclaim). Mandatory
// after every read of variable-length data, else the C heap leaks.
func ReclaimVlen(datatype, space ID, buf unsafe.Pointer) error {
	if C.H5Treclaim(C.hid_t(datatype), C.hid_t(space), C.H5P_DEFAULT, buf) < 0 {
		return callError("H5Treclaim")
	}
	return nil
}
