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

// CreateAttribute creates an attribute on an object (H5Acreate2).
func CreateAttribute(obj ID, name string, datatype, space ID) (ID, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	id := C.H5Acreate2(C.hid_t(obj), cname, C.hid_t(datatype), C.hid_t(space),
		C.H5P_DEFAULT, C.H5P_DEFAULT)
	if id < 0 {
		return -1, callError("H5Acreate2")
	}
	return ID(id), nil
}

// OpenAttribute opens an existing attribute by name (H5Aopen).
func OpenAttribute(obj ID, name string) (ID, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	id := C.H5Aopen(C.hid_t(obj), cname, C.H5P_DEFAULT)
	if id < 0 {
		return -1, callError("H5Aopen")
	}
	return ID(id), nil
}

// CloseAttribute closes an attribute identifier (H5Aclose).
func CloseAttribute(attr ID) error {
	if C.H5Aclose(C.hid_t(attr)) < 0 {
		return callError("H5Aclose")
	}
	return nil
}

// ReadAttribute reads the whole attribute value into buf (H5Aread).
// Attributes are not block-addressable; reads and writes cover the full value.
func ReadAttribute(attr, memType ID, buf unsafe.Pointer) error {
	if C.H5Aread(C.hid_t(attr), C.hid_t(memType), buf) < 0 {
		return callError("H5Aread")
	}
	return nil
}

// WriteAttribute writes the whole attribute value from buf (H5Awrite).
func WriteAttribute(attr, memType ID, buf unsafe.Pointer) error {
	if C.H5Awrite(C.hid_t(attr), C.hid_t(memType), buf) < 0 {
		return callError("H5Awrite")
	}
	return nil
}

// AttributeExists reports whether the named attribute exists (H5Aexists).
func AttributeExists(obj ID, name string) (bool, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	tri := C.H5Aexists(C.hid_t(obj), cname)
	if tri < 0 {
		return false, callError("H5Aexists")
	}
	return tri > 0, nil
}

// DeleteAttribute removes the named attribute from an object (H5Adelete).
func DeleteAttribute(obj ID, name string) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	if C.H5Adelete(C.hid_t(obj), cname) < 0 {
		return callError("H5Adelete")
	}
	return nil
}

// AttributeSpace returns a copy of the attribute's dataspace (H5Aget_space).
// The caller owns the returned identifier.
func AttributeSpace(attr ID) (ID, error) {
	id := C.H5Aget_space(C.hid_t(attr))
	if id < 0 {
		return -1, callError("H5Aget_space")
	}
	return ID(id), nil
}

// AttributeType returns a copy of the attribute's datatype (H5Aget_type).
// The caller owns the returned identifier.
func AttributeType(attr ID) (ID, error) {
	id := C.H5Aget_type(C.hid_t(attr))
	if id < 0 {
		return -1, callError("H5Aget_type")
	}
	return ID(id), nil
}
