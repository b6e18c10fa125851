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

// Link (H5L), group (H5G) and object (H5O) call families.

// #cgo pkg-config: hdf5
// #include <stdlib.h>
// #include <hdf5.h>
import "C"

import "unsafe"

// Object kinds as reported by ObjectKind (H5O_type_t).
const (
	KindGroup    = int(C.H5O_TYPE_GROUP)
	KindDataset  = int(C.H5O_TYPE_DATASET)
	KindDatatype = int(C.H5O_TYPE_NAMED_DATATYPE)
)

// CreateGroup creates a group (H5Gcreate2). lcpl may be Default; pass a link
// creation property list with intermediate-group creation enabled to build
// whole paths in one call.
func CreateGroup(loc ID, name string, lcpl ID) (ID, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	id := C.H5Gcreate2(C.hid_t(loc), cname, C.hid_t(lcpl), C.H5P_DEFAULT, C.H5P_DEFAULT)
	if id < 0 {
		return -1, callError("H5Gcreate2")
	}
	return ID(id), nil
}

// OpenGroup opens an existing group (H5Gopen2).
func OpenGroup(loc ID, name string) (ID, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	id := C.H5Gopen2(C.hid_t(loc), cname, C.H5P_DEFAULT)
	if id < 0 {
		return -1, callError("H5Gopen2")
	}
	return ID(id), nil
}

// CloseGroup closes a group identifier (H5Gclose).
func CloseGroup(group ID) error {
	if C.H5Gclose(C.hid_t(group)) < 0 {
		return callError("H5Gclose")
	}
	return nil
}

// GroupLinkCount returns the number of links in a group (H5Gget_info).
func GroupLinkCount(group ID) (int, error) {
	var info C.H5G_info_t
	if C.H5Gget_info(C.hid_t(group), &info) < 0 {
		return 0, callError("H5Gget_info")
	}
	return int(info.nlinks), nil
}

// LinkExists reports whether a link exists at the given path (H5Lexists).
// Intermediate components must exist for the probe to succeed.
func LinkExists(loc ID, name string) (bool, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	tri := C.H5Lexists(C.hid_t(loc), cname, C.H5P_DEFAULT)
	if tri < 0 {
		return false, callError("H5Lexists")
	}
	return tri > 0, nil
}

// DeleteLink unlinks an object (H5Ldelete). The object's storage is
// reclaimed by the library once no other link references it.
func DeleteLink(loc ID, name string) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	if C.H5Ldelete(C.hid_t(loc), cname, C.H5P_DEFAULT) < 0 {
		return callError("H5Ldelete")
	}
	return nil
}

// LinkNameByIndex returns the name of the idx'th link of a group in
// ascending name order (H5Lget_name_by_idx).
func LinkNameByIndex(loc ID, group string, idx int) (string, error) {
	cgroup := C.CString(group)
	defer C.free(unsafe.Pointer(cgroup))
	// First call sizes the name, second call fetches it.
	n := C.H5Lget_name_by_idx(C.hid_t(loc), cgroup, C.H5_INDEX_NAME, C.H5_ITER_INC,
		C.hsize_t(idx), nil, 0, C.H5P_DEFAULT)
	if n < 0 {
		return "", callError("H5Lget_name_by_idx")
	}
	buf := make([]C.char, n+1)
	if C.H5Lget_name_by_idx(C.hid_t(loc), cgroup, C.H5_INDEX_NAME, C.H5_ITER_INC,
		C.hsize_t(idx), &buf[0], C.size_t(n+1), C.H5P_DEFAULT) < 0 {
		return "", callError("H5Lget_name_by_idx")
	}
	return C.GoStringN(&buf[0], C.int(n)), nil
}

// ObjectKind returns the kind of the object at path (H5Oget_info_by_name3).
func ObjectKind(loc ID, name string) (int, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var info C.H5O_info2_t
	if C.H5Oget_info_by_name3(C.hid_t(loc), cname, &info, C.H5O_INFO_BASIC, C.H5P_DEFAULT) < 0 {
		return 0, callError("H5Oget_info_by_name3")
	}
	return int(info._type), nil
}

// OpenObject opens an object of any kind by path (H5Oopen).
func OpenObject(loc ID, name string) (ID, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	id := C.H5Oopen(C.hid_t(loc), cname, C.H5P_DEFAULT)
	if id < 0 {
		return -1, callError("H5Oopen")
	}
	return ID(id), nil
}

// CloseObject closes an identifier opened with OpenObject (H5Oclose).
func CloseObject(obj ID) error {
	if C.H5Oclose(C.hid_t(obj)) < 0 {
		return callError("H5Oclose")
	}
	return nil
}
