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

/*
#cgo pkg-config: hdf5
#include <hdf5.h>

// The property list class identifiers are globals behind macros, same story
// as the predefined datatypes.
static hid_t h5go_plist_class(int idx) {
	switch (idx) {
	case 0: return H5P_DATASET_CREATE;
	case 1: return H5P_LINK_CREATE;
	case 2: return H5P_FILE_ACCESS;
	}
	return -1;
}
*/
import "C"

// Property list classes for CreatePlist.
const (
	PlistDatasetCreate = iota
	PlistLinkCreate
	PlistFileAccess
)

// Dataset storage layouts (H5D_layout_t).
const (
	LayoutCompact    = int(C.H5D_COMPACT)
	LayoutContiguous = int(C.H5D_CONTIGUOUS)
	LayoutChunked    = int(C.H5D_CHUNKED)
)

// CreatePlist creates a property list of the given class (H5Pcreate).
func CreatePlist(class int) (ID, error) {
	id := C.H5Pcreate(C.h5go_plist_class(C.int(class)))
	if id < 0 {
		return -1, callError("H5Pcreate")
	}
	return ID(id), nil
}

// ClosePlist closes a property list identifier (H5Pclose).
func ClosePlist(plist ID) error {
	if C.H5Pclose(C.hid_t(plist)) < 0 {
		return callError("H5Pclose")
	}
	return nil
}

// SetChunk sets a chunked layout with the given chunk shape (H5Pset_chunk).
func SetChunk(plist ID, dims []uint64) error {
	if C.H5Pset_chunk(C.hid_t(plist), C.int(len(dims)), hsizes(dims)) < 0 {
		return callError("H5Pset_chunk")
	}
	return nil
}

// SetDeflate enables gzip compression at the given level (H5Pset_deflate).
// Requires a chunked layout.
func SetDeflate(plist ID, level int) error {
	if C.H5Pset_deflate(C.hid_t(plist), C.uint(level)) < 0 {
		return callError("H5Pset_deflate")
	}
	return nil
}

// SetLayout selects the dataset storage layout (H5Pset_layout).
func SetLayout(plist ID, layout int) error {
	if C.H5Pset_layout(C.hid_t(plist), C.H5D_layout_t(layout)) < 0 {
		return callError("H5Pset_layout")
	}
	return nil
}

// GetLayout returns the dataset storage layout (H5Pget_layout).
func GetLayout(plist ID) (int, error) {
	layout := C.H5Pget_layout(C.hid_t(plist))
	if layout < 0 {
		return 0, callError("H5Pget_layout")
	}
	return int(layout), nil
}

// GetChunk returns the chunk shape of a chunked layout (H5Pget_chunk).
// rank is the dataset rank; the result has exactly rank entries.
func GetChunk(plist ID, rank int) ([]uint64, error) {
	cdims := make([]C.hsize_t, rank)
	if C.H5Pget_chunk(C.hid_t(plist), C.int(rank), &cdims[0]) < 0 {
		return nil, callError("H5Pget_chunk")
	}
	dims := make([]uint64, rank)
	for i, d := range cdims {
		dims[i] = uint64(d)
	}
	return dims, nil
}

// SetCreateIntermediateGroups makes link creation build missing parent
// groups (H5Pset_create_intermediate_group).
func SetCreateIntermediateGroups(lcpl ID) error {
	if C.H5Pset_create_intermediate_group(C.hid_t(lcpl), 1) < 0 {
		return callError("H5Pset_create_intermediate_group")
	}
	return nil
}
