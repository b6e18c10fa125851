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
// #include <hdf5.h>
import "C"

// Unlimited marks a dimension with no maximum extent (H5S_UNLIMITED).
const Unlimited = ^uint64(0)

// CreateScalarSpace creates a rank-0 dataspace (H5Screate).
func CreateScalarSpace() (ID, error) {
	id := C.H5Screate(C.H5S_SCALAR)
	if id < 0 {
		return -1, callError("H5Screate")
	}
	return ID(id), nil
}

// CreateSimpleSpace creates a simple dataspace with the given current and
// maximum dimensions (H5Screate_simple). maxDims may be nil, in which case
// the maximum equals dims.
func CreateSimpleSpace(dims, maxDims []uint64) (ID, error) {
	id := C.H5Screate_simple(C.int(len(dims)), hsizes(dims), hsizes(maxDims))
	if id < 0 {
		return -1, callError("H5Screate_simple")
	}
	return ID(id), nil
}

// CloseSpace closes a dataspace identifier (H5Sclose).
func CloseSpace(space ID) error {
	if C.H5Sclose(C.hid_t(space)) < 0 {
		return callError("H5Sclose")
	}
	return nil
}

// SpaceRank returns the rank of a simple dataspace (H5Sget_simple_extent_ndims).
// A scalar dataspace has rank 0.
func SpaceRank(space ID) (int, error) {
	rank := C.H5Sget_simple_extent_ndims(C.hid_t(space))
	if rank < 0 {
		return 0, callError("H5Sget_simple_extent_ndims")
	}
	return int(rank), nil
}

// SpaceDims returns the current and maximum dimensions of a dataspace
// (H5Sget_simple_extent_dims). Both slices are empty for a scalar space.
func SpaceDims(space ID) (dims, maxDims []uint64, err error) {
	rank := C.H5Sget_simple_extent_ndims(C.hid_t(space))
	if rank < 0 {
		return nil, nil, callError("H5Sget_simple_extent_ndims")
	}
	if rank == 0 {
		return []uint64{}, []uint64{}, nil
	}
	cdims := make([]C.hsize_t, rank)
	cmax := make([]C.hsize_t, rank)
	if C.H5Sget_simple_extent_dims(C.hid_t(space), &cdims[0], &cmax[0]) < 0 {
		return nil, nil, callError("H5Sget_simple_extent_dims")
	}
	dims = make([]uint64, rank)
	maxDims = make([]uint64, rank)
	for i := range cdims {
		dims[i] = uint64(cdims[i])
		maxDims[i] = uint64(cmax[i])
	}
	return dims, maxDims, nil
}

// SpaceElements returns the number of elements a dataspace selects
// (H5Sget_simple_extent_npoints).
func SpaceElements(space ID) (int, error) {
	n := C.H5Sget_simple_extent_npoints(C.hid_t(space))
	if n < 0 {
		return 0, callError("H5Sget_simple_extent_npoints")
	}
	return int(n), nil
}

// SelectHyperslab replaces the selection of space with a contiguous block of
// the given offset and shape (H5Sselect_hyperslab with H5S_SELECT_SET, unit
// stride, one block per axis).
func SelectHyperslab(space ID, offset, shape []uint64) error {
	if C.H5Sselect_hyperslab(C.hid_t(space), C.H5S_SELECT_SET,
		hsizes(offset), nil, hsizes(shape), nil) < 0 {
		return callError("H5Sselect_hyperslab")
	}
	return nil
}

// SpaceIsScalar reports whether the dataspace is of scalar class
// (H5Sget_simple_extent_type).
func SpaceIsScalar(space ID) (bool, error) {
	class := C.H5Sget_simple_extent_type(C.hid_t(space))
	if class < 0 {
		return false, callError("H5Sget_simple_extent_type")
	}
	return class == C.H5S_SCALAR, nil
}
