//////////////////////////////////////////////////////////////////
//
// Copyright (c) 2026 h5typed contributors.
// All rights reserved.
//
//	Use of this source code is governed by the license
//	that can be found in the LICENSE file.
//
//////////////////////////////////////////////////////////////////

package hdf5

import (
	"github.com/h5typed/hdf5/h5err"
	"github.com/h5typed/hdf5/internal/h5"
)

// DataSetInfo describes a dataset's shape and storage without reading its
// data.
type DataSetInfo struct {
	Dims        []uint64
	MaxDims     []uint64 // Unlimited marks an extendable axis
	ElementSize uint     // on-disk size of one element in bytes
	Class       string   // datatype class: integer, float, string, ...
	Layout      string   // contiguous, chunked or compact
	Chunks      []uint64 // nil unless chunked
}

// Unlimited marks an extendable axis in DataSetInfo.MaxDims.
const Unlimited = h5.Unlimited

// Elements returns the number of elements in the current extent.
func (i *DataSetInfo) Elements() uint64 { return elementCount(i.Dims) }

// Size returns the uncompressed data size in bytes.
func (i *DataSetInfo) Size() uint64 { return i.Elements() * uint64(i.ElementSize) }

var classNames = map[int]string{
	h5.ClassInteger:  "integer",
	h5.ClassFloat:    "float",
	h5.ClassString:   "string",
	h5.ClassBitfield: "bitfield",
	h5.ClassOpaque:   "opaque",
	h5.ClassCompound: "compound",
	h5.ClassRef:      "reference",
	h5.ClassEnum:     "enum",
	h5.ClassVlen:     "vlen",
	h5.ClassArray:    "array",
}

// DataSetInfo describes the dataset at path.
func (f *File) DataSetInfo(path string) (*DataSetInfo, error) {
	return runOpValue(f.base, func(reg *registry) (*DataSetInfo, error) {
		dataset, err := f.base.openDataSet(reg, path)
		if err != nil {
			return nil, err
		}
		space, err := h5.DatasetSpace(dataset)
		if err != nil {
			return nil, libError(err)
		}
		reg.space(space)
		dims, maxDims, err := h5.SpaceDims(space)
		if err != nil {
			return nil, libError(err)
		}
		datatype, err := h5.DatasetType(dataset)
		if err != nil {
			return nil, libError(err)
		}
		reg.datatype(datatype)
		class, err := h5.TypeClass(datatype)
		if err != nil {
			return nil, libError(err)
		}
		size, err := h5.TypeSize(datatype)
		if err != nil {
			return nil, libError(err)
		}
		info := &DataSetInfo{
			Dims:        dims,
			MaxDims:     maxDims,
			ElementSize: size,
			Class:       classNames[class],
		}
		if info.Class == "" {
			info.Class = "other"
		}
		dcpl, err := h5.DatasetCreatePlist(dataset)
		if err != nil {
			return nil, libError(err)
		}
		reg.plist(dcpl)
		layout, err := h5.GetLayout(dcpl)
		if err != nil {
			return nil, libError(err)
		}
		switch layout {
		case h5.LayoutCompact:
			info.Layout = "compact"
		case h5.LayoutChunked:
			info.Layout = "chunked"
			if len(dims) > 0 {
				chunks, err := h5.GetChunk(dcpl, len(dims))
				if err != nil {
					return nil, libError(err)
				}
				info.Chunks = chunks
			}
		default:
			info.Layout = "contiguous"
		}
		return info, nil
	})
}

// LibraryVersion returns the runtime version of the native library as
// major, minor and release numbers. The library is initialized on first
// use.
func LibraryVersion() (int, int, int, error) {
	if err := initializeLibrary(); err != nil {
		return 0, 0, 0, err
	}
	major, minor, release, err := h5.LibVersion()
	if err != nil {
		return 0, 0, 0, nativeError(h5err.Library, err)
	}
	return major, minor, release, nil
}

// IsHDF5 reports whether the file at path is an HDF5 file.
func IsHDF5(path string) (bool, error) {
	if err := initializeLibrary(); err != nil {
		return false, err
	}
	ok, err := h5.IsHDF5(path)
	if err != nil {
		return false, nativeError(h5err.Library, err)
	}
	return ok, nil
}
