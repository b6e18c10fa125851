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
	"unsafe"

	"github.com/h5typed/hdf5/h5err"
	"github.com/h5typed/hdf5/internal/h5"
)

// OpaqueAccessor reads and writes opaque byte data: payloads the library
// stores verbatim, labeled with a tag naming the external format so readers
// know what the bytes mean without the binding interpreting them.
type OpaqueAccessor struct {
	base *base
}

// opaqueType returns the committed one-byte opaque type for tag, creating
// it on first use. Committing the type makes the tag discoverable by other
// tools reading the file.
func (a *OpaqueAccessor) opaqueType(reg *registry, tag string) (h5.ID, error) {
	path := a.base.dataTypePath(opaquePrefix, tag)
	id, found, err := a.base.openNamedType(path)
	if err != nil {
		return -1, err
	}
	if found {
		existing, err := h5.OpaqueTag(id)
		if err != nil {
			return -1, libError(err)
		}
		if existing != tag {
			return -1, errorf(h5err.WrongType,
				"committed opaque type at %q carries tag %q, not %q", path, existing, tag)
		}
		return id, nil
	}
	if err := a.base.checkWritable(); err != nil {
		return -1, err
	}
	created, err := h5.CreateOpaqueType(1, tag)
	if err != nil {
		return -1, nativeError(h5err.Resource, err)
	}
	reg.datatype(created)
	if err := a.base.commitNamedType(reg, path, created); err != nil {
		return -1, err
	}
	id, _, err = a.base.openNamedType(path)
	return id, err
}

// Write writes data as a rank-1 opaque dataset labeled with tag, creating
// the dataset when absent.
func (a *OpaqueAccessor) Write(path, tag string, data []byte, features ...Features) error {
	f := chooseFeatures(features)
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		datatype, err := a.opaqueType(reg, tag)
		if err != nil {
			return err
		}
		dims := []uint64{uint64(len(data))}
		dataset, err := a.base.getOrCreateDataSet(reg, path, datatype, dims, f)
		if err != nil {
			return err
		}
		if len(data) > 0 {
			params, err := a.base.blockSpaceParams(reg, dataset, []uint64{0}, dims)
			if err != nil {
				return err
			}
			err = h5.WriteDataset(dataset, datatype, params.memSpace, params.fileSpace,
				unsafe.Pointer(&data[0]))
			if err != nil {
				return libError(err)
			}
		}
		// The tag is also kept in a reserved attribute so it survives
		// tools that rewrite the dataset with a plain byte type.
		return a.base.setStringAttribute(reg, path,
			a.base.houseKeepingName(opaqueTagAttribute), tag)
	})
}

// Read reads a rank-1 opaque dataset and its tag.
func (a *OpaqueAccessor) Read(path string) (tag string, data []byte, err error) {
	type result struct {
		tag  string
		data []byte
	}
	r, err := runOpValue(a.base, func(reg *registry) (result, error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return result{}, err
		}
		datatype, err := h5.DatasetType(dataset)
		if err != nil {
			return result{}, libError(err)
		}
		reg.datatype(datatype)
		class, err := h5.TypeClass(datatype)
		if err != nil {
			return result{}, libError(err)
		}
		if class != h5.ClassOpaque {
			return result{}, errorf(h5err.WrongType, "dataset at %q does not hold opaque data", path)
		}
		tag, err := h5.OpaqueTag(datatype)
		if err != nil {
			return result{}, libError(err)
		}
		size, err := h5.TypeSize(datatype)
		if err != nil {
			return result{}, libError(err)
		}
		params, err := a.base.fullSpaceParams(reg, dataset)
		if err != nil {
			return result{}, err
		}
		if err := requireRank(params.dims, 1, path); err != nil {
			return result{}, err
		}
		data := make([]byte, params.count*uint64(size))
		if len(data) > 0 {
			err = h5.ReadDataset(dataset, datatype, params.memSpace, params.fileSpace,
				unsafe.Pointer(&data[0]))
			if err != nil {
				return result{}, libError(err)
			}
		}
		return result{tag: tag, data: data}, nil
	})
	return r.tag, r.data, err
}

// Tag returns the tag of an opaque dataset without reading its data.
func (a *OpaqueAccessor) Tag(path string) (string, error) {
	return runOpValue(a.base, func(reg *registry) (string, error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return "", err
		}
		datatype, err := h5.DatasetType(dataset)
		if err != nil {
			return "", libError(err)
		}
		reg.datatype(datatype)
		class, err := h5.TypeClass(datatype)
		if err != nil {
			return "", libError(err)
		}
		if class != h5.ClassOpaque {
			return "", errorf(h5err.WrongType, "dataset at %q does not hold opaque data", path)
		}
		tag, err := h5.OpaqueTag(datatype)
		if err != nil {
			return "", libError(err)
		}
		return tag, nil
	})
}
