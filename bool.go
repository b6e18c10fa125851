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

// boolEnumValues are the members of the reserved boolean enum, ordinal 0
// and 1. The names are part of the on-disk contract and never change.
var boolEnumValues = []string{"FALSE", "TRUE"}

const boolEnumName = "Boolean"

// BoolAccessor reads and writes booleans, stored as a reserved two-member
// enum so files stay self-describing, and packed bit fields stored as
// 64-bit bitfield words.
type BoolAccessor struct {
	base *base
}

// boolType returns the reserved boolean enum, committing it on first use.
func (a *BoolAccessor) boolType(reg *registry) (*EnumType, error) {
	return ensureEnumType(a.base, reg, boolEnumName, boolEnumValues)
}

// Write writes a scalar boolean dataset, creating it when absent.
func (a *BoolAccessor) Write(path string, value bool) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		t, err := a.boolType(reg)
		if err != nil {
			return err
		}
		dataset, err := a.base.getOrCreateDataSet(reg, path, t.id, nil, Features{})
		if err != nil {
			return err
		}
		v := boolOrdinal(value)
		err = h5.WriteDataset(dataset, t.id, h5.AllSpace, h5.AllSpace, unsafe.Pointer(&v))
		if err != nil {
			return libError(err)
		}
		return nil
	})
}

// Read reads a scalar boolean dataset. Any enum or integer scalar reads as
// a boolean: zero is false, anything else true.
func (a *BoolAccessor) Read(path string) (bool, error) {
	return runOpValue(a.base, func(reg *registry) (bool, error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return false, err
		}
		datatype, err := h5.DatasetType(dataset)
		if err != nil {
			return false, libError(err)
		}
		reg.datatype(datatype)
		class, err := h5.TypeClass(datatype)
		if err != nil {
			return false, libError(err)
		}
		if class != h5.ClassEnum && class != h5.ClassInteger {
			return false, errorf(h5err.WrongType, "dataset at %q does not hold a boolean", path)
		}
		params, err := a.base.fullSpaceParams(reg, dataset)
		if err != nil {
			return false, err
		}
		if params.count != 1 {
			return false, errorf(h5err.ShapeMismatch,
				"dataset at %q holds %d elements, scalar read requires exactly one", path, params.count)
		}
		var v int8
		err = h5.ReadDataset(dataset, h5.Predefined(h5.TypeNativeInt8),
			params.memSpace, params.fileSpace, unsafe.Pointer(&v))
		if err != nil {
			return false, libError(err)
		}
		return v != 0, nil
	})
}

// WriteArray writes data as the full extent of a rank-1 boolean dataset.
func (a *BoolAccessor) WriteArray(path string, data []bool, features ...Features) error {
	f := chooseFeatures(features)
	raw := make([]int8, len(data))
	for i, v := range data {
		raw[i] = boolOrdinal(v)
	}
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		t, err := a.boolType(reg)
		if err != nil {
			return err
		}
		dims := []uint64{uint64(len(data))}
		dataset, err := a.base.getOrCreateDataSet(reg, path, t.id, dims, f)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return nil
		}
		params, err := a.base.blockSpaceParams(reg, dataset, []uint64{0}, dims)
		if err != nil {
			return err
		}
		err = h5.WriteDataset(dataset, t.id, params.memSpace, params.fileSpace, unsafe.Pointer(&raw[0]))
		if err != nil {
			return libError(err)
		}
		return nil
	})
}

// ReadArray reads a rank-1 boolean dataset.
func (a *BoolAccessor) ReadArray(path string) ([]bool, error) {
	return runOpValue(a.base, func(reg *registry) ([]bool, error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return nil, err
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
		if class != h5.ClassEnum && class != h5.ClassInteger {
			return nil, errorf(h5err.WrongType, "dataset at %q does not hold booleans", path)
		}
		params, err := a.base.fullSpaceParams(reg, dataset)
		if err != nil {
			return nil, err
		}
		if err := requireRank(params.dims, 1, path); err != nil {
			return nil, err
		}
		if params.count == 0 {
			return nil, nil
		}
		raw := make([]int8, params.count)
		err = h5.ReadDataset(dataset, h5.Predefined(h5.TypeNativeInt8),
			params.memSpace, params.fileSpace, unsafe.Pointer(&raw[0]))
		if err != nil {
			return nil, libError(err)
		}
		out := make([]bool, len(raw))
		for i, v := range raw {
			out[i] = v != 0
		}
		return out, nil
	})
}

// SetAttr writes a scalar boolean attribute on the object at objPath.
func (a *BoolAccessor) SetAttr(objPath, name string, value bool) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		t, err := a.boolType(reg)
		if err != nil {
			return err
		}
		v := boolOrdinal(value)
		return a.base.setAttribute(reg, objPath, name, t.id, t.id, nil, unsafe.Pointer(&v))
	})
}

// Attr reads a scalar boolean attribute.
func (a *BoolAccessor) Attr(objPath, name string) (bool, error) {
	return runOpValue(a.base, func(reg *registry) (bool, error) {
		attr, dims, err := a.base.openAttribute(reg, objPath, name)
		if err != nil {
			return false, err
		}
		if elementCount(dims) != 1 {
			return false, errorf(h5err.ShapeMismatch,
				"attribute %q of %q is not scalar", name, objPath)
		}
		var v int8
		if err := h5.ReadAttribute(attr, h5.Predefined(h5.TypeNativeInt8), unsafe.Pointer(&v)); err != nil {
			return false, libError(err)
		}
		return v != 0, nil
	})
}

// ---- Bit fields
//
// A bit field is a packed set of flags stored as 64-bit bitfield words,
// tagged so readers know the words are flag storage rather than numbers.

// WriteBitField writes words as a rank-1 64-bit bitfield dataset.
func (a *BoolAccessor) WriteBitField(path string, words []uint64, features ...Features) error {
	f := chooseFeatures(features)
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		dims := []uint64{uint64(len(words))}
		dataset, err := a.base.getOrCreateDataSet(reg, path,
			h5.Predefined(h5.TypeStdBitfield64LE), dims, f)
		if err != nil {
			return err
		}
		if len(words) > 0 {
			params, err := a.base.blockSpaceParams(reg, dataset, []uint64{0}, dims)
			if err != nil {
				return err
			}
			err = h5.WriteDataset(dataset, h5.Predefined(h5.TypeNativeBitfield64),
				params.memSpace, params.fileSpace, unsafe.Pointer(&words[0]))
			if err != nil {
				return libError(err)
			}
		}
		return a.base.tagTypeVariant(reg, path, variantBitField)
	})
}

// ReadBitField reads a rank-1 64-bit bitfield dataset.
func (a *BoolAccessor) ReadBitField(path string) ([]uint64, error) {
	return runOpValue(a.base, func(reg *registry) ([]uint64, error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return nil, err
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
		if class != h5.ClassBitfield && class != h5.ClassInteger {
			return nil, errorf(h5err.WrongType, "dataset at %q does not hold a bit field", path)
		}
		params, err := a.base.fullSpaceParams(reg, dataset)
		if err != nil {
			return nil, err
		}
		if err := requireRank(params.dims, 1, path); err != nil {
			return nil, err
		}
		if params.count == 0 {
			return nil, nil
		}
		words := make([]uint64, params.count)
		err = h5.ReadDataset(dataset, h5.Predefined(h5.TypeNativeBitfield64),
			params.memSpace, params.fileSpace, unsafe.Pointer(&words[0]))
		if err != nil {
			return nil, libError(err)
		}
		return words, nil
	})
}

func boolOrdinal(v bool) int8 {
	if v {
		return 1
	}
	return 0
}
