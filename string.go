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
	"bytes"
	"unsafe"

	"github.com/h5typed/hdf5/h5err"
	"github.com/h5typed/hdf5/internal/h5"
)

// ptrSize is the width of one variable-length string slot in a read or
// write buffer.
const ptrSize = int(unsafe.Sizeof(unsafe.Pointer(nil)))

// StringAccessor reads and writes string-valued datasets and attributes.
// Fixed-length and variable-length storage are detected automatically on
// read; writes pick fixed-length storage unless a VL method is used.
type StringAccessor struct {
	base *base
}

// vlStringType builds a variable-length C string datatype.
func vlStringType(reg *registry) (h5.ID, error) {
	t, err := h5.CopyType(h5.Predefined(h5.TypeCString))
	if err != nil {
		return -1, nativeError(h5err.Resource, err)
	}
	reg.datatype(t)
	if err := h5.SetTypeSize(t, h5.VariableLength); err != nil {
		return -1, libError(err)
	}
	return t, nil
}

// fixedStringType builds a fixed-length C string datatype of size bytes,
// NUL terminator included.
func fixedStringType(reg *registry, size uint) (h5.ID, error) {
	if size == 0 {
		size = 1
	}
	t, err := h5.CopyType(h5.Predefined(h5.TypeCString))
	if err != nil {
		return -1, nativeError(h5err.Resource, err)
	}
	reg.datatype(t)
	if err := h5.SetTypeSize(t, size); err != nil {
		return -1, libError(err)
	}
	return t, nil
}

// checkStringClass rejects datasets that do not hold string elements and
// reports whether the storage is variable-length.
func (a *StringAccessor) checkStringClass(reg *registry, dataset h5.ID, path string) (variable bool, size uint, err error) {
	datatype, err := h5.DatasetType(dataset)
	if err != nil {
		return false, 0, libError(err)
	}
	reg.datatype(datatype)
	class, err := h5.TypeClass(datatype)
	if err != nil {
		return false, 0, libError(err)
	}
	if class != h5.ClassString {
		return false, 0, errorf(h5err.WrongType, "dataset at %q does not hold strings", path)
	}
	variable, err = h5.IsVariableString(datatype)
	if err != nil {
		return false, 0, libError(err)
	}
	if !variable {
		size, err = h5.TypeSize(datatype)
		if err != nil {
			return false, 0, libError(err)
		}
	}
	return variable, size, nil
}

// readStrings reads count string elements through the given selection.
// bufSpace describes the shape of the read buffer for VL reclaim.
func (a *StringAccessor) readStrings(reg *registry, dataset h5.ID, params spaceParams, bufSpace h5.ID, variable bool, size uint) ([]string, error) {
	count := int(params.count)
	if count == 0 {
		return nil, nil
	}
	if variable {
		vl, err := vlStringType(reg)
		if err != nil {
			return nil, err
		}
		buf := h5.AllocBuffer(count * ptrSize)
		defer buf.Free()
		err = h5.ReadDataset(dataset, vl, params.memSpace, params.fileSpace, buf.Pointer())
		if err != nil {
			return nil, libError(err)
		}
		out := make([]string, count)
		for i := range out {
			out[i] = buf.UnpackString(i * ptrSize)
		}
		// Give the library-allocated element strings back before the
		// buffer itself goes away.
		if err := h5.ReclaimVlen(vl, bufSpace, buf.Pointer()); err != nil {
			return nil, libError(err)
		}
		return out, nil
	}
	mem, err := fixedStringType(reg, size)
	if err != nil {
		return nil, err
	}
	raw := make([]byte, count*int(size))
	err = h5.ReadDataset(dataset, mem, params.memSpace, params.fileSpace, unsafe.Pointer(&raw[0]))
	if err != nil {
		return nil, libError(err)
	}
	out := make([]string, count)
	for i := range out {
		cell := raw[i*int(size) : (i+1)*int(size)]
		out[i] = string(bytes.TrimRight(cell, "\x00"))
	}
	return out, nil
}

// bufferSpace resolves the dataspace describing the read buffer: the memory
// space for block selections, the dataset's own space for full reads.
func (a *StringAccessor) bufferSpace(reg *registry, dataset h5.ID, params spaceParams) (h5.ID, error) {
	if params.memSpace != h5.AllSpace {
		return params.memSpace, nil
	}
	space, err := h5.DatasetSpace(dataset)
	if err != nil {
		return -1, libError(err)
	}
	return reg.space(space), nil
}

// ---- Scalar

// Read reads a scalar string dataset, fixed-length or variable-length.
func (a *StringAccessor) Read(path string) (string, error) {
	return runOpValue(a.base, func(reg *registry) (string, error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return "", err
		}
		variable, size, err := a.checkStringClass(reg, dataset, path)
		if err != nil {
			return "", err
		}
		params, err := a.base.fullSpaceParams(reg, dataset)
		if err != nil {
			return "", err
		}
		if params.count != 1 {
			return "", errorf(h5err.ShapeMismatch,
				"dataset at %q holds %d elements, scalar read requires exactly one", path, params.count)
		}
		bufSpace, err := a.bufferSpace(reg, dataset, params)
		if err != nil {
			return "", err
		}
		out, err := a.readStrings(reg, dataset, params, bufSpace, variable, size)
		if err != nil {
			return "", err
		}
		return out[0], nil
	})
}

// Write writes a scalar string dataset with fixed-length storage sized to
// the value, creating the dataset when absent.
func (a *StringAccessor) Write(path, value string) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		storage, err := fixedStringType(reg, uint(len(value))+1)
		if err != nil {
			return err
		}
		dataset, err := a.base.getOrCreateDataSet(reg, path, storage, nil, Features{})
		if err != nil {
			return err
		}
		raw := make([]byte, len(value)+1)
		copy(raw, value)
		err = h5.WriteDataset(dataset, storage, h5.AllSpace, h5.AllSpace, unsafe.Pointer(&raw[0]))
		if err != nil {
			return libError(err)
		}
		return nil
	})
}

// WriteVL writes a scalar string dataset with variable-length storage.
func (a *StringAccessor) WriteVL(path, value string) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		vl, err := vlStringType(reg)
		if err != nil {
			return err
		}
		dataset, err := a.base.getOrCreateDataSet(reg, path, vl, nil, Features{})
		if err != nil {
			return err
		}
		buf := h5.AllocBuffer(ptrSize)
		defer buf.Free()
		buf.PackString(0, value)
		defer buf.FreePackedStrings([]int{0})
		err = h5.WriteDataset(dataset, vl, h5.AllSpace, h5.AllSpace, buf.Pointer())
		if err != nil {
			return libError(err)
		}
		return nil
	})
}

// ---- 1-D arrays

// ReadArray reads the full extent of a rank-1 string dataset.
func (a *StringAccessor) ReadArray(path string) ([]string, error) {
	return runOpValue(a.base, func(reg *registry) ([]string, error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return nil, err
		}
		variable, size, err := a.checkStringClass(reg, dataset, path)
		if err != nil {
			return nil, err
		}
		params, err := a.base.fullSpaceParams(reg, dataset)
		if err != nil {
			return nil, err
		}
		if err := requireRank(params.dims, 1, path); err != nil {
			return nil, err
		}
		bufSpace, err := a.bufferSpace(reg, dataset, params)
		if err != nil {
			return nil, err
		}
		return a.readStrings(reg, dataset, params, bufSpace, variable, size)
	})
}

// ReadArrayBlock reads block number blockIndex of size blockSize from a
// rank-1 string dataset.
func (a *StringAccessor) ReadArrayBlock(path string, blockSize, blockIndex uint64) ([]string, error) {
	return a.ReadArrayBlockWithOffset(path, blockSize, blockIndex*blockSize)
}

// ReadArrayBlockWithOffset reads blockSize strings starting at offset.
func (a *StringAccessor) ReadArrayBlockWithOffset(path string, blockSize, offset uint64) ([]string, error) {
	return runOpValue(a.base, func(reg *registry) ([]string, error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return nil, err
		}
		variable, size, err := a.checkStringClass(reg, dataset, path)
		if err != nil {
			return nil, err
		}
		params, err := a.base.blockSpaceParams(reg, dataset, []uint64{offset}, []uint64{blockSize})
		if err != nil {
			return nil, err
		}
		if err := requireRank(params.dims, 1, path); err != nil {
			return nil, err
		}
		return a.readStrings(reg, dataset, params, params.memSpace, variable, size)
	})
}

// WriteArray writes data as the full extent of a rank-1 string dataset with
// fixed-length storage sized to the longest element.
func (a *StringAccessor) WriteArray(path string, data []string, features ...Features) error {
	f := chooseFeatures(features)
	size := maxStringSize(data)
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		storage, err := fixedStringType(reg, size)
		if err != nil {
			return err
		}
		dims := []uint64{uint64(len(data))}
		dataset, err := a.base.getOrCreateDataSet(reg, path, storage, dims, f)
		if err != nil {
			return err
		}
		params, err := a.base.blockSpaceParams(reg, dataset, []uint64{0}, dims)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return nil
		}
		raw := packFixedStrings(data, size)
		err = h5.WriteDataset(dataset, storage, params.memSpace, params.fileSpace, unsafe.Pointer(&raw[0]))
		if err != nil {
			return libError(err)
		}
		return nil
	})
}

// WriteVLArray writes data as the full extent of a rank-1 string dataset
// with variable-length storage.
func (a *StringAccessor) WriteVLArray(path string, data []string, features ...Features) error {
	f := chooseFeatures(features)
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		vl, err := vlStringType(reg)
		if err != nil {
			return err
		}
		dims := []uint64{uint64(len(data))}
		dataset, err := a.base.getOrCreateDataSet(reg, path, vl, dims, f)
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
		buf := h5.AllocBuffer(len(data) * ptrSize)
		defer buf.Free()
		offsets := make([]int, len(data))
		for i, s := range data {
			offsets[i] = i * ptrSize
			buf.PackString(offsets[i], s)
		}
		defer buf.FreePackedStrings(offsets)
		err = h5.WriteDataset(dataset, vl, params.memSpace, params.fileSpace, buf.Pointer())
		if err != nil {
			return libError(err)
		}
		return nil
	})
}

// WriteArrayBlock writes data as block number blockIndex of an existing
// rank-1 string dataset.
func (a *StringAccessor) WriteArrayBlock(path string, data []string, blockIndex uint64) error {
	return a.WriteArrayBlockWithOffset(path, data, blockIndex*uint64(len(data)))
}

// WriteArrayBlockWithOffset writes data into an existing rank-1 string
// dataset starting at offset, growing an extendable dataset as needed.
func (a *StringAccessor) WriteArrayBlockWithOffset(path string, data []string, offset uint64) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return err
		}
		variable, _, err := a.checkStringClass(reg, dataset, path)
		if err != nil {
			return err
		}
		block := []uint64{uint64(len(data))}
		if err := a.base.extendTo(reg, dataset, []uint64{offset + uint64(len(data))}, path); err != nil {
			return err
		}
		params, err := a.base.blockSpaceParams(reg, dataset, []uint64{offset}, block)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return nil
		}
		if variable {
			vl, err := vlStringType(reg)
			if err != nil {
				return err
			}
			buf := h5.AllocBuffer(len(data) * ptrSize)
			defer buf.Free()
			offsets := make([]int, len(data))
			for i, s := range data {
				offsets[i] = i * ptrSize
				buf.PackString(offsets[i], s)
			}
			defer buf.FreePackedStrings(offsets)
			err = h5.WriteDataset(dataset, vl, params.memSpace, params.fileSpace, buf.Pointer())
			if err != nil {
				return libError(err)
			}
			return nil
		}
		size := maxStringSize(data)
		mem, err := fixedStringType(reg, size)
		if err != nil {
			return err
		}
		raw := packFixedStrings(data, size)
		err = h5.WriteDataset(dataset, mem, params.memSpace, params.fileSpace, unsafe.Pointer(&raw[0]))
		if err != nil {
			return libError(err)
		}
		return nil
	})
}

// ---- Attributes

// Attr reads a scalar string attribute, fixed-length or variable-length.
func (a *StringAccessor) Attr(objPath, name string) (string, error) {
	return runOpValue(a.base, func(reg *registry) (string, error) {
		attr, dims, err := a.base.openAttribute(reg, objPath, name)
		if err != nil {
			return "", err
		}
		if elementCount(dims) != 1 {
			return "", errorf(h5err.ShapeMismatch,
				"attribute %q of %q is not scalar", name, objPath)
		}
		return a.readStringAttr(reg, attr, objPath, name)
	})
}

func (a *StringAccessor) readStringAttr(reg *registry, attr h5.ID, objPath, name string) (string, error) {
	datatype, err := h5.AttributeType(attr)
	if err != nil {
		return "", libError(err)
	}
	reg.datatype(datatype)
	class, err := h5.TypeClass(datatype)
	if err != nil {
		return "", libError(err)
	}
	if class != h5.ClassString {
		return "", errorf(h5err.WrongType,
			"attribute %q of %q does not hold a string", name, objPath)
	}
	variable, err := h5.IsVariableString(datatype)
	if err != nil {
		return "", libError(err)
	}
	if variable {
		vl, err := vlStringType(reg)
		if err != nil {
			return "", err
		}
		buf := h5.AllocBuffer(ptrSize)
		defer buf.Free()
		if err := h5.ReadAttribute(attr, vl, buf.Pointer()); err != nil {
			return "", libError(err)
		}
		out := buf.UnpackString(0)
		space, err := h5.AttributeSpace(attr)
		if err != nil {
			return "", libError(err)
		}
		reg.space(space)
		if err := h5.ReclaimVlen(vl, space, buf.Pointer()); err != nil {
			return "", libError(err)
		}
		return out, nil
	}
	size, err := h5.TypeSize(datatype)
	if err != nil {
		return "", libError(err)
	}
	mem, err := fixedStringType(reg, size)
	if err != nil {
		return "", err
	}
	raw := make([]byte, size)
	if err := h5.ReadAttribute(attr, mem, unsafe.Pointer(&raw[0])); err != nil {
		return "", libError(err)
	}
	return string(bytes.TrimRight(raw, "\x00")), nil
}

// SetAttr writes a scalar string attribute with fixed-length storage,
// replacing any existing attribute of that name.
func (a *StringAccessor) SetAttr(objPath, name, value string) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		storage, err := fixedStringType(reg, uint(len(value))+1)
		if err != nil {
			return err
		}
		raw := make([]byte, len(value)+1)
		copy(raw, value)
		return a.base.setAttribute(reg, objPath, name, storage, storage, nil, unsafe.Pointer(&raw[0]))
	})
}

// ArrayAttr reads a rank-1 fixed-length string attribute.
func (a *StringAccessor) ArrayAttr(objPath, name string) ([]string, error) {
	return runOpValue(a.base, func(reg *registry) ([]string, error) {
		attr, dims, err := a.base.openAttribute(reg, objPath, name)
		if err != nil {
			return nil, err
		}
		if len(dims) != 1 {
			return nil, errorf(h5err.ShapeMismatch,
				"attribute %q of %q has rank %d, expected 1", name, objPath, len(dims))
		}
		datatype, err := h5.AttributeType(attr)
		if err != nil {
			return nil, libError(err)
		}
		reg.datatype(datatype)
		class, err := h5.TypeClass(datatype)
		if err != nil {
			return nil, libError(err)
		}
		if class != h5.ClassString {
			return nil, errorf(h5err.WrongType,
				"attribute %q of %q does not hold strings", name, objPath)
		}
		size, err := h5.TypeSize(datatype)
		if err != nil {
			return nil, libError(err)
		}
		count := int(dims[0])
		if count == 0 {
			return nil, nil
		}
		mem, err := fixedStringType(reg, size)
		if err != nil {
			return nil, err
		}
		raw := make([]byte, count*int(size))
		if err := h5.ReadAttribute(attr, mem, unsafe.Pointer(&raw[0])); err != nil {
			return nil, libError(err)
		}
		out := make([]string, count)
		for i := range out {
			cell := raw[i*int(size) : (i+1)*int(size)]
			out[i] = string(bytes.TrimRight(cell, "\x00"))
		}
		return out, nil
	})
}

// SetArrayAttr writes a rank-1 string attribute with fixed-length storage
// sized to the longest element.
func (a *StringAccessor) SetArrayAttr(objPath, name string, data []string) error {
	size := maxStringSize(data)
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		storage, err := fixedStringType(reg, size)
		if err != nil {
			return err
		}
		raw := packFixedStrings(data, size)
		return a.base.setAttribute(reg, objPath, name, storage, storage,
			[]uint64{uint64(len(data))}, unsafe.Pointer(sliceBase(raw)))
	})
}

// maxStringSize returns the fixed-length cell size covering every element
// plus a NUL terminator.
func maxStringSize(data []string) uint {
	max := 0
	for _, s := range data {
		if len(s) > max {
			max = len(s)
		}
	}
	return uint(max) + 1
}

// packFixedStrings lays data out as contiguous NUL-padded cells.
func packFixedStrings(data []string, size uint) []byte {
	raw := make([]byte, len(data)*int(size))
	for i, s := range data {
		copy(raw[i*int(size):], s)
	}
	return raw
}
