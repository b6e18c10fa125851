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

// ReferenceAccessor reads and writes object references: stable in-file
// pointers to groups, datasets or named datatypes that survive renames of
// the referenced object.
type ReferenceAccessor struct {
	base *base
}

// checkRefClass rejects datasets that do not hold object references.
func (a *ReferenceAccessor) checkRefClass(reg *registry, dataset h5.ID, path string) error {
	datatype, err := h5.DatasetType(dataset)
	if err != nil {
		return libError(err)
	}
	reg.datatype(datatype)
	class, err := h5.TypeClass(datatype)
	if err != nil {
		return libError(err)
	}
	if class != h5.ClassRef {
		return errorf(h5err.WrongType, "dataset at %q does not hold object references", path)
	}
	return nil
}

// makeRefs builds the packed reference values for the given target paths.
// Every target must exist; a reference to nothing cannot be created.
func (a *ReferenceAccessor) makeRefs(targets []string) ([]byte, error) {
	raw := make([]byte, len(targets)*h5.RefSize)
	for i, target := range targets {
		ok, err := a.base.exists(target)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errorf(h5err.NotFound, "no object at path %q to reference", target)
		}
		if err := h5.CreateReference(a.base.id, target, unsafe.Pointer(&raw[i*h5.RefSize])); err != nil {
			return nil, libError(err)
		}
	}
	return raw, nil
}

// Write writes a scalar reference dataset pointing at targetPath, creating
// the dataset when absent.
func (a *ReferenceAccessor) Write(path, targetPath string) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		raw, err := a.makeRefs([]string{targetPath})
		if err != nil {
			return err
		}
		dataset, err := a.base.getOrCreateDataSet(reg, path,
			h5.Predefined(h5.TypeStdRefObj), nil, Features{})
		if err != nil {
			return err
		}
		err = h5.WriteDataset(dataset, h5.Predefined(h5.TypeStdRefObj),
			h5.AllSpace, h5.AllSpace, unsafe.Pointer(&raw[0]))
		if err != nil {
			return libError(err)
		}
		return nil
	})
}

// Read reads a scalar reference dataset and resolves it to the referenced
// object's current path.
func (a *ReferenceAccessor) Read(path string) (string, error) {
	paths, err := a.read(path, true)
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// WriteArray writes references to targets as the full extent of a rank-1
// reference dataset.
func (a *ReferenceAccessor) WriteArray(path string, targets []string, features ...Features) error {
	f := chooseFeatures(features)
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		raw, err := a.makeRefs(targets)
		if err != nil {
			return err
		}
		dims := []uint64{uint64(len(targets))}
		dataset, err := a.base.getOrCreateDataSet(reg, path,
			h5.Predefined(h5.TypeStdRefObj), dims, f)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return nil
		}
		params, err := a.base.blockSpaceParams(reg, dataset, []uint64{0}, dims)
		if err != nil {
			return err
		}
		err = h5.WriteDataset(dataset, h5.Predefined(h5.TypeStdRefObj),
			params.memSpace, params.fileSpace, unsafe.Pointer(&raw[0]))
		if err != nil {
			return libError(err)
		}
		return nil
	})
}

// ReadArray reads a rank-1 reference dataset, resolving every element to
// the referenced object's current path.
func (a *ReferenceAccessor) ReadArray(path string) ([]string, error) {
	return a.read(path, false)
}

func (a *ReferenceAccessor) read(path string, scalar bool) ([]string, error) {
	return runOpValue(a.base, func(reg *registry) ([]string, error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return nil, err
		}
		if err := a.checkRefClass(reg, dataset, path); err != nil {
			return nil, err
		}
		params, err := a.base.fullSpaceParams(reg, dataset)
		if err != nil {
			return nil, err
		}
		if scalar {
			if params.count != 1 {
				return nil, errorf(h5err.ShapeMismatch,
					"dataset at %q holds %d elements, scalar read requires exactly one", path, params.count)
			}
		} else if err := requireRank(params.dims, 1, path); err != nil {
			return nil, err
		}
		count := int(params.count)
		if count == 0 {
			return nil, nil
		}
		raw := make([]byte, count*h5.RefSize)
		err = h5.ReadDataset(dataset, h5.Predefined(h5.TypeStdRefObj),
			params.memSpace, params.fileSpace, unsafe.Pointer(&raw[0]))
		if err != nil {
			return nil, libError(err)
		}
		out := make([]string, count)
		for i := range out {
			out[i], err = h5.ReferencePath(a.base.id, unsafe.Pointer(&raw[i*h5.RefSize]))
			if err != nil {
				return nil, libError(err)
			}
		}
		return out, nil
	})
}

// SetAttr writes a scalar reference attribute pointing at targetPath.
func (a *ReferenceAccessor) SetAttr(objPath, name, targetPath string) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		raw, err := a.makeRefs([]string{targetPath})
		if err != nil {
			return err
		}
		return a.base.setAttribute(reg, objPath, name,
			h5.Predefined(h5.TypeStdRefObj), h5.Predefined(h5.TypeStdRefObj),
			nil, unsafe.Pointer(&raw[0]))
	})
}

// Attr reads a scalar reference attribute, resolved to the referenced
// object's current path.
func (a *ReferenceAccessor) Attr(objPath, name string) (string, error) {
	return runOpValue(a.base, func(reg *registry) (string, error) {
		attr, dims, err := a.base.openAttribute(reg, objPath, name)
		if err != nil {
			return "", err
		}
		if elementCount(dims) != 1 {
			return "", errorf(h5err.ShapeMismatch,
				"attribute %q of %q is not scalar", name, objPath)
		}
		raw := make([]byte, h5.RefSize)
		if err := h5.ReadAttribute(attr, h5.Predefined(h5.TypeStdRefObj), unsafe.Pointer(&raw[0])); err != nil {
			return "", libError(err)
		}
		target, err := h5.ReferencePath(a.base.id, unsafe.Pointer(&raw[0]))
		if err != nil {
			return "", libError(err)
		}
		return target, nil
	})
}
