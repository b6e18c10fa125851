//////////////////////////////////////////////////////////////////
//
// Copyright (c) 2026 h5typed contributors.
// All rights reserved.
//
//	Use of this source code is governed by the license
//	that can be found in the LICENSE file.
//
//////////////////////////////////////////////////////////////////

// Shared reader/writer core. The typed accessors translate logical requests
// ("read full array at path", "write block at offset") into the validated
// native call sequences implemented here.

package hdf5

import (
	"bytes"
	"strings"
	"unsafe"

	"github.com/h5typed/hdf5/h5err"
	"github.com/h5typed/hdf5/internal/h5"
)

// ---- Path resolution

// exists reports whether path resolves to any object, probing one link
// component at a time since the native existence check requires all
// intermediate groups to exist.
func (b *base) exists(path string) (bool, error) {
	if path == "" || path == "/" {
		return true, nil
	}
	current := ""
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		current += "/" + part
		ok, err := h5.LinkExists(b.id, current)
		if err != nil {
			return false, libError(err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// objectKind returns the kind of an existing object at path.
func (b *base) objectKind(path string) (int, error) {
	kind, err := h5.ObjectKind(b.id, path)
	if err != nil {
		return 0, libError(err)
	}
	return kind, nil
}

// openDataSet resolves path to a dataset handle registered for cleanup.
// Fails with NotFound when the path does not resolve and WrongType when it
// resolves to a group or named datatype instead.
func (b *base) openDataSet(reg *registry, path string) (h5.ID, error) {
	ok, err := b.exists(path)
	if err != nil {
		return -1, err
	}
	if !ok {
		return -1, errorf(h5err.NotFound, "no object at path %q", path)
	}
	kind, err := b.objectKind(path)
	if err != nil {
		return -1, err
	}
	if kind != h5.KindDataset {
		return -1, errorf(h5err.WrongType, "object at path %q is not a dataset", path)
	}
	id, err := h5.OpenDataset(b.id, path)
	if err != nil {
		return -1, nativeError(h5err.Resource, err)
	}
	return reg.dataset(id), nil
}

// ---- Dataspace parameters

// spaceParams is the resolved geometry of one read or write: a file-space
// selection, a matching memory space and the number of elements covered.
type spaceParams struct {
	memSpace  h5.ID // h5.AllSpace when the full extent is selected
	fileSpace h5.ID
	count     uint64
	dims      []uint64 // current dataset extent
}

// fullSpaceParams selects the entire current extent of the dataset.
func (b *base) fullSpaceParams(reg *registry, dataset h5.ID) (spaceParams, error) {
	space, err := h5.DatasetSpace(dataset)
	if err != nil {
		return spaceParams{}, libError(err)
	}
	reg.space(space)
	dims, _, err := h5.SpaceDims(space)
	if err != nil {
		return spaceParams{}, libError(err)
	}
	return spaceParams{
		memSpace:  h5.AllSpace,
		fileSpace: h5.AllSpace,
		count:     elementCount(dims),
		dims:      dims,
	}, nil
}

// blockSpaceParams selects a hyperslab of the given offset and shape,
// validating bounds against the current extent before any native selection
// call so the caller gets a precise OutOfBounds diagnostic.
func (b *base) blockSpaceParams(reg *registry, dataset h5.ID, offset, block []uint64) (spaceParams, error) {
	space, err := h5.DatasetSpace(dataset)
	if err != nil {
		return spaceParams{}, libError(err)
	}
	reg.space(space)
	dims, _, err := h5.SpaceDims(space)
	if err != nil {
		return spaceParams{}, libError(err)
	}
	if err := checkBounds(offset, block, dims); err != nil {
		return spaceParams{}, err
	}
	if err := h5.SelectHyperslab(space, offset, block); err != nil {
		return spaceParams{}, libError(err)
	}
	memSpace, err := h5.CreateSimpleSpace(block, nil)
	if err != nil {
		return spaceParams{}, nativeError(h5err.Resource, err)
	}
	reg.space(memSpace)
	return spaceParams{
		memSpace:  memSpace,
		fileSpace: space,
		count:     elementCount(block),
		dims:      dims,
	}, nil
}

// requireRank validates the dataset rank for shape-specific operations.
func requireRank(dims []uint64, rank int, path string) error {
	if len(dims) != rank {
		return errorf(h5err.ShapeMismatch,
			"dataset at %q has rank %d, operation requires rank %d", path, len(dims), rank)
	}
	return nil
}

// ---- Dataset creation

// linkCreationPlist builds a link creation property list that creates
// missing intermediate groups, so writes deep into a fresh file work
// without explicit group setup.
func (b *base) linkCreationPlist(reg *registry) (h5.ID, error) {
	lcpl, err := h5.CreatePlist(h5.PlistLinkCreate)
	if err != nil {
		return -1, nativeError(h5err.Resource, err)
	}
	reg.plist(lcpl)
	if err := h5.SetCreateIntermediateGroups(lcpl); err != nil {
		return -1, libError(err)
	}
	return lcpl, nil
}

// creationPlist translates storage features into a dataset creation
// property list, or h5.Default when the zero-value features apply.
func (b *base) creationPlist(reg *registry, dims []uint64, f Features) (h5.ID, error) {
	if !f.chunked() && !f.Compact {
		return h5.Default, nil
	}
	if f.Compact && f.chunked() {
		return -1, errorf(h5err.InvalidArgument, "compact layout cannot be combined with chunking or compression")
	}
	dcpl, err := h5.CreatePlist(h5.PlistDatasetCreate)
	if err != nil {
		return -1, nativeError(h5err.Resource, err)
	}
	reg.plist(dcpl)
	if f.Compact {
		if err := h5.SetLayout(dcpl, h5.LayoutCompact); err != nil {
			return -1, libError(err)
		}
		return dcpl, nil
	}
	if err := h5.SetChunk(dcpl, f.deriveChunks(dims)); err != nil {
		return -1, libError(err)
	}
	if f.Deflate > 0 {
		if err := h5.SetDeflate(dcpl, f.Deflate); err != nil {
			return -1, libError(err)
		}
	}
	return dcpl, nil
}

// createDataSet creates a new dataset at path with the given storage type,
// extent and features. The path must not already exist.
func (b *base) createDataSet(reg *registry, path string, storage h5.ID, dims []uint64, f Features) (h5.ID, error) {
	lcpl, err := b.linkCreationPlist(reg)
	if err != nil {
		return -1, err
	}
	var maxDims []uint64
	if f.Extendable {
		maxDims = make([]uint64, len(dims))
		for i := range maxDims {
			maxDims[i] = h5.Unlimited
		}
	}
	var space h5.ID
	if len(dims) == 0 {
		space, err = h5.CreateScalarSpace()
	} else {
		space, err = h5.CreateSimpleSpace(dims, maxDims)
	}
	if err != nil {
		return -1, nativeError(h5err.Resource, err)
	}
	reg.space(space)
	dcpl, err := b.creationPlist(reg, dims, f)
	if err != nil {
		return -1, err
	}
	id, err := h5.CreateDataset(b.id, path, storage, space, lcpl, dcpl)
	if err != nil {
		return -1, nativeError(h5err.Resource, err)
	}
	return reg.dataset(id), nil
}

// getOrCreateDataSet opens path if it exists, validating type class and rank
// compatibility and growing the extent where the existing dataset permits
// it; otherwise it creates the dataset with the given features.
func (b *base) getOrCreateDataSet(reg *registry, path string, storage h5.ID, dims []uint64, f Features) (h5.ID, error) {
	ok, err := b.exists(path)
	if err != nil {
		return -1, err
	}
	if !ok {
		return b.createDataSet(reg, path, storage, dims, f)
	}
	dataset, err := b.openDataSet(reg, path)
	if err != nil {
		return -1, err
	}
	if err := b.checkTypeClass(reg, dataset, storage, path); err != nil {
		return -1, err
	}
	if err := b.extendTo(reg, dataset, dims, path); err != nil {
		return -1, err
	}
	return dataset, nil
}

// checkTypeClass rejects writes whose storage class differs from the
// existing dataset's class (the finer conversions within a class are the
// native library's business).
func (b *base) checkTypeClass(reg *registry, dataset, storage h5.ID, path string) error {
	existing, err := h5.DatasetType(dataset)
	if err != nil {
		return libError(err)
	}
	reg.datatype(existing)
	haveClass, err := h5.TypeClass(existing)
	if err != nil {
		return libError(err)
	}
	wantClass, err := h5.TypeClass(storage)
	if err != nil {
		return libError(err)
	}
	if haveClass != wantClass {
		return errorf(h5err.WrongType,
			"dataset at %q stores a different datatype class than the one being written", path)
	}
	return nil
}

// extendTo grows the dataset so the extent covers dims on every axis.
// Shrinking never happens here; extents only grow. A fixed-extent dataset
// that is too small fails with ShapeMismatch.
func (b *base) extendTo(reg *registry, dataset h5.ID, dims []uint64, path string) error {
	space, err := h5.DatasetSpace(dataset)
	if err != nil {
		return libError(err)
	}
	reg.space(space)
	current, max, err := h5.SpaceDims(space)
	if err != nil {
		return libError(err)
	}
	if err := requireRank(current, len(dims), path); err != nil {
		return err
	}
	grow := false
	wanted := make([]uint64, len(dims))
	for i := range dims {
		wanted[i] = current[i]
		if dims[i] > current[i] {
			if max[i] != h5.Unlimited && dims[i] > max[i] {
				return errorf(h5err.ShapeMismatch,
					"dataset at %q has fixed extent %v and cannot grow to %v", path, current, dims)
			}
			wanted[i] = dims[i]
			grow = true
		}
	}
	if !grow {
		return nil
	}
	if err := h5.SetExtent(dataset, wanted); err != nil {
		return libError(err)
	}
	return nil
}

// ---- Attributes
//
// Attributes are read and written whole; they are not block-addressable.

// setAttribute writes an attribute on the object at objPath, replacing any
// existing attribute of that name so a shape or type change never leaves a
// stale definition behind.
func (b *base) setAttribute(reg *registry, objPath, name string, storage, memType h5.ID, dims []uint64, buf unsafe.Pointer) error {
	ok, err := b.exists(objPath)
	if err != nil {
		return err
	}
	if !ok {
		return errorf(h5err.NotFound, "no object at path %q", objPath)
	}
	obj, err := h5.OpenObject(b.id, objPath)
	if err != nil {
		return nativeError(h5err.Resource, err)
	}
	reg.object(obj)
	present, err := h5.AttributeExists(obj, name)
	if err != nil {
		return libError(err)
	}
	if present {
		if err := h5.DeleteAttribute(obj, name); err != nil {
			return libError(err)
		}
	}
	var space h5.ID
	if dims == nil {
		space, err = h5.CreateScalarSpace()
	} else {
		space, err = h5.CreateSimpleSpace(dims, nil)
	}
	if err != nil {
		return nativeError(h5err.Resource, err)
	}
	reg.space(space)
	attr, err := h5.CreateAttribute(obj, name, storage, space)
	if err != nil {
		return nativeError(h5err.Resource, err)
	}
	reg.attribute(attr)
	if err := h5.WriteAttribute(attr, memType, buf); err != nil {
		return libError(err)
	}
	return nil
}

// openAttribute opens an attribute and returns its handle plus the
// attribute's dataspace dimensions (empty for scalar attributes).
func (b *base) openAttribute(reg *registry, objPath, name string) (h5.ID, []uint64, error) {
	ok, err := b.exists(objPath)
	if err != nil {
		return -1, nil, err
	}
	if !ok {
		return -1, nil, errorf(h5err.NotFound, "no object at path %q", objPath)
	}
	obj, err := h5.OpenObject(b.id, objPath)
	if err != nil {
		return -1, nil, nativeError(h5err.Resource, err)
	}
	reg.object(obj)
	present, err := h5.AttributeExists(obj, name)
	if err != nil {
		return -1, nil, libError(err)
	}
	if !present {
		return -1, nil, errorf(h5err.NotFound, "object %q has no attribute %q", objPath, name)
	}
	attr, err := h5.OpenAttribute(obj, name)
	if err != nil {
		return -1, nil, nativeError(h5err.Resource, err)
	}
	reg.attribute(attr)
	space, err := h5.AttributeSpace(attr)
	if err != nil {
		return -1, nil, libError(err)
	}
	reg.space(space)
	dims, _, err := h5.SpaceDims(space)
	if err != nil {
		return -1, nil, libError(err)
	}
	return attr, dims, nil
}

// hasAttribute probes for an attribute without failing when the object or
// attribute is absent.
func (b *base) hasAttribute(reg *registry, objPath, name string) (bool, error) {
	ok, err := b.exists(objPath)
	if err != nil || !ok {
		return false, err
	}
	obj, err := h5.OpenObject(b.id, objPath)
	if err != nil {
		return false, nativeError(h5err.Resource, err)
	}
	reg.object(obj)
	present, err := h5.AttributeExists(obj, name)
	if err != nil {
		return false, libError(err)
	}
	return present, nil
}

// ---- Type variant tagging

// tagTypeVariant marks the object's logical type with one of the reserved
// variant ordinals, stored as a 32-bit integer attribute.
func (b *base) tagTypeVariant(reg *registry, objPath string, v typeVariant) error {
	val := int32(v)
	return b.setAttribute(reg, objPath, b.houseKeepingName(typeVariantAttribute),
		h5.Predefined(h5.TypeStdInt32LE), h5.Predefined(h5.TypeNativeInt32),
		nil, unsafe.Pointer(&val))
}

// typeVariantOf reads the variant tag of an object. ok is false when the
// object carries no tag. Enum-typed tags written by other bindings read
// fine: the native library converts enum to its base integer.
func (b *base) typeVariantOf(reg *registry, objPath string) (typeVariant, bool, error) {
	name := b.houseKeepingName(typeVariantAttribute)
	present, err := b.hasAttribute(reg, objPath, name)
	if err != nil || !present {
		return 0, false, err
	}
	attr, _, err := b.openAttribute(reg, objPath, name)
	if err != nil {
		return 0, false, err
	}
	var val int32
	if err := h5.ReadAttribute(attr, h5.Predefined(h5.TypeNativeInt32), unsafe.Pointer(&val)); err != nil {
		return 0, false, libError(err)
	}
	return typeVariant(val), true, nil
}

// setStringAttribute writes a fixed-length string attribute from inside an
// already locked operation.
func (b *base) setStringAttribute(reg *registry, objPath, name, value string) error {
	storage, err := fixedStringType(reg, uint(len(value))+1)
	if err != nil {
		return err
	}
	raw := make([]byte, len(value)+1)
	copy(raw, value)
	return b.setAttribute(reg, objPath, name, storage, storage, nil, unsafe.Pointer(&raw[0]))
}

// stringAttribute reads a fixed-length string attribute from inside an
// already locked operation. ok is false when the attribute is absent.
func (b *base) stringAttribute(reg *registry, objPath, name string) (string, bool, error) {
	present, err := b.hasAttribute(reg, objPath, name)
	if err != nil || !present {
		return "", false, err
	}
	attr, _, err := b.openAttribute(reg, objPath, name)
	if err != nil {
		return "", false, err
	}
	datatype, err := h5.AttributeType(attr)
	if err != nil {
		return "", false, libError(err)
	}
	reg.datatype(datatype)
	size, err := h5.TypeSize(datatype)
	if err != nil {
		return "", false, libError(err)
	}
	mem, err := fixedStringType(reg, size)
	if err != nil {
		return "", false, err
	}
	raw := make([]byte, size)
	if err := h5.ReadAttribute(attr, mem, unsafe.Pointer(&raw[0])); err != nil {
		return "", false, libError(err)
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw), true, nil
}

// ---- Named (committed) datatypes

// dataTypePath builds the reserved path of a committed datatype, honoring
// the handle's house-keeping suffix.
func (b *base) dataTypePath(prefix, name string) string {
	return b.houseKeepingName(dataTypeGroup) + "/" + prefix + name
}

// openNamedType opens a committed datatype, caching the identifier for the
// lifetime of the file handle. Cached ids are owned by the file, never by a
// per-call registry. ok is false when no type is committed at path.
func (b *base) openNamedType(path string) (h5.ID, bool, error) {
	if id, hit := b.namedTypes[path]; hit {
		return id, true, nil
	}
	ok, err := b.exists(path)
	if err != nil || !ok {
		return -1, false, err
	}
	id, err := h5.OpenType(b.id, path)
	if err != nil {
		return -1, false, nativeError(h5err.Resource, err)
	}
	b.namedTypes[path] = id
	return id, true, nil
}

// commitNamedType persists a datatype under path, creating the reserved
// datatype group as needed.
func (b *base) commitNamedType(reg *registry, path string, datatype h5.ID) error {
	lcpl, err := b.linkCreationPlist(reg)
	if err != nil {
		return err
	}
	if err := h5.CommitType(b.id, path, datatype, lcpl); err != nil {
		return libError(err)
	}
	return nil
}

// chunkShapeOf returns the chunk shape of a dataset, or nil when the layout
// is not chunked.
func (b *base) chunkShapeOf(reg *registry, dataset h5.ID, rank int) ([]uint64, error) {
	dcpl, err := h5.DatasetCreatePlist(dataset)
	if err != nil {
		return nil, libError(err)
	}
	reg.plist(dcpl)
	layout, err := h5.GetLayout(dcpl)
	if err != nil {
		return nil, libError(err)
	}
	if layout != h5.LayoutChunked || rank == 0 {
		return nil, nil
	}
	chunk, err := h5.GetChunk(dcpl, rank)
	if err != nil {
		return nil, libError(err)
	}
	return chunk, nil
}
