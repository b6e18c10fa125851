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
	"encoding/binary"
	"unsafe"

	"github.com/h5typed/hdf5/h5err"
	"github.com/h5typed/hdf5/internal/h5"
)

// EnumType is a named enumeration persisted as a committed datatype in the
// reserved datatype group. Ordinals are the value's index in Values; they
// stay stable across reopen because the committed type records them.
type EnumType struct {
	name   string
	values []string
	id     h5.ID // committed identifier, owned by the file handle
	width  uint  // base integer width in bytes
}

// Name returns the logical type name.
func (t *EnumType) Name() string { return t.name }

// Values returns the symbolic values in ordinal order.
func (t *EnumType) Values() []string { return t.values }

// Ordinal returns the ordinal of a symbolic value.
func (t *EnumType) Ordinal(value string) (int, error) {
	for i, v := range t.values {
		if v == value {
			return i, nil
		}
	}
	return 0, errorf(h5err.UnknownMember, "enum type %q has no value %q", t.name, value)
}

// enumBaseWidth picks the smallest signed integer base that holds all
// ordinals.
func enumBaseWidth(n int) uint {
	switch {
	case n <= 1<<7:
		return 1
	case n <= 1<<15:
		return 2
	default:
		return 4
	}
}

func enumBaseSelector(width uint) int {
	switch width {
	case 1:
		return h5.TypeNativeInt8
	case 2:
		return h5.TypeNativeInt16
	default:
		return h5.TypeNativeInt32
	}
}

// putOrdinal stores ord into buf using the host representation of the
// enum's base width.
func putOrdinal(buf []byte, width uint, ord int) {
	switch width {
	case 1:
		buf[0] = byte(int8(ord))
	case 2:
		binary.NativeEndian.PutUint16(buf, uint16(int16(ord)))
	default:
		binary.NativeEndian.PutUint32(buf, uint32(int32(ord)))
	}
}

// getOrdinal is the inverse of putOrdinal.
func getOrdinal(buf []byte, width uint) int {
	switch width {
	case 1:
		return int(int8(buf[0]))
	case 2:
		return int(int16(binary.NativeEndian.Uint16(buf)))
	default:
		return int(int32(binary.NativeEndian.Uint32(buf)))
	}
}

// EnumAccessor defines enumeration types and reads and writes enum-valued
// datasets. Scaled enum datasets (plain integer datasets tagged with an
// enum type name) read back transparently as their symbolic values.
type EnumAccessor struct {
	base *base
}

// Type returns the named enumeration type, committing it on first use.
// When a type of that name already exists in the file, its members must
// match values exactly, name for name and ordinal for ordinal.
func (a *EnumAccessor) Type(name string, values []string) (*EnumType, error) {
	if len(values) == 0 {
		return nil, newError(h5err.InvalidArgument, "an enum type needs at least one value")
	}
	return runOpValue(a.base, func(reg *registry) (*EnumType, error) {
		return ensureEnumType(a.base, reg, name, values)
	})
}

// ensureEnumType is the in-operation body of Type, shared with the boolean
// accessor which commits its own reserved enum.
func ensureEnumType(b *base, reg *registry, name string, values []string) (*EnumType, error) {
	path := b.dataTypePath(enumPrefix, name)
	id, found, err := b.openNamedType(path)
	if err != nil {
		return nil, err
	}
	if found {
		return validateEnum(reg, id, name, values)
	}
	if err := b.checkWritable(); err != nil {
		return nil, err
	}
	width := enumBaseWidth(len(values))
	enumID, err := buildEnum(reg, values, width)
	if err != nil {
		return nil, err
	}
	if err := b.commitNamedType(reg, path, enumID); err != nil {
		return nil, err
	}
	id, _, err = b.openNamedType(path)
	if err != nil {
		return nil, err
	}
	return &EnumType{name: name, values: values, id: id, width: width}, nil
}

// buildEnum assembles an uncommitted enum datatype from ordinal-ordered
// values, registered with the operation's cleanup registry.
func buildEnum(reg *registry, values []string, width uint) (h5.ID, error) {
	id, err := h5.CreateEnumType(h5.Predefined(enumBaseSelector(width)))
	if err != nil {
		return -1, nativeError(h5err.Resource, err)
	}
	reg.datatype(id)
	buf := make([]byte, 4)
	for ord, v := range values {
		putOrdinal(buf, width, ord)
		if err := h5.InsertEnumMember(id, v, unsafe.Pointer(&buf[0])); err != nil {
			return -1, libError(err)
		}
	}
	return id, nil
}

// GetType returns an enumeration type already present in the file, with
// values reconstructed in ordinal order.
func (a *EnumAccessor) GetType(name string) (*EnumType, error) {
	return runOpValue(a.base, func(reg *registry) (*EnumType, error) {
		path := a.base.dataTypePath(enumPrefix, name)
		id, found, err := a.base.openNamedType(path)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errorf(h5err.NotFound, "no enum type named %q in this file", name)
		}
		values, width, err := enumMembers(reg, id)
		if err != nil {
			return nil, err
		}
		return &EnumType{name: name, values: values, id: id, width: width}, nil
	})
}

// validateEnum checks an existing committed type against the requested
// member list.
func validateEnum(reg *registry, id h5.ID, name string, values []string) (*EnumType, error) {
	existing, width, err := enumMembers(reg, id)
	if err != nil {
		return nil, err
	}
	if len(existing) != len(values) {
		return nil, errorf(h5err.WrongType,
			"enum type %q exists with %d values, requested %d", name, len(existing), len(values))
	}
	for i := range values {
		if existing[i] != values[i] {
			return nil, errorf(h5err.WrongType,
				"enum type %q exists with value %q at ordinal %d, requested %q",
				name, existing[i], i, values[i])
		}
	}
	return &EnumType{name: name, values: values, id: id, width: width}, nil
}

// enumMembers reconstructs the ordinal-ordered value list of an enum type.
func enumMembers(reg *registry, id h5.ID) ([]string, uint, error) {
	super, err := h5.TypeSuper(id)
	if err != nil {
		return nil, 0, libError(err)
	}
	reg.datatype(super)
	width, err := h5.TypeSize(super)
	if err != nil {
		return nil, 0, libError(err)
	}
	n, err := h5.MemberCount(id)
	if err != nil {
		return nil, 0, libError(err)
	}
	values := make([]string, n)
	buf := make([]byte, 4)
	for i := 0; i < n; i++ {
		name, err := h5.MemberName(id, i)
		if err != nil {
			return nil, 0, libError(err)
		}
		if err := h5.MemberValue(id, i, unsafe.Pointer(&buf[0])); err != nil {
			return nil, 0, libError(err)
		}
		ord := getOrdinal(buf, width)
		if ord < 0 || ord >= n {
			return nil, 0, errorf(h5err.Encoding,
				"enum member %q has ordinal %d outside 0..%d", name, ord, n-1)
		}
		values[ord] = name
	}
	return values, width, nil
}

// ---- Scalar

// Write writes a scalar enum dataset of type t, creating it when absent.
func (a *EnumAccessor) Write(path string, t *EnumType, value string) error {
	ord, err := t.Ordinal(value)
	if err != nil {
		return err
	}
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		dataset, err := a.base.getOrCreateDataSet(reg, path, t.id, nil, Features{})
		if err != nil {
			return err
		}
		buf := make([]byte, 4)
		putOrdinal(buf, t.width, ord)
		err = h5.WriteDataset(dataset, t.id, h5.AllSpace, h5.AllSpace, unsafe.Pointer(&buf[0]))
		if err != nil {
			return libError(err)
		}
		return nil
	})
}

// Read reads a scalar enum dataset as its symbolic value.
func (a *EnumAccessor) Read(path string) (string, error) {
	values, err := a.readValues(path, 0, true, nil, nil)
	if err != nil {
		return "", err
	}
	return values[0], nil
}

// ---- 1-D arrays

// WriteArray writes values as the full extent of a rank-1 enum dataset of
// type t.
func (a *EnumAccessor) WriteArray(path string, t *EnumType, values []string, features ...Features) error {
	f := chooseFeatures(features)
	raw := make([]byte, len(values)*int(t.width))
	for i, v := range values {
		ord, err := t.Ordinal(v)
		if err != nil {
			return err
		}
		putOrdinal(raw[i*int(t.width):], t.width, ord)
	}
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		dims := []uint64{uint64(len(values))}
		dataset, err := a.base.getOrCreateDataSet(reg, path, t.id, dims, f)
		if err != nil {
			return err
		}
		if len(values) == 0 {
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

// WriteScaledArray writes values as a plain integer dataset of t's base
// width, tagged so reads map the ordinals back through t. The compact
// integer storage trades the self-describing enum layout for space.
func (a *EnumAccessor) WriteScaledArray(path string, t *EnumType, values []string, features ...Features) error {
	f := chooseFeatures(features)
	raw := make([]byte, len(values)*int(t.width))
	for i, v := range values {
		ord, err := t.Ordinal(v)
		if err != nil {
			return err
		}
		putOrdinal(raw[i*int(t.width):], t.width, ord)
	}
	storage := scaledStorageSelector(t.width)
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		dims := []uint64{uint64(len(values))}
		dataset, err := a.base.getOrCreateDataSet(reg, path, h5.Predefined(storage), dims, f)
		if err != nil {
			return err
		}
		if len(values) > 0 {
			params, err := a.base.blockSpaceParams(reg, dataset, []uint64{0}, dims)
			if err != nil {
				return err
			}
			mem := h5.Predefined(enumBaseSelector(t.width))
			err = h5.WriteDataset(dataset, mem, params.memSpace, params.fileSpace, unsafe.Pointer(&raw[0]))
			if err != nil {
				return libError(err)
			}
		}
		if err := a.base.tagTypeVariant(reg, path, variantScaledEnum); err != nil {
			return err
		}
		return a.base.setStringAttribute(reg, path,
			a.base.houseKeepingName(enumTypeNameAttribute), t.name)
	})
}

func scaledStorageSelector(width uint) int {
	switch width {
	case 1:
		return h5.TypeStdInt8LE
	case 2:
		return h5.TypeStdInt16LE
	default:
		return h5.TypeStdInt32LE
	}
}

// ReadArray reads a rank-1 enum or scaled-enum dataset as symbolic values.
func (a *EnumAccessor) ReadArray(path string) ([]string, error) {
	return a.readValues(path, 1, false, nil, nil)
}

// ReadArrayBlockWithOffset reads blockSize symbolic values starting at
// offset from a rank-1 enum or scaled-enum dataset.
func (a *EnumAccessor) ReadArrayBlockWithOffset(path string, blockSize, offset uint64) ([]string, error) {
	return a.readValues(path, 1, false, []uint64{offset}, []uint64{blockSize})
}

// readValues reads enum ordinals through whichever representation the
// dataset uses and maps them to symbolic values. wantRank applies when
// scalar is false; offset/block of nil select the full extent.
func (a *EnumAccessor) readValues(path string, wantRank int, scalar bool, offset, block []uint64) ([]string, error) {
	return runOpValue(a.base, func(reg *registry) ([]string, error) {
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
		var enumID h5.ID
		switch class {
		case h5.ClassEnum:
			enumID = datatype
		case h5.ClassInteger:
			variant, tagged, err := a.base.typeVariantOf(reg, path)
			if err != nil {
				return nil, err
			}
			if !tagged || variant != variantScaledEnum {
				return nil, errorf(h5err.WrongType, "dataset at %q does not hold enum values", path)
			}
			name, ok, err := a.base.stringAttribute(reg, path,
				a.base.houseKeepingName(enumTypeNameAttribute))
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errorf(h5err.Encoding,
					"scaled enum dataset at %q does not name its enum type", path)
			}
			enumID, ok, err = a.base.openNamedType(a.base.dataTypePath(enumPrefix, name))
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errorf(h5err.NotFound,
					"scaled enum dataset at %q refers to unknown enum type %q", path, name)
			}
		default:
			return nil, errorf(h5err.WrongType, "dataset at %q does not hold enum values", path)
		}
		values, width, err := enumMembers(reg, enumID)
		if err != nil {
			return nil, err
		}
		var params spaceParams
		if offset != nil {
			params, err = a.base.blockSpaceParams(reg, dataset, offset, block)
		} else {
			params, err = a.base.fullSpaceParams(reg, dataset)
		}
		if err != nil {
			return nil, err
		}
		if scalar {
			if params.count != 1 {
				return nil, errorf(h5err.ShapeMismatch,
					"dataset at %q holds %d elements, scalar read requires exactly one", path, params.count)
			}
		} else if err := requireRank(params.dims, wantRank, path); err != nil {
			return nil, err
		}
		count := int(params.count)
		if count == 0 {
			return nil, nil
		}
		raw := make([]byte, count*int(width))
		mem := h5.Predefined(enumBaseSelector(width))
		err = h5.ReadDataset(dataset, mem, params.memSpace, params.fileSpace, unsafe.Pointer(&raw[0]))
		if err != nil {
			return nil, libError(err)
		}
		out := make([]string, count)
		for i := range out {
			ord := getOrdinal(raw[i*int(width):], width)
			if ord < 0 || ord >= len(values) {
				return nil, errorf(h5err.Encoding,
					"dataset at %q holds ordinal %d outside the enum's range", path, ord)
			}
			out[i] = values[ord]
		}
		return out, nil
	})
}

// ---- Attributes

// SetAttr writes a scalar enum attribute of type t on the object at
// objPath.
func (a *EnumAccessor) SetAttr(objPath, name string, t *EnumType, value string) error {
	ord, err := t.Ordinal(value)
	if err != nil {
		return err
	}
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		buf := make([]byte, 4)
		putOrdinal(buf, t.width, ord)
		return a.base.setAttribute(reg, objPath, name, t.id, t.id, nil, unsafe.Pointer(&buf[0]))
	})
}

// Attr reads a scalar enum attribute as its symbolic value.
func (a *EnumAccessor) Attr(objPath, name string) (string, error) {
	return runOpValue(a.base, func(reg *registry) (string, error) {
		attr, dims, err := a.base.openAttribute(reg, objPath, name)
		if err != nil {
			return "", err
		}
		if elementCount(dims) != 1 {
			return "", errorf(h5err.ShapeMismatch,
				"attribute %q of %q is not scalar", name, objPath)
		}
		datatype, err := h5.AttributeType(attr)
		if err != nil {
			return "", libError(err)
		}
		reg.datatype(datatype)
		class, err := h5.TypeClass(datatype)
		if err != nil {
			return "", libError(err)
		}
		if class != h5.ClassEnum {
			return "", errorf(h5err.WrongType,
				"attribute %q of %q does not hold an enum value", name, objPath)
		}
		values, width, err := enumMembers(reg, datatype)
		if err != nil {
			return "", err
		}
		buf := make([]byte, 4)
		mem := h5.Predefined(enumBaseSelector(width))
		if err := h5.ReadAttribute(attr, mem, unsafe.Pointer(&buf[0])); err != nil {
			return "", libError(err)
		}
		ord := getOrdinal(buf, width)
		if ord < 0 || ord >= len(values) {
			return "", errorf(h5err.Encoding,
				"attribute %q of %q holds ordinal %d outside the enum's range", name, objPath, ord)
		}
		return values[ord], nil
	})
}
