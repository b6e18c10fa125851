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
	"math"

	"github.com/h5typed/hdf5/h5err"
	"github.com/h5typed/hdf5/internal/h5"
)

// MemberKind is the closed set of compound member element kinds.
type MemberKind int

const (
	MemberInt8 MemberKind = iota
	MemberInt16
	MemberInt32
	MemberInt64
	MemberUint8
	MemberUint16
	MemberUint32
	MemberUint64
	MemberFloat32
	MemberFloat64
	MemberBool
	MemberString   // fixed-length; Length is the cell size, NUL included
	MemberVLString // variable-length
	MemberEnum     // Enum names the value set
)

// CompoundMember describes one member of a compound record type.
type CompoundMember struct {
	Name   string
	Kind   MemberKind
	Length uint      // fixed-string cell size, only for MemberString
	Enum   *EnumType // only for MemberEnum
}

// size returns the packed byte size of the member.
func (m CompoundMember) size() (uint, error) {
	switch m.Kind {
	case MemberInt8, MemberUint8, MemberBool:
		return 1, nil
	case MemberInt16, MemberUint16:
		return 2, nil
	case MemberInt32, MemberUint32, MemberFloat32:
		return 4, nil
	case MemberInt64, MemberUint64, MemberFloat64:
		return 8, nil
	case MemberString:
		if m.Length == 0 {
			return 0, errorf(h5err.InvalidArgument,
				"fixed-string member %q needs a nonzero length", m.Name)
		}
		return m.Length, nil
	case MemberVLString:
		return uint(ptrSize), nil
	case MemberEnum:
		if m.Enum == nil {
			return 0, errorf(h5err.InvalidArgument,
				"enum member %q needs an enum type", m.Name)
		}
		return m.Enum.width, nil
	}
	return 0, errorf(h5err.InvalidArgument, "member %q has an unknown kind", m.Name)
}

// memberStorageSelectors maps fixed-width kinds to their on-disk and
// in-memory datatype selectors.
var memberStorageSelectors = map[MemberKind][2]int{
	MemberInt8:    {h5.TypeStdInt8LE, h5.TypeNativeInt8},
	MemberInt16:   {h5.TypeStdInt16LE, h5.TypeNativeInt16},
	MemberInt32:   {h5.TypeStdInt32LE, h5.TypeNativeInt32},
	MemberInt64:   {h5.TypeStdInt64LE, h5.TypeNativeInt64},
	MemberUint8:   {h5.TypeStdUint8LE, h5.TypeNativeUint8},
	MemberUint16:  {h5.TypeStdUint16LE, h5.TypeNativeUint16},
	MemberUint32:  {h5.TypeStdUint32LE, h5.TypeNativeUint32},
	MemberUint64:  {h5.TypeStdUint64LE, h5.TypeNativeUint64},
	MemberFloat32: {h5.TypeIEEEFloat32LE, h5.TypeNativeFloat32},
	MemberFloat64: {h5.TypeIEEEFloat64LE, h5.TypeNativeFloat64},
}

// memberType builds the member's datatype; file picks the on-disk flavor.
func (m CompoundMember) memberType(b *base, reg *registry, file bool) (h5.ID, error) {
	if sel, ok := memberStorageSelectors[m.Kind]; ok {
		if file {
			return h5.Predefined(sel[0]), nil
		}
		return h5.Predefined(sel[1]), nil
	}
	switch m.Kind {
	case MemberBool:
		t, err := ensureEnumType(b, reg, boolEnumName, boolEnumValues)
		if err != nil {
			return -1, err
		}
		return t.id, nil
	case MemberString:
		return fixedStringType(reg, m.Length)
	case MemberVLString:
		return vlStringType(reg)
	case MemberEnum:
		if m.Enum.id < 0 {
			return buildEnum(reg, m.Enum.values, m.Enum.width)
		}
		return m.Enum.id, nil
	}
	return -1, errorf(h5err.InvalidArgument, "member %q has an unknown kind", m.Name)
}

// CompoundType is a named record type persisted as a committed datatype.
// Records travel as map[string]any keyed by member name, with Go value
// types matching the member kinds.
type CompoundType struct {
	name    string
	members []CompoundMember
	offsets []uint
	size    uint
	fileID  h5.ID // committed identifier, owned by the file handle
}

// Name returns the logical type name.
func (t *CompoundType) Name() string { return t.name }

// Members returns the member definitions in storage order.
func (t *CompoundType) Members() []CompoundMember { return t.members }

// RecordSize returns the packed byte size of one record.
func (t *CompoundType) RecordSize() uint { return t.size }

// layoutMembers computes packed member offsets and the record size.
func layoutMembers(members []CompoundMember) (offsets []uint, size uint, err error) {
	if len(members) == 0 {
		return nil, 0, newError(h5err.InvalidArgument, "a compound type needs at least one member")
	}
	offsets = make([]uint, len(members))
	for i, m := range members {
		sz, err := m.size()
		if err != nil {
			return nil, 0, err
		}
		offsets[i] = size
		size += sz
	}
	return offsets, size, nil
}

// CompoundAccessor defines compound record types and reads and writes
// record-valued datasets.
type CompoundAccessor struct {
	base *base
}

// Type returns the named compound type, committing it on first use. An
// existing type of that name must carry the same members in the same order.
func (a *CompoundAccessor) Type(name string, members []CompoundMember) (*CompoundType, error) {
	offsets, size, err := layoutMembers(members)
	if err != nil {
		return nil, err
	}
	return runOpValue(a.base, func(reg *registry) (*CompoundType, error) {
		path := a.base.dataTypePath(compoundPrefix, name)
		id, found, err := a.base.openNamedType(path)
		if err != nil {
			return nil, err
		}
		if found {
			if err := a.validateCompound(id, name, members); err != nil {
				return nil, err
			}
			return &CompoundType{name: name, members: members, offsets: offsets, size: size, fileID: id}, nil
		}
		if err := a.base.checkWritable(); err != nil {
			return nil, err
		}
		fileType, err := a.buildCompound(reg, members, offsets, size, true)
		if err != nil {
			return nil, err
		}
		if err := a.base.commitNamedType(reg, path, fileType); err != nil {
			return nil, err
		}
		id, _, err = a.base.openNamedType(path)
		if err != nil {
			return nil, err
		}
		return &CompoundType{name: name, members: members, offsets: offsets, size: size, fileID: id}, nil
	})
}

// GetType returns a compound type already present in the file, with member
// definitions reconstructed from the committed datatype.
func (a *CompoundAccessor) GetType(name string) (*CompoundType, error) {
	return runOpValue(a.base, func(reg *registry) (*CompoundType, error) {
		path := a.base.dataTypePath(compoundPrefix, name)
		id, found, err := a.base.openNamedType(path)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errorf(h5err.NotFound, "no compound type named %q in this file", name)
		}
		members, err := reconstructMembers(reg, id)
		if err != nil {
			return nil, err
		}
		offsets, size, err := layoutMembers(members)
		if err != nil {
			return nil, err
		}
		return &CompoundType{name: name, members: members, offsets: offsets, size: size, fileID: id}, nil
	})
}

// buildCompound assembles a compound datatype with packed offsets.
func (a *CompoundAccessor) buildCompound(reg *registry, members []CompoundMember, offsets []uint, size uint, file bool) (h5.ID, error) {
	id, err := h5.CreateCompoundType(size)
	if err != nil {
		return -1, nativeError(h5err.Resource, err)
	}
	reg.datatype(id)
	for i, m := range members {
		mt, err := m.memberType(a.base, reg, file)
		if err != nil {
			return -1, err
		}
		if err := h5.InsertCompoundMember(id, m.Name, offsets[i], mt); err != nil {
			return -1, libError(err)
		}
	}
	return id, nil
}

// validateCompound checks an existing committed type against the requested
// member list by name and order.
func (a *CompoundAccessor) validateCompound(id h5.ID, name string, members []CompoundMember) error {
	n, err := h5.MemberCount(id)
	if err != nil {
		return libError(err)
	}
	if n != len(members) {
		return errorf(h5err.WrongType,
			"compound type %q exists with %d members, requested %d", name, n, len(members))
	}
	for i, m := range members {
		existing, err := h5.MemberName(id, i)
		if err != nil {
			return libError(err)
		}
		if existing != m.Name {
			return errorf(h5err.WrongType,
				"compound type %q exists with member %q at index %d, requested %q",
				name, existing, i, m.Name)
		}
	}
	return nil
}

// reconstructMembers rebuilds member definitions from a compound datatype.
func reconstructMembers(reg *registry, id h5.ID) ([]CompoundMember, error) {
	n, err := h5.MemberCount(id)
	if err != nil {
		return nil, libError(err)
	}
	members := make([]CompoundMember, 0, n)
	for i := 0; i < n; i++ {
		name, err := h5.MemberName(id, i)
		if err != nil {
			return nil, libError(err)
		}
		mt, err := h5.MemberType(id, i)
		if err != nil {
			return nil, libError(err)
		}
		reg.datatype(mt)
		m, err := classifyMember(reg, name, mt)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

// classifyMember maps one member datatype back to its kind.
func classifyMember(reg *registry, name string, mt h5.ID) (CompoundMember, error) {
	class, err := h5.TypeClass(mt)
	if err != nil {
		return CompoundMember{}, libError(err)
	}
	switch class {
	case h5.ClassInteger:
		size, err := h5.TypeSize(mt)
		if err != nil {
			return CompoundMember{}, libError(err)
		}
		signed, err := h5.TypeSigned(mt)
		if err != nil {
			return CompoundMember{}, libError(err)
		}
		kind, ok := integerKind(size, signed)
		if !ok {
			return CompoundMember{}, errorf(h5err.Unsupported,
				"member %q has an unsupported integer width %d", name, size)
		}
		return CompoundMember{Name: name, Kind: kind}, nil
	case h5.ClassFloat:
		size, err := h5.TypeSize(mt)
		if err != nil {
			return CompoundMember{}, libError(err)
		}
		if size == 4 {
			return CompoundMember{Name: name, Kind: MemberFloat32}, nil
		}
		return CompoundMember{Name: name, Kind: MemberFloat64}, nil
	case h5.ClassString:
		variable, err := h5.IsVariableString(mt)
		if err != nil {
			return CompoundMember{}, libError(err)
		}
		if variable {
			return CompoundMember{Name: name, Kind: MemberVLString}, nil
		}
		size, err := h5.TypeSize(mt)
		if err != nil {
			return CompoundMember{}, libError(err)
		}
		return CompoundMember{Name: name, Kind: MemberString, Length: size}, nil
	case h5.ClassEnum:
		values, width, err := enumMembers(reg, mt)
		if err != nil {
			return CompoundMember{}, err
		}
		if len(values) == 2 && values[0] == boolEnumValues[0] && values[1] == boolEnumValues[1] {
			return CompoundMember{Name: name, Kind: MemberBool}, nil
		}
		// The member's type id dies with the current operation, so the
		// reconstructed enum is detached; writers rebuild it from values.
		return CompoundMember{Name: name, Kind: MemberEnum,
			Enum: &EnumType{values: values, id: -1, width: width}}, nil
	}
	return CompoundMember{}, errorf(h5err.Unsupported,
		"member %q has a datatype class this binding does not read", name)
}

func integerKind(size uint, signed bool) (MemberKind, bool) {
	switch {
	case size == 1 && signed:
		return MemberInt8, true
	case size == 1:
		return MemberUint8, true
	case size == 2 && signed:
		return MemberInt16, true
	case size == 2:
		return MemberUint16, true
	case size == 4 && signed:
		return MemberInt32, true
	case size == 4:
		return MemberUint32, true
	case size == 8 && signed:
		return MemberInt64, true
	case size == 8:
		return MemberUint64, true
	}
	return 0, false
}

// ---- Record packing

// packRecords lays records out in a C-heap buffer in t's packed layout.
// The returned offsets locate VL string slots for freeing after the write.
func (a *CompoundAccessor) packRecords(t *CompoundType, records []map[string]any) (*h5.Buffer, []int, error) {
	buf := h5.AllocBuffer(len(records) * int(t.size))
	var vlOffsets []int
	raw := buf.Bytes()
	for ri, rec := range records {
		recBase := ri * int(t.size)
		for mi, m := range t.members {
			value, ok := rec[m.Name]
			if !ok {
				buf.Free()
				return nil, nil, errorf(h5err.UnknownMember,
					"record %d is missing member %q", ri, m.Name)
			}
			off := recBase + int(t.offsets[mi])
			if m.Kind == MemberVLString {
				s, ok := value.(string)
				if !ok {
					buf.Free()
					return nil, nil, memberTypeError(ri, m, value)
				}
				buf.PackString(off, s)
				vlOffsets = append(vlOffsets, off)
				continue
			}
			if err := packValue(raw[off:], m, value); err != nil {
				buf.Free()
				return nil, nil, errorf(h5err.WrongType,
					"record %d member %q: %s", ri, m.Name, err.Error())
			}
		}
	}
	return buf, vlOffsets, nil
}

func memberTypeError(ri int, m CompoundMember, value any) error {
	return errorf(h5err.WrongType,
		"record %d member %q holds a %T, which does not match the member kind", ri, m.Name, value)
}

// packValue encodes one non-VL member value at the start of dst.
func packValue(dst []byte, m CompoundMember, value any) error {
	switch m.Kind {
	case MemberInt8:
		v, ok := value.(int8)
		if !ok {
			return errorf(h5err.WrongType, "expected int8, got %T", value)
		}
		dst[0] = byte(v)
	case MemberInt16:
		v, ok := value.(int16)
		if !ok {
			return errorf(h5err.WrongType, "expected int16, got %T", value)
		}
		binary.NativeEndian.PutUint16(dst, uint16(v))
	case MemberInt32:
		v, ok := value.(int32)
		if !ok {
			return errorf(h5err.WrongType, "expected int32, got %T", value)
		}
		binary.NativeEndian.PutUint32(dst, uint32(v))
	case MemberInt64:
		v, ok := value.(int64)
		if !ok {
			return errorf(h5err.WrongType, "expected int64, got %T", value)
		}
		binary.NativeEndian.PutUint64(dst, uint64(v))
	case MemberUint8:
		v, ok := value.(uint8)
		if !ok {
			return errorf(h5err.WrongType, "expected uint8, got %T", value)
		}
		dst[0] = v
	case MemberUint16:
		v, ok := value.(uint16)
		if !ok {
			return errorf(h5err.WrongType, "expected uint16, got %T", value)
		}
		binary.NativeEndian.PutUint16(dst, v)
	case MemberUint32:
		v, ok := value.(uint32)
		if !ok {
			return errorf(h5err.WrongType, "expected uint32, got %T", value)
		}
		binary.NativeEndian.PutUint32(dst, v)
	case MemberUint64:
		v, ok := value.(uint64)
		if !ok {
			return errorf(h5err.WrongType, "expected uint64, got %T", value)
		}
		binary.NativeEndian.PutUint64(dst, v)
	case MemberFloat32:
		v, ok := value.(float32)
		if !ok {
			return errorf(h5err.WrongType, "expected float32, got %T", value)
		}
		binary.NativeEndian.PutUint32(dst, math.Float32bits(v))
	case MemberFloat64:
		v, ok := value.(float64)
		if !ok {
			return errorf(h5err.WrongType, "expected float64, got %T", value)
		}
		binary.NativeEndian.PutUint64(dst, math.Float64bits(v))
	case MemberBool:
		v, ok := value.(bool)
		if !ok {
			return errorf(h5err.WrongType, "expected bool, got %T", value)
		}
		dst[0] = byte(boolOrdinal(v))
	case MemberString:
		v, ok := value.(string)
		if !ok {
			return errorf(h5err.WrongType, "expected string, got %T", value)
		}
		if uint(len(v)) >= m.Length {
			return errorf(h5err.OutOfBounds,
				"string of %d bytes does not fit a %d byte cell", len(v), m.Length)
		}
		cell := dst[:m.Length]
		clear(cell)
		copy(cell, v)
	case MemberEnum:
		v, ok := value.(string)
		if !ok {
			return errorf(h5err.WrongType, "expected string, got %T", value)
		}
		ord, err := m.Enum.Ordinal(v)
		if err != nil {
			return err
		}
		putOrdinal(dst, m.Enum.width, ord)
	default:
		return errorf(h5err.InvalidArgument, "unknown member kind")
	}
	return nil
}

// unpackRecords decodes count records from a read buffer.
func unpackRecords(t *CompoundType, buf *h5.Buffer, count int) ([]map[string]any, error) {
	raw := buf.Bytes()
	out := make([]map[string]any, count)
	for ri := range out {
		rec := make(map[string]any, len(t.members))
		recBase := ri * int(t.size)
		for mi, m := range t.members {
			off := recBase + int(t.offsets[mi])
			if m.Kind == MemberVLString {
				rec[m.Name] = buf.UnpackString(off)
				continue
			}
			v, err := unpackValue(raw[off:], m)
			if err != nil {
				return nil, err
			}
			rec[m.Name] = v
		}
		out[ri] = rec
	}
	return out, nil
}

func unpackValue(src []byte, m CompoundMember) (any, error) {
	switch m.Kind {
	case MemberInt8:
		return int8(src[0]), nil
	case MemberInt16:
		return int16(binary.NativeEndian.Uint16(src)), nil
	case MemberInt32:
		return int32(binary.NativeEndian.Uint32(src)), nil
	case MemberInt64:
		return int64(binary.NativeEndian.Uint64(src)), nil
	case MemberUint8:
		return src[0], nil
	case MemberUint16:
		return binary.NativeEndian.Uint16(src), nil
	case MemberUint32:
		return binary.NativeEndian.Uint32(src), nil
	case MemberUint64:
		return binary.NativeEndian.Uint64(src), nil
	case MemberFloat32:
		return math.Float32frombits(binary.NativeEndian.Uint32(src)), nil
	case MemberFloat64:
		return math.Float64frombits(binary.NativeEndian.Uint64(src)), nil
	case MemberBool:
		return src[0] != 0, nil
	case MemberString:
		cell := src[:m.Length]
		end := len(cell)
		for i, b := range cell {
			if b == 0 {
				end = i
				break
			}
		}
		return string(cell[:end]), nil
	case MemberEnum:
		ord := getOrdinal(src, m.Enum.width)
		if ord < 0 || ord >= len(m.Enum.values) {
			return nil, errorf(h5err.Encoding,
				"member %q holds ordinal %d outside the enum's range", m.Name, ord)
		}
		return m.Enum.values[ord], nil
	}
	return nil, errorf(h5err.InvalidArgument, "unknown member kind")
}

// ---- Dataset operations

// Write writes one record as a scalar compound dataset, creating it when
// absent.
func (a *CompoundAccessor) Write(path string, t *CompoundType, record map[string]any) error {
	return a.writeRecords(path, t, []map[string]any{record}, true, nil, Features{})
}

// WriteArray writes records as the full extent of a rank-1 compound
// dataset.
func (a *CompoundAccessor) WriteArray(path string, t *CompoundType, records []map[string]any, features ...Features) error {
	return a.writeRecords(path, t, records, false, nil, chooseFeatures(features))
}

// WriteArrayBlockWithOffset writes records into an existing rank-1
// compound dataset starting at offset, growing an extendable dataset as
// needed.
func (a *CompoundAccessor) WriteArrayBlockWithOffset(path string, t *CompoundType, records []map[string]any, offset uint64) error {
	return a.writeRecords(path, t, records, false, []uint64{offset}, Features{})
}

func (a *CompoundAccessor) writeRecords(path string, t *CompoundType, records []map[string]any, scalar bool, offset []uint64, f Features) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		var dims []uint64
		if !scalar {
			dims = []uint64{uint64(len(records))}
		}
		var dataset h5.ID
		var err error
		if offset != nil {
			dataset, err = a.base.openDataSet(reg, path)
			if err != nil {
				return err
			}
			if err := a.base.extendTo(reg, dataset, []uint64{offset[0] + uint64(len(records))}, path); err != nil {
				return err
			}
		} else {
			dataset, err = a.base.getOrCreateDataSet(reg, path, t.fileID, dims, f)
			if err != nil {
				return err
			}
		}
		if len(records) == 0 {
			return nil
		}
		params := spaceParams{memSpace: h5.AllSpace, fileSpace: h5.AllSpace}
		if !scalar {
			at := offset
			if at == nil {
				at = []uint64{0}
			}
			params, err = a.base.blockSpaceParams(reg, dataset, at, dims)
			if err != nil {
				return err
			}
		}
		memType, err := a.buildCompound(reg, t.members, t.offsets, t.size, false)
		if err != nil {
			return err
		}
		buf, vlOffsets, err := a.packRecords(t, records)
		if err != nil {
			return err
		}
		defer buf.Free()
		defer buf.FreePackedStrings(vlOffsets)
		err = h5.WriteDataset(dataset, memType, params.memSpace, params.fileSpace, buf.Pointer())
		if err != nil {
			return libError(err)
		}
		return nil
	})
}

// Read reads a scalar compound dataset as one record, reconstructing the
// record layout from the dataset's own datatype.
func (a *CompoundAccessor) Read(path string) (map[string]any, error) {
	records, err := a.readRecords(path, true, nil, nil)
	if err != nil {
		return nil, err
	}
	return records[0], nil
}

// ReadArray reads a rank-1 compound dataset as records.
func (a *CompoundAccessor) ReadArray(path string) ([]map[string]any, error) {
	return a.readRecords(path, false, nil, nil)
}

// ReadArrayBlockWithOffset reads blockSize records starting at offset.
func (a *CompoundAccessor) ReadArrayBlockWithOffset(path string, blockSize, offset uint64) ([]map[string]any, error) {
	return a.readRecords(path, false, []uint64{offset}, []uint64{blockSize})
}

func (a *CompoundAccessor) readRecords(path string, scalar bool, offset, block []uint64) ([]map[string]any, error) {
	return runOpValue(a.base, func(reg *registry) ([]map[string]any, error) {
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
		if class != h5.ClassCompound {
			return nil, errorf(h5err.WrongType, "dataset at %q does not hold compound records", path)
		}
		members, err := reconstructMembers(reg, datatype)
		if err != nil {
			return nil, err
		}
		offsets, size, err := layoutMembers(members)
		if err != nil {
			return nil, err
		}
		t := &CompoundType{members: members, offsets: offsets, size: size}
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
		} else if err := requireRank(params.dims, 1, path); err != nil {
			return nil, err
		}
		count := int(params.count)
		if count == 0 {
			return nil, nil
		}
		memType, err := a.buildCompound(reg, members, offsets, size, false)
		if err != nil {
			return nil, err
		}
		buf := h5.AllocBuffer(count * int(size))
		defer buf.Free()
		err = h5.ReadDataset(dataset, memType, params.memSpace, params.fileSpace, buf.Pointer())
		if err != nil {
			return nil, libError(err)
		}
		records, err := unpackRecords(t, buf, count)
		if err != nil {
			return nil, err
		}
		// Hand back the library-allocated VL member strings before the
		// buffer goes away. Skipped when no member is variable-length.
		for _, m := range members {
			if m.Kind == MemberVLString {
				bufSpace := params.memSpace
				if bufSpace == h5.AllSpace {
					space, err := h5.DatasetSpace(dataset)
					if err != nil {
						return nil, libError(err)
					}
					bufSpace = reg.space(space)
				}
				if err := h5.ReclaimVlen(memType, bufSpace, buf.Pointer()); err != nil {
					return nil, libError(err)
				}
				break
			}
		}
		return records, nil
	})
}
