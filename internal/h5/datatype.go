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
#include <stdlib.h>
#include <hdf5.h>

// The predefined datatype identifiers are global variables hidden behind
// macros that cgo cannot evaluate, so hand them out through a plain function.
// Indices must match the Go Type* constants below.
static hid_t h5go_type(int idx) {
	switch (idx) {
	case 0:  return H5T_NATIVE_INT8;
	case 1:  return H5T_NATIVE_INT16;
	case 2:  return H5T_NATIVE_INT32;
	case 3:  return H5T_NATIVE_INT64;
	case 4:  return H5T_NATIVE_UINT8;
	case 5:  return H5T_NATIVE_UINT16;
	case 6:  return H5T_NATIVE_UINT32;
	case 7:  return H5T_NATIVE_UINT64;
	case 8:  return H5T_NATIVE_FLOAT;
	case 9:  return H5T_NATIVE_DOUBLE;
	case 10: return H5T_NATIVE_B64;
	case 11: return H5T_STD_I8LE;
	case 12: return H5T_STD_I16LE;
	case 13: return H5T_STD_I32LE;
	case 14: return H5T_STD_I64LE;
	case 15: return H5T_STD_U8LE;
	case 16: return H5T_STD_U16LE;
	case 17: return H5T_STD_U32LE;
	case 18: return H5T_STD_U64LE;
	case 19: return H5T_IEEE_F32LE;
	case 20: return H5T_IEEE_F64LE;
	case 21: return H5T_STD_B64LE;
	case 22: return H5T_C_S1;
	case 23: return H5T_STD_REF_OBJ;
	}
	return -1;
}
*/
import "C"

import "unsafe"

// Predefined datatype selectors for Predefined(). The Native* group matches
// the host's in-memory representation; the Std* group is the little-endian
// on-disk encoding used for storage so files travel between architectures.
const (
	TypeNativeInt8 = iota
	TypeNativeInt16
	TypeNativeInt32
	TypeNativeInt64
	TypeNativeUint8
	TypeNativeUint16
	TypeNativeUint32
	TypeNativeUint64
	TypeNativeFloat32
	TypeNativeFloat64
	TypeNativeBitfield64
	TypeStdInt8LE
	TypeStdInt16LE
	TypeStdInt32LE
	TypeStdInt64LE
	TypeStdUint8LE
	TypeStdUint16LE
	TypeStdUint32LE
	TypeStdUint64LE
	TypeIEEEFloat32LE
	TypeIEEEFloat64LE
	TypeStdBitfield64LE
	TypeCString
	TypeStdRefObj
)

// Datatype classes (H5T_class_t), the closed set the typed layer matches on.
const (
	ClassInteger  = int(C.H5T_INTEGER)
	ClassFloat    = int(C.H5T_FLOAT)
	ClassString   = int(C.H5T_STRING)
	ClassBitfield = int(C.H5T_BITFIELD)
	ClassOpaque   = int(C.H5T_OPAQUE)
	ClassCompound = int(C.H5T_COMPOUND)
	ClassRef      = int(C.H5T_REFERENCE)
	ClassEnum     = int(C.H5T_ENUM)
	ClassVlen     = int(C.H5T_VLEN)
	ClassArray    = int(C.H5T_ARRAY)
)

// VariableLength is the magic size marking a string datatype variable-length.
const VariableLength = ^uint(0) // H5T_VARIABLE

// Predefined returns the identifier for one of the Type* selectors above.
// The returned identifier is library-owned and must not be closed.
func Predefined(sel int) ID {
	return ID(C.h5go_type(C.int(sel)))
}

// CopyType duplicates a datatype (H5Tcopy). The caller owns the copy.
func CopyType(datatype ID) (ID, error) {
	id := C.H5Tcopy(C.hid_t(datatype))
	if id < 0 {
		return -1, callError("H5Tcopy")
	}
	return ID(id), nil
}

// CloseType closes a datatype identifier (H5Tclose).
func CloseType(datatype ID) error {
	if C.H5Tclose(C.hid_t(datatype)) < 0 {
		return callError("H5Tclose")
	}
	return nil
}

// TypesEqual reports whether two datatypes are the same (H5Tequal).
func TypesEqual(a, b ID) (bool, error) {
	tri := C.H5Tequal(C.hid_t(a), C.hid_t(b))
	if tri < 0 {
		return false, callError("H5Tequal")
	}
	return tri > 0, nil
}

// TypeSize returns the in-file size of one element in bytes (H5Tget_size).
func TypeSize(datatype ID) (uint, error) {
	size := C.H5Tget_size(C.hid_t(datatype))
	if size == 0 {
		return 0, callError("H5Tget_size")
	}
	return uint(size), nil
}

// SetTypeSize sets the element size of a (string) datatype (H5Tset_size).
// Pass VariableLength for a variable-length string.
func SetTypeSize(datatype ID, size uint) error {
	if C.H5Tset_size(C.hid_t(datatype), C.size_t(size)) < 0 {
		return callError("H5Tset_size")
	}
	return nil
}

// TypeClass returns the datatype class (H5Tget_class).
func TypeClass(datatype ID) (int, error) {
	class := C.H5Tget_class(C.hid_t(datatype))
	if class < 0 {
		return 0, callError("H5Tget_class")
	}
	return int(class), nil
}

// IsVariableString reports whether the datatype is a variable-length string
// (H5Tis_variable_str).
func IsVariableString(datatype ID) (bool, error) {
	tri := C.H5Tis_variable_str(C.hid_t(datatype))
	if tri < 0 {
		return false, callError("H5Tis_variable_str")
	}
	return tri > 0, nil
}

// ---- Named (committed) datatypes

// CommitType persists a datatype under a path in the file (H5Tcommit2).
// lcpl may be Default.
func CommitType(loc ID, name string, datatype, lcpl ID) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	if C.H5Tcommit2(C.hid_t(loc), cname, C.hid_t(datatype),
		C.hid_t(lcpl), C.H5P_DEFAULT, C.H5P_DEFAULT) < 0 {
		return callError("H5Tcommit2")
	}
	return nil
}

// OpenType opens a named datatype by path (H5Topen2). The caller owns the
// returned identifier.
func OpenType(loc ID, name string) (ID, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	id := C.H5Topen2(C.hid_t(loc), cname, C.H5P_DEFAULT)
	if id < 0 {
		return -1, callError("H5Topen2")
	}
	return ID(id), nil
}

// ---- Enumeration types

// CreateEnumType creates an enumeration datatype over the given base integer
// type (H5Tenum_create). The caller owns the returned identifier.
func CreateEnumType(base ID) (ID, error) {
	id := C.H5Tenum_create(C.hid_t(base))
	if id < 0 {
		return -1, callError("H5Tenum_create")
	}
	return ID(id), nil
}

// InsertEnumMember adds a named member with the given ordinal to an
// enumeration type (H5Tenum_insert). value must point to an integer of the
// enum's base width.
func InsertEnumMember(datatype ID, name string, value unsafe.Pointer) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	if C.H5Tenum_insert(C.hid_t(datatype), cname, value) < 0 {
		return callError("H5Tenum_insert")
	}
	return nil
}

// EnumNameOf resolves an enum ordinal (pointed to by value, base width) to
// its symbolic name (H5Tenum_nameof).
func EnumNameOf(datatype ID, value unsafe.Pointer) (string, error) {
	var buf [256]C.char
	if C.H5Tenum_nameof(C.hid_t(datatype), value, &buf[0], C.size_t(len(buf))) < 0 {
		return "", callError("H5Tenum_nameof")
	}
	return C.GoString(&buf[0]), nil
}

// EnumValueOf resolves a symbolic name to its ordinal, stored into value
// (base width) (H5Tenum_valueof).
func EnumValueOf(datatype ID, name string, value unsafe.Pointer) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	if C.H5Tenum_valueof(C.hid_t(datatype), cname, value) < 0 {
		return callError("H5Tenum_valueof")
	}
	return nil
}

// ---- Member introspection (enum and compound)

// MemberCount returns the number of members of an enum or compound type
// (H5Tget_nmembers).
func MemberCount(datatype ID) (int, error) {
	n := C.H5Tget_nmembers(C.hid_t(datatype))
	if n < 0 {
		return 0, callError("H5Tget_nmembers")
	}
	return int(n), nil
}

// MemberName returns the name of member idx (H5Tget_member_name).
func MemberName(datatype ID, idx int) (string, error) {
	cname := C.H5Tget_member_name(C.hid_t(datatype), C.uint(idx))
	if cname == nil {
		return "", callError("H5Tget_member_name")
	}
	name := C.GoString(cname)
	C.H5free_memory(unsafe.Pointer(cname))
	return name, nil
}

// MemberValue stores the ordinal of enum member idx into value (base width)
// (H5Tget_member_value).
func MemberValue(datatype ID, idx int, value unsafe.Pointer) error {
	if C.H5Tget_member_value(C.hid_t(datatype), C.uint(idx), value) < 0 {
		return callError("H5Tget_member_value")
	}
	return nil
}

// MemberOffset returns the byte offset of compound member idx within the
// record (H5Tget_member_offset).
func MemberOffset(datatype ID, idx int) uint {
	return uint(C.H5Tget_member_offset(C.hid_t(datatype), C.uint(idx)))
}

// MemberType returns the datatype of compound member idx
// (H5Tget_member_type). The caller owns the returned identifier.
func MemberType(datatype ID, idx int) (ID, error) {
	id := C.H5Tget_member_type(C.hid_t(datatype), C.uint(idx))
	if id < 0 {
		return -1, callError("H5Tget_member_type")
	}
	return ID(id), nil
}

// MemberIndex returns the index of the named member, or an error if the
// member does not exist (H5Tget_member_index).
func MemberIndex(datatype ID, name string) (int, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	idx := C.H5Tget_member_index(C.hid_t(datatype), cname)
	if idx < 0 {
		return 0, callError("H5Tget_member_index")
	}
	return int(idx), nil
}

// ---- Compound types

// CreateCompoundType creates a compound datatype of the given record size
// (H5Tcreate with H5T_COMPOUND).
func CreateCompoundType(size uint) (ID, error) {
	id := C.H5Tcreate(C.H5T_COMPOUND, C.size_t(size))
	if id < 0 {
		return -1, callError("H5Tcreate")
	}
	return ID(id), nil
}

// InsertCompoundMember adds a member at the given byte offset (H5Tinsert).
func InsertCompoundMember(datatype ID, name string, offset uint, memberType ID) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	if C.H5Tinsert(C.hid_t(datatype), cname, C.size_t(offset), C.hid_t(memberType)) < 0 {
		return callError("H5Tinsert")
	}
	return nil
}

// ---- Opaque types

// CreateOpaqueType creates an opaque datatype of the given size tagged with
// tag (H5Tcreate with H5T_OPAQUE plus H5Tset_tag).
func CreateOpaqueType(size uint, tag string) (ID, error) {
	id := C.H5Tcreate(C.H5T_OPAQUE, C.size_t(size))
	if id < 0 {
		return -1, callError("H5Tcreate")
	}
	ctag := C.CString(tag)
	defer C.free(unsafe.Pointer(ctag))
	if C.H5Tset_tag(C.hid_t(id), ctag) < 0 {
		err := callError("H5Tset_tag")
		C.H5Tclose(id)
		return -1, err
	}
	return ID(id), nil
}

// OpaqueTag returns the tag of an opaque datatype (H5Tget_tag).
func OpaqueTag(datatype ID) (string, error) {
	ctag := C.H5Tget_tag(C.hid_t(datatype))
	if ctag == nil {
		return "", callError("H5Tget_tag")
	}
	tag := C.GoString(ctag)
	C.H5free_memory(unsafe.Pointer(ctag))
	return tag, nil
}

// TypeSigned reports whether an integer datatype is signed (H5Tget_sign).
func TypeSigned(datatype ID) (bool, error) {
	sign := C.H5Tget_sign(C.hid_t(datatype))
	if sign < 0 {
		return false, callError("H5Tget_sign")
	}
	return sign == C.H5T_SGN_2, nil
}

// TypeSuper returns the base type of an enum, vlen or array datatype
// (H5Tget_super). The caller owns the returned identifier.
func TypeSuper(datatype ID) (ID, error) {
	id := C.H5Tget_super(C.hid_t(datatype))
	if id < 0 {
		return -1, callError("H5Tget_super")
	}
	return ID(id), nil
}
