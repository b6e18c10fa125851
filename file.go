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
	"sync"
	"sync/atomic"

	"github.com/h5typed/hdf5/h5err"
	"github.com/h5typed/hdf5/internal/h5"
)

// File is the entry object for one HDF5 container file. It owns the native
// file identifier and composes one typed accessor per primitive kind; the
// accessors hold a non-owning reference back to the shared core, so closing
// the file through any path invalidates all of them at once.
//
// The native library is not safe for concurrent calls, so every operation
// against a File takes the file's exclusive in-process lock. A File may be
// shared between goroutines; operations are serialized, not parallel.
type File struct {
	base *base

	i8  *Numeric[int8]
	i16 *Numeric[int16]
	i32 *Numeric[int32]
	i64 *Numeric[int64]
	u8  *Numeric[uint8]
	u16 *Numeric[uint16]
	u32 *Numeric[uint32]
	u64 *Numeric[uint64]
	f32 *Numeric[float32]
	f64 *Numeric[float64]

	bools *BoolAccessor
	strs  *StringAccessor
	enums *EnumAccessor
	comps *CompoundAccessor
	times *TimeAccessor
	refs  *ReferenceAccessor
	opqs  *OpaqueAccessor
}

// base is the shared reader/writer core. Typed accessors compose it; they
// never own it.
type base struct {
	mu       sync.Mutex
	name     string
	id       h5.ID
	closed   atomic.Bool
	readOnly bool
	suffix   string // house-keeping name suffix, "" by default

	// namedTypes caches committed datatype identifiers by path. The cached
	// ids live until the file closes and must not enter per-call registries.
	namedTypes map[string]h5.ID
}

type config struct {
	readWrite bool
	exclusive bool
	suffix    string
}

// Option adjusts how a file is opened or created.
type Option func(*config)

// ReadWrite opens an existing file for both reading and writing.
func ReadWrite() Option {
	return func(c *config) { c.readWrite = true }
}

// Exclusive makes Create fail if the file already exists instead of
// truncating it.
func Exclusive() Option {
	return func(c *config) { c.exclusive = true }
}

// HouseKeepingSuffix changes the suffix appended to reserved names
// (house-keeping datasets, attributes and groups) written by this handle.
func HouseKeepingSuffix(suffix string) Option {
	return func(c *config) { c.suffix = suffix }
}

// Open opens an existing HDF5 file, read-only unless [ReadWrite] is given.
func Open(name string, opts ...Option) (*File, error) {
	cfg := config{suffix: defaultHouseKeepingSuffix}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := initializeLibrary(); err != nil {
		return nil, err
	}
	flags := h5.ReadOnly
	if cfg.readWrite {
		flags = h5.ReadWrite
	}
	id, err := h5.OpenFile(name, flags)
	if err != nil {
		return nil, nativeError(h5err.Resource, err)
	}
	return newFile(name, id, !cfg.readWrite, cfg.suffix), nil
}

// Create creates a new HDF5 file open for reading and writing, truncating
// any existing file unless [Exclusive] is given.
func Create(name string, opts ...Option) (*File, error) {
	cfg := config{suffix: defaultHouseKeepingSuffix}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := initializeLibrary(); err != nil {
		return nil, err
	}
	flags := h5.Truncate
	if cfg.exclusive {
		flags = h5.Exclusive
	}
	id, err := h5.CreateFile(name, flags)
	if err != nil {
		return nil, nativeError(h5err.Resource, err)
	}
	return newFile(name, id, false, cfg.suffix), nil
}

func newFile(name string, id h5.ID, readOnly bool, suffix string) *File {
	b := &base{
		name:       name,
		id:         id,
		readOnly:   readOnly,
		suffix:     suffix,
		namedTypes: make(map[string]h5.ID),
	}
	f := &File{base: b}
	f.i8 = &Numeric[int8]{base: b, storage: h5.TypeStdInt8LE, memory: h5.TypeNativeInt8}
	f.i16 = &Numeric[int16]{base: b, storage: h5.TypeStdInt16LE, memory: h5.TypeNativeInt16}
	f.i32 = &Numeric[int32]{base: b, storage: h5.TypeStdInt32LE, memory: h5.TypeNativeInt32}
	f.i64 = &Numeric[int64]{base: b, storage: h5.TypeStdInt64LE, memory: h5.TypeNativeInt64}
	f.u8 = &Numeric[uint8]{base: b, storage: h5.TypeStdUint8LE, memory: h5.TypeNativeUint8}
	f.u16 = &Numeric[uint16]{base: b, storage: h5.TypeStdUint16LE, memory: h5.TypeNativeUint16}
	f.u32 = &Numeric[uint32]{base: b, storage: h5.TypeStdUint32LE, memory: h5.TypeNativeUint32}
	f.u64 = &Numeric[uint64]{base: b, storage: h5.TypeStdUint64LE, memory: h5.TypeNativeUint64}
	f.f32 = &Numeric[float32]{base: b, storage: h5.TypeIEEEFloat32LE, memory: h5.TypeNativeFloat32}
	f.f64 = &Numeric[float64]{base: b, storage: h5.TypeIEEEFloat64LE, memory: h5.TypeNativeFloat64}
	f.bools = &BoolAccessor{base: b}
	f.strs = &StringAccessor{base: b}
	f.enums = &EnumAccessor{base: b}
	f.comps = &CompoundAccessor{base: b}
	f.times = &TimeAccessor{i64: f.i64, base: b}
	f.refs = &ReferenceAccessor{base: b}
	f.opqs = &OpaqueAccessor{base: b}
	return f
}

// ---- Facade: one typed accessor per primitive kind

func (f *File) Int8() *Numeric[int8]       { return f.i8 }
func (f *File) Int16() *Numeric[int16]     { return f.i16 }
func (f *File) Int32() *Numeric[int32]     { return f.i32 }
func (f *File) Int64() *Numeric[int64]     { return f.i64 }
func (f *File) Uint8() *Numeric[uint8]     { return f.u8 }
func (f *File) Uint16() *Numeric[uint16]   { return f.u16 }
func (f *File) Uint32() *Numeric[uint32]   { return f.u32 }
func (f *File) Uint64() *Numeric[uint64]   { return f.u64 }
func (f *File) Float32() *Numeric[float32] { return f.f32 }
func (f *File) Float64() *Numeric[float64] { return f.f64 }

func (f *File) Bool() *BoolAccessor           { return f.bools }
func (f *File) String() *StringAccessor       { return f.strs }
func (f *File) Enum() *EnumAccessor           { return f.enums }
func (f *File) Compound() *CompoundAccessor   { return f.comps }
func (f *File) Time() *TimeAccessor           { return f.times }
func (f *File) Reference() *ReferenceAccessor { return f.refs }
func (f *File) Opaque() *OpaqueAccessor       { return f.opqs }

// Name returns the file name the handle was opened with.
func (f *File) Name() string { return f.base.name }

// IsReadOnly reports whether the handle permits writes.
func (f *File) IsReadOnly() bool { return f.base.readOnly }

// Flush pushes all buffered data for this file to disk.
func (f *File) Flush() error {
	return f.base.runOp(func(reg *registry) error {
		if err := h5.FlushFile(f.base.id); err != nil {
			return libError(err)
		}
		return nil
	})
}

// Close releases the native file handle. Closing twice is a no-op: the
// second call returns nil without touching the native library. All typed
// accessors derived from this file fail with a ClosedHandle error afterward.
func (f *File) Close() error {
	b := f.base
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed.Swap(true) {
		return nil
	}
	var firstErr error
	for _, id := range b.namedTypes {
		if err := h5.CloseType(id); err != nil && firstErr == nil {
			firstErr = nativeError(h5err.Resource, err)
		}
	}
	b.namedTypes = nil
	if err := h5.CloseFile(b.id); err != nil && firstErr == nil {
		firstErr = nativeError(h5err.Resource, err)
	}
	return firstErr
}

// ---- Operation plumbing shared by every accessor

// runOp executes one logical operation while holding the file's exclusive
// lock, with a scoped cleanup registry. It fails fast once the file is
// closed.
func (b *base) runOp(op func(reg *registry) error) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkOpen(); err != nil {
		return err
	}
	return runScoped(op)
}

// runOpValue is runOp for operations producing a value.
func runOpValue[T any](b *base, op func(reg *registry) (T, error)) (T, error) {
	var zero T
	if err := b.checkOpen(); err != nil {
		return zero, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkOpen(); err != nil {
		return zero, err
	}
	return runScopedValue(op)
}

func (b *base) checkOpen() error {
	if b.closed.Load() {
		return errorf(h5err.ClosedHandle, "file %q has been closed", b.name)
	}
	return nil
}

// checkWritable guards write operations on read-only handles.
func (b *base) checkWritable() error {
	if b.readOnly {
		return errorf(h5err.Unsupported, "file %q is open read-only", b.name)
	}
	return nil
}

// houseKeepingName decorates a reserved name with the handle's suffix.
// With the default empty suffix the reserved names are used as-is.
func (b *base) houseKeepingName(name string) string {
	return name + b.suffix
}
