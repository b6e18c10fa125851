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
	"time"
	"unsafe"

	"github.com/h5typed/hdf5/h5err"
	"github.com/h5typed/hdf5/internal/h5"
)

// TimeAccessor reads and writes time stamps and durations. Both are stored
// as int64 milliseconds (since the Unix epoch for time stamps) and tagged
// with a type variant so readers can tell them apart from plain integers.
type TimeAccessor struct {
	i64  *Numeric[int64]
	base *base
}

// attrVariantName is the reserved attribute tagging the type variant of a
// named attribute on the same object.
func (a *TimeAccessor) attrVariantName(name string) string {
	return a.base.houseKeepingName(typeVariantAttribute + name + "__")
}

// writeTagged writes one int64 dataset and tags it with the given variant.
func (a *TimeAccessor) writeTagged(path string, millis []int64, scalar bool, v typeVariant, f Features) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		var dims []uint64
		if !scalar {
			dims = []uint64{uint64(len(millis))}
		}
		dataset, err := a.base.getOrCreateDataSet(reg, path,
			a.i64.storageType(), dims, f)
		if err != nil {
			return err
		}
		if len(millis) > 0 {
			var params spaceParams
			if scalar {
				params = spaceParams{memSpace: h5.AllSpace, fileSpace: h5.AllSpace}
			} else {
				params, err = a.base.blockSpaceParams(reg, dataset, []uint64{0}, dims)
				if err != nil {
					return err
				}
			}
			err = h5.WriteDataset(dataset, a.i64.memoryType(),
				params.memSpace, params.fileSpace, unsafe.Pointer(&millis[0]))
			if err != nil {
				return libError(err)
			}
		}
		return a.base.tagTypeVariant(reg, path, v)
	})
}

// readTagged reads an int64 dataset, requiring the given variant tag.
func (a *TimeAccessor) readTagged(path string, wantRank int, scalar bool, v typeVariant, what string) ([]int64, error) {
	return runOpValue(a.base, func(reg *registry) ([]int64, error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return nil, err
		}
		variant, tagged, err := a.base.typeVariantOf(reg, path)
		if err != nil {
			return nil, err
		}
		if !tagged || variant != v {
			return nil, errorf(h5err.WrongType, "dataset at %q is not tagged as a %s", path, what)
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
		} else if err := requireRank(params.dims, wantRank, path); err != nil {
			return nil, err
		}
		millis := make([]int64, params.count)
		if params.count > 0 {
			err = h5.ReadDataset(dataset, a.i64.memoryType(),
				params.memSpace, params.fileSpace, unsafe.Pointer(&millis[0]))
			if err != nil {
				return nil, libError(err)
			}
		}
		return millis, nil
	})
}

// ---- Time stamps

// Write writes t as a scalar time stamp dataset. Sub-millisecond precision
// is dropped.
func (a *TimeAccessor) Write(path string, t time.Time) error {
	return a.writeTagged(path, []int64{t.UnixMilli()}, true, variantTimestampMillis, Features{})
}

// Read reads a scalar time stamp dataset. Reading a dataset not written as
// a time stamp fails with WrongType.
func (a *TimeAccessor) Read(path string) (time.Time, error) {
	millis, err := a.readTagged(path, 0, true, variantTimestampMillis, "time stamp")
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(millis[0]), nil
}

// WriteArray writes data as a rank-1 time stamp dataset.
func (a *TimeAccessor) WriteArray(path string, data []time.Time, features ...Features) error {
	millis := make([]int64, len(data))
	for i, t := range data {
		millis[i] = t.UnixMilli()
	}
	return a.writeTagged(path, millis, false, variantTimestampMillis, chooseFeatures(features))
}

// ReadArray reads a rank-1 time stamp dataset.
func (a *TimeAccessor) ReadArray(path string) ([]time.Time, error) {
	millis, err := a.readTagged(path, 1, false, variantTimestampMillis, "time stamp")
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, len(millis))
	for i, ms := range millis {
		out[i] = time.UnixMilli(ms)
	}
	return out, nil
}

// ---- Durations

// WriteDuration writes d as a scalar duration dataset with millisecond
// resolution.
func (a *TimeAccessor) WriteDuration(path string, d time.Duration) error {
	return a.writeTagged(path, []int64{d.Milliseconds()}, true, variantDurationMillis, Features{})
}

// ReadDuration reads a scalar duration dataset.
func (a *TimeAccessor) ReadDuration(path string) (time.Duration, error) {
	millis, err := a.readTagged(path, 0, true, variantDurationMillis, "duration")
	if err != nil {
		return 0, err
	}
	return time.Duration(millis[0]) * time.Millisecond, nil
}

// WriteDurationArray writes data as a rank-1 duration dataset.
func (a *TimeAccessor) WriteDurationArray(path string, data []time.Duration, features ...Features) error {
	millis := make([]int64, len(data))
	for i, d := range data {
		millis[i] = d.Milliseconds()
	}
	return a.writeTagged(path, millis, false, variantDurationMillis, chooseFeatures(features))
}

// ReadDurationArray reads a rank-1 duration dataset.
func (a *TimeAccessor) ReadDurationArray(path string) ([]time.Duration, error) {
	millis, err := a.readTagged(path, 1, false, variantDurationMillis, "duration")
	if err != nil {
		return nil, err
	}
	out := make([]time.Duration, len(millis))
	for i, ms := range millis {
		out[i] = time.Duration(ms) * time.Millisecond
	}
	return out, nil
}

// ---- Attributes

// SetAttr writes a scalar time stamp attribute. The variant tag lives in a
// companion attribute since attributes cannot carry attributes of their own.
func (a *TimeAccessor) SetAttr(objPath, name string, t time.Time) error {
	return a.setTaggedAttr(objPath, name, t.UnixMilli(), variantTimestampMillis)
}

// Attr reads a scalar time stamp attribute.
func (a *TimeAccessor) Attr(objPath, name string) (time.Time, error) {
	millis, err := a.taggedAttr(objPath, name, variantTimestampMillis, "time stamp")
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(millis), nil
}

// SetDurationAttr writes a scalar duration attribute.
func (a *TimeAccessor) SetDurationAttr(objPath, name string, d time.Duration) error {
	return a.setTaggedAttr(objPath, name, d.Milliseconds(), variantDurationMillis)
}

// DurationAttr reads a scalar duration attribute.
func (a *TimeAccessor) DurationAttr(objPath, name string) (time.Duration, error) {
	millis, err := a.taggedAttr(objPath, name, variantDurationMillis, "duration")
	if err != nil {
		return 0, err
	}
	return time.Duration(millis) * time.Millisecond, nil
}

func (a *TimeAccessor) setTaggedAttr(objPath, name string, millis int64, v typeVariant) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		err := a.base.setAttribute(reg, objPath, name,
			a.i64.storageType(), a.i64.memoryType(),
			nil, unsafe.Pointer(&millis))
		if err != nil {
			return err
		}
		ordinal := int32(v)
		return a.base.setAttribute(reg, objPath, a.attrVariantName(name),
			h5.Predefined(h5.TypeStdInt32LE), h5.Predefined(h5.TypeNativeInt32),
			nil, unsafe.Pointer(&ordinal))
	})
}

func (a *TimeAccessor) taggedAttr(objPath, name string, v typeVariant, what string) (int64, error) {
	return runOpValue(a.base, func(reg *registry) (int64, error) {
		tagName := a.attrVariantName(name)
		present, err := a.base.hasAttribute(reg, objPath, tagName)
		if err != nil {
			return 0, err
		}
		ok := false
		if present {
			tag, _, err := a.base.openAttribute(reg, objPath, tagName)
			if err != nil {
				return 0, err
			}
			var ordinal int32
			if err := h5.ReadAttribute(tag, h5.Predefined(h5.TypeNativeInt32), unsafe.Pointer(&ordinal)); err != nil {
				return 0, libError(err)
			}
			ok = typeVariant(ordinal) == v
		}
		if !ok {
			return 0, errorf(h5err.WrongType,
				"attribute %q of %q is not tagged as a %s", name, objPath, what)
		}
		attr, dims, err := a.base.openAttribute(reg, objPath, name)
		if err != nil {
			return 0, err
		}
		if elementCount(dims) != 1 {
			return 0, errorf(h5err.ShapeMismatch,
				"attribute %q of %q is not scalar", name, objPath)
		}
		var millis int64
		if err := h5.ReadAttribute(attr, a.i64.memoryType(), unsafe.Pointer(&millis)); err != nil {
			return 0, libError(err)
		}
		return millis, nil
	})
}
