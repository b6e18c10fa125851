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
	"github.com/h5typed/hdf5/h5err"
)

// MDArray is a rank-N array stored flat in row-major order, the in-memory
// counterpart of a multi-dimensional dataset.
type MDArray[T any] struct {
	dims []uint64
	data []T
}

// NewMDArray allocates a zeroed array of the given shape.
func NewMDArray[T any](dims ...uint64) *MDArray[T] {
	return &MDArray[T]{dims: dims, data: make([]T, elementCount(dims))}
}

// MDArrayOf wraps existing flat row-major data in the given shape. The data
// length must equal the product of the dimensions.
func MDArrayOf[T any](dims []uint64, data []T) (*MDArray[T], error) {
	if uint64(len(data)) != elementCount(dims) {
		return nil, errorf(h5err.ShapeMismatch,
			"flat data length %d does not match shape %v (%d elements)",
			len(data), dims, elementCount(dims))
	}
	return &MDArray[T]{dims: dims, data: data}, nil
}

// Rank returns the number of dimensions.
func (a *MDArray[T]) Rank() int { return len(a.dims) }

// Dims returns the shape. The caller must not modify it.
func (a *MDArray[T]) Dims() []uint64 { return a.dims }

// Data returns the flat row-major backing slice.
func (a *MDArray[T]) Data() []T { return a.data }

// Len returns the total number of elements.
func (a *MDArray[T]) Len() int { return len(a.data) }

// flatIndex converts a per-axis index to the row-major flat position,
// last axis fastest.
func (a *MDArray[T]) flatIndex(idx []uint64) int {
	if len(idx) != len(a.dims) {
		panic(errorf(h5err.ShapeMismatch, "index rank %d for array rank %d", len(idx), len(a.dims)))
	}
	flat := uint64(0)
	for i, x := range idx {
		if x >= a.dims[i] {
			panic(errorf(h5err.OutOfBounds, "index %d exceeds dimension %d on axis %d", x, a.dims[i], i))
		}
		flat = flat*a.dims[i] + x
	}
	return int(flat)
}

// At returns the element at the given per-axis index.
func (a *MDArray[T]) At(idx ...uint64) T {
	return a.data[a.flatIndex(idx)]
}

// Set stores v at the given per-axis index.
func (a *MDArray[T]) Set(v T, idx ...uint64) {
	a.data[a.flatIndex(idx)] = v
}

// ---- Matrix (rank-2) conversion helpers

// flattenMatrix converts row-oriented matrix data to a flat row-major slice,
// rejecting ragged rows: a matrix write must describe a true rectangle.
func flattenMatrix[T any](m [][]T) (dims []uint64, flat []T, err error) {
	rows := len(m)
	cols := 0
	if rows > 0 {
		cols = len(m[0])
	}
	flat = make([]T, 0, rows*cols)
	for i, row := range m {
		if len(row) != cols {
			return nil, nil, errorf(h5err.Encoding,
				"inconsistent matrix row lengths: row 0 has %d elements, row %d has %d", cols, i, len(row))
		}
		flat = append(flat, row...)
	}
	return []uint64{uint64(rows), uint64(cols)}, flat, nil
}

// unflattenMatrix slices flat row-major rank-2 data into rows.
func unflattenMatrix[T any](dims []uint64, flat []T) [][]T {
	rows, cols := int(dims[0]), int(dims[1])
	m := make([][]T, rows)
	for i := range m {
		m[i] = flat[i*cols : (i+1)*cols]
	}
	return m
}
