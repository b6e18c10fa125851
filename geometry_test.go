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
	"testing"

	assert "github.com/stretchr/testify/require"

	"github.com/h5typed/hdf5/h5err"
)

// ---- Tests

func TestElementCount(t *testing.T) {
	assert.Equal(t, uint64(1), elementCount(nil))
	assert.Equal(t, uint64(7), elementCount([]uint64{7}))
	assert.Equal(t, uint64(24), elementCount([]uint64{2, 3, 4}))
	assert.Equal(t, uint64(0), elementCount([]uint64{5, 0, 2}))
}

func TestCheckBounds(t *testing.T) {
	extent := []uint64{10, 6}
	assert.Nil(t, checkBounds([]uint64{0, 0}, []uint64{10, 6}, extent))
	assert.Nil(t, checkBounds([]uint64{8, 4}, []uint64{2, 2}, extent))

	err := checkBounds([]uint64{8, 4}, []uint64{3, 2}, extent)
	assert.NotNil(t, err)
	assert.Equal(t, h5err.OutOfBounds, ErrorCode(err))

	err = checkBounds([]uint64{0}, []uint64{10, 6}, extent)
	assert.Equal(t, h5err.ShapeMismatch, ErrorCode(err))

	// An offset near the uint64 ceiling must not wrap past the check.
	err = checkBounds([]uint64{^uint64(0) - 1, 0}, []uint64{4, 6}, extent)
	assert.Equal(t, h5err.OutOfBounds, ErrorCode(err))
	err = checkBounds([]uint64{0, 0}, []uint64{^uint64(0), 6}, extent)
	assert.Equal(t, h5err.OutOfBounds, ErrorCode(err))
}

func TestNaturalBlockSize(t *testing.T) {
	// Unchunked: a single block spanning the whole extent.
	assert.Equal(t, []uint64{10, 6}, naturalBlockSize([]uint64{10, 6}, nil))
	// Chunked: the chunk shape, clipped to the extent.
	assert.Equal(t, []uint64{4, 6}, naturalBlockSize([]uint64{10, 6}, []uint64{4, 8}))
	// Empty axes are normalized to 1 to keep the tiling well formed.
	assert.Equal(t, []uint64{1, 3}, naturalBlockSize([]uint64{0, 3}, nil))
}

// TestBlockOdometerTiling walks the odometer and checks the blocks exactly
// cover the extent in row-major order, with remainder blocks on the edges.
func TestBlockOdometerTiling(t *testing.T) {
	extent := []uint64{10, 7}
	nb := []uint64{4, 3}
	o := newBlockOdometer(extent, nb)

	seen := make([]bool, 10*7)
	var wantLinear uint64
	for {
		offset, shape, linearIndex, ok := o.next()
		if !ok {
			break
		}
		assert.Equal(t, wantLinear, linearIndex)
		wantLinear++
		for r := offset[0]; r < offset[0]+shape[0]; r++ {
			for c := offset[1]; c < offset[1]+shape[1]; c++ {
				pos := r*7 + c
				assert.False(t, seen[pos], "element (%d,%d) covered twice", r, c)
				seen[pos] = true
			}
		}
		// Interior blocks are full sized; edge blocks carry the remainder.
		assert.True(t, shape[0] == 4 || offset[0]+shape[0] == 10)
		assert.True(t, shape[1] == 3 || offset[1]+shape[1] == 7)
	}
	// ceil(10/4) * ceil(7/3) blocks in total, covering every element.
	assert.Equal(t, uint64(3*3), wantLinear)
	for pos, covered := range seen {
		assert.True(t, covered, "element %d never covered", pos)
	}
}

func TestBlockOdometerSingleBlock(t *testing.T) {
	o := newBlockOdometer([]uint64{5}, []uint64{5})
	offset, shape, linearIndex, ok := o.next()
	assert.True(t, ok)
	assert.Equal(t, []uint64{0}, offset)
	assert.Equal(t, []uint64{5}, shape)
	assert.Equal(t, uint64(0), linearIndex)
	_, _, _, ok = o.next()
	assert.False(t, ok)
}

func TestBlockOdometerEmptyExtent(t *testing.T) {
	o := newBlockOdometer([]uint64{4, 0}, []uint64{4, 1})
	_, _, _, ok := o.next()
	assert.False(t, ok)
}

func TestSliceWithBoundIndices(t *testing.T) {
	// Bind axis 0 of a rank-3 dataset: the free axes are 1 and 2.
	offset, block, err := sliceWithBoundIndices(3,
		[]BoundIndex{{Axis: 0, Index: 5}},
		[]uint64{2, 3}, []uint64{4, 6})
	assert.Nil(t, err)
	assert.Equal(t, []uint64{5, 2, 3}, offset)
	assert.Equal(t, []uint64{1, 4, 6}, block)

	// Binding the middle axis interleaves free geometry around it.
	offset, block, err = sliceWithBoundIndices(3,
		[]BoundIndex{{Axis: 1, Index: 9}},
		[]uint64{0, 1}, []uint64{2, 2})
	assert.Nil(t, err)
	assert.Equal(t, []uint64{0, 9, 1}, offset)
	assert.Equal(t, []uint64{2, 1, 2}, block)
}

func TestSliceWithBoundIndicesErrors(t *testing.T) {
	_, _, err := sliceWithBoundIndices(3, []BoundIndex{{Axis: 0}}, []uint64{0}, []uint64{1, 1})
	assert.Equal(t, h5err.InvalidArgument, ErrorCode(err))

	_, _, err = sliceWithBoundIndices(3, []BoundIndex{{Axis: 0}}, []uint64{0}, []uint64{1})
	assert.Equal(t, h5err.ShapeMismatch, ErrorCode(err))

	_, _, err = sliceWithBoundIndices(2, []BoundIndex{{Axis: 5}}, []uint64{0}, []uint64{1})
	assert.Equal(t, h5err.InvalidArgument, ErrorCode(err))

	_, _, err = sliceWithBoundIndices(3, []BoundIndex{{Axis: 1}, {Axis: 1}}, []uint64{0}, []uint64{1})
	assert.Equal(t, h5err.InvalidArgument, ErrorCode(err))
}

func TestDimsOf(t *testing.T) {
	dims, err := dimsOf(3, 4)
	assert.Nil(t, err)
	assert.Equal(t, []uint64{3, 4}, dims)

	_, err = dimsOf(3, -1)
	assert.Equal(t, h5err.InvalidArgument, ErrorCode(err))
}
