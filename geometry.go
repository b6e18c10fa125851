//////////////////////////////////////////////////////////////////
//
// Copyright (c) 2026 h5typed contributors.
// All rights reserved.
//
//	Use of this source code is governed by the license
//	that can be found in the LICENSE file.
//
//////////////////////////////////////////////////////////////////

// Hyperslab geometry: bounds validation, natural-block tiling and the
// bound-index slice construction used to address sub-arrays of full-rank
// datasets.

package hdf5

import (
	"github.com/h5typed/hdf5/h5err"
)

// elementCount returns the number of elements a shape covers. The empty
// shape (a scalar) counts one element.
func elementCount(dims []uint64) uint64 {
	n := uint64(1)
	for _, d := range dims {
		n *= d
	}
	return n
}

// checkBounds validates that offset+block fits inside extent on every axis.
func checkBounds(offset, block, extent []uint64) error {
	if len(offset) != len(extent) || len(block) != len(extent) {
		return errorf(h5err.ShapeMismatch,
			"offset/block rank %d/%d does not match dataset rank %d",
			len(offset), len(block), len(extent))
	}
	for i := range extent {
		// Subtract instead of adding so a huge offset cannot wrap.
		if block[i] > extent[i] || offset[i] > extent[i]-block[i] {
			return errorf(h5err.OutOfBounds,
				"block of %d at offset %d exceeds extent %d on axis %d",
				block[i], offset[i], extent[i], i)
		}
	}
	return nil
}

// naturalBlockSize returns the most I/O-efficient block shape for a dataset:
// its chunk shape when chunked, otherwise the full extent (a single block).
// Axes of a chunk larger than the extent are clipped to the extent.
func naturalBlockSize(extent, chunkOrNil []uint64) []uint64 {
	nb := make([]uint64, len(extent))
	for i, e := range extent {
		if chunkOrNil == nil || chunkOrNil[i] > e {
			nb[i] = e
		} else {
			nb[i] = chunkOrNil[i]
		}
		if nb[i] == 0 {
			nb[i] = 1 // empty axis still yields a well-formed (empty) tiling
		}
	}
	return nb
}

// blockOdometer walks the natural-block tiling of an extent in row-major
// order, last axis fastest, like an odometer with carry. The zero tiling
// (any zero-size axis) yields no blocks.
type blockOdometer struct {
	extent []uint64
	nb     []uint64 // natural block shape
	index  []uint64 // current block index per axis
	done   bool
}

func newBlockOdometer(extent, nb []uint64) *blockOdometer {
	o := &blockOdometer{
		extent: extent,
		nb:     nb,
		index:  make([]uint64, len(extent)),
	}
	for _, e := range extent {
		if e == 0 {
			o.done = true
		}
	}
	return o
}

// next returns the offset and shape of the current block and advances.
// The final block along each axis is the remainder extent mod nb, or a full
// nb when the remainder is zero. ok is false once the tiling is exhausted.
func (o *blockOdometer) next() (offset, shape []uint64, linearIndex uint64, ok bool) {
	if o.done {
		return nil, nil, 0, false
	}
	rank := len(o.extent)
	offset = make([]uint64, rank)
	shape = make([]uint64, rank)
	for i := range o.extent {
		offset[i] = o.index[i] * o.nb[i]
		shape[i] = o.nb[i]
		if offset[i]+shape[i] > o.extent[i] {
			shape[i] = o.extent[i] - offset[i]
		}
	}
	linearIndex = o.linear()
	// Advance: increment the last axis; on overflow reset and carry.
	for axis := rank - 1; ; axis-- {
		if axis < 0 {
			o.done = true
			break
		}
		o.index[axis]++
		if o.index[axis]*o.nb[axis] < o.extent[axis] {
			break
		}
		o.index[axis] = 0
	}
	return offset, shape, linearIndex, true
}

// linear flattens the current block index row-major.
func (o *blockOdometer) linear() uint64 {
	idx := uint64(0)
	for i := range o.index {
		blocksOnAxis := (o.extent[i] + o.nb[i] - 1) / o.nb[i]
		idx = idx*blocksOnAxis + o.index[i]
	}
	return idx
}

// BoundIndex fixes one axis of a full-rank dataset at a coordinate so a
// caller can address a lower-rank slice (e.g. one 2-D page of a 3-D array)
// without constructing the full-rank selection by hand.
type BoundIndex struct {
	Axis  int
	Index uint64
}

// sliceWithBoundIndices merges caller-supplied free-axis geometry with bound
// axes forced to block size 1 at their fixed coordinate. freeOffset and
// freeBlock describe only the free axes, in axis order.
func sliceWithBoundIndices(rank int, bound []BoundIndex, freeOffset, freeBlock []uint64) (offset, block []uint64, err error) {
	if len(freeOffset) != len(freeBlock) {
		return nil, nil, errorf(h5err.InvalidArgument,
			"free offset rank %d does not match free block rank %d", len(freeOffset), len(freeBlock))
	}
	if len(bound)+len(freeBlock) != rank {
		return nil, nil, errorf(h5err.ShapeMismatch,
			"%d bound axes + %d free axes does not cover dataset rank %d",
			len(bound), len(freeBlock), rank)
	}
	isBound := make([]bool, rank)
	offset = make([]uint64, rank)
	block = make([]uint64, rank)
	for _, bi := range bound {
		if bi.Axis < 0 || bi.Axis >= rank {
			return nil, nil, errorf(h5err.InvalidArgument, "bound axis %d out of range for rank %d", bi.Axis, rank)
		}
		if isBound[bi.Axis] {
			return nil, nil, errorf(h5err.InvalidArgument, "axis %d bound twice", bi.Axis)
		}
		isBound[bi.Axis] = true
		offset[bi.Axis] = bi.Index
		block[bi.Axis] = 1
	}
	free := 0
	for axis := 0; axis < rank; axis++ {
		if isBound[axis] {
			continue
		}
		offset[axis] = freeOffset[free]
		block[axis] = freeBlock[free]
		free++
	}
	return offset, block, nil
}

// dimsOf converts int dimensions to the uint64 shape the native layer
// expects, rejecting negatives.
func dimsOf(sizes ...int) ([]uint64, error) {
	dims := make([]uint64, len(sizes))
	for i, s := range sizes {
		if s < 0 {
			return nil, errorf(h5err.InvalidArgument, "negative dimension %d on axis %d", s, i)
		}
		dims[i] = uint64(s)
	}
	return dims, nil
}
