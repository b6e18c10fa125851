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
	"iter"
	"unsafe"

	"github.com/outrigdev/goid"

	"github.com/h5typed/hdf5/h5err"
	"github.com/h5typed/hdf5/internal/h5"
)

// NumericValue is the set of element types the Numeric accessor family
// covers. One generic implementation serves all ten kinds.
type NumericValue interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Numeric reads and writes scalars, 1-D arrays, matrices and rank-N arrays
// of one numeric element type. Obtain instances from the File facade
// (File.Int32, File.Float64 and so on); the zero value is not usable.
type Numeric[T NumericValue] struct {
	base    *base
	storage int // little-endian on-disk datatype selector
	memory  int // host in-memory datatype selector
}

func (a *Numeric[T]) storageType() h5.ID { return h5.Predefined(a.storage) }
func (a *Numeric[T]) memoryType() h5.ID  { return h5.Predefined(a.memory) }

// checkReadableClass rejects datasets whose datatype class cannot convert to
// a numeric element. Enum and bitfield datasets read fine as their base
// integers. Array-typed elements are rejected outright rather than silently
// flattened.
func (a *Numeric[T]) checkReadableClass(reg *registry, dataset h5.ID, path string) error {
	datatype, err := h5.DatasetType(dataset)
	if err != nil {
		return libError(err)
	}
	reg.datatype(datatype)
	class, err := h5.TypeClass(datatype)
	if err != nil {
		return libError(err)
	}
	switch class {
	case h5.ClassInteger, h5.ClassFloat, h5.ClassBitfield, h5.ClassEnum:
		return nil
	}
	return errorf(h5err.WrongType, "dataset at %q does not hold numeric elements", path)
}

// readInto reads the selection described by params into a fresh slice.
func (a *Numeric[T]) readInto(dataset h5.ID, params spaceParams) ([]T, error) {
	data := make([]T, params.count)
	if params.count == 0 {
		return data, nil
	}
	err := h5.ReadDataset(dataset, a.memoryType(), params.memSpace, params.fileSpace,
		unsafe.Pointer(&data[0]))
	if err != nil {
		return nil, libError(err)
	}
	return data, nil
}

func (a *Numeric[T]) writeFrom(dataset h5.ID, params spaceParams, data []T) error {
	if params.count != uint64(len(data)) {
		return errorf(h5err.ShapeMismatch,
			"selection covers %d elements but %d were supplied", params.count, len(data))
	}
	if params.count == 0 {
		return nil
	}
	err := h5.WriteDataset(dataset, a.memoryType(), params.memSpace, params.fileSpace,
		unsafe.Pointer(&data[0]))
	if err != nil {
		return libError(err)
	}
	return nil
}

// ---- Scalar

// Read reads a scalar (or single-element) dataset at path.
func (a *Numeric[T]) Read(path string) (T, error) {
	return runOpValue(a.base, func(reg *registry) (T, error) {
		var zero T
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return zero, err
		}
		if err := a.checkReadableClass(reg, dataset, path); err != nil {
			return zero, err
		}
		params, err := a.base.fullSpaceParams(reg, dataset)
		if err != nil {
			return zero, err
		}
		if params.count != 1 {
			return zero, errorf(h5err.ShapeMismatch,
				"dataset at %q holds %d elements, scalar read requires exactly one", path, params.count)
		}
		data, err := a.readInto(dataset, params)
		if err != nil {
			return zero, err
		}
		return data[0], nil
	})
}

// Write writes a scalar dataset at path, creating it when absent.
func (a *Numeric[T]) Write(path string, value T) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		dataset, err := a.base.getOrCreateDataSet(reg, path, a.storageType(), nil, Features{})
		if err != nil {
			return err
		}
		err = h5.WriteDataset(dataset, a.memoryType(), h5.AllSpace, h5.AllSpace,
			unsafe.Pointer(&value))
		if err != nil {
			return libError(err)
		}
		return nil
	})
}

// ---- 1-D arrays

// ReadArray reads the full extent of a rank-1 dataset.
func (a *Numeric[T]) ReadArray(path string) ([]T, error) {
	return runOpValue(a.base, func(reg *registry) ([]T, error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return nil, err
		}
		if err := a.checkReadableClass(reg, dataset, path); err != nil {
			return nil, err
		}
		params, err := a.base.fullSpaceParams(reg, dataset)
		if err != nil {
			return nil, err
		}
		if err := requireRank(params.dims, 1, path); err != nil {
			return nil, err
		}
		return a.readInto(dataset, params)
	})
}

// ReadArrayBlock reads block number blockIndex of size blockSize from a
// rank-1 dataset. Block numbering starts at zero.
func (a *Numeric[T]) ReadArrayBlock(path string, blockSize, blockIndex uint64) ([]T, error) {
	return a.ReadArrayBlockWithOffset(path, blockSize, blockIndex*blockSize)
}

// ReadArrayBlockWithOffset reads blockSize elements starting at offset from
// a rank-1 dataset.
func (a *Numeric[T]) ReadArrayBlockWithOffset(path string, blockSize, offset uint64) ([]T, error) {
	return runOpValue(a.base, func(reg *registry) ([]T, error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return nil, err
		}
		if err := a.checkReadableClass(reg, dataset, path); err != nil {
			return nil, err
		}
		params, err := a.base.blockSpaceParams(reg, dataset, []uint64{offset}, []uint64{blockSize})
		if err != nil {
			return nil, err
		}
		if err := requireRank(params.dims, 1, path); err != nil {
			return nil, err
		}
		return a.readInto(dataset, params)
	})
}

// CreateArray creates an empty rank-1 dataset of the given length. Pass
// Features to pick chunking, compression or an extendable extent.
func (a *Numeric[T]) CreateArray(path string, length uint64, features ...Features) error {
	return a.create(path, []uint64{length}, features)
}

// WriteArray writes data as the full extent of a rank-1 dataset, creating
// or growing the dataset as needed.
func (a *Numeric[T]) WriteArray(path string, data []T, features ...Features) error {
	return a.write(path, []uint64{uint64(len(data))}, features, unsafe.Pointer(sliceBase(data)), uint64(len(data)))
}

// WriteArrayBlock writes data as block number blockIndex of an existing
// rank-1 dataset. The block size is len(data).
func (a *Numeric[T]) WriteArrayBlock(path string, data []T, blockIndex uint64) error {
	return a.WriteArrayBlockWithOffset(path, data, blockIndex*uint64(len(data)))
}

// WriteArrayBlockWithOffset writes data into an existing rank-1 dataset
// starting at offset, growing an extendable dataset when the block reaches
// past the current extent.
func (a *Numeric[T]) WriteArrayBlockWithOffset(path string, data []T, offset uint64) error {
	return a.writeBlock(path, []uint64{offset}, []uint64{uint64(len(data))},
		unsafe.Pointer(sliceBase(data)), uint64(len(data)))
}

// ---- Matrices (rank 2)

// ReadMatrix reads the full extent of a rank-2 dataset row by row.
func (a *Numeric[T]) ReadMatrix(path string) ([][]T, error) {
	md, err := a.readMD(path, 2)
	if err != nil {
		return nil, err
	}
	return unflattenMatrix(md.Dims(), md.Data()), nil
}

// ReadMatrixBlock reads one block of shape blockDims at block coordinates
// blockIndex from a rank-2 dataset.
func (a *Numeric[T]) ReadMatrixBlock(path string, blockDims, blockIndex []uint64) ([][]T, error) {
	offset, err := blockOffset(blockDims, blockIndex)
	if err != nil {
		return nil, err
	}
	return a.ReadMatrixBlockWithOffset(path, blockDims, offset)
}

// ReadMatrixBlockWithOffset reads a block of shape blockDims starting at
// offset from a rank-2 dataset.
func (a *Numeric[T]) ReadMatrixBlockWithOffset(path string, blockDims, offset []uint64) ([][]T, error) {
	md, err := a.readMDBlock(path, 2, blockDims, offset)
	if err != nil {
		return nil, err
	}
	return unflattenMatrix(md.Dims(), md.Data()), nil
}

// WriteMatrix writes a rectangular matrix as the full extent of a rank-2
// dataset, creating or growing it as needed.
func (a *Numeric[T]) WriteMatrix(path string, m [][]T, features ...Features) error {
	dims, flat, err := flattenMatrix(m)
	if err != nil {
		return err
	}
	return a.write(path, dims, features, unsafe.Pointer(sliceBase(flat)), uint64(len(flat)))
}

// WriteMatrixBlock writes m as the block at block coordinates blockIndex of
// an existing rank-2 dataset.
func (a *Numeric[T]) WriteMatrixBlock(path string, m [][]T, blockIndex []uint64) error {
	dims, flat, err := flattenMatrix(m)
	if err != nil {
		return err
	}
	offset, err := blockOffset(dims, blockIndex)
	if err != nil {
		return err
	}
	return a.writeBlock(path, offset, dims, unsafe.Pointer(sliceBase(flat)), uint64(len(flat)))
}

// WriteMatrixBlockWithOffset writes m into an existing rank-2 dataset
// starting at offset.
func (a *Numeric[T]) WriteMatrixBlockWithOffset(path string, m [][]T, offset []uint64) error {
	dims, flat, err := flattenMatrix(m)
	if err != nil {
		return err
	}
	return a.writeBlock(path, offset, dims, unsafe.Pointer(sliceBase(flat)), uint64(len(flat)))
}

// ---- Rank-N arrays

// ReadMDArray reads the full extent of a dataset of any rank.
func (a *Numeric[T]) ReadMDArray(path string) (*MDArray[T], error) {
	return a.readMD(path, -1)
}

// ReadMDArrayBlock reads one block of shape blockDims at block coordinates
// blockIndex.
func (a *Numeric[T]) ReadMDArrayBlock(path string, blockDims, blockIndex []uint64) (*MDArray[T], error) {
	offset, err := blockOffset(blockDims, blockIndex)
	if err != nil {
		return nil, err
	}
	return a.readMDBlock(path, -1, blockDims, offset)
}

// ReadMDArrayBlockWithOffset reads a block of shape blockDims starting at
// offset.
func (a *Numeric[T]) ReadMDArrayBlockWithOffset(path string, blockDims, offset []uint64) (*MDArray[T], error) {
	return a.readMDBlock(path, -1, blockDims, offset)
}

// ReadSlicedMDArrayBlockWithOffset reads a lower-rank block out of a
// higher-rank dataset by pinning the bound axes to fixed indices. The free
// axes are addressed by freeOffset and shaped by freeBlock, in axis order.
func (a *Numeric[T]) ReadSlicedMDArrayBlockWithOffset(path string, bound []BoundIndex, freeBlock, freeOffset []uint64) (*MDArray[T], error) {
	return runOpValue(a.base, func(reg *registry) (*MDArray[T], error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return nil, err
		}
		if err := a.checkReadableClass(reg, dataset, path); err != nil {
			return nil, err
		}
		space, err := h5.DatasetSpace(dataset)
		if err != nil {
			return nil, libError(err)
		}
		reg.space(space)
		dims, _, err := h5.SpaceDims(space)
		if err != nil {
			return nil, libError(err)
		}
		offset, block, err := sliceWithBoundIndices(len(dims), bound, freeOffset, freeBlock)
		if err != nil {
			return nil, err
		}
		params, err := a.base.blockSpaceParams(reg, dataset, offset, block)
		if err != nil {
			return nil, err
		}
		data, err := a.readInto(dataset, params)
		if err != nil {
			return nil, err
		}
		return MDArrayOf(freeBlock, data)
	})
}

// CreateMDArray creates an empty dataset with the given extent.
func (a *Numeric[T]) CreateMDArray(path string, dims []uint64, features ...Features) error {
	return a.create(path, dims, features)
}

// WriteMDArray writes data as the full extent of a dataset of data's rank,
// creating or growing it as needed.
func (a *Numeric[T]) WriteMDArray(path string, data *MDArray[T], features ...Features) error {
	return a.write(path, data.Dims(), features, unsafe.Pointer(sliceBase(data.Data())), uint64(data.Len()))
}

// WriteMDArrayBlock writes data as the block at block coordinates blockIndex
// of an existing dataset.
func (a *Numeric[T]) WriteMDArrayBlock(path string, data *MDArray[T], blockIndex []uint64) error {
	offset, err := blockOffset(data.Dims(), blockIndex)
	if err != nil {
		return err
	}
	return a.writeBlock(path, offset, data.Dims(), unsafe.Pointer(sliceBase(data.Data())), uint64(data.Len()))
}

// WriteMDArrayBlockWithOffset writes data into an existing dataset starting
// at offset.
func (a *Numeric[T]) WriteMDArrayBlockWithOffset(path string, data *MDArray[T], offset []uint64) error {
	return a.writeBlock(path, offset, data.Dims(), unsafe.Pointer(sliceBase(data.Data())), uint64(data.Len()))
}

// ---- Natural block iteration

// ArrayBlock is one block yielded by NaturalBlocks over a rank-1 dataset.
type ArrayBlock[T any] struct {
	Data   []T
	Index  uint64 // block number, starting at zero
	Offset uint64 // element offset of the block's first element
}

// MDBlock is one block yielded by NaturalBlocksMD.
type MDBlock[T any] struct {
	Data        *MDArray[T]
	Index       []uint64 // per-axis block coordinates
	Offset      []uint64 // per-axis element offset
	LinearIndex uint64   // row-major rank of the block
}

// NaturalBlocks iterates a rank-1 dataset block by block in its natural
// block size: the chunk size for chunked datasets, the full extent
// otherwise. The last block may be shorter. The sequence is restartable;
// each range call re-reads the extent. It must be consumed on the goroutine
// that obtained it; ranging from any other goroutine yields a single
// IteratorGoroutine error.
func (a *Numeric[T]) NaturalBlocks(path string) iter.Seq2[ArrayBlock[T], error] {
	owner := goid.Get()
	return func(yield func(ArrayBlock[T], error) bool) {
		if goid.Get() != owner {
			yield(ArrayBlock[T]{}, newError(h5err.IteratorGoroutine,
				"natural block iteration consumed from a different goroutine than it was obtained on"))
			return
		}
		extent, chunk, err := a.blockGeometry(path, 1)
		if err != nil {
			yield(ArrayBlock[T]{}, err)
			return
		}
		nb := naturalBlockSize(extent, chunk)
		odo := newBlockOdometer(extent, nb)
		for {
			offset, shape, linearIndex, ok := odo.next()
			if !ok {
				return
			}
			data, err := a.ReadArrayBlockWithOffset(path, shape[0], offset[0])
			if !yield(ArrayBlock[T]{Data: data, Index: linearIndex, Offset: offset[0]}, err) {
				return
			}
			if err != nil {
				return
			}
		}
	}
}

// NaturalBlocksMD is NaturalBlocks for datasets of any rank. Blocks are
// yielded in row-major order of their block coordinates.
func (a *Numeric[T]) NaturalBlocksMD(path string) iter.Seq2[MDBlock[T], error] {
	owner := goid.Get()
	return func(yield func(MDBlock[T], error) bool) {
		if goid.Get() != owner {
			yield(MDBlock[T]{}, newError(h5err.IteratorGoroutine,
				"natural block iteration consumed from a different goroutine than it was obtained on"))
			return
		}
		extent, chunk, err := a.blockGeometry(path, -1)
		if err != nil {
			yield(MDBlock[T]{}, err)
			return
		}
		nb := naturalBlockSize(extent, chunk)
		odo := newBlockOdometer(extent, nb)
		for {
			offset, shape, linearIndex, ok := odo.next()
			if !ok {
				return
			}
			index := make([]uint64, len(offset))
			for i := range offset {
				index[i] = offset[i] / nb[i]
			}
			data, err := a.readMDBlock(path, -1, shape, offset)
			block := MDBlock[T]{Data: data, Index: index, Offset: offset, LinearIndex: linearIndex}
			if !yield(block, err) {
				return
			}
			if err != nil {
				return
			}
		}
	}
}

// blockGeometry reads the current extent and chunk shape of a dataset.
// wantRank of -1 accepts any rank.
func (a *Numeric[T]) blockGeometry(path string, wantRank int) (extent, chunk []uint64, err error) {
	type geom struct{ extent, chunk []uint64 }
	g, err := runOpValue(a.base, func(reg *registry) (geom, error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return geom{}, err
		}
		if err := a.checkReadableClass(reg, dataset, path); err != nil {
			return geom{}, err
		}
		params, err := a.base.fullSpaceParams(reg, dataset)
		if err != nil {
			return geom{}, err
		}
		if wantRank >= 0 {
			if err := requireRank(params.dims, wantRank, path); err != nil {
				return geom{}, err
			}
		}
		chunk, err := a.base.chunkShapeOf(reg, dataset, len(params.dims))
		if err != nil {
			return geom{}, err
		}
		return geom{extent: params.dims, chunk: chunk}, nil
	})
	return g.extent, g.chunk, err
}

// ---- Attributes

// Attr reads a scalar numeric attribute of the object at objPath.
func (a *Numeric[T]) Attr(objPath, name string) (T, error) {
	return runOpValue(a.base, func(reg *registry) (T, error) {
		var zero T
		attr, dims, err := a.base.openAttribute(reg, objPath, name)
		if err != nil {
			return zero, err
		}
		if elementCount(dims) != 1 {
			return zero, errorf(h5err.ShapeMismatch,
				"attribute %q of %q is not scalar", name, objPath)
		}
		var value T
		if err := h5.ReadAttribute(attr, a.memoryType(), unsafe.Pointer(&value)); err != nil {
			return zero, libError(err)
		}
		return value, nil
	})
}

// SetAttr writes a scalar numeric attribute on the object at objPath,
// replacing any existing attribute of that name.
func (a *Numeric[T]) SetAttr(objPath, name string, value T) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		return a.base.setAttribute(reg, objPath, name,
			a.storageType(), a.memoryType(), nil, unsafe.Pointer(&value))
	})
}

// ArrayAttr reads a rank-1 numeric attribute.
func (a *Numeric[T]) ArrayAttr(objPath, name string) ([]T, error) {
	md, err := a.mdAttr(objPath, name, 1)
	if err != nil {
		return nil, err
	}
	return md.Data(), nil
}

// SetArrayAttr writes a rank-1 numeric attribute, replacing any existing
// attribute of that name.
func (a *Numeric[T]) SetArrayAttr(objPath, name string, data []T) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		return a.base.setAttribute(reg, objPath, name,
			a.storageType(), a.memoryType(), []uint64{uint64(len(data))},
			unsafe.Pointer(sliceBase(data)))
	})
}

// MDArrayAttr reads a numeric attribute of any rank.
func (a *Numeric[T]) MDArrayAttr(objPath, name string) (*MDArray[T], error) {
	return a.mdAttr(objPath, name, -1)
}

// SetMDArrayAttr writes a numeric attribute of data's rank, replacing any
// existing attribute of that name.
func (a *Numeric[T]) SetMDArrayAttr(objPath, name string, data *MDArray[T]) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		return a.base.setAttribute(reg, objPath, name,
			a.storageType(), a.memoryType(), data.Dims(),
			unsafe.Pointer(sliceBase(data.Data())))
	})
}

func (a *Numeric[T]) mdAttr(objPath, name string, wantRank int) (*MDArray[T], error) {
	return runOpValue(a.base, func(reg *registry) (*MDArray[T], error) {
		attr, dims, err := a.base.openAttribute(reg, objPath, name)
		if err != nil {
			return nil, err
		}
		if wantRank >= 0 && len(dims) != wantRank {
			return nil, errorf(h5err.ShapeMismatch,
				"attribute %q of %q has rank %d, expected %d", name, objPath, len(dims), wantRank)
		}
		data := make([]T, elementCount(dims))
		if len(data) > 0 {
			if err := h5.ReadAttribute(attr, a.memoryType(), unsafe.Pointer(&data[0])); err != nil {
				return nil, libError(err)
			}
		}
		return MDArrayOf(dims, data)
	})
}

// ---- Shared numeric plumbing

func (a *Numeric[T]) readMD(path string, wantRank int) (*MDArray[T], error) {
	return runOpValue(a.base, func(reg *registry) (*MDArray[T], error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return nil, err
		}
		if err := a.checkReadableClass(reg, dataset, path); err != nil {
			return nil, err
		}
		params, err := a.base.fullSpaceParams(reg, dataset)
		if err != nil {
			return nil, err
		}
		if wantRank >= 0 {
			if err := requireRank(params.dims, wantRank, path); err != nil {
				return nil, err
			}
		}
		data, err := a.readInto(dataset, params)
		if err != nil {
			return nil, err
		}
		return MDArrayOf(params.dims, data)
	})
}

func (a *Numeric[T]) readMDBlock(path string, wantRank int, block, offset []uint64) (*MDArray[T], error) {
	return runOpValue(a.base, func(reg *registry) (*MDArray[T], error) {
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return nil, err
		}
		if err := a.checkReadableClass(reg, dataset, path); err != nil {
			return nil, err
		}
		params, err := a.base.blockSpaceParams(reg, dataset, offset, block)
		if err != nil {
			return nil, err
		}
		if wantRank >= 0 {
			if err := requireRank(params.dims, wantRank, path); err != nil {
				return nil, err
			}
		}
		data, err := a.readInto(dataset, params)
		if err != nil {
			return nil, err
		}
		return MDArrayOf(block, data)
	})
}

func (a *Numeric[T]) create(path string, dims []uint64, features []Features) error {
	f := chooseFeatures(features)
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		ok, err := a.base.exists(path)
		if err != nil {
			return err
		}
		if ok {
			return errorf(h5err.InvalidArgument, "an object already exists at path %q", path)
		}
		_, err = a.base.createDataSet(reg, path, a.storageType(), dims, f)
		return err
	})
}

// write performs a full-extent write, creating or growing the dataset.
func (a *Numeric[T]) write(path string, dims []uint64, features []Features, buf unsafe.Pointer, count uint64) error {
	f := chooseFeatures(features)
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		dataset, err := a.base.getOrCreateDataSet(reg, path, a.storageType(), dims, f)
		if err != nil {
			return err
		}
		params, err := a.base.blockSpaceParams(reg, dataset, make([]uint64, len(dims)), dims)
		if err != nil {
			return err
		}
		if params.count != count {
			return errorf(h5err.ShapeMismatch,
				"selection covers %d elements but %d were supplied", params.count, count)
		}
		if count == 0 {
			return nil
		}
		err = h5.WriteDataset(dataset, a.memoryType(), params.memSpace, params.fileSpace, buf)
		if err != nil {
			return libError(err)
		}
		return nil
	})
}

// writeBlock writes into an existing dataset at offset, growing an
// extendable dataset when the block reaches past the current extent.
func (a *Numeric[T]) writeBlock(path string, offset, block []uint64, buf unsafe.Pointer, count uint64) error {
	return a.base.runOp(func(reg *registry) error {
		if err := a.base.checkWritable(); err != nil {
			return err
		}
		dataset, err := a.base.openDataSet(reg, path)
		if err != nil {
			return err
		}
		if err := a.base.checkTypeClass(reg, dataset, a.storageType(), path); err != nil {
			return err
		}
		wanted := make([]uint64, len(offset))
		for i := range offset {
			wanted[i] = offset[i] + block[i]
		}
		if err := a.base.extendTo(reg, dataset, wanted, path); err != nil {
			return err
		}
		params, err := a.base.blockSpaceParams(reg, dataset, offset, block)
		if err != nil {
			return err
		}
		if params.count != count {
			return errorf(h5err.ShapeMismatch,
				"selection covers %d elements but %d were supplied", params.count, count)
		}
		if count == 0 {
			return nil
		}
		err = h5.WriteDataset(dataset, a.memoryType(), params.memSpace, params.fileSpace, buf)
		if err != nil {
			return libError(err)
		}
		return nil
	})
}

// chooseFeatures picks the optional trailing Features argument.
func chooseFeatures(features []Features) Features {
	if len(features) > 0 {
		return features[0]
	}
	return Features{}
}

// blockOffset converts per-axis block coordinates to an element offset.
func blockOffset(blockDims, blockIndex []uint64) ([]uint64, error) {
	if len(blockIndex) != len(blockDims) {
		return nil, errorf(h5err.ShapeMismatch,
			"block coordinates have rank %d, block shape has rank %d", len(blockIndex), len(blockDims))
	}
	offset := make([]uint64, len(blockDims))
	for i := range blockDims {
		offset[i] = blockIndex[i] * blockDims[i]
	}
	return offset, nil
}

// sliceBase returns the address of the first element, or nil for an empty
// slice, for handing Go-managed buffers to native read and write calls.
func sliceBase[T any](s []T) *T {
	if len(s) == 0 {
		return nil
	}
	return &s[0]
}
