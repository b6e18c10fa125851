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

func TestNumericScalarRoundTrip(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Int8().Write("i8", -100))
	assert.Nil(t, f.Int16().Write("i16", -30000))
	assert.Nil(t, f.Int32().Write("i32", -2000000000))
	assert.Nil(t, f.Int64().Write("i64", -9000000000000000000))
	assert.Nil(t, f.Uint8().Write("u8", 200))
	assert.Nil(t, f.Uint16().Write("u16", 60000))
	assert.Nil(t, f.Uint32().Write("u32", 4000000000))
	assert.Nil(t, f.Uint64().Write("u64", 18000000000000000000))
	assert.Nil(t, f.Float32().Write("f32", 1.5))
	assert.Nil(t, f.Float64().Write("f64", -2.25e100))

	f = reopen(t, f)
	assert.Equal(t, multi(int8(-100), nil), multi(f.Int8().Read("i8")))
	assert.Equal(t, multi(int16(-30000), nil), multi(f.Int16().Read("i16")))
	assert.Equal(t, multi(int32(-2000000000), nil), multi(f.Int32().Read("i32")))
	assert.Equal(t, multi(int64(-9000000000000000000), nil), multi(f.Int64().Read("i64")))
	assert.Equal(t, multi(uint8(200), nil), multi(f.Uint8().Read("u8")))
	assert.Equal(t, multi(uint16(60000), nil), multi(f.Uint16().Read("u16")))
	assert.Equal(t, multi(uint32(4000000000), nil), multi(f.Uint32().Read("u32")))
	assert.Equal(t, multi(uint64(18000000000000000000), nil), multi(f.Uint64().Read("u64")))
	assert.Equal(t, multi(float32(1.5), nil), multi(f.Float32().Read("f32")))
	assert.Equal(t, multi(-2.25e100, nil), multi(f.Float64().Read("f64")))
}

func TestNumericScalarOverwrite(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Int32().Write("x", 1))
	assert.Nil(t, f.Int32().Write("x", 2))
	assert.Equal(t, multi(int32(2), nil), multi(f.Int32().Read("x")))
}

func TestNumericReadMissing(t *testing.T) {
	f := SetupTest(t)
	_, err := f.Int32().Read("nowhere")
	assert.Equal(t, h5err.NotFound, ErrorCode(err))
	_, err = f.Int32().ReadArray("deep/nowhere")
	assert.Equal(t, h5err.NotFound, ErrorCode(err))
}

func TestNumericReadWrongClass(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.String().Write("s", "text"))
	_, err := f.Float64().Read("s")
	assert.Equal(t, h5err.WrongType, ErrorCode(err))
}

func TestNumericArrayRoundTrip(t *testing.T) {
	f := SetupTest(t)
	data := seq[float64](1000)
	assert.Nil(t, f.Float64().WriteArray("arr", data))

	f = reopen(t, f)
	got, err := f.Float64().ReadArray("arr")
	assert.Nil(t, err)
	assert.Equal(t, data, got)
}

func TestNumericArrayInDeepGroup(t *testing.T) {
	f := SetupTest(t)
	// Intermediate groups are created on demand.
	assert.Nil(t, f.Int32().WriteArray("/a/b/c/arr", seq[int32](10)))
	assert.Equal(t, multi(true, nil), multi(f.IsGroup("/a/b")))
	got, err := f.Int32().ReadArray("/a/b/c/arr")
	assert.Nil(t, err)
	assert.Equal(t, seq[int32](10), got)
}

func TestNumericArrayBlocks(t *testing.T) {
	f := SetupTest(t)
	data := seq[int32](100)
	assert.Nil(t, f.Int32().WriteArray("arr", data, Features{Chunks: []uint64{10}}))

	got, err := f.Int32().ReadArrayBlock("arr", 10, 3)
	assert.Nil(t, err)
	assert.Equal(t, data[30:40], got)

	got, err = f.Int32().ReadArrayBlockWithOffset("arr", 7, 55)
	assert.Nil(t, err)
	assert.Equal(t, data[55:62], got)

	_, err = f.Int32().ReadArrayBlockWithOffset("arr", 10, 95)
	assert.Equal(t, h5err.OutOfBounds, ErrorCode(err))
}

func TestNumericWriteArrayBlock(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Int16().CreateArray("arr", 20))
	assert.Nil(t, f.Int16().WriteArrayBlock("arr", []int16{1, 2, 3, 4, 5}, 1))
	assert.Nil(t, f.Int16().WriteArrayBlockWithOffset("arr", []int16{9, 9}, 18))

	got, err := f.Int16().ReadArray("arr")
	assert.Nil(t, err)
	assert.Equal(t, []int16{1, 2, 3, 4, 5}, got[5:10])
	assert.Equal(t, []int16{9, 9}, got[18:20])
	assert.Equal(t, int16(0), got[0])

	// A fixed-extent dataset cannot grow.
	err = f.Int16().WriteArrayBlockWithOffset("arr", []int16{1, 2, 3}, 19)
	assert.Equal(t, h5err.ShapeMismatch, ErrorCode(err))
}

func TestNumericExtendableArrayGrows(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Int64().WriteArray("arr", seq[int64](8), Features{Extendable: true, Chunks: []uint64{4}}))
	assert.Nil(t, f.Int64().WriteArrayBlockWithOffset("arr", []int64{-1, -2, -3}, 10))

	got, err := f.Int64().ReadArray("arr")
	assert.Nil(t, err)
	assert.Equal(t, 13, len(got))
	assert.Equal(t, seq[int64](8), got[:8])
	assert.Equal(t, []int64{0, 0, -1, -2, -3}, got[8:])

	info, err := f.DataSetInfo("arr")
	assert.Nil(t, err)
	assert.Equal(t, []uint64{13}, info.Dims)
	assert.Equal(t, []uint64{Unlimited}, info.MaxDims)
}

func TestNumericDeflate(t *testing.T) {
	f := SetupTest(t)
	data := make([]float32, 10000) // all zeroes compress well
	assert.Nil(t, f.Float32().WriteArray("z", data, Features{Deflate: 6}))

	f = reopen(t, f)
	got, err := f.Float32().ReadArray("z")
	assert.Nil(t, err)
	assert.Equal(t, data, got)

	info, err := f.DataSetInfo("z")
	assert.Nil(t, err)
	assert.Equal(t, "chunked", info.Layout)
}

func TestNumericCompact(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Uint8().WriteArray("c", seq[uint8](16), Features{Compact: true}))
	got, err := f.Uint8().ReadArray("c")
	assert.Nil(t, err)
	assert.Equal(t, seq[uint8](16), got)

	// Compact excludes chunked layouts.
	err = f.Uint8().WriteArray("c2", seq[uint8](16), Features{Compact: true, Extendable: true})
	assert.Equal(t, h5err.InvalidArgument, ErrorCode(err))
}

func TestNumericMatrixRoundTrip(t *testing.T) {
	f := SetupTest(t)
	m := [][]float64{{1, 2, 3}, {4, 5, 6}}
	assert.Nil(t, f.Float64().WriteMatrix("m", m))

	f = reopen(t, f)
	got, err := f.Float64().ReadMatrix("m")
	assert.Nil(t, err)
	assert.Equal(t, m, got)
}

func TestNumericMatrixRaggedRejected(t *testing.T) {
	f := SetupTest(t)
	err := f.Float64().WriteMatrix("m", [][]float64{{1, 2}, {3}})
	assert.Equal(t, h5err.Encoding, ErrorCode(err))
}

func TestNumericMatrixBlocks(t *testing.T) {
	f := SetupTest(t)
	m := make([][]int32, 6)
	for r := range m {
		m[r] = make([]int32, 8)
		for c := range m[r] {
			m[r][c] = int32(r*8 + c)
		}
	}
	assert.Nil(t, f.Int32().WriteMatrix("m", m, Features{Chunks: []uint64{3, 4}}))

	got, err := f.Int32().ReadMatrixBlock("m", []uint64{3, 4}, []uint64{1, 1})
	assert.Nil(t, err)
	assert.Equal(t, [][]int32{{28, 29, 30, 31}, {36, 37, 38, 39}, {44, 45, 46, 47}}, got)

	got, err = f.Int32().ReadMatrixBlockWithOffset("m", []uint64{2, 2}, []uint64{1, 3})
	assert.Nil(t, err)
	assert.Equal(t, [][]int32{{11, 12}, {19, 20}}, got)

	// Overwrite a block and read it back.
	assert.Nil(t, f.Int32().WriteMatrixBlockWithOffset("m", [][]int32{{-1, -2}}, []uint64{5, 6}))
	got, err = f.Int32().ReadMatrixBlockWithOffset("m", []uint64{1, 2}, []uint64{5, 6})
	assert.Nil(t, err)
	assert.Equal(t, [][]int32{{-1, -2}}, got)
}

func TestNumericMatrixRankMismatch(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Int32().WriteArray("arr", seq[int32](10)))
	_, err := f.Int32().ReadMatrix("arr")
	assert.Equal(t, h5err.ShapeMismatch, ErrorCode(err))

	assert.Nil(t, f.Int32().WriteMDArray("cube", NewMDArray[int32](2, 2, 2)))
	_, err = f.Int32().ReadMatrix("cube")
	assert.Equal(t, h5err.ShapeMismatch, ErrorCode(err))
}

func TestNumericMDArrayRoundTrip(t *testing.T) {
	f := SetupTest(t)
	a := NewMDArray[float64](3, 4, 5)
	for i, v := range seq[float64](a.Len()) {
		a.Data()[i] = v
	}
	assert.Nil(t, f.Float64().WriteMDArray("cube", a))

	f = reopen(t, f)
	got, err := f.Float64().ReadMDArray("cube")
	assert.Nil(t, err)
	assert.Equal(t, a.Dims(), got.Dims())
	assert.Equal(t, a.Data(), got.Data())
}

func TestNumericMDArrayBlocks(t *testing.T) {
	f := SetupTest(t)
	a := NewMDArray[int32](4, 4, 4)
	for i := range a.Data() {
		a.Data()[i] = int32(i)
	}
	assert.Nil(t, f.Int32().WriteMDArray("cube", a, Features{Chunks: []uint64{2, 2, 2}}))

	got, err := f.Int32().ReadMDArrayBlock("cube", []uint64{2, 2, 2}, []uint64{1, 0, 1})
	assert.Nil(t, err)
	assert.Equal(t, []uint64{2, 2, 2}, got.Dims())
	// Block origin is (2,0,2); flat index r*16 + c*4 + d.
	assert.Equal(t, a.At(2, 0, 2), got.At(0, 0, 0))
	assert.Equal(t, a.At(3, 1, 3), got.At(1, 1, 1))

	got, err = f.Int32().ReadMDArrayBlockWithOffset("cube", []uint64{1, 2, 1}, []uint64{3, 1, 0})
	assert.Nil(t, err)
	assert.Equal(t, a.At(3, 1, 0), got.At(0, 0, 0))
	assert.Equal(t, a.At(3, 2, 0), got.At(0, 1, 0))

	block := NewMDArray[int32](1, 1, 2)
	block.Set(-5, 0, 0, 0)
	block.Set(-6, 0, 0, 1)
	assert.Nil(t, f.Int32().WriteMDArrayBlockWithOffset("cube", block, []uint64{0, 0, 0}))
	got, err = f.Int32().ReadMDArrayBlockWithOffset("cube", []uint64{1, 1, 2}, []uint64{0, 0, 0})
	assert.Nil(t, err)
	assert.Equal(t, []int32{-5, -6}, got.Data())
}

func TestNumericSlicedMDArrayRead(t *testing.T) {
	f := SetupTest(t)
	a := NewMDArray[float32](2, 3, 4)
	for i := range a.Data() {
		a.Data()[i] = float32(i)
	}
	assert.Nil(t, f.Float32().WriteMDArray("cube", a))

	// Fix axis 0 at 1 and take the full 3x4 page behind it.
	page, err := f.Float32().ReadSlicedMDArrayBlockWithOffset("cube",
		[]BoundIndex{{Axis: 0, Index: 1}}, []uint64{3, 4}, []uint64{0, 0})
	assert.Nil(t, err)
	assert.Equal(t, []uint64{1, 3, 4}, page.Dims())
	assert.Equal(t, a.At(1, 0, 0), page.At(0, 0, 0))
	assert.Equal(t, a.At(1, 2, 3), page.At(0, 2, 3))
}

func TestNumericCreateExistingPath(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Int32().CreateArray("arr", 5))
	err := f.Int32().CreateArray("arr", 5)
	assert.Equal(t, h5err.InvalidArgument, ErrorCode(err))
	err = f.Int32().CreateMDArray("arr", []uint64{2, 2})
	assert.Equal(t, h5err.InvalidArgument, ErrorCode(err))
}

// TestNaturalBlocksChunked iterates the natural blocks of a chunked array
// whose extent is not a multiple of the chunk size, checking coverage and
// the remainder block.
func TestNaturalBlocksChunked(t *testing.T) {
	f := SetupTest(t)
	data := make([]float64, 10)
	for i := range data {
		data[i] = float64(i)
	}
	assert.Nil(t, f.Float64().WriteArray("arr", data, Features{Chunks: []uint64{4}}))

	var sizes []int
	var offsets []uint64
	var got []float64
	for block, err := range f.Float64().NaturalBlocks("arr") {
		assert.Nil(t, err)
		assert.Equal(t, block.Index*4, block.Offset)
		sizes = append(sizes, len(block.Data))
		offsets = append(offsets, block.Offset)
		got = append(got, block.Data...)
	}
	assert.Equal(t, []int{4, 4, 2}, sizes)
	assert.Equal(t, []uint64{0, 4, 8}, offsets)
	assert.Equal(t, data, got)
}

func TestNaturalBlocksContiguous(t *testing.T) {
	f := SetupTest(t)
	data := seq[float64](50)
	assert.Nil(t, f.Float64().WriteArray("arr", data))

	// An unchunked dataset yields one block spanning the whole extent.
	count := 0
	for block, err := range f.Float64().NaturalBlocks("arr") {
		assert.Nil(t, err)
		assert.Equal(t, uint64(0), block.Offset)
		assert.Equal(t, data, block.Data)
		count++
	}
	assert.Equal(t, 1, count)
}

func TestNaturalBlocksRestartable(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Int32().WriteArray("arr", seq[int32](20), Features{Chunks: []uint64{8}}))

	blocks := f.Int32().NaturalBlocks("arr")
	for range 2 {
		n := 0
		for _, err := range blocks {
			assert.Nil(t, err)
			n++
		}
		assert.Equal(t, 3, n)
	}
}

// TestNaturalBlocksWrongGoroutine ranges a sequence from a goroutine other
// than the one that obtained it and expects the single guard error instead
// of data.
func TestNaturalBlocksWrongGoroutine(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Int32().WriteArray("arr", seq[int32](12), Features{Chunks: []uint64{4}}))

	blocks := f.Int32().NaturalBlocks("arr")
	result := make(chan error, 1)
	go func() {
		for _, err := range blocks {
			result <- err
			return
		}
		result <- nil
	}()
	assert.Equal(t, h5err.IteratorGoroutine, ErrorCode(<-result))

	// The same sequence still works on the goroutine that obtained it.
	n := 0
	for _, err := range blocks {
		assert.Nil(t, err)
		n++
	}
	assert.Equal(t, 3, n)
}

func TestNaturalBlocksMDWrongGoroutine(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Int32().WriteMDArray("m", NewMDArray[int32](4, 4), Features{Chunks: []uint64{2, 2}}))

	blocks := f.Int32().NaturalBlocksMD("m")
	result := make(chan error, 1)
	go func() {
		for _, err := range blocks {
			result <- err
			return
		}
		result <- nil
	}()
	assert.Equal(t, h5err.IteratorGoroutine, ErrorCode(<-result))
}

func TestNaturalBlocksMissingDataSet(t *testing.T) {
	f := SetupTest(t)
	for _, err := range f.Int32().NaturalBlocks("nowhere") {
		assert.Equal(t, h5err.NotFound, ErrorCode(err))
	}
}

func TestNaturalBlocksMD(t *testing.T) {
	f := SetupTest(t)
	a := NewMDArray[int32](5, 6)
	for i := range a.Data() {
		a.Data()[i] = int32(i)
	}
	assert.Nil(t, f.Int32().WriteMDArray("m", a, Features{Chunks: []uint64{2, 4}}))

	seen := make([]bool, a.Len())
	var lastLinear uint64
	first := true
	for block, err := range f.Int32().NaturalBlocksMD("m") {
		assert.Nil(t, err)
		if !first {
			assert.Equal(t, lastLinear+1, block.LinearIndex)
		}
		first = false
		lastLinear = block.LinearIndex
		dims := block.Data.Dims()
		for r := uint64(0); r < dims[0]; r++ {
			for c := uint64(0); c < dims[1]; c++ {
				assert.Equal(t, a.At(block.Offset[0]+r, block.Offset[1]+c), block.Data.At(r, c))
				seen[(block.Offset[0]+r)*6+block.Offset[1]+c] = true
			}
		}
	}
	for pos, covered := range seen {
		assert.True(t, covered, "element %d never visited", pos)
	}
}

func TestNumericAttributes(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Int32().Write("obj", 0))
	assert.Nil(t, f.Float64().SetAttr("obj", "scale", 0.5))
	assert.Nil(t, f.Int32().SetArrayAttr("obj", "shape", []int32{3, 4}))

	md := NewMDArray[int16](2, 2)
	md.Set(7, 1, 1)
	assert.Nil(t, f.Int16().SetMDArrayAttr("obj", "grid", md))

	f = reopen(t, f)
	assert.Equal(t, multi(0.5, nil), multi(f.Float64().Attr("obj", "scale")))
	arr, err := f.Int32().ArrayAttr("obj", "shape")
	assert.Nil(t, err)
	assert.Equal(t, []int32{3, 4}, arr)
	got, err := f.Int16().MDArrayAttr("obj", "grid")
	assert.Nil(t, err)
	assert.Equal(t, int16(7), got.At(1, 1))

	_, err = f.Float64().Attr("obj", "missing")
	assert.Equal(t, h5err.NotFound, ErrorCode(err))
}

func TestNumericAttributeOverwrite(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Int32().Write("obj", 0))
	assert.Nil(t, f.Int64().SetAttr("obj", "v", 1))
	assert.Nil(t, f.Int64().SetAttr("obj", "v", 2))
	assert.Equal(t, multi(int64(2), nil), multi(f.Int64().Attr("obj", "v")))
}

func TestNumericAttrOnGroup(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.CreateGroup("g"))
	assert.Nil(t, f.Uint32().SetAttr("g", "count", 12))
	assert.Equal(t, multi(uint32(12), nil), multi(f.Uint32().Attr("g", "count")))
}
