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

var colorValues = []string{"RED", "GREEN", "BLUE"}

// ---- Tests

func TestEnumTypeCommitAndReopen(t *testing.T) {
	f := SetupTest(t)
	et, err := f.Enum().Type("Color", colorValues)
	assert.Nil(t, err)
	assert.Equal(t, "Color", et.Name())
	assert.Equal(t, colorValues, et.Values())

	// Ordinals are the declaration positions.
	assert.Equal(t, multi(0, nil), multi(et.Ordinal("RED")))
	assert.Equal(t, multi(2, nil), multi(et.Ordinal("BLUE")))
	_, err = et.Ordinal("MAGENTA")
	assert.Equal(t, h5err.UnknownMember, ErrorCode(err))

	f = reopen(t, f)
	got, err := f.Enum().GetType("Color")
	assert.Nil(t, err)
	assert.Equal(t, colorValues, got.Values())
}

func TestEnumTypeIdempotent(t *testing.T) {
	f := SetupTest(t)
	_, err := f.Enum().Type("Color", colorValues)
	assert.Nil(t, err)
	// Re-declaring with identical members reuses the committed type.
	_, err = f.Enum().Type("Color", colorValues)
	assert.Nil(t, err)
}

func TestEnumTypeMismatchRejected(t *testing.T) {
	f := SetupTest(t)
	_, err := f.Enum().Type("Color", colorValues)
	assert.Nil(t, err)

	_, err = f.Enum().Type("Color", []string{"RED", "GREEN"})
	assert.Equal(t, h5err.WrongType, ErrorCode(err))
	_, err = f.Enum().Type("Color", []string{"RED", "GREEN", "CYAN"})
	assert.Equal(t, h5err.WrongType, ErrorCode(err))
}

func TestEnumGetTypeMissing(t *testing.T) {
	f := SetupTest(t)
	_, err := f.Enum().GetType("Nowhere")
	assert.Equal(t, h5err.NotFound, ErrorCode(err))
}

func TestEnumScalarRoundTrip(t *testing.T) {
	f := SetupTest(t)
	et, err := f.Enum().Type("Color", colorValues)
	panicIf(err)
	assert.Nil(t, f.Enum().Write("favorite", et, "GREEN"))

	f = reopen(t, f)
	assert.Equal(t, multi("GREEN", nil), multi(f.Enum().Read("favorite")))
}

func TestEnumWriteUnknownValue(t *testing.T) {
	f := SetupTest(t)
	et, err := f.Enum().Type("Color", colorValues)
	panicIf(err)
	err = f.Enum().Write("x", et, "MAGENTA")
	assert.Equal(t, h5err.UnknownMember, ErrorCode(err))
}

func TestEnumArrayRoundTrip(t *testing.T) {
	f := SetupTest(t)
	et, err := f.Enum().Type("Color", colorValues)
	panicIf(err)
	data := []string{"BLUE", "RED", "RED", "GREEN", "BLUE"}
	assert.Nil(t, f.Enum().WriteArray("arr", et, data))

	f = reopen(t, f)
	got, err := f.Enum().ReadArray("arr")
	assert.Nil(t, err)
	assert.Equal(t, data, got)
}

// TestEnumWideOrdinals exercises the two-byte ordinal storage that kicks in
// past 128 members.
func TestEnumWideOrdinals(t *testing.T) {
	f := SetupTest(t)
	values := make([]string, 200)
	for i := range values {
		values[i] = "M" + string(rune('A'+i/26)) + string(rune('A'+i%26))
	}
	et, err := f.Enum().Type("Wide", values)
	assert.Nil(t, err)
	data := []string{values[0], values[150], values[199]}
	assert.Nil(t, f.Enum().WriteArray("arr", et, data))

	got, err := f.Enum().ReadArray("arr")
	assert.Nil(t, err)
	assert.Equal(t, data, got)
}

func TestEnumScaledArray(t *testing.T) {
	f := SetupTest(t)
	et, err := f.Enum().Type("Color", colorValues)
	panicIf(err)
	data := []string{"GREEN", "GREEN", "BLUE", "RED"}
	assert.Nil(t, f.Enum().WriteScaledArray("scaled", et, data))

	// On disk this is a plain integer dataset.
	info, err := f.DataSetInfo("scaled")
	assert.Nil(t, err)
	assert.Equal(t, "integer", info.Class)

	// The read maps ordinals back through the committed type.
	f = reopen(t, f)
	got, err := f.Enum().ReadArray("scaled")
	assert.Nil(t, err)
	assert.Equal(t, data, got)
}

func TestEnumArrayBlocks(t *testing.T) {
	f := SetupTest(t)
	et, err := f.Enum().Type("Color", colorValues)
	panicIf(err)
	data := []string{"RED", "GREEN", "BLUE", "RED", "GREEN", "BLUE"}
	assert.Nil(t, f.Enum().WriteArray("arr", et, data))

	got, err := f.Enum().ReadArrayBlockWithOffset("arr", 3, 2)
	assert.Nil(t, err)
	assert.Equal(t, []string{"BLUE", "RED", "GREEN"}, got)
}

func TestEnumReadWrongClass(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Float64().WriteArray("floats", seq[float64](3)))
	_, err := f.Enum().ReadArray("floats")
	assert.Equal(t, h5err.WrongType, ErrorCode(err))

	// A plain integer array without the scaled-enum marker is rejected too.
	assert.Nil(t, f.Int32().WriteArray("ints", seq[int32](3)))
	_, err = f.Enum().ReadArray("ints")
	assert.Equal(t, h5err.WrongType, ErrorCode(err))
}

func TestEnumAttributes(t *testing.T) {
	f := SetupTest(t)
	et, err := f.Enum().Type("Color", colorValues)
	panicIf(err)
	assert.Nil(t, f.CreateGroup("g"))
	assert.Nil(t, f.Enum().SetAttr("g", "tint", et, "BLUE"))

	f = reopen(t, f)
	assert.Equal(t, multi("BLUE", nil), multi(f.Enum().Attr("g", "tint")))
}

func TestEnumBaseWidth(t *testing.T) {
	assert.Equal(t, uint(1), enumBaseWidth(2))
	assert.Equal(t, uint(1), enumBaseWidth(128))
	assert.Equal(t, uint(2), enumBaseWidth(129))
	assert.Equal(t, uint(2), enumBaseWidth(32768))
	assert.Equal(t, uint(4), enumBaseWidth(32769))
}

func TestOrdinalPacking(t *testing.T) {
	for _, width := range []uint{1, 2, 4} {
		buf := make([]byte, width)
		putOrdinal(buf, width, 97)
		assert.Equal(t, 97, getOrdinal(buf, width))
	}
}
