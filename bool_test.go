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

func TestBoolScalarRoundTrip(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Bool().Write("yes", true))
	assert.Nil(t, f.Bool().Write("no", false))

	f = reopen(t, f)
	assert.Equal(t, multi(true, nil), multi(f.Bool().Read("yes")))
	assert.Equal(t, multi(false, nil), multi(f.Bool().Read("no")))
}

func TestBoolReadsInteger(t *testing.T) {
	f := SetupTest(t)
	// Integer datasets written by other producers read as booleans too.
	assert.Nil(t, f.Int32().Write("one", 1))
	assert.Nil(t, f.Int32().Write("zero", 0))
	assert.Nil(t, f.Int32().Write("many", 7))

	assert.Equal(t, multi(true, nil), multi(f.Bool().Read("one")))
	assert.Equal(t, multi(false, nil), multi(f.Bool().Read("zero")))
	assert.Equal(t, multi(true, nil), multi(f.Bool().Read("many")))
}

func TestBoolReadWrongClass(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.String().Write("s", "yes"))
	_, err := f.Bool().Read("s")
	assert.Equal(t, h5err.WrongType, ErrorCode(err))
}

func TestBoolArrayRoundTrip(t *testing.T) {
	f := SetupTest(t)
	data := []bool{true, false, false, true, true}
	assert.Nil(t, f.Bool().WriteArray("arr", data))

	f = reopen(t, f)
	got, err := f.Bool().ReadArray("arr")
	assert.Nil(t, err)
	assert.Equal(t, data, got)
}

func TestBoolSharedEnumType(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Bool().Write("a", true))
	assert.Nil(t, f.Bool().Write("b", false))
	// Both datasets share one committed Boolean enum type.
	assert.Equal(t, multi(true, nil), multi(f.Exists("/__DATA_TYPES__/Enum_Boolean")))
	bt, err := f.Enum().GetType("Boolean")
	assert.Nil(t, err)
	assert.Equal(t, []string{"FALSE", "TRUE"}, bt.Values())
}

func TestBoolAttributes(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.CreateGroup("g"))
	assert.Nil(t, f.Bool().SetAttr("g", "valid", true))
	assert.Nil(t, f.Bool().SetAttr("g", "stale", false))

	f = reopen(t, f)
	assert.Equal(t, multi(true, nil), multi(f.Bool().Attr("g", "valid")))
	assert.Equal(t, multi(false, nil), multi(f.Bool().Attr("g", "stale")))
}

func TestBitFieldRoundTrip(t *testing.T) {
	f := SetupTest(t)
	words := []uint64{0xDEADBEEFCAFEF00D, 0, ^uint64(0)}
	assert.Nil(t, f.Bool().WriteBitField("bits", words))

	f = reopen(t, f)
	got, err := f.Bool().ReadBitField("bits")
	assert.Nil(t, err)
	assert.Equal(t, words, got)
}

func TestBitFieldReadsPlainInteger(t *testing.T) {
	f := SetupTest(t)
	// Integer datasets are accepted as bit fields for interoperability.
	assert.Nil(t, f.Uint64().WriteArray("ints", []uint64{1, 2, 3}))
	got, err := f.Bool().ReadBitField("ints")
	assert.Nil(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, got)

	assert.Nil(t, f.String().Write("s", "no"))
	_, err = f.Bool().ReadBitField("s")
	assert.Equal(t, h5err.WrongType, ErrorCode(err))
}

func TestBoolOrdinal(t *testing.T) {
	assert.Equal(t, int8(0), boolOrdinal(false))
	assert.Equal(t, int8(1), boolOrdinal(true))
}
