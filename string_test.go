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
	"strings"
	"testing"

	assert "github.com/stretchr/testify/require"

	"github.com/h5typed/hdf5/h5err"
)

// ---- Tests

func TestStringScalarRoundTrip(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.String().Write("fixed", "hello world"))
	assert.Nil(t, f.String().WriteVL("vl", "variable length text"))
	assert.Nil(t, f.String().Write("empty", ""))

	f = reopen(t, f)
	assert.Equal(t, multi("hello world", nil), multi(f.String().Read("fixed")))
	assert.Equal(t, multi("variable length text", nil), multi(f.String().Read("vl")))
	assert.Equal(t, multi("", nil), multi(f.String().Read("empty")))
}

func TestStringUnicode(t *testing.T) {
	f := SetupTest(t)
	const s = "héllo wörld ≠ ascii"
	assert.Nil(t, f.String().Write("u", s))
	assert.Nil(t, f.String().WriteVL("uv", s))
	assert.Equal(t, multi(s, nil), multi(f.String().Read("u")))
	assert.Equal(t, multi(s, nil), multi(f.String().Read("uv")))
}

func TestStringReadWrongClass(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Int32().Write("n", 1))
	_, err := f.String().Read("n")
	assert.Equal(t, h5err.WrongType, ErrorCode(err))
}

func TestStringArrayFixed(t *testing.T) {
	f := SetupTest(t)
	data := []string{"alpha", "beta", "", "a much longer entry than the others"}
	assert.Nil(t, f.String().WriteArray("arr", data))

	f = reopen(t, f)
	got, err := f.String().ReadArray("arr")
	assert.Nil(t, err)
	assert.Equal(t, data, got)
}

func TestStringArrayVL(t *testing.T) {
	f := SetupTest(t)
	data := []string{"one", strings.Repeat("x", 5000), "", "four"}
	assert.Nil(t, f.String().WriteVLArray("arr", data))

	f = reopen(t, f)
	got, err := f.String().ReadArray("arr")
	assert.Nil(t, err)
	assert.Equal(t, data, got)
}

func TestStringArrayBlocks(t *testing.T) {
	f := SetupTest(t)
	data := make([]string, 20)
	for i := range data {
		data[i] = strings.Repeat("s", i+1)
	}
	assert.Nil(t, f.String().WriteArray("arr", data, Features{Chunks: []uint64{5}}))

	got, err := f.String().ReadArrayBlock("arr", 5, 2)
	assert.Nil(t, err)
	assert.Equal(t, data[10:15], got)

	got, err = f.String().ReadArrayBlockWithOffset("arr", 3, 17)
	assert.Nil(t, err)
	assert.Equal(t, data[17:20], got)

	_, err = f.String().ReadArrayBlockWithOffset("arr", 5, 18)
	assert.Equal(t, h5err.OutOfBounds, ErrorCode(err))
}

func TestStringWriteArrayBlock(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.String().WriteArray("arr", []string{"aaaaaaaaaa", "b", "c", "d", "e", "f"}))
	assert.Nil(t, f.String().WriteArrayBlock("arr", []string{"X", "Y"}, 1))
	assert.Nil(t, f.String().WriteArrayBlockWithOffset("arr", []string{"Z"}, 5))

	got, err := f.String().ReadArray("arr")
	assert.Nil(t, err)
	assert.Equal(t, []string{"aaaaaaaaaa", "b", "X", "Y", "e", "Z"}, got)
}

func TestStringWriteVLArrayBlock(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.String().WriteVLArray("arr", []string{"a", "b", "c", "d"}))
	// Block writes adapt to the variable-length type of the target.
	assert.Nil(t, f.String().WriteArrayBlockWithOffset("arr", []string{strings.Repeat("long", 100)}, 2))

	got, err := f.String().ReadArray("arr")
	assert.Nil(t, err)
	assert.Equal(t, strings.Repeat("long", 100), got[2])
	assert.Equal(t, "d", got[3])
}

func TestStringAttributes(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.CreateGroup("g"))
	assert.Nil(t, f.String().SetAttr("g", "label", "measurement run 7"))
	assert.Nil(t, f.String().SetArrayAttr("g", "tags", []string{"raw", "calibrated"}))

	f = reopen(t, f)
	assert.Equal(t, multi("measurement run 7", nil), multi(f.String().Attr("g", "label")))
	tags, err := f.String().ArrayAttr("g", "tags")
	assert.Nil(t, err)
	assert.Equal(t, []string{"raw", "calibrated"}, tags)
}

func TestStringAttributeOverwrite(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.CreateGroup("g"))
	assert.Nil(t, f.String().SetAttr("g", "v", "first"))
	assert.Nil(t, f.String().SetAttr("g", "v", "second and longer"))
	assert.Equal(t, multi("second and longer", nil), multi(f.String().Attr("g", "v")))
}

func TestMaxStringSize(t *testing.T) {
	assert.Equal(t, uint(1), maxStringSize(nil))
	assert.Equal(t, uint(1), maxStringSize([]string{""}))
	assert.Equal(t, uint(6), maxStringSize([]string{"ab", "heigh", "x"}))
}
