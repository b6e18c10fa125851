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
	"fmt"
	"testing"

	assert "github.com/stretchr/testify/require"

	"github.com/h5typed/hdf5/h5err"
	"github.com/h5typed/hdf5/internal/israce"
)

func measurementMembers(f *File) ([]CompoundMember, error) {
	status, err := f.Enum().Type("Status", []string{"OK", "SUSPECT", "BAD"})
	if err != nil {
		return nil, err
	}
	return []CompoundMember{
		{Name: "id", Kind: MemberInt64},
		{Name: "value", Kind: MemberFloat64},
		{Name: "count", Kind: MemberUint16},
		{Name: "valid", Kind: MemberBool},
		{Name: "site", Kind: MemberString, Length: 16},
		{Name: "note", Kind: MemberVLString},
		{Name: "status", Kind: MemberEnum, Enum: status},
	}, nil
}

func measurement(i int) map[string]any {
	return map[string]any{
		"id":     int64(1000 + i),
		"value":  float64(i) * 0.5,
		"count":  uint16(i),
		"valid":  i%2 == 0,
		"site":   fmt.Sprintf("site-%d", i),
		"note":   fmt.Sprintf("free-form note %d of arbitrary length", i),
		"status": []string{"OK", "SUSPECT", "BAD"}[i%3],
	}
}

// ---- Tests

func TestCompoundTypeCommitAndReopen(t *testing.T) {
	f := SetupTest(t)
	members, err := measurementMembers(f)
	panicIf(err)
	ct, err := f.Compound().Type("Measurement", members)
	assert.Nil(t, err)
	assert.Equal(t, "Measurement", ct.Name())
	assert.Greater(t, ct.RecordSize(), uint(0))

	f = reopen(t, f)
	got, err := f.Compound().GetType("Measurement")
	assert.Nil(t, err)
	assert.Equal(t, len(members), len(got.Members()))
	for i, m := range got.Members() {
		assert.Equal(t, members[i].Name, m.Name)
		assert.Equal(t, members[i].Kind, m.Kind)
	}
}

func TestCompoundTypeMismatchRejected(t *testing.T) {
	f := SetupTest(t)
	members, err := measurementMembers(f)
	panicIf(err)
	_, err = f.Compound().Type("Measurement", members)
	assert.Nil(t, err)

	_, err = f.Compound().Type("Measurement", members[:3])
	assert.Equal(t, h5err.WrongType, ErrorCode(err))
}

func TestCompoundGetTypeMissing(t *testing.T) {
	f := SetupTest(t)
	_, err := f.Compound().GetType("Nowhere")
	assert.Equal(t, h5err.NotFound, ErrorCode(err))
}

func TestCompoundScalarRoundTrip(t *testing.T) {
	f := SetupTest(t)
	members, err := measurementMembers(f)
	panicIf(err)
	ct, err := f.Compound().Type("Measurement", members)
	panicIf(err)

	rec := measurement(4)
	assert.Nil(t, f.Compound().Write("rec", ct, rec))

	f = reopen(t, f)
	got, err := f.Compound().Read("rec")
	assert.Nil(t, err)
	assert.Equal(t, rec, got)
}

func TestCompoundArrayRoundTrip(t *testing.T) {
	f := SetupTest(t)
	members, err := measurementMembers(f)
	panicIf(err)
	ct, err := f.Compound().Type("Measurement", members)
	panicIf(err)

	records := make([]map[string]any, 50)
	for i := range records {
		records[i] = measurement(i)
	}
	assert.Nil(t, f.Compound().WriteArray("recs", ct, records))

	f = reopen(t, f)
	got, err := f.Compound().ReadArray("recs")
	assert.Nil(t, err)
	assert.Equal(t, records, got)
}

func TestCompoundArrayBlocks(t *testing.T) {
	f := SetupTest(t)
	members, err := measurementMembers(f)
	panicIf(err)
	ct, err := f.Compound().Type("Measurement", members)
	panicIf(err)

	records := make([]map[string]any, 10)
	for i := range records {
		records[i] = measurement(i)
	}
	assert.Nil(t, f.Compound().WriteArray("recs", ct, records, Features{Chunks: []uint64{4}}))

	got, err := f.Compound().ReadArrayBlockWithOffset("recs", 3, 5)
	assert.Nil(t, err)
	assert.Equal(t, records[5:8], got)

	// Overwrite a block in place.
	replacement := measurement(99)
	assert.Nil(t, f.Compound().WriteArrayBlockWithOffset("recs", ct, []map[string]any{replacement}, 0))
	got, err = f.Compound().ReadArrayBlockWithOffset("recs", 1, 0)
	assert.Nil(t, err)
	assert.Equal(t, replacement, got[0])
}

func TestCompoundExtendableAppend(t *testing.T) {
	f := SetupTest(t)
	members, err := measurementMembers(f)
	panicIf(err)
	ct, err := f.Compound().Type("Measurement", members)
	panicIf(err)

	first := []map[string]any{measurement(0), measurement(1)}
	assert.Nil(t, f.Compound().WriteArray("log", ct, first, Features{Extendable: true}))
	assert.Nil(t, f.Compound().WriteArrayBlockWithOffset("log", ct, []map[string]any{measurement(2)}, 2))

	got, err := f.Compound().ReadArray("log")
	assert.Nil(t, err)
	assert.Equal(t, 3, len(got))
	assert.Equal(t, measurement(2), got[2])
}

func TestCompoundMissingMemberValue(t *testing.T) {
	f := SetupTest(t)
	ct, err := f.Compound().Type("Pair", []CompoundMember{
		{Name: "a", Kind: MemberInt32},
		{Name: "b", Kind: MemberInt32},
	})
	panicIf(err)
	err = f.Compound().Write("rec", ct, map[string]any{"a": int32(1)})
	assert.NotNil(t, err)
}

func TestCompoundWrongMemberType(t *testing.T) {
	f := SetupTest(t)
	ct, err := f.Compound().Type("Pair", []CompoundMember{
		{Name: "a", Kind: MemberInt32},
		{Name: "b", Kind: MemberFloat64},
	})
	panicIf(err)
	err = f.Compound().Write("rec", ct, map[string]any{"a": 1, "b": 2.0})
	assert.Equal(t, h5err.WrongType, ErrorCode(err))
}

func TestCompoundFixedStringOverflow(t *testing.T) {
	f := SetupTest(t)
	ct, err := f.Compound().Type("Tagged", []CompoundMember{
		{Name: "tag", Kind: MemberString, Length: 4},
	})
	panicIf(err)
	// A 4-byte cell holds at most 3 characters plus the terminator.
	err = f.Compound().Write("rec", ct, map[string]any{"tag": "long"})
	assert.Equal(t, h5err.OutOfBounds, ErrorCode(err))
	assert.Nil(t, f.Compound().Write("rec", ct, map[string]any{"tag": "ok"}))
}

func TestCompoundReadWrongClass(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Int32().Write("n", 1))
	_, err := f.Compound().Read("n")
	assert.Equal(t, h5err.WrongType, ErrorCode(err))
}

// TestCompoundRepeatedVLStringCycles rewrites and rereads a record set with
// a variable-length member many times. Every cycle allocates C-heap backing
// for the VL strings and must reclaim it; a leak here grows without bound.
func TestCompoundRepeatedVLStringCycles(t *testing.T) {
	f := SetupTest(t)
	ct, err := f.Compound().Type("Note", []CompoundMember{
		{Name: "seq", Kind: MemberInt32},
		{Name: "text", Kind: MemberVLString},
	})
	panicIf(err)

	cycles := 500
	if israce.Enabled {
		cycles = 50
	}
	for c := 0; c < cycles; c++ {
		records := []map[string]any{
			{"seq": int32(c), "text": fmt.Sprintf("cycle %d payload", c)},
			{"seq": int32(-c), "text": ""},
		}
		assert.Nil(t, f.Compound().WriteArray("notes", ct, records))
		got, err := f.Compound().ReadArray("notes")
		assert.Nil(t, err)
		assert.Equal(t, records, got)
	}
}

func TestCompoundLayoutMembers(t *testing.T) {
	offsets, size, err := layoutMembers([]CompoundMember{
		{Name: "a", Kind: MemberInt8},
		{Name: "b", Kind: MemberFloat64},
		{Name: "c", Kind: MemberString, Length: 5},
	})
	assert.Nil(t, err)
	// Packed layout: members follow each other with no padding.
	assert.Equal(t, []uint{0, 1, 9}, offsets)
	assert.Equal(t, uint(14), size)

	_, _, err = layoutMembers([]CompoundMember{{Name: "s", Kind: MemberString}})
	assert.Equal(t, h5err.InvalidArgument, ErrorCode(err))
}
