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

func TestOpaqueRoundTrip(t *testing.T) {
	f := SetupTest(t)
	payload := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}
	assert.Nil(t, f.Opaque().Write("blob", "image/png", payload))

	f = reopen(t, f)
	tag, data, err := f.Opaque().Read("blob")
	assert.Nil(t, err)
	assert.Equal(t, "image/png", tag)
	assert.Equal(t, payload, data)

	assert.Equal(t, multi("image/png", nil), multi(f.Opaque().Tag("blob")))
}

func TestOpaqueSharedTagType(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Opaque().Write("a", "raw", []byte{1}))
	assert.Nil(t, f.Opaque().Write("b", "raw", []byte{2, 3}))
	// Both datasets share one committed type per tag.
	assert.Equal(t, multi(true, nil), multi(f.Exists("/__DATA_TYPES__/Opaque_raw")))
}

func TestOpaqueEmptyPayload(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Opaque().Write("none", "empty", nil))
	tag, data, err := f.Opaque().Read("none")
	assert.Nil(t, err)
	assert.Equal(t, "empty", tag)
	assert.Empty(t, data)
}

func TestOpaqueReadWrongClass(t *testing.T) {
	f := SetupTest(t)
	assert.Nil(t, f.Int32().Write("n", 1))
	_, _, err := f.Opaque().Read("n")
	assert.Equal(t, h5err.WrongType, ErrorCode(err))
	_, err = f.Opaque().Tag("n")
	assert.Equal(t, h5err.WrongType, ErrorCode(err))
}
