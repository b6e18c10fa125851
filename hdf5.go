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

// ---- Release version constants - be sure to change all of them appropriately

// WrapperRelease is the release version of this binding. The third piece is
// even for a production release and odd for a development release.
const WrapperRelease string = "v0.3.0"

// MinLibMajor/MinLibMinor and MaxLibMajor/MaxLibMinor bound the native HDF5
// library versions this binding accepts. Initialization refuses to proceed
// outside this range rather than risk undefined behavior from ABI drift.
// The lower bound is set by H5Oget_info_by_name3/H5Treclaim (added in 1.12).
const (
	MinLibMajor = 1
	MinLibMinor = 12
	MaxLibMajor = 1
	MaxLibMinor = 14
)

// MinimumGoRelease - minimum version of Go to fully support this binding.
//
//	go 1.24 required for testing.Loop used in benchmarks
//	go 1.23 required for iterators, used for natural-block iteration
//	go 1.21 required for encoding/binary NativeEndian
//
// Note: this is not checked at runtime. The compile will fail if undefined
// Go features are used.
const MinimumGoRelease = "go1.24"

// ---- Reserved in-file names
//
// These mirror the house-keeping layout consumed by this binding: named
// datatypes live under a reserved group, and a reserved attribute tags
// datasets whose logical type differs from their storage type (timestamps,
// durations, scaled enums). House-keeping names are real, addressable names
// in the file; they are only excluded from user-facing listings.

const (
	// dataTypeGroup is where committed datatypes are persisted.
	dataTypeGroup = "/__DATA_TYPES__"

	// Prefixes for committed type names inside dataTypeGroup.
	enumPrefix     = "Enum_"
	compoundPrefix = "Compound_"
	opaquePrefix   = "Opaque_"

	// typeVariantAttribute tags an object whose logical type is a variant of
	// its storage type. Stored as a 32-bit ordinal of the typeVariant set.
	typeVariantAttribute = "__TYPE_VARIANT__"

	// enumTypeNameAttribute names the logical enum type of a scaled-enum
	// dataset (an integer dataset standing in for an enum).
	enumTypeNameAttribute = "__ENUM_TYPE_NAME__"

	// opaqueTagAttribute preserves the tag of opaque datasets.
	opaqueTagAttribute = "__OPAQUE_TAG__"
)

// houseKeepingSuffix is appended to reserved names when a file was written
// with a custom house-keeping suffix; the default is none.
const defaultHouseKeepingSuffix = ""

// typeVariant ordinals stored in typeVariantAttribute. The set is closed and
// append-only: ordinals are persisted in files and must never be renumbered.
type typeVariant int32

const (
	variantTimestampMillis typeVariant = iota // int64 milliseconds since the Unix epoch
	variantDurationMillis                     // int64 millisecond duration
	variantScaledEnum                         // integer dataset standing in for an enum
	variantBitField                           // packed uint64 bit field
)

// ---- Storage features

// Features describes how a new dataset is laid out on disk. The zero value
// is a fixed-extent contiguous dataset.
type Features struct {
	// Chunks is an explicit chunk shape. When nil and chunking is required
	// (Extendable or Deflate set), the chunk shape defaults to the initial
	// extent, capped at defaultChunkCap elements per axis.
	Chunks []uint64

	// Deflate enables gzip compression at levels 1-9. Forces chunked layout.
	Deflate int

	// Extendable requests unlimited maximum dimensions. Forces chunked
	// layout; writes beyond the current extent grow the dataset.
	Extendable bool

	// Compact stores the data in the object header. Only for tiny datasets;
	// incompatible with Extendable and Deflate.
	Compact bool
}

// chunked reports whether the features force a chunked layout.
func (f Features) chunked() bool {
	return f.Extendable || f.Deflate > 0 || f.Chunks != nil
}

// defaultChunkCap caps derived chunk shapes per axis so a huge initial
// extent does not become one enormous chunk.
const defaultChunkCap = 16 * 1024

// deriveChunks returns the chunk shape to use for a dataset of the given
// initial extent: the explicit shape when set, otherwise the extent itself
// capped per axis. Zero-size axes get chunk size 1 so empty extendable
// datasets remain creatable.
func (f Features) deriveChunks(dims []uint64) []uint64 {
	if f.Chunks != nil {
		return f.Chunks
	}
	chunks := make([]uint64, len(dims))
	for i, d := range dims {
		switch {
		case d == 0:
			chunks[i] = 1
		case d > defaultChunkCap:
			chunks[i] = defaultChunkCap
		default:
			chunks[i] = d
		}
	}
	return chunks
}
