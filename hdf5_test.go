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
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

var testDir string

// ---- Utility functions for tests

// multi returns multiple parameters as a single slice of interfaces.
// Useful, for example, in asserting test validity of functions that return both a value and an error.
func multi(v ...any) []any {
	return v
}

// panicIf panics if err is not nil. For use in tests.
func panicIf(err error) {
	if err != nil {
		panic(err)
	}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// testFileName builds a per-test file path inside the test directory.
func testFileName(t *testing.T) string {
	name := unsafeFileChars.ReplaceAllString(t.Name(), "_")
	return filepath.Join(testDir, name+".h5")
}

// SetupTest creates a fresh writable test file, closed and removed when the
// test finishes.
func SetupTest(t *testing.T) *File {
	t.Helper()
	path := testFileName(t)
	f, err := Create(path)
	if err != nil {
		t.Fatalf("creating test file %s: %v", path, err)
	}
	t.Cleanup(func() {
		f.Close()
		os.Remove(path)
	})
	return f
}

// reopen closes f and opens the same file again, read-only unless opts say
// otherwise.
func reopen(t *testing.T, f *File, opts ...Option) *File {
	t.Helper()
	path := f.Name()
	panicIf(f.Close())
	g, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("reopening test file %s: %v", path, err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

// seq builds a deterministic numeric test sequence.
func seq[T NumericValue](n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = T(i%125) + 1
	}
	return out
}

// This benchmark is purely to provide a long name that causes benchmark outputs to align.
// It calls skip which prevents it from running.
func Benchmark________________________________(b *testing.B) {
	b.Skip()
}

// _testMain is factored out of TestMain to let us defer cleanup properly
// since os.Exit() must not be run in the same function as defer.
func _testMain(m *testing.M) int {
	flag.Parse()
	dir, err := os.MkdirTemp("", "h5typedtest-")
	if err != nil {
		log.Panic(err)
	}
	testDir = dir
	if testing.Verbose() {
		fmt.Fprintf(os.Stderr, "Test directory is %s\n", testDir)
	}
	defer func() {
		// Set H5TYPED_KEEP_TESTDIR to keep the files for a post-mortem look.
		if os.Getenv("H5TYPED_KEEP_TESTDIR") == "" {
			os.RemoveAll(dir)
		}
	}()
	return m.Run()
}

func TestMain(m *testing.M) {
	os.Exit(_testMain(m))
}
