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
	"log/syslog"
	"sync"

	"github.com/h5typed/hdf5/h5err"
	"github.com/h5typed/hdf5/internal/h5"
)

// ---- Library init
//
// The native library holds process-wide mutable state (type tables, the
// error stack, the id registry). It is initialized exactly once, behind a
// mutex, the first time a file is opened or created, and never torn down:
// H5close would invalidate identifiers other packages in the process might
// still hold. A failed initialization is remembered and re-reported rather
// than retried.

var (
	initMutex sync.Mutex
	initDone  bool
	initErr   error
)

// initializeLibrary opens the native library, silences its stderr error
// dumping (failures are reported through Go errors instead) and enforces the
// supported version range. Called on every Open/Create; cheap after the
// first call.
func initializeLibrary() error {
	initMutex.Lock()
	defer initMutex.Unlock()
	if initDone {
		return initErr
	}
	initDone = true
	initErr = doInitialize()
	if initErr != nil {
		// One syslog entry per process for this rare, fatal condition.
		syslogEntry(initErr.Error())
	}
	return initErr
}

func doInitialize() error {
	if err := h5.Open(); err != nil {
		return nativeError(h5err.Init, err)
	}
	major, minor, release, err := h5.LibVersion()
	if err != nil {
		return nativeError(h5err.Init, err)
	}
	if !versionSupported(major, minor) {
		return errorf(h5err.VersionMismatch,
			"native HDF5 library is %d.%d.%d but this binding supports %d.%d through %d.x; refusing to run against an untested ABI",
			major, minor, release, MinLibMajor, MinLibMinor, MaxLibMinor)
	}
	if err := h5.SilenceErrorOutput(); err != nil {
		return nativeError(h5err.Init, err)
	}
	return nil
}

// versionSupported checks major.minor against the accepted range.
func versionSupported(major, minor int) bool {
	if major != MinLibMajor && major != MaxLibMajor {
		return false
	}
	return minor >= MinLibMinor && minor <= MaxLibMinor
}

// syslogEntry records the given message in the syslog. Since these are rare
// or one-time per process type errors, we open a new syslog handle each time
// to reduce complexity of access across goroutines.
func syslogEntry(logMsg string) {
	syslogr, err := syslog.New(syslog.LOG_INFO+syslog.LOG_USER, "[h5typed]")
	if err != nil {
		// No syslog available (containers, CI). The error we were trying to
		// log still reaches the caller; losing the syslog copy is fine.
		return
	}
	if err = syslogr.Info(logMsg); err != nil {
		panic(fmt.Sprintf("syslogr.Info() failed unexpectedly with error: %s", err))
	}
	if err = syslogr.Close(); err != nil {
		panic(fmt.Sprintf("syslogr.Close() failed unexpectedly with error: %s", err))
	}
}
