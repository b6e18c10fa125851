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

	"github.com/h5typed/hdf5/h5err"
)

// ---- Error type to contain/manage wrapper and native-library errors

// Error is the error type returned by every operation in this package. Code
// classifies the failure using the constants in package [h5err]; Message is
// human-readable and, for native failures, carries the HDF5 error stack text.
type Error struct {
	Code    int    // error kind, one of the h5err constants
	Message string // the error string
	wrapped []error
}

// Error returns the expected error message string.
func (err *Error) Error() string {
	return fmt.Sprintf("hdf5: %s", err.Message)
}

// Unwrap returns any underlying errors wrapped by this one, so that
// errors.Is and errors.As can see through it.
func (err *Error) Unwrap() []error {
	return err.wrapped
}

// newError returns code and message as an *Error, wrapping any given causes.
func newError(code int, message string, wrapped ...error) error {
	return &Error{Code: code, Message: message, wrapped: wrapped}
}

// errorf is newError with Sprintf-style message formatting.
func errorf(code int, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// nativeError wraps a failed native call as an *Error with the given code.
// The underlying h5.Error stays reachable through Unwrap for callers that
// care which H5* function failed.
func nativeError(code int, err error) error {
	return &Error{Code: code, Message: err.Error(), wrapped: []error{err}}
}

// libError is nativeError with the default code for raw native failures.
func libError(err error) error {
	return nativeError(h5err.Library, err)
}

// ErrorCode extracts the h5err code from err, or 0 if err is not an *Error.
func ErrorCode(err error) int {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return 0
}
