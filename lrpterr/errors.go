/*
NAME
  errors.go

DESCRIPTION
  errors.go implements the structured error taxonomy used across liblrpt.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package lrpterr provides the structured error kinds shared by every
// liblrpt package, so callers can switch on failure class instead of
// string-matching error messages.
package lrpterr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a liblrpt failure.
type Kind int

const (
	// Alloc indicates a memory allocation failed.
	Alloc Kind = iota
	// InvalidParam indicates the caller passed a nil, zero-length where
	// forbidden, out-of-range, or otherwise contractually invalid argument.
	InvalidParam
	// InvalidObject indicates a passed container is structurally corrupt
	// (e.g. length > 0 but no backing buffer).
	InvalidObject
	// NoData indicates the source is empty, or the requested slice is
	// zero-length.
	NoData
	// NoSpace indicates a ring push would overflow its capacity.
	NoSpace
	// Unsupported indicates an unrecognised file version or mode.
	Unsupported
	// IOError indicates a boundary I/O failure.
	IOError
	// DataCorrupt indicates boundary data failed a structural or
	// checksum check.
	DataCorrupt
)

// String names a Kind for logging and error text.
func (k Kind) String() string {
	switch k {
	case Alloc:
		return "alloc"
	case InvalidParam:
		return "invalid_param"
	case InvalidObject:
		return "invalid_object"
	case NoData:
		return "no_data"
	case NoSpace:
		return "no_space"
	case Unsupported:
		return "unsupported"
	case IOError:
		return "io_error"
	case DataCorrupt:
		return "data_corrupt"
	default:
		return "unknown"
	}
}

// Error is a liblrpt error: a Kind plus a causal chain. It satisfies the
// error interface and exposes its cause through Unwrap, so the standard
// errors.Is/errors.As walk the chain; it has no Cause method for
// github.com/pkg/errors.Cause.
type Error struct {
	Kind Kind
	msg  string
	err  error // underlying cause, may be nil
}

// New constructs an *Error of the given kind with no underlying cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

// Wrap constructs an *Error of the given kind, wrapping cause with msg
// using github.com/pkg/errors so the original stack trace is retained.
func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{Kind: kind, msg: msg, err: errors.Wrap(cause, msg)}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.err.Error())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// Unwrap supports errors.Is / errors.As against the wrapped cause.
func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == kind
}
