// Package errors provides error handling for the completion engine.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrNoProvider) {
//	    // handle missing provider
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is     = crdb.Is
	IsAny  = crdb.IsAny
	As     = crdb.As
	Unwrap = crdb.Unwrap
	Mark   = crdb.Mark
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for use across the engine.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNoProvider indicates no registered provider matched the context
	ErrNoProvider = New("no provider matched")

	// ErrIndexUnavailable indicates the file index could not be built
	ErrIndexUnavailable = New("file index unavailable")

	// ErrStaleQuery indicates a completion result arrived for a superseded query
	ErrStaleQuery = New("stale query")
)

// IsNoProviderError checks if an error is or wraps ErrNoProvider
func IsNoProviderError(err error) bool {
	return err != nil && Is(err, ErrNoProvider)
}

// IsIndexUnavailableError checks if an error is or wraps ErrIndexUnavailable
func IsIndexUnavailableError(err error) bool {
	return err != nil && Is(err, ErrIndexUnavailable)
}

// WrapIndexUnavailable wraps an error with context and marks it as an
// index-unavailable error, preserving the original chain
func WrapIndexUnavailable(err error, context string) error {
	return Mark(Wrap(err, context), ErrIndexUnavailable)
}
