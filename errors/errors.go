// Package errors provides error handling for contentpack.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
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
//	if errors.Is(err, errors.ErrEmptySingleton) {
//	    // schema/data relationship is broken, do not retry
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
	Is         = crdb.Is
	IsAny      = crdb.IsAny
	As         = crdb.As
	Unwrap     = crdb.Unwrap
	UnwrapOnce = crdb.UnwrapOnce
	UnwrapAll  = crdb.UnwrapAll
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Invariant violations. These indicate a malformed schema/data
// relationship rather than an environment problem: a pass that hits one
// must halt, and re-running against the same inputs will fail the same
// way. Distinct from transient input/output errors below.
var (
	// ErrNamingCollision indicates two type definitions map to the same
	// exported variable name.
	ErrNamingCollision = New("naming collision")

	// ErrFileNameCollision indicates two distinct document identifiers
	// flatten to the same escaped file name.
	ErrFileNameCollision = New("file name collision")

	// ErrEmptySingleton indicates a singleton type with no matching document.
	ErrEmptySingleton = New("singleton type has no document")

	// ErrSingletonCardinality indicates a singleton type with more than
	// one matching document.
	ErrSingletonCardinality = New("singleton type has multiple documents")

	// ErrUnknownDocType indicates a document whose discriminant value
	// names no type present in the schema.
	ErrUnknownDocType = New("document references unknown type")
)

// Input and output errors. These are environmental and safe to retry on
// the next pass.
var (
	// ErrSchemaUnavailable indicates the content source failed to provide a schema
	ErrSchemaUnavailable = New("schema unavailable")

	// ErrFetchFailed indicates a document-store snapshot could not be fetched
	ErrFetchFailed = New("snapshot fetch failed")
)

// IsInvariantViolation reports whether err is (or wraps) one of the
// fatal schema/data invariant violations. Callers use this to decide
// whether a failed pass is worth re-running without input changes.
func IsInvariantViolation(err error) bool {
	return err != nil && IsAny(err,
		ErrNamingCollision,
		ErrFileNameCollision,
		ErrEmptySingleton,
		ErrSingletonCardinality,
		ErrUnknownDocType,
	)
}

// IsInputError reports whether err stems from acquiring the schema or
// the document-store snapshot, as opposed to writing output.
func IsInputError(err error) bool {
	return err != nil && IsAny(err, ErrSchemaUnavailable, ErrFetchFailed)
}
