// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package lir

import "fmt"

// ErrorKind categorizes kernel compilation errors.
type ErrorKind uint8

const (
	// ErrContractViolation indicates an instruction that breaks an upstream
	// invariant, such as an address in a space with no addressing strategy.
	ErrContractViolation ErrorKind = iota

	// ErrUnsupportedFeature indicates a feature that is not implemented.
	ErrUnsupportedFeature

	// ErrConfiguration indicates invalid compile-time configuration, such as
	// a non-positive local allocation size.
	ErrConfiguration

	// ErrOutOfRange indicates a dimension index outside the worker grid.
	ErrOutOfRange
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrContractViolation:
		return "ContractViolation"
	case ErrUnsupportedFeature:
		return "UnsupportedFeature"
	case ErrConfiguration:
		return "Configuration"
	case ErrOutOfRange:
		return "OutOfRange"
	default:
		return "Unknown"
	}
}

// Error is a kernel compilation error. No Error is recoverable: emission of
// the current compilation unit stops at the first one.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string

	// Span optionally identifies the offending instruction.
	Span *Span
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrContract       = &Error{Kind: ErrContractViolation}
	ErrNotImplemented = &Error{Kind: ErrUnsupportedFeature}
	ErrConfig         = &Error{Kind: ErrConfiguration}
	ErrDimension      = &Error{Kind: ErrOutOfRange}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Span != nil && !e.Span.IsZero() {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Span, e.Message)
	}
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is an *Error sentinel of the same kind.
// Out-of-range errors also match ErrContract.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" || t.Span != nil {
		return false
	}
	return t.Kind == e.Kind || (t.Kind == ErrContractViolation && e.Kind == ErrOutOfRange)
}

// NewError creates a new error without span information.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewErrorWithSpan creates a new error attributed to an instruction.
func NewErrorWithSpan(kind ErrorKind, span Span, format string, args ...any) *Error {
	e := NewError(kind, format, args...)
	if !span.IsZero() {
		e.Span = &span
	}
	return e
}

// IsContractViolation returns true if the error is ErrContractViolation.
func (e *Error) IsContractViolation() bool {
	return e.Kind == ErrContractViolation
}

// IsUnsupportedFeature returns true if the error is ErrUnsupportedFeature.
func (e *Error) IsUnsupportedFeature() bool {
	return e.Kind == ErrUnsupportedFeature
}

// IsConfiguration returns true if the error is ErrConfiguration.
func (e *Error) IsConfiguration() bool {
	return e.Kind == ErrConfiguration
}
