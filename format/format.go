// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package format provides parsers for the textual representations of scalar
// parameter values e.g. "date", "date-time", "int32", etc.
//
// Parsing always checks the lexical shape of the text before its semantic
// validity, so a value which has the wrong shape is reported with a [SyntaxError]
// and a value with the right shape but impossible contents is reported with a
// [RangeError].
package format

import "fmt"

// Format converts text into values of type T and orders those values.
type Format[T any] interface {
	// Name is the name of the format as it appears in error messages.
	Name() string

	// Parse converts the given text into a T. The returned error
	// is always either a *SyntaxError or a *RangeError.
	Parse(text string) (T, error)

	// Compare returns -1 if a < b, 0 if a == b and +1 if a > b.
	Compare(a, b T) int

	// Typed reports whether v is already a valid T, for example a
	// default value which was supplied as a value instead of as text.
	Typed(v any) (T, bool)
}

// SyntaxError occurs when a value does not match the lexical shape of a format.
type SyntaxError struct {
	Format string
	Value  string
}

// Error implements the [error] interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf(`"%s" is not a properly-formatted %s`, e.Value, e.Format)
}

// RangeError occurs when a value matches the lexical shape of a format
// but does not describe a valid value e.g. the 15th month of a year.
type RangeError struct {
	Format string
	Value  string
	Cause  error
}

// Error implements the [error] interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf(`"%s" is an invalid %s`, e.Value, e.Format)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e *RangeError) Unwrap() error {
	return e.Cause
}
