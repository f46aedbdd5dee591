// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package ptr converts between the optional, pointer typed fields
// of OpenAPI documents and plain values.
package ptr

// Deref returns the value t points to or the zero value if t is nil.
func Deref[T any](t *T) T {
	if t == nil {
		var zero T
		return zero
	}
	return *t
}

// Ref returns a pointer to a copy of t.
func Ref[T any](t T) *T {
	return &t
}

// RefIf is like [Ref] but returns nil unless set is true. It is used
// to leave unset schema fields out of a document.
func RefIf[T any](t T, set bool) *T {
	if !set {
		return nil
	}
	return &t
}
