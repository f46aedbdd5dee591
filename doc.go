// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package coerce turns the raw text of a request parameter into a typed
// value, as described by a [schema.Schema].
//
// Every parameter flows through the same stages, in order, and the first
// stage to fail determines the single error returned:
//
//  1. a default is substituted for an absent or blank value
//  2. a required parameter which is still absent is rejected
//  3. the raw text is checked against the structural constraints
//  4. the text is parsed with the [format.Format] of the parameter
//  5. the typed value is compared against the minimum and maximum
//
// Every error is an [*Error] classified as either [Client], the value was
// unacceptable, or [Server], the schema itself is malformed e.g. it declares
// a maximum which is not a valid date.
package coerce
