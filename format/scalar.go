// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import "strings"

// Boolean is the "boolean" type. Only "true" and "false" are
// accepted, ignoring case.
type Boolean struct{}

// Name implements the [Format] interface.
func (Boolean) Name() string {
	return "boolean"
}

// Parse implements the [Format] interface.
func (f Boolean) Parse(text string) (bool, error) {
	switch {
	case strings.EqualFold(text, "true"):
		return true, nil
	case strings.EqualFold(text, "false"):
		return false, nil
	default:
		return false, &SyntaxError{Format: f.Name(), Value: text}
	}
}

// Compare implements the [Format] interface. false sorts before true.
func (Boolean) Compare(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// Typed implements the [Format] interface.
func (Boolean) Typed(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// String is the "string" type without a recognized format.
// Any text is a valid string.
type String struct{}

// Name implements the [Format] interface.
func (String) Name() string {
	return "string"
}

// Parse implements the [Format] interface.
func (String) Parse(text string) (string, error) {
	return text, nil
}

// Compare implements the [Format] interface.
func (String) Compare(a, b string) int {
	return strings.Compare(a, b)
}

// Typed implements the [Format] interface.
func (String) Typed(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
