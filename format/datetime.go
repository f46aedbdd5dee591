// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"regexp"
	"strings"
	"time"
)

var dateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[Tt]\d{2}:\d{2}:\d{2}(\.\d+)?([Zz]|[+-]\d{2}:\d{2})$`)

// DateTime is the "date-time" format as defined by RFC 3339 date-time.
// A full-date without a time of day and offset is not a date-time.
type DateTime struct{}

// Name implements the [Format] interface.
func (DateTime) Name() string {
	return "date-time"
}

// Parse implements the [Format] interface.
func (f DateTime) Parse(text string) (time.Time, error) {
	if !dateTimePattern.MatchString(text) {
		return time.Time{}, &SyntaxError{Format: f.Name(), Value: text}
	}

	// RFC 3339 allows lower case separators but time.Parse does not
	t, err := time.Parse(time.RFC3339Nano, strings.ToUpper(text))
	if err != nil {
		return time.Time{}, &RangeError{Format: f.Name(), Value: text, Cause: err}
	}
	return t, nil
}

// Compare implements the [Format] interface.
func (DateTime) Compare(a, b time.Time) int {
	return a.Compare(b)
}

// Typed implements the [Format] interface.
func (DateTime) Typed(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, true
	default:
		return time.Time{}, false
	}
}
