// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"regexp"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Date is the "date" format, YYYY-MM-DD, as defined by RFC 3339 full-date.
// Values carry no time of day or location so equality is exact.
type Date struct{}

// Name implements the [Format] interface.
func (Date) Name() string {
	return "date"
}

// Parse implements the [Format] interface.
func (f Date) Parse(text string) (civil.Date, error) {
	if !datePattern.MatchString(text) {
		return civil.Date{}, &SyntaxError{Format: f.Name(), Value: text}
	}

	// the pattern guarantees these are all digits
	year, _ := strconv.Atoi(text[0:4])
	month, _ := strconv.Atoi(text[5:7])
	day, _ := strconv.Atoi(text[8:10])

	d := civil.Date{
		Year:  year,
		Month: time.Month(month),
		Day:   day,
	}
	if !d.IsValid() {
		return civil.Date{}, &RangeError{Format: f.Name(), Value: text}
	}
	return d, nil
}

// Compare implements the [Format] interface.
func (Date) Compare(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// Typed implements the [Format] interface. A [time.Time] is
// truncated to the date it falls on in its own location.
func (Date) Typed(v any) (civil.Date, bool) {
	switch x := v.(type) {
	case civil.Date:
		return x, x.IsValid()
	case *civil.Date:
		if x == nil {
			return civil.Date{}, false
		}
		return *x, x.IsValid()
	case time.Time:
		return civil.DateOf(x), true
	default:
		return civil.Date{}, false
	}
}
