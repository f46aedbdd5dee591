// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"cmp"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
)

var (
	integerPattern = regexp.MustCompile(`^[+-]?\d+$`)
	numberPattern  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

// Integer is the "integer" type with an optional "int32" or "int64" format.
type Integer struct {
	// Bits is the bit size of the integer. Zero is treated as 64.
	Bits int
}

// Name implements the [Format] interface.
func (f Integer) Name() string {
	switch f.Bits {
	case 0:
		return "integer"
	case 32:
		return "int32"
	default:
		return "int64"
	}
}

func (f Integer) bits() int {
	if f.Bits == 0 {
		return 64
	}
	return f.Bits
}

// Parse implements the [Format] interface.
func (f Integer) Parse(text string) (int64, error) {
	if !integerPattern.MatchString(text) {
		return 0, &SyntaxError{Format: f.Name(), Value: text}
	}

	n, err := strconv.ParseInt(text, 10, f.bits())
	if err != nil {
		return 0, &RangeError{Format: f.Name(), Value: text, Cause: err}
	}
	return n, nil
}

// Compare implements the [Format] interface.
func (Integer) Compare(a, b int64) int {
	return cmp.Compare(a, b)
}

// Typed implements the [Format] interface. Floating point
// values are accepted as long as they are whole numbers, since
// JSON decodes every number as a float64.
func (f Integer) Typed(v any) (int64, bool) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, false
		}
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		n = int64(x)
	case float32:
		return f.Typed(float64(x))
	case float64:
		if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64 {
			return 0, false
		}
		n = int64(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}
	if f.bits() == 32 && (n < math.MinInt32 || n > math.MaxInt32) {
		return 0, false
	}
	return n, true
}

// Round converts a fractional bound into the nearest integer inside
// it, rounding up for a minimum and down for a maximum. Every integer
// then satisfies the rounded bound exactly when it satisfies the
// fractional one, whether or not the bound is exclusive.
func (f Integer) Round(v any, up bool) (int64, bool) {
	var x float64
	switch n := v.(type) {
	case float64:
		x = n
	case float32:
		x = float64(n)
	case json.Number:
		y, err := n.Float64()
		if err != nil {
			return 0, false
		}
		x = y
	default:
		return 0, false
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || x == math.Trunc(x) {
		return 0, false
	}
	if up {
		x = math.Ceil(x)
	} else {
		x = math.Floor(x)
	}
	return f.Typed(x)
}

// Number is the "number" type with an optional "float" or "double" format.
type Number struct {
	// Bits is the bit size of the number. Zero is treated as 64.
	Bits int
}

// Name implements the [Format] interface.
func (f Number) Name() string {
	switch f.Bits {
	case 0:
		return "number"
	case 32:
		return "float"
	default:
		return "double"
	}
}

func (f Number) bits() int {
	if f.Bits == 0 {
		return 64
	}
	return f.Bits
}

// Parse implements the [Format] interface.
func (f Number) Parse(text string) (float64, error) {
	if !numberPattern.MatchString(text) {
		return 0, &SyntaxError{Format: f.Name(), Value: text}
	}

	x, err := strconv.ParseFloat(text, f.bits())
	if err != nil {
		return 0, &RangeError{Format: f.Name(), Value: text, Cause: err}
	}
	return x, nil
}

// Compare implements the [Format] interface.
func (Number) Compare(a, b float64) int {
	return cmp.Compare(a, b)
}

// Typed implements the [Format] interface. A "float" rounds the
// value to float32 precision, the same as [Number.Parse].
func (f Number) Typed(v any) (float64, bool) {
	var x float64
	switch n := v.(type) {
	case float64:
		x = n
	case float32:
		x = float64(n)
	case json.Number:
		y, err := n.Float64()
		if err != nil {
			return 0, false
		}
		x = y
	default:
		i, ok := Integer{}.Typed(v)
		if !ok {
			return 0, false
		}
		x = float64(i)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	if f.bits() == 32 {
		if math.Abs(x) > math.MaxFloat32 {
			return 0, false
		}
		// Parse rounds to float32 so typed values must as well
		// for the two to compare equal.
		x = float64(float32(x))
	}
	return x, true
}
