// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package coerce

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/z5labs/coerce/format"
	"github.com/z5labs/coerce/schema"
	"github.com/z5labs/coerce/structural"
)

// Bound is a minimum or maximum declared by a schema. It is either
// the raw text of a value in the parameter format or an already
// typed value.
type Bound[T any] struct {
	set   bool
	raw   bool
	text  string
	value T

	// rounded is set when a fractional bound was rounded to the
	// nearest integer inside it. Equality with the rounded value
	// is then always allowed.
	rounded bool
}

// RawBound returns a Bound given as text.
func RawBound[T any](text string) Bound[T] {
	return Bound[T]{set: true, raw: true, text: text}
}

// TypedBound returns a Bound given as a typed value.
func TypedBound[T any](v T) Bound[T] {
	return Bound[T]{set: true, value: v, text: display(v)}
}

// IsSet reports whether the bound was declared.
func (b Bound[T]) IsSet() bool {
	return b.set
}

// IsRaw reports whether the bound is still unparsed text.
func (b Bound[T]) IsRaw() bool {
	return b.raw
}

// String returns the bound as it appears in error messages.
func (b Bound[T]) String() string {
	return b.text
}

// boundOf converts a schema bound into a Bound. A value of the
// wrong Go type is reported the same way as unparsable text.
func boundOf[T any](f format.Format[T], param, field string, v any) (Bound[T], error) {
	switch x := v.(type) {
	case nil:
		return Bound[T]{}, nil
	case string:
		return RawBound[T](x), nil
	}

	t, ok := f.Typed(v)
	if ok {
		return Bound[T]{set: true, text: display(v), value: t}, nil
	}
	if r, isRounder := f.(rounder[T]); isRounder && field != "default" && field != "enum" {
		t, ok = r.Round(v, field == "minimum")
		if ok {
			return Bound[T]{set: true, text: display(v), value: t, rounded: true}, nil
		}
	}
	return Bound[T]{}, invalidSchemaValue(param, field, display(v), nil)
}

// rounder is implemented by formats which can satisfy a bound
// they cannot represent exactly e.g. an integer with a maximum of 5.5.
type rounder[T any] interface {
	Round(v any, up bool) (T, bool)
}

// resolve parses a raw bound. Typed and unset bounds are returned unchanged.
func (b Bound[T]) resolve(f format.Format[T], param, field string) (Bound[T], error) {
	if !b.raw {
		return b, nil
	}
	v, err := f.Parse(b.text)
	if err != nil {
		return Bound[T]{}, invalidSchemaValue(param, field, b.text, err)
	}
	return Bound[T]{set: true, text: b.text, value: v}, nil
}

// bounds resolves the minimum, maximum and enum of a schema at most
// once. A resolution failure is kept and returned for every later value.
type bounds[T any] struct {
	once     sync.Once
	min, max Bound[T]
	enum     []T
	err      error
}

func (b *bounds[T]) resolve(f format.Format[T], param string, s *schema.Schema) error {
	b.once.Do(func() {
		b.min, b.max, b.err = resolveBounds(f, param, s)
		if b.err != nil {
			return
		}
		b.enum, b.err = resolveEnum(f, param, s)
	})
	return b.err
}

func resolveEnum[T any](f format.Format[T], param string, s *schema.Schema) ([]T, error) {
	if len(s.Enum) == 0 {
		return nil, nil
	}
	values := make([]T, 0, len(s.Enum))
	for _, v := range s.Enum {
		b, err := resolveValue(f, param, "enum", v)
		if err != nil {
			return nil, err
		}
		if !b.set {
			return nil, invalidSchemaValue(param, "enum", display(v), nil)
		}
		values = append(values, b.value)
	}
	return values, nil
}

// resolveValue converts and, if needed, parses a single value
// declared by the schema.
func resolveValue[T any](f format.Format[T], param, field string, v any) (Bound[T], error) {
	b, err := boundOf(f, param, field, v)
	if err != nil {
		return Bound[T]{}, err
	}
	return b.resolve(f, param, field)
}

// resolveBounds resolves both bounds before either is compared so a
// malformed bound is reported no matter the value.
func resolveBounds[T any](f format.Format[T], param string, s *schema.Schema) (lo, hi Bound[T], err error) {
	lo, err = resolveValue(f, param, "minimum", s.Minimum)
	if err != nil {
		return
	}
	hi, err = resolveValue(f, param, "maximum", s.Maximum)
	return
}

// BoundError is the cause of the [*Error] returned for a value
// outside of the bounds of its schema.
type BoundError struct {
	Value     string
	Bound     string
	Maximum   bool
	Exclusive bool
}

// Error implements the [error] interface.
func (e BoundError) Error() string {
	switch {
	case e.Maximum && e.Exclusive:
		return fmt.Sprintf(`"%s" is equal to exclusive maximum %s`, e.Value, e.Bound)
	case e.Maximum:
		return fmt.Sprintf(`"%s" is greater than maximum %s`, e.Value, e.Bound)
	case e.Exclusive:
		return fmt.Sprintf(`"%s" is equal to exclusive minimum %s`, e.Value, e.Bound)
	default:
		return fmt.Sprintf(`"%s" is less than minimum %s`, e.Value, e.Bound)
	}
}

func (b *bounds[T]) check(f format.Format[T], param string, s *schema.Schema, v T, text string) error {
	if len(b.enum) > 0 && !slices.ContainsFunc(b.enum, func(e T) bool { return f.Compare(v, e) == 0 }) {
		return clientError(param, structural.EnumMismatchError{Value: text})
	}
	if b.min.set {
		c := f.Compare(v, b.min.value)
		if c < 0 || (c == 0 && s.ExclusiveMinimum && !b.min.rounded) {
			return clientError(param, BoundError{
				Value:     text,
				Bound:     b.min.text,
				Exclusive: c == 0,
			})
		}
	}
	if b.max.set {
		c := f.Compare(v, b.max.value)
		if c > 0 || (c == 0 && s.ExclusiveMaximum && !b.max.rounded) {
			return clientError(param, BoundError{
				Value:     text,
				Bound:     b.max.text,
				Maximum:   true,
				Exclusive: c == 0,
			})
		}
	}
	return nil
}

// display formats a typed value the way it would be written as text.
func display(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case *time.Time:
		if x != nil {
			return x.Format(time.RFC3339Nano)
		}
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
