// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package coerce

import (
	"errors"
	"time"

	"github.com/z5labs/coerce/format"
	"github.com/z5labs/coerce/schema"

	"cloud.google.com/go/civil"
)

// Coercer is a [Pipeline] whose value type is chosen at runtime from
// the type and format of its schema.
type Coercer interface {
	Name() string
	Schema() *schema.Schema

	// Coerce returns the typed value of the input or nil when the
	// parameter has no value. Any returned error is an [*Error].
	Coerce(Input) (any, error)

	// Verify reports every malformed value declared by the schema.
	Verify() error
}

type coercer[T any] struct {
	*Pipeline[T]
}

func (c coercer[T]) Coerce(in Input) (any, error) {
	v, ok, err := c.Pipeline.Coerce(in)
	if err != nil || !ok {
		return nil, err
	}
	return v, nil
}

// Verify checks the bounds, default, enum and pattern of the schema
// without coercing a value. Unlike [Pipeline.Coerce] it does not stop
// at the first malformed value.
//
// Every problem is a [Server] error, including a default given as text
// which [Pipeline.Coerce] would parse like a request value and so
// report as a [Client] error.
func (p *Pipeline[T]) Verify() error {
	type field struct {
		name  string
		value any
	}
	fields := []field{
		{name: "minimum", value: p.schema.Minimum},
		{name: "maximum", value: p.schema.Maximum},
		{name: "default", value: p.schema.Default},
	}
	for _, v := range p.schema.Enum {
		fields = append(fields, field{name: "enum", value: v})
	}

	var errs []error
	for _, field := range fields {
		_, err := resolveValue(p.format, p.name, field.name, field.value)
		if err != nil {
			errs = append(errs, err)
		}
	}
	if p.schema.Pattern != "" {
		_, err := defaultChecker.Pattern(p.schema.Pattern)
		if err != nil {
			errs = append(errs, classify(p.name, err))
		}
	}
	return errors.Join(errs...)
}

type compileFunc func(string, *schema.Schema, ...Option) Coercer

func compiler[T any](f format.Format[T]) compileFunc {
	return func(name string, s *schema.Schema, opts ...Option) Coercer {
		return coercer[T]{Pipeline: New(name, s, f, opts...)}
	}
}

type formatKey struct {
	typ    schema.Type
	format string
}

var registry = map[formatKey]compileFunc{
	{schema.TypeString, ""}:          compiler[string](format.String{}),
	{schema.TypeString, "date"}:      compiler[civil.Date](format.Date{}),
	{schema.TypeString, "date-time"}: compiler[time.Time](format.DateTime{}),
	{schema.TypeInteger, ""}:         compiler[int64](format.Integer{}),
	{schema.TypeInteger, "int32"}:    compiler[int64](format.Integer{Bits: 32}),
	{schema.TypeInteger, "int64"}:    compiler[int64](format.Integer{Bits: 64}),
	{schema.TypeNumber, ""}:          compiler[float64](format.Number{}),
	{schema.TypeNumber, "float"}:     compiler[float64](format.Number{Bits: 32}),
	{schema.TypeNumber, "double"}:    compiler[float64](format.Number{Bits: 64}),
	{schema.TypeBoolean, ""}:         compiler[bool](format.Boolean{}),
}

// Compile returns a [Coercer] for the named parameter. The format is
// selected once from the type and format of the schema. An unknown
// format is ignored, as in JSON Schema, but an unknown type or an
// invalid pattern is a [Server] error.
func Compile(name string, s *schema.Schema, opts ...Option) (Coercer, error) {
	typ := s.ScalarType()
	compile, ok := registry[formatKey{typ: typ, format: s.Format}]
	if !ok {
		compile, ok = registry[formatKey{typ: typ}]
	}
	if !ok {
		return nil, invalidSchemaValue(name, "type", string(typ), nil)
	}

	if s.Pattern != "" {
		_, err := defaultChecker.Pattern(s.Pattern)
		if err != nil {
			return nil, classify(name, err)
		}
	}
	return compile(name, s, opts...), nil
}

// Validate coerces a single input with the given schema. It is
// equivalent to calling [Compile] followed by [Coercer.Coerce]
// so a [Coercer] should be preferred when a schema is reused.
func Validate(in Input, s *schema.Schema, name string) (any, error) {
	c, err := Compile(name, s)
	if err != nil {
		return nil, err
	}
	return c.Coerce(in)
}
