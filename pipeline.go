// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package coerce

import (
	"github.com/z5labs/coerce/format"
	"github.com/z5labs/coerce/schema"
	"github.com/z5labs/coerce/structural"
)

var defaultChecker = structural.New()

type options struct {
	checker structural.Checker
}

// Option configures a [Pipeline] or [Coercer].
type Option func(*options)

// WithStructural replaces the checker used for the structural
// constraints of the schema e.g. maxLength, pattern and enum.
func WithStructural(c structural.Checker) Option {
	return func(o *options) {
		o.checker = c
	}
}

// Pipeline coerces the raw input of a single parameter into a T.
//
// A Pipeline is safe for concurrent use. The bounds of its schema
// are parsed the first time they are needed and reused afterwards.
type Pipeline[T any] struct {
	name    string
	schema  *schema.Schema
	format  format.Format[T]
	checker structural.Checker
	bounds  bounds[T]
}

// New returns a Pipeline for the named parameter. The schema must
// not be modified after it is given to New.
func New[T any](name string, s *schema.Schema, f format.Format[T], opts ...Option) *Pipeline[T] {
	o := &options{
		checker: defaultChecker,
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Pipeline[T]{
		name:    name,
		schema:  s,
		format:  f,
		checker: o.checker,
	}
}

// Name returns the name of the parameter.
func (p *Pipeline[T]) Name() string {
	return p.name
}

// Schema returns the schema of the parameter.
func (p *Pipeline[T]) Schema() *schema.Schema {
	return p.schema
}

// Coerce converts the given input into a T. The boolean is false, with a
// nil error, when the parameter is absent, optional and has no default.
// Any returned error is an [*Error].
func (p *Pipeline[T]) Coerce(in Input) (T, bool, error) {
	var zero T

	r := resolve(in, p.schema)

	err := require(r, p.name, p.schema)
	if err != nil {
		return zero, false, err
	}
	if r.missing() {
		return zero, false, nil
	}

	// A malformed bound rejects every value, even one which
	// would fail to parse.
	err = p.bounds.resolve(p.format, p.name, p.schema)
	if err != nil {
		return zero, false, err
	}

	v, text, err := p.value(r)
	if err != nil {
		return zero, false, err
	}

	err = p.bounds.check(p.format, p.name, p.schema, v, text)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// value returns the typed value of the input along with its text
// for use in error messages.
func (p *Pipeline[T]) value(r resolved) (T, string, error) {
	if r.isTyped {
		v, ok := p.format.Typed(r.typed)
		if !ok {
			var zero T
			return zero, "", invalidSchemaValue(p.name, "default", display(r.typed), nil)
		}
		return v, display(v), nil
	}

	text, _ := r.in.Text()
	err := p.checker.Check(text, p.schema)
	if err != nil {
		var zero T
		return zero, "", classify(p.name, err)
	}

	v, err := p.format.Parse(text)
	if err != nil {
		var zero T
		return zero, "", classify(p.name, err)
	}
	return v, text, nil
}
