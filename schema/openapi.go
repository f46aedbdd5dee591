// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/z5labs/coerce/internal/ptr"

	"github.com/swaggest/openapi-go/openapi3"
)

// OpenAPI only allows numeric minimum and maximum values so
// bounds for formats like "date" are carried in these extensions.
const (
	extMinimum = "x-minimum"
	extMaximum = "x-maximum"
)

// OpenApi returns the OpenAPI 3 parameter described by the schema.
// A schema without a location is documented as a query parameter.
func (s *Schema) OpenApi() *openapi3.Parameter {
	typ := openapi3.SchemaType(s.ScalarType())

	sch := &openapi3.Schema{
		Type:             &typ,
		Format:           ptr.RefIf(s.Format, s.Format != ""),
		Pattern:          ptr.RefIf(s.Pattern, s.Pattern != ""),
		ExclusiveMinimum: ptr.RefIf(true, s.ExclusiveMinimum),
		ExclusiveMaximum: ptr.RefIf(true, s.ExclusiveMaximum),
	}
	if s.HasDefault() {
		sch.Default = ptr.Ref(s.Default)
	}
	if s.MaxLength != nil {
		sch.MaxLength = ptr.Ref(int64(*s.MaxLength))
	}
	sch.Enum = slices.Clone(s.Enum)

	sch.Minimum = s.documentBound(sch, extMinimum, s.Minimum)
	sch.Maximum = s.documentBound(sch, extMaximum, s.Maximum)

	in := s.In
	if in == "" {
		in = InQuery
	}

	return &openapi3.Parameter{
		Name:        s.Name,
		In:          openapi3.ParameterIn(in),
		Description: ptr.RefIf(s.Description, s.Description != ""),
		Required:    ptr.Ref(s.Required || in == InPath),
		Schema: &openapi3.SchemaOrRef{
			Schema: sch,
		},
	}
}

func (s *Schema) documentBound(sch *openapi3.Schema, ext string, bound any) *float64 {
	if bound == nil {
		return nil
	}
	if x, ok := s.numericBound(bound); ok {
		return &x
	}
	if sch.MapOfAnything == nil {
		sch.MapOfAnything = make(map[string]any)
	}
	if st, ok := bound.(fmt.Stringer); ok {
		sch.MapOfAnything[ext] = st.String()
		return nil
	}
	sch.MapOfAnything[ext] = bound
	return nil
}

// numericBound returns the bound as a float64 when the schema is
// numeric and the bound is either a Go number or numeric text.
func (s *Schema) numericBound(bound any) (float64, bool) {
	switch s.ScalarType() {
	case TypeInteger, TypeNumber:
	default:
		return 0, false
	}

	switch x := bound.(type) {
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

// ErrSchemaReference is returned by [FromOpenApi] when the parameter
// schema is a $ref, since references are not resolved.
var ErrSchemaReference = errors.New("parameter schema references are not supported")

// MissingSchemaError occurs when an OpenAPI parameter has no schema.
type MissingSchemaError struct {
	Parameter string
}

// Error implements the [error] interface.
func (e MissingSchemaError) Error() string {
	return fmt.Sprintf("parameter has no schema: %s", e.Parameter)
}

// FromOpenApi converts an OpenAPI 3 parameter into a [Schema].
// Numeric bounds are taken from "minimum" and "maximum", and all
// other bounds from the "x-minimum" and "x-maximum" extensions.
func FromOpenApi(p *openapi3.Parameter) (*Schema, error) {
	if p.Schema == nil {
		return nil, MissingSchemaError{Parameter: p.Name}
	}
	if p.Schema.Schema == nil {
		return nil, fmt.Errorf("%s: %w", p.Name, ErrSchemaReference)
	}
	sch := p.Schema.Schema

	s := &Schema{
		Name:             p.Name,
		In:               Location(p.In),
		Description:      ptr.Deref(p.Description),
		Type:             Type(ptr.Deref(sch.Type)),
		Format:           ptr.Deref(sch.Format),
		Required:         ptr.Deref(p.Required),
		Default:          ptr.Deref(sch.Default),
		ExclusiveMinimum: ptr.Deref(sch.ExclusiveMinimum),
		ExclusiveMaximum: ptr.Deref(sch.ExclusiveMaximum),
		Pattern:          ptr.Deref(sch.Pattern),
		Minimum:          bound(sch, sch.Minimum, extMinimum),
		Maximum:          bound(sch, sch.Maximum, extMaximum),
	}
	if sch.MaxLength != nil {
		s.MaxLength = ptr.Ref(int(*sch.MaxLength))
	}
	s.Enum = slices.Clone(sch.Enum)
	return s, nil
}

func bound(sch *openapi3.Schema, num *float64, ext string) any {
	if num != nil {
		return *num
	}
	v, ok := sch.MapOfAnything[ext]
	if !ok {
		return nil
	}
	return v
}
