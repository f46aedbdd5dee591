// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package schema describes the expected shape of a single request parameter.
//
// A [Schema] is a small subset of an OpenAPI parameter and its JSON Schema:
// the scalar type and format, a default, whether the parameter is required,
// inclusive or exclusive bounds, and a few structural constraints.
//
// Bounds and defaults may be given either as text in the parameter's format
// e.g. "2009-08-12", or as already typed values e.g. a civil.Date or an int.
package schema

import (
	"strings"
)

// Type is the JSON Schema type of a scalar parameter.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
)

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// It normalizes the case of the type name.
func (t *Type) UnmarshalText(b []byte) error {
	*t = Type(strings.ToLower(strings.TrimSpace(string(b))))
	return nil
}

// Location is where in a HTTP request a parameter is found.
type Location string

const (
	InQuery  Location = "query"
	InHeader Location = "header"
	InPath   Location = "path"
	InCookie Location = "cookie"
	InBody   Location = "body"
)

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// It normalizes the case of the location name.
func (l *Location) UnmarshalText(b []byte) error {
	*l = Location(strings.ToLower(strings.TrimSpace(string(b))))
	return nil
}

// Schema describes a single scalar parameter.
//
// A Schema is never modified by this module and may be shared
// between goroutines.
type Schema struct {
	Name        string   `config:"name" validate:"required"`
	In          Location `config:"in" validate:"omitempty,oneof=query header path cookie body"`
	Description string   `config:"description"`

	// Type defaults to [TypeString] when empty.
	Type   Type   `config:"type" validate:"omitempty,oneof=string integer number boolean"`
	Format string `config:"format"`

	Required bool `config:"required"`
	Default  any  `config:"default"`

	Minimum          any  `config:"minimum"`
	Maximum          any  `config:"maximum"`
	ExclusiveMinimum bool `config:"exclusiveMinimum"`
	ExclusiveMaximum bool `config:"exclusiveMaximum"`

	MinLength *int   `config:"minLength" validate:"omitempty,min=0"`
	MaxLength *int   `config:"maxLength" validate:"omitempty,min=0"`
	Pattern   string `config:"pattern"`

	// Enum values follow the same rules as Minimum and Maximum: text
	// is parsed in the parameter format and anything else must already
	// be a value of that format e.g. 1 for an integer.
	Enum []any `config:"enum"`
}

// ScalarType returns the type of the schema, defaulting to [TypeString].
func (s *Schema) ScalarType() Type {
	if s.Type == "" {
		return TypeString
	}
	return s.Type
}

// HasDefault reports whether the schema declares a default value.
func (s *Schema) HasDefault() bool {
	return s.Default != nil
}
