// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package structural checks the raw text of a parameter against the
// length and pattern constraints of its schema.
//
// Structural checks run on the text exactly as it was received, before
// the text is parsed into a typed value. Enum membership depends on the
// parsed value so it is checked after parsing. Only its error,
// [EnumMismatchError], is defined here.
package structural

import (
	"fmt"
	"regexp"
	"sync"
	"unicode/utf8"

	"github.com/z5labs/coerce/schema"

	"github.com/go-playground/validator/v10"
)

// Checker validates raw parameter text against a schema.
type Checker interface {
	Check(text string, s *schema.Schema) error
}

// CheckerFunc is an adapter to allow the use of ordinary
// functions as a [Checker].
type CheckerFunc func(string, *schema.Schema) error

// Check implements the [Checker] interface.
func (f CheckerFunc) Check(text string, s *schema.Schema) error {
	return f(text, s)
}

// TooLongError occurs when the text has more characters than
// the schema's maxLength.
type TooLongError struct {
	Length  int
	Maximum int
}

// Error implements the [error] interface.
func (e TooLongError) Error() string {
	return fmt.Sprintf("String is too long (%d chars), maximum %d", e.Length, e.Maximum)
}

// TooShortError occurs when the text has fewer characters than
// the schema's minLength.
type TooShortError struct {
	Length  int
	Minimum int
}

// Error implements the [error] interface.
func (e TooShortError) Error() string {
	return fmt.Sprintf("String is too short (%d chars), minimum %d", e.Length, e.Minimum)
}

// PatternMismatchError occurs when the text does not match the
// schema's pattern.
type PatternMismatchError struct {
	Pattern string
}

// Error implements the [error] interface.
func (e PatternMismatchError) Error() string {
	return fmt.Sprintf("String does not match pattern: %s", e.Pattern)
}

// EnumMismatchError occurs when a parsed value is not equal
// to any of the schema's enumerated values.
type EnumMismatchError struct {
	Value string
}

// Error implements the [error] interface.
func (e EnumMismatchError) Error() string {
	return fmt.Sprintf(`No enum match for: "%s"`, e.Value)
}

// InvalidPatternError occurs when the schema's pattern is
// not a valid regular expression. Unlike the other errors
// of this package it describes a fault in the schema, not
// in the text being checked.
type InvalidPatternError struct {
	Pattern string
	Cause   error
}

// Error implements the [error] interface.
func (e InvalidPatternError) Error() string {
	return fmt.Sprintf(`The "pattern" value in the schema is invalid ("%s")`, e.Pattern)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidPatternError) Unwrap() error {
	return e.Cause
}

// Validator is the default [Checker]. Lengths are counted in
// characters, not bytes. Compiled patterns are cached so a
// Validator should be shared.
type Validator struct {
	validate *validator.Validate
	patterns sync.Map
}

// New returns a [Validator].
func New() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// Check implements the [Checker] interface. The constraints are
// checked in the order maxLength, minLength then pattern
// and the first violation is returned.
func (v *Validator) Check(text string, s *schema.Schema) error {
	if s.MaxLength != nil {
		err := v.validate.Var(text, fmt.Sprintf("max=%d", *s.MaxLength))
		if err != nil {
			return TooLongError{
				Length:  utf8.RuneCountInString(text),
				Maximum: *s.MaxLength,
			}
		}
	}
	if s.MinLength != nil {
		err := v.validate.Var(text, fmt.Sprintf("min=%d", *s.MinLength))
		if err != nil {
			return TooShortError{
				Length:  utf8.RuneCountInString(text),
				Minimum: *s.MinLength,
			}
		}
	}
	if s.Pattern != "" {
		re, err := v.Pattern(s.Pattern)
		if err != nil {
			return err
		}
		if !re.MatchString(text) {
			return PatternMismatchError{Pattern: s.Pattern}
		}
	}
	return nil
}

// Pattern returns the compiled form of the given pattern. The
// pattern is unanchored, as in JSON Schema.
func (v *Validator) Pattern(pattern string) (*regexp.Regexp, error) {
	if re, ok := v.patterns.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, InvalidPatternError{Pattern: pattern, Cause: err}
	}
	actual, _ := v.patterns.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp), nil
}
