// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/z5labs/coerce/internal/try"

	"gopkg.in/yaml.v3"
)

// Document is a [Source] whose values are decoded from an encoded
// document e.g. a YAML or JSON file.
type Document struct {
	r       io.Reader
	format  string
	decoder func([]byte, any) error
}

// FromJson returns a [Document] which decodes r as JSON.
func FromJson(r io.Reader) Document {
	return Document{
		r:       r,
		format:  "json",
		decoder: json.Unmarshal,
	}
}

// FromYaml returns a [Document] which decodes r as YAML.
//
// Unquoted timestamps e.g. 2009-08-12 are kept as strings.
func FromYaml(r io.Reader) Document {
	return Document{
		r:       r,
		format:  "yaml",
		decoder: yaml.Unmarshal,
	}
}

// DecodeError occurs if a [Document] is not valid in its format.
type DecodeError struct {
	// Format is either "json" or "yaml".
	Format string

	// Name is the name of the underlying file, if known.
	Name string

	Cause error
}

// Error implements the error interface.
func (e DecodeError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid %s: %s", e.Format, e.Cause)
	}
	return fmt.Sprintf("invalid %s in %s: %s", e.Format, e.Name, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e DecodeError) Unwrap() error {
	return e.Cause
}

// Apply implements the [Source] interface. The underlying reader
// is closed once it has been read if it implements [io.Closer].
func (d Document) Apply(store Store) (err error) {
	defer try.Close(&err, d.r)

	b, err := io.ReadAll(d.r)
	if err != nil {
		return err
	}

	m := make(map[string]any)
	err = d.decoder(b, &m)
	if err != nil {
		return DecodeError{
			Format: d.format,
			Name:   nameOf(d.r),
			Cause:  err,
		}
	}
	return Map(m).Apply(store)
}

func nameOf(r io.Reader) string {
	n, ok := r.(interface{ Name() string })
	if !ok {
		return ""
	}
	return n.Name()
}
