// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"fmt"

	"github.com/z5labs/coerce/config"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type document struct {
	Parameters []Schema `config:"parameters" validate:"dive"`
}

// InvalidDocumentError occurs when a parameter document decodes
// successfully but one of its schemas is not well formed.
type InvalidDocumentError struct {
	Cause error
}

// Error implements the [error] interface.
func (e InvalidDocumentError) Error() string {
	return fmt.Sprintf("invalid parameter document: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidDocumentError) Unwrap() error {
	return e.Cause
}

// DuplicateParameterError occurs when two schemas in the same
// location share a name.
type DuplicateParameterError struct {
	Name string
	In   Location
}

// Error implements the [error] interface.
func (e DuplicateParameterError) Error() string {
	return fmt.Sprintf("duplicate %s parameter: %s", e.In, e.Name)
}

// Load reads the "parameters" list from the given sources. Later
// sources replace the list of earlier sources rather than merging with it.
//
//	parameters:
//	  - name: since
//	    in: query
//	    type: string
//	    format: date
//	    minimum: "2009-08-12"
func Load(srcs ...config.Source) ([]Schema, error) {
	m, err := config.Read(srcs...)
	if err != nil {
		return nil, err
	}

	var doc document
	err = m.Unmarshal(&doc)
	if err != nil {
		return nil, err
	}

	err = validate.Struct(doc)
	if err != nil {
		return nil, InvalidDocumentError{Cause: err}
	}

	type id struct {
		name string
		in   Location
	}
	seen := make(map[id]struct{}, len(doc.Parameters))
	for _, s := range doc.Parameters {
		k := id{name: s.Name, in: s.In}
		if _, ok := seen[k]; ok {
			return nil, DuplicateParameterError{Name: s.Name, In: s.In}
		}
		seen[k] = struct{}{}
	}
	return doc.Parameters, nil
}
