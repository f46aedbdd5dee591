// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Store is written to by a [Source].
type Store interface {
	Set(Path, any) error
}

// Source writes its values into a [Store].
type Source interface {
	Apply(Store) error
}

// SourceError occurs when a [Source] passed to [Read] fails.
type SourceError struct {
	// Index of the failing source in the arguments to [Read].
	Index int

	Cause error
}

// Error implements the error interface.
func (e SourceError) Error() string {
	return fmt.Sprintf("failed to apply config source %d: %s", e.Index, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e SourceError) Unwrap() error {
	return e.Cause
}

// Manager holds the merged values of one or more sources.
type Manager struct {
	values Map
}

// Read applies every source, in order, to a new [Manager]
// so values from later sources override earlier ones.
func Read(srcs ...Source) (*Manager, error) {
	values := make(Map)
	for i, src := range srcs {
		err := src.Apply(values)
		if err != nil {
			return nil, SourceError{Index: i, Cause: err}
		}
	}
	return &Manager{values: values}, nil
}

// UnmarshalError occurs when the merged values cannot be decoded
// into the value passed to [Manager.Unmarshal].
type UnmarshalError struct {
	Cause error
}

// Error implements the error interface.
func (e UnmarshalError) Error() string {
	return fmt.Sprintf("failed to unmarshal config: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e UnmarshalError) Unwrap() error {
	return e.Cause
}

// Unmarshal decodes the merged values into v, which must be a pointer.
// Struct fields are matched using the "config" tag and string values
// are decoded with [encoding.TextUnmarshaler] where a field implements it.
func (m *Manager) Unmarshal(v any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "config",
		Result:  v,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return UnmarshalError{Cause: err}
	}

	err = dec.Decode(map[string]any(m.values))
	if err != nil {
		return UnmarshalError{Cause: err}
	}
	return nil
}
