// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"strings"
)

// Path locates a value in nested maps e.g. Path{"http", "port"}.
type Path []string

// String returns the path joined with "." e.g. "http.port".
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Map is an ordinary map[string]any which implements both
// the [Source] and [Store] interfaces.
type Map map[string]any

// Apply implements the [Source] interface. Nested maps are merged
// into the store key by key. Any other value, lists included,
// replaces whatever the store held at its path.
func (m Map) Apply(store Store) error {
	return walkMap(m, store, nil)
}

func walkMap(m map[string]any, store Store, parent Path) error {
	for k, v := range m {
		// copy the parent so sibling keys never share a backing array
		path := append(parent[:len(parent):len(parent)], k)

		sub, ok := v.(map[string]any)
		if !ok {
			err := store.Set(path, v)
			if err != nil {
				return err
			}
			continue
		}

		err := walkMap(sub, store, path)
		if err != nil {
			return err
		}
	}
	return nil
}

// EmptyPathError occurs when a value is set with a [Path] of length zero.
type EmptyPathError struct {
	Value any
}

// Error implements the error interface.
func (e EmptyPathError) Error() string {
	return fmt.Sprintf("attempted to set value to an empty path: %v", e.Value)
}

// NotAMapError occurs when a source nests a key under
// a key which was previously set to a non-map value.
type NotAMapError struct {
	Path Path
}

// Error implements the error interface.
func (e NotAMapError) Error() string {
	return fmt.Sprintf("expected a map at %s", e.Path)
}

// Set implements the [Store] interface.
func (m Map) Set(p Path, v any) error {
	if len(p) == 0 {
		return EmptyPathError{Value: v}
	}

	cur := map[string]any(m)
	for i, k := range p[:len(p)-1] {
		old, ok := cur[k]
		if !ok {
			old = make(map[string]any)
			cur[k] = old
		}

		next, ok := old.(map[string]any)
		if !ok {
			return NotAMapError{Path: p[:i+1]}
		}
		cur = next
	}
	cur[p[len(p)-1]] = v
	return nil
}
