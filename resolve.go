// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package coerce

import "github.com/z5labs/coerce/schema"

// resolved is an Input after default substitution. A default
// declared as a typed value, rather than text, is carried in
// typed and never parsed.
type resolved struct {
	in      Input
	typed   any
	isTyped bool
}

func (r resolved) missing() bool {
	return !r.isTyped && r.in.IsAbsent()
}

// resolve substitutes the schema default for an absent or blank
// input. A supplied, non-blank value is never replaced.
func resolve(in Input, s *schema.Schema) resolved {
	if in.presence == present || !s.HasDefault() {
		return resolved{in: in}
	}
	if text, ok := s.Default.(string); ok {
		return resolved{in: Present(text)}
	}
	return resolved{typed: s.Default, isTyped: true}
}
