// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package coerce

import "fmt"

type presence uint8

const (
	absent presence = iota
	blank
	present
)

// Input is the raw value of a parameter as it was received. It is
// either present with some text, present but blank, or absent.
//
// The zero value is an absent Input.
type Input struct {
	presence presence
	text     string
}

// Present returns an Input for a parameter which was supplied with the
// given text. An empty text is normalized to [Blank].
func Present(text string) Input {
	if text == "" {
		return Blank()
	}
	return Input{presence: present, text: text}
}

// Blank returns an Input for a parameter which was supplied without a value
// e.g. "?since=" in a query string.
func Blank() Input {
	return Input{presence: blank}
}

// Absent returns an Input for a parameter which was not supplied at all.
func Absent() Input {
	return Input{}
}

// Lookup returns [Absent] if ok is false and [Present] otherwise. It
// adapts the comma ok idiom used by lookups such as [os.LookupEnv].
func Lookup(text string, ok bool) Input {
	if !ok {
		return Absent()
	}
	return Present(text)
}

// Text returns the supplied text, which is empty for a blank Input.
// The boolean is false if the Input is absent.
func (in Input) Text() (string, bool) {
	return in.text, in.presence != absent
}

// IsAbsent reports whether the parameter was not supplied.
func (in Input) IsAbsent() bool {
	return in.presence == absent
}

// IsBlank reports whether the parameter was supplied without a value.
func (in Input) IsBlank() bool {
	return in.presence == blank
}

// String implements the [fmt.Stringer] interface.
func (in Input) String() string {
	switch in.presence {
	case present:
		return fmt.Sprintf("Present(%q)", in.text)
	case blank:
		return "Blank"
	default:
		return "Absent"
	}
}
