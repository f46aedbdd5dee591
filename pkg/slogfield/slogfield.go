// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package slogfield provides the slog attributes logged when a
// parameter is coerced, so every log line uses the same keys.
package slogfield

import (
	"fmt"
	"log/slog"
)

// Error returns an slog.Attr for an error.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// String returns an slog.Attr for a string.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Int returns an slog.Attr for a int.
func Int(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Param returns an slog.Attr for the name of a parameter.
func Param(name string) slog.Attr {
	return slog.String("param", name)
}

// Location returns an slog.Attr for where a parameter is found in a request.
func Location(in string) slog.Attr {
	return slog.String("param_in", in)
}

// Format returns an slog.Attr for the format a parameter is coerced to.
func Format(name string) slog.Attr {
	return slog.String("param_format", name)
}

// Class returns an slog.Attr for the class of a coercion error.
func Class(c fmt.Stringer) slog.Attr {
	return slog.String("error_class", c.String())
}

// StatusCode returns an slog.Attr for a HTTP status code.
func StatusCode(code int) slog.Attr {
	return slog.Int("http_status_code", code)
}
