// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package coerce

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/z5labs/coerce/structural"
)

// Class distinguishes errors caused by the supplied value from
// errors caused by the schema describing it.
type Class int

const (
	// Client errors mean the supplied value is unacceptable.
	Client Class = iota + 1

	// Server errors mean the schema is malformed and no value
	// could ever be accepted.
	Server
)

// String implements the [fmt.Stringer] interface.
func (c Class) String() string {
	switch c {
	case Client:
		return "client"
	case Server:
		return "server"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// StatusCode returns the HTTP status code conventionally used for the class.
func (c Class) StatusCode() int {
	if c == Client {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error is the only type of error returned when coercing a parameter.
type Error struct {
	Class   Class
	Param   string
	Message string
	Cause   error
}

// Error implements the [error] interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status code for the class of the error.
func (e *Error) StatusCode() int {
	return e.Class.StatusCode()
}

// ServeHTTP implements the [http.Handler] interface. The error
// is rendered as a JSON object with its message.
func (e *Error) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode())

	enc := json.NewEncoder(w)
	_ = enc.Encode(struct {
		Param   string `json:"param,omitempty"`
		Message string `json:"message"`
	}{
		Param:   e.Param,
		Message: e.Message,
	})
}

// IsClient reports whether err is a [Client] class [*Error].
func IsClient(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Class == Client
}

// IsServer reports whether err is a [Server] class [*Error].
func IsServer(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Class == Server
}

func clientError(param string, cause error) *Error {
	return &Error{
		Class:   Client,
		Param:   param,
		Message: cause.Error(),
		Cause:   cause,
	}
}

func invalidSchemaValue(param, field, raw string, cause error) *Error {
	return &Error{
		Class:   Server,
		Param:   param,
		Message: fmt.Sprintf(`The "%s" value in the schema is invalid ("%s")`, field, raw),
		Cause:   cause,
	}
}

// classify converts an error from the structural or parsing stage into
// an [*Error]. Only a malformed pattern is the fault of the schema; any
// other failure, including a [*format.SyntaxError] or [*format.RangeError],
// is the fault of the value.
func classify(param string, err error) *Error {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr
	}

	var perr structural.InvalidPatternError
	if errors.As(err, &perr) {
		return &Error{
			Class:   Server,
			Param:   param,
			Message: perr.Error(),
			Cause:   err,
		}
	}
	return clientError(param, err)
}
