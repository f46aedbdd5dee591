// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package coerce

import (
	"fmt"

	"github.com/z5labs/coerce/schema"
)

// MissingRequiredError is the cause of the [*Error] returned for
// a required parameter which is absent and has no default.
type MissingRequiredError struct {
	Param string
}

// Error implements the [error] interface.
func (e MissingRequiredError) Error() string {
	return fmt.Sprintf("Missing required parameter \"%s\"", e.Param)
}

// require must run after resolve. A blank value is not missing,
// it fails later as an improperly formatted value.
func require(r resolved, param string, s *schema.Schema) error {
	if !s.Required || !r.missing() {
		return nil
	}
	return clientError(param, MissingRequiredError{Param: param})
}
