// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"net/http"
)

type responseHeaderKey struct{}

// SetResponseHeader sets a header on the response to the request
// being handled. It must be called before the [Handler] returns and
// does nothing outside of an [Operation].
func SetResponseHeader(ctx context.Context, key, value string) {
	h, ok := ctx.Value(responseHeaderKey{}).(http.Header)
	if !ok {
		return
	}
	h.Set(key, value)
}

func withResponseHeader(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, responseHeaderKey{}, w.Header())
}
