// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package mux registers method qualified routes with a [http.ServeMux]
// and answers requests which match no route with a JSON error body.
package mux

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
)

// Method defines an HTTP method expected to be used in a RESTful API.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodHead   Method = http.MethodHead
	MethodPut    Method = http.MethodPut
	MethodPost   Method = http.MethodPost
	MethodDelete Method = http.MethodDelete
)

// HttpOption defines a configuration option for [Http].
type HttpOption func(*Http)

// NotFoundHandler overrides the [http.Handler] used for requests
// whose path matches no registered pattern.
func NotFoundHandler(h http.Handler) HttpOption {
	return func(mux *Http) {
		mux.notFound = h
	}
}

// MethodNotAllowedHandler overrides the [http.Handler] used for requests
// whose path is registered but not for the request method.
func MethodNotAllowedHandler(h http.Handler) HttpOption {
	return func(mux *Http) {
		mux.methodNotAllowed = h
	}
}

// Http wraps a [http.ServeMux]. Unmatched requests are answered by
// [StatusHandler] unless overridden by [NotFoundHandler] or
// [MethodNotAllowedHandler].
type Http struct {
	mux *http.ServeMux

	initFallbacksOnce sync.Once
	notFound          http.Handler
	methodNotAllowed  http.Handler

	pathMethods map[string][]Method
}

// NewHttp initializes a request multiplexer using the standard [http.ServeMux].
func NewHttp(opts ...HttpOption) *Http {
	mux := &Http{
		mux:              http.NewServeMux(),
		notFound:         StatusHandler(http.StatusNotFound),
		methodNotAllowed: StatusHandler(http.StatusMethodNotAllowed),
		pathMethods:      make(map[string][]Method),
	}
	for _, opt := range opts {
		opt(mux)
	}
	return mux
}

// Handle registers h for "method pattern" with the underlying [http.ServeMux].
// A pattern without a trailing "/" or "{$}" is also registered with a trailing "/".
func (m *Http) Handle(method Method, pattern string, h http.Handler) {
	m.handle(method, pattern, h)

	if strings.HasSuffix(pattern, "/") || strings.HasSuffix(pattern, "{$}") || strings.HasSuffix(pattern, "...}") {
		return
	}
	m.handle(method, pattern+"/", h)
}

func (m *Http) handle(method Method, pattern string, h http.Handler) {
	m.pathMethods[pattern] = append(m.pathMethods[pattern], method)
	m.mux.Handle(fmt.Sprintf("%s %s", method, pattern), h)
}

// ServeHTTP implements the [http.Handler] interface.
func (m *Http) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.initFallbacksOnce.Do(m.registerFallbackHandlers)

	m.mux.ServeHTTP(w, r)
}

func (m *Http) registerFallbackHandlers() {
	if m.notFound != nil {
		m.mux.Handle("/{path...}", m.notFound)
	}
	if m.methodNotAllowed == nil {
		return
	}

	// this list is pulled from the OpenAPI v3 Path Item Object documentation.
	supportedMethods := []Method{
		http.MethodGet,
		http.MethodPut,
		http.MethodPost,
		http.MethodDelete,
		http.MethodOptions,
		http.MethodHead,
		http.MethodPatch,
		http.MethodTrace,
	}

	for path, methods := range m.pathMethods {
		allow := allowHandler{
			allow: joinMethods(methods),
			next:  m.methodNotAllowed,
		}
		for _, method := range diffSets(supportedMethods, methods) {
			m.mux.Handle(fmt.Sprintf("%s %s", method, path), allow)
		}
	}
}

type allowHandler struct {
	allow string
	next  http.Handler
}

func (h allowHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", h.allow)
	h.next.ServeHTTP(w, r)
}

func joinMethods(methods []Method) string {
	ss := make([]string, 0, len(methods))
	for _, method := range methods {
		ss = append(ss, string(method))
	}
	slices.Sort(ss)
	return strings.Join(slices.Compact(ss), ", ")
}

func diffSets[T comparable](xs, ys []T) []T {
	zs := make([]T, 0, len(xs))
	for _, x := range xs {
		if slices.Contains(ys, x) {
			continue
		}
		zs = append(zs, x)
	}
	return zs
}

// StatusHandler responds with the given status code and
// a JSON body of the form {"message": "<status text>"}.
type StatusHandler int

// ServeHTTP implements the [http.Handler] interface.
func (h StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(int(h))

	_ = json.NewEncoder(w).Encode(struct {
		Message string `json:"message"`
	}{
		Message: http.StatusText(int(h)),
	})
}
