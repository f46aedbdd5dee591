// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package rest serves a set of coercing endpoints over HTTP
// alongside the OpenAPI document which describes them.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/z5labs/coerce/rest/mux"

	"github.com/swaggest/openapi-go/openapi3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Option represents configurable attributes of [App].
type Option func(*App)

// Listener allows you to configure the [net.Listener] for
// the underlying [http.Server] to use for serving requests.
//
// If neither this option nor [ListenOn] is supplied, then [net.Listen]
// will be used to create a [net.Listener] for "tcp" and address ":80".
func Listener(ls net.Listener) Option {
	return func(a *App) {
		a.ls = ls
	}
}

// ListenOn configures the port the [App] listens on.
func ListenOn(port uint) Option {
	return func(a *App) {
		a.addr = fmt.Sprintf(":%d", port)
	}
}

// OpenApiEndpoint registers a [http.Handler] with the underlying mux
// meant for serving the OpenAPI document. It may be given more than
// once to serve the document in several encodings.
func OpenApiEndpoint(method mux.Method, pattern string, f func(*openapi3.Spec) http.Handler) Option {
	return func(a *App) {
		a.openApiEndpoints = append(a.openApiEndpoints, func(mux Mux) {
			mux.Handle(method, pattern, f(a.spec))
		})
	}
}

type openApiHandler struct {
	spec        *openapi3.Spec
	contentType string
	marshal     func(*openapi3.Spec) ([]byte, error)
}

func (h openApiHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, err := h.marshal(h.spec)
	if err != nil {
		mux.StatusHandler(http.StatusInternalServerError).ServeHTTP(w, r)
		return
	}

	w.Header().Set("Content-Type", h.contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// OpenApiJsonHandler returns an [http.Handler] which will respond with the OpenAPI document as JSON.
func OpenApiJsonHandler(spec *openapi3.Spec) http.Handler {
	return openApiHandler{
		spec:        spec,
		contentType: "application/json",
		marshal: func(spec *openapi3.Spec) ([]byte, error) {
			return json.Marshal(spec)
		},
	}
}

// OpenApiYamlHandler returns an [http.Handler] which will respond with the OpenAPI document as YAML.
//
// The document is first rendered as JSON so the custom marshalers of
// [openapi3.Spec] decide its shape, then re-encoded as YAML.
func OpenApiYamlHandler(spec *openapi3.Spec) http.Handler {
	return openApiHandler{
		spec:        spec,
		contentType: "application/yaml",
		marshal: func(spec *openapi3.Spec) ([]byte, error) {
			b, err := json.Marshal(spec)
			if err != nil {
				return nil, err
			}

			var doc any
			err = yaml.Unmarshal(b, &doc)
			if err != nil {
				return nil, err
			}
			return yaml.Marshal(doc)
		},
	}
}

// Operation represents anything that can handle HTTP requests
// and provide OpenAPI documentation for itself.
type Operation interface {
	http.Handler

	OpenApi() openapi3.Operation
}

// Endpoint represents all information necessary for registering
// an [Operation] with a [App].
type Endpoint struct {
	Method    mux.Method
	Pattern   string
	Operation Operation
}

// Register registers the [Endpoint] with both
// the App wide OpenAPI document and the App wide HTTP server.
//
// "/" is always treated as "/{$}" because it would otherwise
// match too broadly and cause conflicts with other paths.
func Register(e Endpoint) Option {
	return func(app *App) {
		app.endpoints = append(app.endpoints, e)
	}
}

// Title sets the title of the API in its OpenAPI document.
func Title(s string) Option {
	return func(a *App) {
		a.spec.Info.Title = s
	}
}

// Version sets the API version in its OpenAPI document.
func Version(s string) Option {
	return func(a *App) {
		a.spec.Info.Version = s
	}
}

// Mux
type Mux interface {
	http.Handler

	Handle(method mux.Method, pattern string, h http.Handler)
}

// WithMux
func WithMux(m Mux) Option {
	return func(a *App) {
		a.mux = m
	}
}

// App serves registered endpoints over HTTP.
type App struct {
	ls   net.Listener
	addr string

	spec      *openapi3.Spec
	mux       Mux
	endpoints []Endpoint

	openApiEndpoints []func(Mux)

	listen func(network, addr string) (net.Listener, error)

	initHandlerOnce sync.Once
	handler         http.Handler
	handlerErr      error
}

// NewApp initializes a [App].
func NewApp(opts ...Option) *App {
	app := &App{
		addr: ":80",
		spec: &openapi3.Spec{
			Openapi: "3.0.3",
		},
		mux:    mux.NewHttp(),
		listen: net.Listen,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run serves HTTP requests until the given [context.Context] is cancelled.
func (app *App) Run(ctx context.Context) error {
	h, err := app.Handler()
	if err != nil {
		return err
	}

	ls, err := app.listener()
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Handler: h,
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return httpServer.Serve(ls)
	})
	eg.Go(func() error {
		<-egctx.Done()
		return httpServer.Shutdown(context.Background())
	})

	err = eg.Wait()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Handler registers every endpoint and returns the instrumented
// [http.Handler] which [App.Run] serves. Registration only happens once.
func (app *App) Handler() (http.Handler, error) {
	app.initHandlerOnce.Do(func() {
		for _, register := range app.openApiEndpoints {
			register(app.mux)
		}

		app.handlerErr = app.registerEndpoints()
		if app.handlerErr != nil {
			return
		}

		app.handler = otelhttp.NewHandler(
			app.mux,
			"server",
			otelhttp.WithMessageEvents(otelhttp.ReadEvents, otelhttp.WriteEvents),
		)
	})
	return app.handler, app.handlerErr
}

func (app *App) listener() (net.Listener, error) {
	if app.ls != nil {
		return app.ls, nil
	}
	return app.listen("tcp", app.addr)
}

func (app *App) registerEndpoints() error {
	for _, e := range app.endpoints {
		// Per the net/http.ServeMux docs, https://pkg.go.dev/net/http#ServeMux:
		//
		// 		The special wildcard {$} matches only the end of the URL.
		//
		// OpenAPI would read {$} as an actual path parameter
		// so it is stripped from the documented path.
		trimmedPattern := strings.TrimSuffix(e.Pattern, "{$}")

		// The '...' wildcard has no equivalent in OpenAPI.
		trimmedPattern = strings.ReplaceAll(trimmedPattern, "...", "")

		err := app.spec.AddOperation(strings.ToLower(string(e.Method)), trimmedPattern, e.Operation.OpenApi())
		if err != nil {
			return err
		}

		// enforce strict matching for top-level path
		// otherwise "/" would match too broadly and http.ServeMux
		// will panic when other paths are registered e.g. /openapi.json
		if e.Pattern == "/" {
			e.Pattern = "/{$}"
		}

		app.mux.Handle(
			e.Method,
			e.Pattern,
			otelhttp.WithRouteTag(trimmedPattern, e.Operation),
		)
	}
	return nil
}
