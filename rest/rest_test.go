// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/z5labs/coerce/rest/endpoint"
	"github.com/z5labs/coerce/rest/mux"
	"github.com/z5labs/coerce/schema"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func echoOperation(opts ...endpoint.Option) Operation {
	return endpoint.NewOperation(
		endpoint.ProducesJson(
			endpoint.HandlerFunc[endpoint.Empty, map[string]any](func(ctx context.Context, _ *endpoint.Empty) (*map[string]any, error) {
				params := endpoint.Params(ctx)
				return &params, nil
			}),
		),
		opts...,
	)
}

func newEchoApp(opts ...Option) *App {
	opts = append(
		opts,
		Title("echo"),
		Version("v0.0.0"),
		Register(Endpoint{
			Method:  mux.MethodGet,
			Pattern: "/echo/{id}",
			Operation: echoOperation(
				endpoint.PathParams(schema.Schema{Name: "id", Type: schema.TypeInteger, Maximum: 100}),
				endpoint.QueryParams(schema.Schema{Name: "since", Format: "date"}),
			),
		}),
	)
	return NewApp(opts...)
}

func TestApp_Run(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if it fails to create a listener", func(t *testing.T) {
			app := NewApp()

			listenErr := errors.New("failed to listen")
			app.listen = func(network, addr string) (net.Listener, error) {
				return nil, listenErr
			}

			err := app.Run(context.Background())
			if !assert.ErrorIs(t, err, listenErr) {
				return
			}
		})

		t.Run("if the same endpoint is registered twice", func(t *testing.T) {
			e := Endpoint{
				Method:    mux.MethodGet,
				Pattern:   "/echo",
				Operation: echoOperation(),
			}
			app := NewApp(ListenOn(0), Register(e), Register(e))

			err := app.Run(context.Background())
			if !assert.Error(t, err) {
				return
			}
		})
	})

	t.Run("will not return an error", func(t *testing.T) {
		t.Run("if the context.Context is cancelled", func(t *testing.T) {
			app := NewApp(ListenOn(0))

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := app.Run(ctx)
			if !assert.Nil(t, err) {
				return
			}
		})
	})
}

func TestApp_Handler(t *testing.T) {
	t.Run("will serve the registered endpoint", func(t *testing.T) {
		t.Run("if the parameters are valid", func(t *testing.T) {
			h, err := newEchoApp().Handler()
			if !assert.Nil(t, err) {
				return
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo/42?since=2009-08-12", nil))

			resp := w.Result()
			if !assert.Equal(t, http.StatusOK, resp.StatusCode) {
				return
			}

			var body map[string]any
			err = json.NewDecoder(resp.Body).Decode(&body)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, map[string]any{"id": float64(42), "since": "2009-08-12"}, body) {
				return
			}
		})

		t.Run("if a parameter is invalid", func(t *testing.T) {
			h, err := newEchoApp().Handler()
			if !assert.Nil(t, err) {
				return
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo/101", nil))

			resp := w.Result()
			if !assert.Equal(t, http.StatusBadRequest, resp.StatusCode) {
				return
			}

			var body struct {
				Param   string `json:"param"`
				Message string `json:"message"`
			}
			err = json.NewDecoder(resp.Body).Decode(&body)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "id", body.Param) {
				return
			}
			if !assert.Equal(t, `"101" is greater than maximum 100`, body.Message) {
				return
			}
		})
	})

	t.Run("will respond with a JSON 404", func(t *testing.T) {
		t.Run("if the path is not registered", func(t *testing.T) {
			h, err := newEchoApp().Handler()
			if !assert.Nil(t, err) {
				return
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

			resp := w.Result()
			if !assert.Equal(t, http.StatusNotFound, resp.StatusCode) {
				return
			}
		})
	})
}

func TestOpenApiJsonHandler(t *testing.T) {
	t.Run("will document every registered endpoint", func(t *testing.T) {
		t.Run("if the OpenAPI endpoint is registered", func(t *testing.T) {
			app := newEchoApp(OpenApiEndpoint(mux.MethodGet, "/openapi.json", OpenApiJsonHandler))

			h, err := app.Handler()
			if !assert.Nil(t, err) {
				return
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

			resp := w.Result()
			if !assert.Equal(t, http.StatusOK, resp.StatusCode) {
				return
			}
			if !assert.Equal(t, "application/json", resp.Header.Get("Content-Type")) {
				return
			}

			var doc struct {
				Openapi string `json:"openapi"`
				Info    struct {
					Title string `json:"title"`
				} `json:"info"`
				Paths map[string]map[string]struct {
					Parameters []struct {
						Name string `json:"name"`
						In   string `json:"in"`
					} `json:"parameters"`
				} `json:"paths"`
			}
			err = json.NewDecoder(resp.Body).Decode(&doc)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "3.0.3", doc.Openapi) {
				return
			}
			if !assert.Equal(t, "echo", doc.Info.Title) {
				return
			}
			if !assert.Contains(t, doc.Paths, "/echo/{id}") {
				return
			}
			if !assert.Contains(t, doc.Paths["/echo/{id}"], "get") {
				return
			}

			params := doc.Paths["/echo/{id}"]["get"].Parameters
			if !assert.Len(t, params, 2) {
				return
			}
			if !assert.Equal(t, "id", params[0].Name) {
				return
			}
			if !assert.Equal(t, "path", params[0].In) {
				return
			}
		})
	})
}

func TestOpenApiYamlHandler(t *testing.T) {
	t.Run("will render the OpenAPI document as YAML", func(t *testing.T) {
		t.Run("if the OpenAPI endpoint is registered", func(t *testing.T) {
			app := newEchoApp(OpenApiEndpoint(mux.MethodGet, "/openapi.yaml", OpenApiYamlHandler))

			h, err := app.Handler()
			if !assert.Nil(t, err) {
				return
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

			resp := w.Result()
			if !assert.Equal(t, http.StatusOK, resp.StatusCode) {
				return
			}
			if !assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type")) {
				return
			}

			var doc struct {
				Openapi string `yaml:"openapi"`
				Info    struct {
					Version string `yaml:"version"`
				} `yaml:"info"`
				Paths map[string]any `yaml:"paths"`
			}
			err = yaml.NewDecoder(resp.Body).Decode(&doc)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "3.0.3", doc.Openapi) {
				return
			}
			if !assert.Equal(t, "v0.0.0", doc.Info.Version) {
				return
			}
			if !assert.Contains(t, doc.Paths, "/echo/{id}") {
				return
			}
		})
	})
}
