// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"
)

const jsonContentType = "application/json"

// OpenApiV3Schemaer is implemented by request and response bodies
// which can describe themselves in an OpenAPI document.
type OpenApiV3Schemaer interface {
	OpenApiV3Schema() (*openapi3.Schema, error)
}

// BodyError is returned when a request body cannot be decoded or
// fails to validate. It renders itself as a 400 Bad Request.
type BodyError struct {
	Cause error
}

// Error implements the [error] interface.
func (e BodyError) Error() string {
	return fmt.Sprintf("invalid request body: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e BodyError) Unwrap() error {
	return e.Cause
}

// ServeHTTP implements the [http.Handler] interface.
func (e BodyError) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]string{
		"message": e.Error(),
	})
}

// ConsumesJson adapts h so its request is decoded from a JSON body.
func ConsumesJson[Req, Resp any](h Handler[Req, Resp]) Handler[JsonRequest[Req], Resp] {
	return HandlerFunc[JsonRequest[Req], Resp](func(ctx context.Context, req *JsonRequest[Req]) (*Resp, error) {
		return h.Handle(ctx, &req.body)
	})
}

// JsonRequest is a request body decoded from JSON. If T implements
// [Validator] it is validated once decoded.
type JsonRequest[T any] struct {
	body T
}

// ContentType implements the [ContentTyper] interface.
func (*JsonRequest[T]) ContentType() string {
	return jsonContentType
}

// OpenApiV3Schema implements the [OpenApiV3Schemaer] interface.
func (*JsonRequest[T]) OpenApiV3Schema() (*openapi3.Schema, error) {
	return reflectSchema[T]()
}

// ReadFrom implements the [io.ReaderFrom] interface.
func (req *JsonRequest[T]) ReadFrom(r io.Reader) (int64, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return int64(len(b)), err
	}

	err = json.Unmarshal(b, &req.body)
	if err != nil {
		return int64(len(b)), BodyError{Cause: err}
	}
	return int64(len(b)), nil
}

// Validate implements the [Validator] interface.
func (req *JsonRequest[T]) Validate() error {
	v, ok := any(req.body).(Validator)
	if !ok {
		return nil
	}

	err := v.Validate()
	if err != nil {
		return BodyError{Cause: err}
	}
	return nil
}

// ProducesJson adapts h so its response is encoded as a JSON body.
// A nil response from h is reported as [ErrNilHandlerResponse].
func ProducesJson[Req, Resp any](h Handler[Req, Resp]) Handler[Req, JsonResponse[Resp]] {
	return HandlerFunc[Req, JsonResponse[Resp]](func(ctx context.Context, req *Req) (*JsonResponse[Resp], error) {
		resp, err := h.Handle(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, ErrNilHandlerResponse
		}
		return &JsonResponse[Resp]{body: resp}, nil
	})
}

// JsonResponse is a response body encoded as JSON.
type JsonResponse[T any] struct {
	body *T
}

// ContentType implements the [ContentTyper] interface.
func (*JsonResponse[T]) ContentType() string {
	return jsonContentType
}

// OpenApiV3Schema implements the [OpenApiV3Schemaer] interface.
func (*JsonResponse[T]) OpenApiV3Schema() (*openapi3.Schema, error) {
	return reflectSchema[T]()
}

// WriteTo implements the [io.WriterTo] interface.
func (resp *JsonResponse[T]) WriteTo(w io.Writer) (int64, error) {
	b, err := json.Marshal(resp.body)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

func reflectSchema[T any]() (*openapi3.Schema, error) {
	var reflector jsonschema.Reflector
	var t T
	js, err := reflector.Reflect(t)
	if err != nil {
		return nil, err
	}

	var sor openapi3.SchemaOrRef
	sor.FromJSONSchema(js.ToSchemaOrBool())
	return sor.Schema, nil
}
