// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package endpoint adapts a typed handler into a [http.Handler] whose query,
// header, path and cookie parameters are coerced before the handler runs.
package endpoint

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/z5labs/coerce"
	"github.com/z5labs/coerce/internal/try"
	"github.com/z5labs/coerce/pkg/slogfield"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/z5labs/coerce/rest/endpoint"

// Empty is used for operations which have no request or response body.
type Empty struct{}

// Handler
type Handler[Req, Resp any] interface {
	Handle(context.Context, *Req) (*Resp, error)
}

// HandlerFunc
type HandlerFunc[Req, Resp any] func(context.Context, *Req) (*Resp, error)

// Handle implements the [Handler] interface.
func (f HandlerFunc[Req, Resp]) Handle(ctx context.Context, req *Req) (*Resp, error) {
	return f(ctx, req)
}

// ErrorHandler
type ErrorHandler interface {
	HandleError(context.Context, http.ResponseWriter, error)
}

// ErrorHandlerFunc is an adapter to allow the use of ordinary
// functions as an [ErrorHandler].
type ErrorHandlerFunc func(context.Context, http.ResponseWriter, error)

// HandleError implements the [ErrorHandler] interface.
func (f ErrorHandlerFunc) HandleError(ctx context.Context, w http.ResponseWriter, err error) {
	f(ctx, w, err)
}

// ContentTyper
type ContentTyper interface {
	ContentType() string
}

// Validator
type Validator interface {
	Validate() error
}

// ErrNilHandlerResponse is returned when a [Handler] produces
// neither a response nor an error.
var ErrNilHandlerResponse = errors.New("handler returned nil response")

// DefaultStatusCode is the status code returned when a [Handler] succeeds.
var DefaultStatusCode = http.StatusOK

// DefaultErrorStatusCode is the status code returned for errors which
// do not know how to render themselves.
var DefaultErrorStatusCode = http.StatusInternalServerError

type options struct {
	statusCode int
	params     []param
	responses  []int
	errHandler ErrorHandler
	log        *slog.Logger
	tp         trace.TracerProvider
}

// Option
type Option func(*options)

// StatusCode overrides [DefaultStatusCode] for a successful response.
func StatusCode(statusCode int) Option {
	return func(o *options) {
		o.statusCode = statusCode
	}
}

// Returns documents an additional status code the operation may return.
func Returns(statusCode int) Option {
	return func(o *options) {
		o.responses = append(o.responses, statusCode)
	}
}

// OnError replaces the default error handling. By default, an error
// which implements [http.Handler], such as a [*coerce.Error], renders
// itself and every other error results in [DefaultErrorStatusCode].
func OnError(eh ErrorHandler) Option {
	return func(o *options) {
		o.errHandler = eh
	}
}

// Logger sets the logger used to report failed requests.
// The default is [slog.Default].
func Logger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// TracerProvider sets the provider of the tracer used to record failed
// requests. The default is the global provider.
func TracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tp = tp
	}
}

// Operation is a [http.Handler] which coerces the parameters of
// a request before passing its body to a [Handler].
type Operation[Req, Resp any] struct {
	statusCode int
	params     []param
	responses  []int
	handler    Handler[Req, Resp]
	errHandler ErrorHandler
	log        *slog.Logger
	tracer     trace.Tracer
}

// NewOperation initializes an [Operation]. Every parameter schema
// is compiled once, here, and reused for every request.
func NewOperation[Req, Resp any](handler Handler[Req, Resp], opts ...Option) *Operation[Req, Resp] {
	o := &options{
		statusCode: DefaultStatusCode,
		log:        slog.Default(),
		tp:         otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Operation[Req, Resp]{
		statusCode: o.statusCode,
		params:     o.params,
		responses:  o.responses,
		handler:    handler,
		errHandler: o.errHandler,
		log:        o.log,
		tracer:     o.tp.Tracer(instrumentationName),
	}
}

// ServeHTTP implements the [http.Handler] interface.
func (op *Operation[Req, Resp]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := op.tracer.Start(r.Context(), "Operation.ServeHTTP")
	defer span.End()

	ctx = withResponseHeader(ctx, w)

	err := op.serve(ctx, w, r)
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	op.logError(ctx, err)
	op.handleError(ctx, w, r, err)
}

func (op *Operation[Req, Resp]) serve(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
	defer try.Recover(&err)

	ctx, err = coerceParams(ctx, r, op.params)
	if err != nil {
		return err
	}

	var req Req
	err = readRequest(r, &req)
	if err != nil {
		return err
	}

	resp, err := op.handler.Handle(ctx, &req)
	if err != nil {
		return err
	}
	return op.writeResponse(w, resp)
}

func readRequest[Req any](r *http.Request, req *Req) (err error) {
	if rf, ok := any(req).(io.ReaderFrom); ok {
		defer try.Close(&err, r.Body)

		_, err = rf.ReadFrom(r.Body)
		if err != nil {
			return err
		}
	}
	if v, ok := any(req).(Validator); ok {
		return v.Validate()
	}
	return nil
}

func (op *Operation[Req, Resp]) writeResponse(w http.ResponseWriter, resp *Resp) error {
	wt, ok := any(resp).(io.WriterTo)
	if !ok || resp == nil {
		w.WriteHeader(op.statusCode)
		return nil
	}
	if ct, ok := any(resp).(ContentTyper); ok {
		w.Header().Set("Content-Type", ct.ContentType())
	}

	w.WriteHeader(op.statusCode)
	_, err := wt.WriteTo(w)
	return err
}

func (op *Operation[Req, Resp]) handleError(ctx context.Context, w http.ResponseWriter, r *http.Request, err error) {
	if op.errHandler != nil {
		op.errHandler.HandleError(ctx, w, err)
		return
	}

	var h http.Handler
	if errors.As(err, &h) {
		h.ServeHTTP(w, r)
		return
	}
	w.WriteHeader(DefaultErrorStatusCode)
}

func (op *Operation[Req, Resp]) logError(ctx context.Context, err error) {
	var cerr *coerce.Error
	if !errors.As(err, &cerr) {
		op.log.ErrorContext(ctx, "failed to handle request", slogfield.Error(err))
		return
	}

	level := slog.LevelWarn
	if cerr.Class == coerce.Server {
		level = slog.LevelError
	}
	op.log.LogAttrs(
		ctx,
		level,
		"rejected request parameter",
		slogfield.Param(cerr.Param),
		slogfield.Class(cerr.Class),
		slogfield.StatusCode(cerr.StatusCode()),
		slogfield.Error(err),
	)
}
