// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelslog provides a OpenTelemetry aware slog.Handler implementation.
package otelslog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/z5labs/coerce/pkg/slogfield"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a [Handler].
type Option func(*Handler)

// EventLevel sets the minimum level of records which are also
// added as events to the span found in the record context.
// It defaults to [slog.LevelWarn].
func EventLevel(lvl slog.Leveler) Option {
	return func(h *Handler) {
		h.eventLevel = lvl
	}
}

// Handler is an slog.Handler which correlates logs with traces. The
// trace and span ids are added to every record logged with a span in
// its context and records at or above the event level are also added
// to that span as events.
type Handler struct {
	slog       slog.Handler
	eventLevel slog.Leveler
	attrs      []attribute.KeyValue
}

// NewHandler wraps h.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	handler := &Handler{
		slog:       h,
		eventLevel: slog.LevelWarn,
	}
	for _, opt := range opts {
		opt(handler)
	}
	return handler
}

// New provides a simple wrapper for slog.New(NewHandler(h, opts...)).
func New(h slog.Handler, opts ...Option) *slog.Logger {
	return slog.New(NewHandler(h, opts...))
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanFromContext(ctx)
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return h.slog.Handle(ctx, record)
	}

	if span.IsRecording() && record.Level >= h.eventLevel.Level() {
		span.AddEvent(record.Message, trace.WithAttributes(h.eventAttributes(record)...))
	}

	r := record.Clone()
	r.AddAttrs(
		slog.Group(
			"otel",
			slogfield.String("trace_id", spanCtx.TraceID().String()),
			slogfield.String("span_id", spanCtx.SpanID().String()),
		),
	)
	return h.slog.Handle(ctx, r)
}

func (h *Handler) eventAttributes(record slog.Record) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(h.attrs)+record.NumAttrs()+1)
	kvs = append(kvs, h.attrs...)
	kvs = append(kvs, attribute.String("log.severity", record.Level.String()))
	record.Attrs(func(a slog.Attr) bool {
		kvs = append(kvs, toAttribute(a))
		return true
	})
	return kvs
}

func toAttribute(a slog.Attr) attribute.KeyValue {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return attribute.String(a.Key, v.String())
	case slog.KindInt64:
		return attribute.Int64(a.Key, v.Int64())
	case slog.KindFloat64:
		return attribute.Float64(a.Key, v.Float64())
	case slog.KindBool:
		return attribute.Bool(a.Key, v.Bool())
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return attribute.String(a.Key, err.Error())
		}
		return attribute.String(a.Key, fmt.Sprint(v.Any()))
	default:
		return attribute.String(a.Key, v.String())
	}
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	kvs := make([]attribute.KeyValue, 0, len(h.attrs)+len(attrs))
	kvs = append(kvs, h.attrs...)
	for _, a := range attrs {
		kvs = append(kvs, toAttribute(a))
	}
	return &Handler{
		slog:       h.slog.WithAttrs(attrs),
		eventLevel: h.eventLevel,
		attrs:      kvs,
	}
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		slog:       h.slog.WithGroup(name),
		eventLevel: h.eventLevel,
		attrs:      h.attrs,
	}
}
