// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"maps"
	"net/http"
	"net/url"

	"github.com/z5labs/coerce"
	"github.com/z5labs/coerce/schema"
)

type param struct {
	schema  *schema.Schema
	coercer coerce.Coercer
	err     error
}

// newParam compiles the schema. A schema which fails to compile
// fails every request with the same server error.
func newParam(s schema.Schema, in schema.Location) param {
	s.In = in
	c, err := coerce.Compile(s.Name, &s)
	return param{
		schema:  &s,
		coercer: c,
		err:     err,
	}
}

func params(in schema.Location, ss []schema.Schema) Option {
	return func(o *options) {
		for _, s := range ss {
			o.params = append(o.params, newParam(s, in))
		}
	}
}

// QueryParams declares parameters found in the query string of the request URL.
func QueryParams(ss ...schema.Schema) Option {
	return params(schema.InQuery, ss)
}

// Headers declares parameters found in the request headers.
func Headers(ss ...schema.Schema) Option {
	return params(schema.InHeader, ss)
}

// PathParams declares parameters found in wildcard segments of the
// request path e.g. "/users/{id}". They are always required.
func PathParams(ss ...schema.Schema) Option {
	return func(o *options) {
		for _, s := range ss {
			s.Required = true
			o.params = append(o.params, newParam(s, schema.InPath))
		}
	}
}

// Cookies declares parameters found in the request cookies.
func Cookies(ss ...schema.Schema) Option {
	return params(schema.InCookie, ss)
}

// lookup returns the raw value of a parameter, distinguishing
// a parameter which was not sent from one sent without a value.
func lookup(r *http.Request, query url.Values, s *schema.Schema) coerce.Input {
	switch s.In {
	case schema.InQuery:
		vs, ok := query[s.Name]
		if !ok || len(vs) == 0 {
			return coerce.Absent()
		}
		return coerce.Present(vs[0])
	case schema.InHeader:
		vs := r.Header.Values(s.Name)
		if len(vs) == 0 {
			return coerce.Absent()
		}
		return coerce.Present(vs[0])
	case schema.InPath:
		v := r.PathValue(s.Name)
		return coerce.Lookup(v, v != "")
	case schema.InCookie:
		c, err := r.Cookie(s.Name)
		if err != nil {
			return coerce.Absent()
		}
		return coerce.Present(c.Value)
	default:
		return coerce.Absent()
	}
}

type paramsKey struct{}

// coerceParams coerces every declared parameter, in the order they were
// declared, and stops at the first failure.
func coerceParams(ctx context.Context, r *http.Request, ps []param) (context.Context, error) {
	if len(ps) == 0 {
		return ctx, nil
	}

	query := r.URL.Query()
	values := make(map[string]any, len(ps))
	for _, p := range ps {
		if p.err != nil {
			return ctx, p.err
		}

		v, err := p.coercer.Coerce(lookup(r, query, p.schema))
		if err != nil {
			return ctx, err
		}
		if v == nil {
			continue
		}
		values[p.schema.Name] = v
	}
	return context.WithValue(ctx, paramsKey{}, values), nil
}

// Param returns the coerced value of the named parameter. The boolean
// is false if the parameter had no value or its value is not a T.
//
// The type of a value follows from its schema: civil.Date for a "date",
// time.Time for a "date-time", int64 for an "integer", float64 for a
// "number", bool for a "boolean" and string for everything else.
func Param[T any](ctx context.Context, name string) (T, bool) {
	values, _ := ctx.Value(paramsKey{}).(map[string]any)
	v, ok := values[name].(T)
	return v, ok
}

// Params returns a copy of every coerced parameter value keyed by name.
// Parameters which had no value are left out.
func Params(ctx context.Context) map[string]any {
	values, _ := ctx.Value(paramsKey{}).(map[string]any)
	return maps.Clone(values)
}
