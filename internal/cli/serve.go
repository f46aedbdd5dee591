// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/z5labs/coerce/pkg/otelslog"
	"github.com/z5labs/coerce/pkg/slogfield"
	"github.com/z5labs/coerce/rest"
	"github.com/z5labs/coerce/rest/endpoint"
	"github.com/z5labs/coerce/rest/mux"
	"github.com/z5labs/coerce/schema"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an HTTP endpoint which coerces the declared parameters",
		Long: `Serve an HTTP endpoint which coerces the declared parameters.

GET /validate coerces every query, header and cookie parameter. Each
path parameter adds a segment to the route e.g. /validate/{id}. The
typed values are echoed back as JSON and rejected values are answered
with 400 or 500. The OpenAPI document is served at /openapi.json and
/openapi.yaml.`,
		Example: `  coerce serve -s params.yaml --port 8080`,
		Args:    cobra.NoArgs,
		RunE:    runServe,
	}

	cmd.Flags().Uint("port", 8080, "Port to listen on")
	cmd.Flags().String("title", "coerce", "Title of the served OpenAPI document")
	cmd.Flags().String("api-version", "v0.0.0", "Version of the served OpenAPI document")
	cmd.Flags().Bool("trace", false, "Write OpenTelemetry spans to stderr")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	v, err := bindFlags(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cmd.ErrOrStderr(), v.GetString("log-level"), func(h slog.Handler) slog.Handler {
		return otelslog.NewHandler(h)
	})
	if err != nil {
		return err
	}

	ss, err := loadSchemas(v.GetString("schema"))
	if err != nil {
		return err
	}

	tp := otel.GetTracerProvider()
	if v.GetBool("trace") {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}

		sdk := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
		defer func() {
			err = errors.Join(err, sdk.Shutdown(context.Background()))
		}()

		otel.SetTracerProvider(sdk)
		tp = sdk
	}

	app := newServeApp(
		ss,
		log,
		tp,
		rest.ListenOn(v.GetUint("port")),
		rest.Title(v.GetString("title")),
		rest.Version(v.GetString("api-version")),
	)

	log.InfoContext(cmd.Context(), "serving parameters", slogfield.Int("parameters", len(ss)))
	return app.Run(cmd.Context())
}

// newServeApp registers a single GET endpoint which coerces every
// parameter in ss and echoes their typed values back as JSON.
func newServeApp(ss []schema.Schema, log *slog.Logger, tp trace.TracerProvider, opts ...rest.Option) *rest.App {
	var query, headers, path, cookies []schema.Schema
	for _, s := range ss {
		switch s.In {
		case schema.InHeader:
			headers = append(headers, s)
		case schema.InPath:
			path = append(path, s)
		case schema.InCookie:
			cookies = append(cookies, s)
		case schema.InBody:
			log.Warn(
				"body parameters are not served",
				slogfield.Param(s.Name),
				slogfield.Location(string(s.In)),
			)
		default:
			query = append(query, s)
		}
	}

	var pattern strings.Builder
	pattern.WriteString("/validate")
	for _, s := range path {
		pattern.WriteString("/{")
		pattern.WriteString(s.Name)
		pattern.WriteString("}")
	}

	op := endpoint.NewOperation(
		endpoint.ProducesJson(
			endpoint.HandlerFunc[endpoint.Empty, map[string]any](echoParams),
		),
		endpoint.QueryParams(query...),
		endpoint.Headers(headers...),
		endpoint.PathParams(path...),
		endpoint.Cookies(cookies...),
		endpoint.Logger(log),
		endpoint.TracerProvider(tp),
	)

	opts = append(
		opts,
		rest.Register(rest.Endpoint{
			Method:    mux.MethodGet,
			Pattern:   pattern.String(),
			Operation: op,
		}),
		rest.OpenApiEndpoint(mux.MethodGet, "/openapi.json", rest.OpenApiJsonHandler),
		rest.OpenApiEndpoint(mux.MethodGet, "/openapi.yaml", rest.OpenApiYamlHandler),
	)
	return rest.NewApp(opts...)
}

func echoParams(ctx context.Context, _ *endpoint.Empty) (*map[string]any, error) {
	params := endpoint.Params(ctx)
	if params == nil {
		params = make(map[string]any)
	}
	return &params, nil
}
