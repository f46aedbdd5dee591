// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"log/slog"
	"os"

	"github.com/z5labs/coerce/example/simple_rest/events"
	"github.com/z5labs/coerce/pkg/otelslog"
	"github.com/z5labs/coerce/rest"
	"github.com/z5labs/coerce/rest/endpoint"
	"github.com/z5labs/coerce/rest/mux"
	"github.com/z5labs/coerce/schema"
)

type Config struct {
	Logging struct {
		Level slog.Level `config:"level"`
	} `config:"logging"`

	Http struct {
		Port uint `config:"port"`
	} `config:"http"`

	Parameters []schema.Schema `config:"parameters"`
}

func Init(cfg Config) *rest.App {
	log := otelslog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     cfg.Logging.Level,
		AddSource: true,
	}))

	eventService := events.NewService(
		events.Logger(log),
	)

	return rest.NewApp(
		rest.ListenOn(cfg.Http.Port),
		rest.Title("events"),
		rest.Version("v0.0.0"),
		rest.Register(rest.Endpoint{
			Method:  mux.MethodGet,
			Pattern: "/events",
			Operation: endpoint.NewOperation(
				endpoint.ProducesJson(eventService),
				endpoint.QueryParams(cfg.Parameters...),
				endpoint.Logger(log),
			),
		}),
		rest.OpenApiEndpoint(mux.MethodGet, "/openapi.json", rest.OpenApiJsonHandler),
	)
}
