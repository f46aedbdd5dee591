// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"embed"
	"log/slog"
	"os"
	"os/signal"

	"github.com/z5labs/coerce/config"
	"github.com/z5labs/coerce/example/simple_rest/app"
)

//go:embed config.yaml
var configDir embed.FS

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := run(ctx)
	if err != nil {
		slog.Default().Error("failed to run", slog.String("error", err.Error()))
	}
}

func run(ctx context.Context) error {
	m, err := config.Read(
		config.FromYaml(
			config.NewFileReader(configDir, "config.yaml"),
		),
	)
	if err != nil {
		return err
	}

	var cfg app.Config
	err = m.Unmarshal(&cfg)
	if err != nil {
		return err
	}
	return app.Init(cfg).Run(ctx)
}
