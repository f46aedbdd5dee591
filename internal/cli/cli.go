// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package cli implements the coerce command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/z5labs/coerce"
	"github.com/z5labs/coerce/config"
	"github.com/z5labs/coerce/schema"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes returned by [Execute].
const (
	ExitOK = 0

	// ExitClient means the supplied value was rejected.
	ExitClient = 1

	// ExitServer means the schema itself is malformed.
	ExitServer = 2

	// ExitUsage covers everything else e.g. unknown flags
	// or a schema file which cannot be read.
	ExitUsage = 3
)

// EnvPrefix prefixes the environment variables which may
// be used in place of flags e.g. COERCE_SCHEMA for --schema.
const EnvPrefix = "COERCE"

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	return e.err.Error()
}

func (e exitError) Unwrap() error {
	return e.err
}

func usageError(format string, args ...any) error {
	return exitError{code: ExitUsage, err: fmt.Errorf(format, args...)}
}

func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var eerr exitError
	if errors.As(err, &eerr) {
		return eerr.code
	}

	var cerr *coerce.Error
	if errors.As(err, &cerr) {
		if cerr.Class == coerce.Client {
			return ExitClient
		}
		return ExitServer
	}
	return ExitUsage
}

// Execute runs the command line with the given arguments and
// returns the code the process should exit with.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var cerr *coerce.Error
	if errors.As(err, &cerr) {
		fmt.Fprintf(stderr, "%s error: %s\n", cerr.Class, cerr.Message)
		return exitCode(err)
	}
	fmt.Fprintln(stderr, "error:", err)
	return exitCode(err)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coerce",
		Short: "Coerce and validate typed request parameters",
		Long: `Coerce and validate typed request parameters.

Parameters are declared in a YAML or JSON file:

  parameters:
    - name: since
      in: query
      format: date
      maximum: "2009-08-12"

The file is rendered as a text/template before it is decoded so
values may be read from the environment:

    maximum: '{{ env "RELEASE_DATE" | default "2009-08-12" }}'

Every flag may also be given as an environment variable
prefixed with COERCE_ e.g. COERCE_SCHEMA=params.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringP("schema", "s", "", "YAML or JSON file declaring the parameters")
	cmd.PersistentFlags().String("log-level", "warn", "Minimum level of logs written to stderr")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return exitError{code: ExitUsage, err: err}
	})

	cmd.AddCommand(
		newValidateCmd(),
		newLintCmd(),
		newServeCmd(),
	)
	return cmd
}

// bindFlags returns a [viper.Viper] which resolves each flag of cmd
// from the command line first and then from the environment.
func bindFlags(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	err := v.BindPFlags(cmd.Flags())
	if err != nil {
		return nil, err
	}
	return v, nil
}

func newLogger(w io.Writer, level string, wrap func(slog.Handler) slog.Handler) (*slog.Logger, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(level))
	if err != nil {
		return nil, usageError("invalid log level: %s", level)
	}

	var h slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: lvl,
	})
	if wrap != nil {
		h = wrap(h)
	}
	return slog.New(h), nil
}

// loadSchemas reads the parameter declarations from path. The file is
// rendered as a text/template first, see [config.Template]. Files
// ending in ".json" are decoded as JSON and anything else as YAML.
func loadSchemas(path string) ([]schema.Schema, error) {
	if path == "" {
		return nil, usageError("a parameter file must be given with --schema or %s_SCHEMA", EnvPrefix)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, exitError{code: ExitUsage, err: err}
	}
	dir, name := filepath.Split(abs)

	r := config.Template(config.NewFileReader(os.DirFS(dir), name))

	var src config.Source = config.FromYaml(r)
	if strings.EqualFold(filepath.Ext(name), ".json") {
		src = config.FromJson(r)
	}

	ss, err := schema.Load(src)
	if err != nil {
		return nil, exitError{code: ExitUsage, err: err}
	}
	return ss, nil
}

// findSchema returns the schema with the given name. The location
// only needs to be given if the name is used in more than one.
func findSchema(ss []schema.Schema, name string, in schema.Location) (*schema.Schema, error) {
	var found *schema.Schema
	for i := range ss {
		s := &ss[i]
		if s.Name != name || (in != "" && s.In != in) {
			continue
		}
		if found != nil {
			return nil, usageError("parameter %q is declared more than once, use --in to select one", name)
		}
		found = s
	}
	if found == nil {
		return nil, usageError("unknown parameter: %s", name)
	}
	return found, nil
}

func describe(s *schema.Schema) string {
	if s.In == "" {
		return s.Name
	}
	return fmt.Sprintf("%s (%s)", s.Name, s.In)
}
