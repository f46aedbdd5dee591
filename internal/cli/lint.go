// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/z5labs/coerce"
	"github.com/z5labs/coerce/pkg/slogfield"
	"github.com/z5labs/coerce/schema"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Report every malformed value declared by the parameters",
		Long: `Report every malformed value declared by the parameters.

Each parameter is compiled and its minimum, maximum, default and
pattern are checked against its type and format. Every problem is
printed to stdout and the command exits with 2 if there are any.`,
		Example: `  coerce lint -s params.yaml`,
		Args:    cobra.NoArgs,
		RunE:    runLint,
	}
}

type lintResult struct {
	schema   *schema.Schema
	problems []error
}

func runLint(cmd *cobra.Command, args []string) error {
	v, err := bindFlags(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cmd.ErrOrStderr(), v.GetString("log-level"), nil)
	if err != nil {
		return err
	}

	ss, err := loadSchemas(v.GetString("schema"))
	if err != nil {
		return err
	}

	results, err := lintAll(cmd.Context(), ss)
	if err != nil {
		return err
	}

	var malformed int
	out := cmd.OutOrStdout()
	for _, res := range results {
		if len(res.problems) == 0 {
			continue
		}
		malformed++

		for _, problem := range res.problems {
			log.DebugContext(
				cmd.Context(),
				"malformed parameter",
				slogfield.Param(res.schema.Name),
				slogfield.Location(string(res.schema.In)),
				slogfield.Error(problem),
			)
			fmt.Fprintf(out, "%s: %s\n", describe(res.schema), message(problem))
		}
	}
	if malformed == 0 {
		fmt.Fprintf(out, "%d parameters ok\n", len(ss))
		return nil
	}
	return exitError{
		code: ExitServer,
		err:  fmt.Errorf("%d of %d parameters are malformed", malformed, len(ss)),
	}
}

// lintAll checks every schema concurrently. The results are in
// the same order as the schemas.
func lintAll(ctx context.Context, ss []schema.Schema) ([]lintResult, error) {
	results := make([]lintResult, len(ss))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range ss {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			results[i] = lint(&ss[i])
			return nil
		})
	}

	err := eg.Wait()
	if err != nil {
		return nil, err
	}
	return results, nil
}

func lint(s *schema.Schema) lintResult {
	res := lintResult{schema: s}

	c, err := coerce.Compile(s.Name, s)
	if err != nil {
		res.problems = unjoin(err)
		return res
	}

	err = c.Verify()
	if err != nil {
		res.problems = unjoin(err)
	}
	return res
}

func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func message(err error) string {
	var cerr *coerce.Error
	if errors.As(err, &cerr) {
		return cerr.Message
	}
	return err.Error()
}
