// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"fmt"
	"time"

	"github.com/z5labs/coerce"
	"github.com/z5labs/coerce/pkg/slogfield"
	"github.com/z5labs/coerce/schema"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Coerce a single value using a declared parameter",
		Long: `Coerce a single value using a declared parameter.

The typed value is printed to stdout. Nothing is printed if the
parameter has no value. A rejected value exits with 1 and a
malformed schema exits with 2.`,
		Example: `  coerce validate -s params.yaml --param since --value 2009-08-12
  coerce validate -s params.yaml --param since --blank
  COERCE_VALUE=2009-08-12 coerce validate -s params.yaml --param since`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}

	cmd.Flags().StringP("param", "p", "", "Name of the parameter to coerce")
	cmd.Flags().String("in", "", "Location of the parameter, only needed if its name is ambiguous")
	cmd.Flags().String("value", "", "Raw value of the parameter, leave unset for an absent parameter")
	cmd.Flags().Bool("blank", false, "Coerce the parameter as if it were sent without a value")
	cmd.MarkFlagsMutuallyExclusive("value", "blank")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	v, err := bindFlags(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cmd.ErrOrStderr(), v.GetString("log-level"), nil)
	if err != nil {
		return err
	}

	name := v.GetString("param")
	if name == "" {
		return usageError("a parameter must be given with --param or %s_PARAM", EnvPrefix)
	}

	ss, err := loadSchemas(v.GetString("schema"))
	if err != nil {
		return err
	}

	s, err := findSchema(ss, name, schema.Location(v.GetString("in")))
	if err != nil {
		return err
	}

	c, err := coerce.Compile(s.Name, s)
	if err != nil {
		return err
	}

	in := coerce.Absent()
	switch {
	case v.GetBool("blank"):
		in = coerce.Blank()
	case v.IsSet("value"):
		in = coerce.Present(v.GetString("value"))
	}

	log.DebugContext(
		cmd.Context(),
		"coercing parameter",
		slogfield.Param(s.Name),
		slogfield.Location(string(s.In)),
		slogfield.Format(s.Format),
		slogfield.String("input", in.String()),
	)

	typed, err := c.Coerce(in)
	if err != nil {
		return err
	}
	if typed == nil {
		return nil
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), display(typed))
	return err
}

func display(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}
