// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/z5labs/coerce/schema"

	"github.com/stretchr/testify/assert"
)

func TestLintCmd(t *testing.T) {
	t.Run("will report no problems", func(t *testing.T) {
		t.Run("if every parameter is well formed", func(t *testing.T) {
			path := writeFile(t, "params.yaml", paramsYaml)

			res := run("lint", "--schema", path)
			if !assert.Equal(t, ExitOK, res.code, res.stderr) {
				return
			}
			if !assert.Equal(t, "4 parameters ok\n", res.stdout) {
				return
			}
		})
	})

	t.Run("will report every malformed value", func(t *testing.T) {
		t.Run("if several parameters are malformed", func(t *testing.T) {
			path := writeFile(t, "params.yaml", `parameters:
  - name: since
    in: query
    format: date
    minimum: "2009-13-01"
    maximum: "2009-02-29"
  - name: limit
    in: header
    type: integer
    default: ten
  - name: ok
    in: query
    format: date
  - name: code
    pattern: "["
`)

			res := run("lint", "--schema", path)
			if !assert.Equal(t, ExitServer, res.code) {
				return
			}

			lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
			expected := []string{
				`since (query): The "minimum" value in the schema is invalid ("2009-13-01")`,
				`since (query): The "maximum" value in the schema is invalid ("2009-02-29")`,
				`limit (header): The "default" value in the schema is invalid ("ten")`,
				`code: The "pattern" value in the schema is invalid ("[")`,
			}
			if !assert.Equal(t, expected, lines) {
				return
			}
			if !assert.Equal(t, "error: 3 of 4 parameters are malformed\n", res.stderr) {
				return
			}
		})
	})
}

func TestLintAll(t *testing.T) {
	t.Run("will keep the order of the schemas", func(t *testing.T) {
		t.Run("if they are checked concurrently", func(t *testing.T) {
			ss := make([]schema.Schema, 64)
			for i := range ss {
				ss[i] = schema.Schema{Name: strings.Repeat("p", i+1), Format: "date"}
			}

			results, err := lintAll(context.Background(), ss)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Len(t, results, len(ss)) {
				return
			}
			for i, res := range results {
				if !assert.Equal(t, ss[i].Name, res.schema.Name) {
					return
				}
				if !assert.Empty(t, res.problems) {
					return
				}
			}
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the context is cancelled", func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := lintAll(ctx, []schema.Schema{{Name: "since"}})
			if !assert.ErrorIs(t, err, context.Canceled) {
				return
			}
		})
	})
}
