// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/z5labs/coerce"
	"github.com/z5labs/coerce/schema"

	"github.com/stretchr/testify/assert"
)

const paramsYaml = `parameters:
  - name: since
    in: query
    format: date
    maximum: "2009-08-12"
  - name: until
    in: query
    format: date
    default: "2009-08-01"
  - name: limit
    in: header
    type: integer
    required: true
    maximum: 100
  - name: at
    in: cookie
    format: date-time
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

type result struct {
	code   int
	stdout string
	stderr string
}

func run(args ...string) result {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return result{
		code:   code,
		stdout: stdout.String(),
		stderr: stderr.String(),
	}
}

func TestExecute(t *testing.T) {
	t.Run("will exit with a usage error", func(t *testing.T) {
		t.Run("if the flag is unknown", func(t *testing.T) {
			res := run("validate", "--unknown")
			if !assert.Equal(t, ExitUsage, res.code) {
				return
			}
			if !assert.Contains(t, res.stderr, "unknown flag: --unknown") {
				return
			}
		})

		t.Run("if the schema file does not exist", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.yaml")

			res := run("lint", "--schema", path)
			if !assert.Equal(t, ExitUsage, res.code) {
				return
			}
		})

		t.Run("if no schema file is given", func(t *testing.T) {
			res := run("lint")
			if !assert.Equal(t, ExitUsage, res.code) {
				return
			}
			if !assert.Contains(t, res.stderr, "COERCE_SCHEMA") {
				return
			}
		})

		t.Run("if the schema file declares an invalid parameter", func(t *testing.T) {
			path := writeFile(t, "params.yaml", "parameters:\n  - in: query\n")

			res := run("lint", "--schema", path)
			if !assert.Equal(t, ExitUsage, res.code) {
				return
			}
		})

		t.Run("if the log level is unknown", func(t *testing.T) {
			path := writeFile(t, "params.yaml", paramsYaml)

			res := run("lint", "--schema", path, "--log-level", "loud")
			if !assert.Equal(t, ExitUsage, res.code) {
				return
			}
			if !assert.Contains(t, res.stderr, "invalid log level: loud") {
				return
			}
		})
	})
}

func TestExitCode(t *testing.T) {
	testCases := []struct {
		Name string
		Err  error
		Code int
	}{
		{
			Name: "nil",
			Code: ExitOK,
		},
		{
			Name: "client error",
			Err:  &coerce.Error{Class: coerce.Client},
			Code: ExitClient,
		},
		{
			Name: "server error",
			Err:  &coerce.Error{Class: coerce.Server},
			Code: ExitServer,
		},
		{
			Name: "exit error",
			Err:  exitError{code: ExitServer, err: errors.New("malformed")},
			Code: ExitServer,
		},
		{
			Name: "any other error",
			Err:  errors.New("failed"),
			Code: ExitUsage,
		},
	}

	for _, testCase := range testCases {
		t.Run("will return the exit code for "+testCase.Name, func(t *testing.T) {
			if !assert.Equal(t, testCase.Code, exitCode(testCase.Err)) {
				return
			}
		})
	}
}

func TestLoadSchemas(t *testing.T) {
	t.Run("will decode the file as JSON", func(t *testing.T) {
		t.Run("if the file has a .json extension", func(t *testing.T) {
			path := writeFile(t, "params.json", `{"parameters": [{"name": "since", "in": "query", "format": "date"}]}`)

			ss, err := loadSchemas(path)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Len(t, ss, 1) {
				return
			}
			if !assert.Equal(t, "since", ss[0].Name) {
				return
			}
			if !assert.Equal(t, schema.InQuery, ss[0].In) {
				return
			}
		})
	})
}

func TestLoadSchemas_template(t *testing.T) {
	t.Run("will render environment variables", func(t *testing.T) {
		t.Run("if the file references them", func(t *testing.T) {
			t.Setenv("RELEASE_DATE", "2009-08-12")
			path := writeFile(t, "params.yaml", `parameters:
  - name: since
    format: date
    maximum: '{{ env "RELEASE_DATE" }}'
`)

			res := run("validate", "--schema", path, "--param", "since", "--value", "2009-08-13")
			if !assert.Equal(t, ExitClient, res.code) {
				return
			}
			if !assert.Equal(t, "client error: \"2009-08-13\" is greater than maximum 2009-08-12\n", res.stderr) {
				return
			}
		})
	})
}

func TestFindSchema(t *testing.T) {
	ss := []schema.Schema{
		{Name: "since", In: schema.InQuery},
		{Name: "since", In: schema.InHeader},
		{Name: "limit", In: schema.InQuery},
	}

	t.Run("will return the schema", func(t *testing.T) {
		t.Run("if the name is unique", func(t *testing.T) {
			s, err := findSchema(ss, "limit", "")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, &ss[2], s) {
				return
			}
		})

		t.Run("if the location selects one of several schemas", func(t *testing.T) {
			s, err := findSchema(ss, "since", schema.InHeader)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, &ss[1], s) {
				return
			}
		})
	})

	t.Run("will return a usage error", func(t *testing.T) {
		t.Run("if the name is ambiguous", func(t *testing.T) {
			_, err := findSchema(ss, "since", "")
			if !assert.Equal(t, ExitUsage, exitCode(err)) {
				return
			}
		})

		t.Run("if the name is unknown", func(t *testing.T) {
			_, err := findSchema(ss, "until", "")
			if !assert.Equal(t, ExitUsage, exitCode(err)) {
				return
			}
			if !assert.EqualError(t, err, "unknown parameter: until") {
				return
			}
		})
	})
}
