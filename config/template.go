// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"
	"sync"
	"text/template"

	"github.com/z5labs/coerce/internal/try"
)

// TemplateOption configures a [TemplateReader].
type TemplateOption func(*TemplateReader)

// TemplateFunc registers f for use in the template under name.
// It replaces any builtin function of the same name.
func TemplateFunc(name string, f any) TemplateOption {
	return func(tr *TemplateReader) {
		tr.funcs[name] = f
	}
}

// TemplateReader is an io.Reader which renders the text/template
// read from another io.Reader. It lets a parameter document refer
// to values known only when it is loaded:
//
//	parameters:
//	  - name: since
//	    format: date
//	    maximum: '{{ env "RELEASE_DATE" | default "2009-08-12" }}'
//
// The builtin functions are "env", which returns the value of an
// environment variable or an empty string, and "default", which
// returns its first argument if its second is empty.
type TemplateReader struct {
	r     io.Reader
	funcs template.FuncMap

	renderOnce sync.Once
	renderErr  error
	buf        bytes.Buffer
}

// Template configures a TemplateReader.
func Template(r io.Reader, opts ...TemplateOption) *TemplateReader {
	tr := &TemplateReader{
		r: r,
		funcs: template.FuncMap{
			"env":     os.Getenv,
			"default": defaultValue,
		},
	}
	for _, opt := range opts {
		opt(tr)
	}
	return tr
}

func defaultValue(def, v any) any {
	if v == nil || reflect.ValueOf(v).IsZero() {
		return def
	}
	return v
}

// TemplateParseError occurs when the template fails to be parsed.
type TemplateParseError struct {
	Cause error
}

// Error implements the error interface.
func (e TemplateParseError) Error() string {
	return fmt.Sprintf("failed to parse config template: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e TemplateParseError) Unwrap() error {
	return e.Cause
}

// TemplateExecError occurs when the template fails to execute, most
// likely because one of its functions returned an error or panicked.
type TemplateExecError struct {
	Cause error
}

// Error implements the error interface.
func (e TemplateExecError) Error() string {
	return fmt.Sprintf("failed to exec config template: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e TemplateExecError) Unwrap() error {
	return e.Cause
}

// Name returns the name of the underlying io.Reader, if it has one,
// so a [DecodeError] still refers to the original file.
func (tr *TemplateReader) Name() string {
	return nameOf(tr.r)
}

// Read implements the io.Reader interface.
func (tr *TemplateReader) Read(b []byte) (int, error) {
	tr.renderOnce.Do(func() {
		tr.renderErr = tr.render()
	})
	if tr.renderErr != nil {
		return 0, tr.renderErr
	}
	return tr.buf.Read(b)
}

func (tr *TemplateReader) render() (err error) {
	defer try.Close(&err, tr.r)

	src, err := io.ReadAll(tr.r)
	if err != nil {
		return err
	}

	tmpl, err := template.New("config").Funcs(tr.funcs).Parse(string(src))
	if err != nil {
		return TemplateParseError{Cause: err}
	}

	err = tmpl.Execute(&tr.buf, struct{}{})
	if err != nil {
		return TemplateExecError{Cause: err}
	}
	return nil
}
