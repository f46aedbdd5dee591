// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package coerce

import (
	"testing"
	"time"

	"github.com/z5labs/coerce/schema"
	"github.com/z5labs/coerce/structural"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestCompile(t *testing.T) {
	t.Run("will select the format from the schema", func(t *testing.T) {
		testCases := []struct {
			Name     string
			Schema   schema.Schema
			Text     string
			Expected any
		}{
			{
				Name:     "plain string",
				Schema:   schema.Schema{},
				Text:     "hello",
				Expected: "hello",
			},
			{
				Name:     "unknown string format",
				Schema:   schema.Schema{Format: "email"},
				Text:     "a@b.c",
				Expected: "a@b.c",
			},
			{
				Name:     "date",
				Schema:   schema.Schema{Type: schema.TypeString, Format: "date"},
				Text:     "2009-08-12",
				Expected: civil.Date{Year: 2009, Month: time.August, Day: 12},
			},
			{
				Name:     "date-time",
				Schema:   schema.Schema{Format: "date-time"},
				Text:     "2009-08-12T10:00:00Z",
				Expected: time.Date(2009, time.August, 12, 10, 0, 0, 0, time.UTC),
			},
			{
				Name:     "integer",
				Schema:   schema.Schema{Type: schema.TypeInteger},
				Text:     "-42",
				Expected: int64(-42),
			},
			{
				Name:     "int32",
				Schema:   schema.Schema{Type: schema.TypeInteger, Format: "int32"},
				Text:     "42",
				Expected: int64(42),
			},
			{
				Name:     "unknown integer format",
				Schema:   schema.Schema{Type: schema.TypeInteger, Format: "int8"},
				Text:     "300",
				Expected: int64(300),
			},
			{
				Name:     "number",
				Schema:   schema.Schema{Type: schema.TypeNumber, Format: "double"},
				Text:     "1.5e3",
				Expected: float64(1500),
			},
			{
				Name:     "boolean",
				Schema:   schema.Schema{Type: schema.TypeBoolean},
				Text:     "TRUE",
				Expected: true,
			},
		}

		for _, testCase := range testCases {
			t.Run("if the schema is "+testCase.Name, func(t *testing.T) {
				c, err := Compile("p", &testCase.Schema)
				if !assert.Nil(t, err) {
					return
				}
				if !assert.Equal(t, "p", c.Name()) {
					return
				}

				v, err := c.Coerce(Present(testCase.Text))
				if !assert.Nil(t, err) {
					return
				}
				if !assert.Equal(t, testCase.Expected, v) {
					return
				}
			})
		}
	})

	t.Run("will return a server error", func(t *testing.T) {
		t.Run("if the type is unknown", func(t *testing.T) {
			_, err := Compile("p", &schema.Schema{Type: "object"})

			assertError(t, err, Server, `The "type" value in the schema is invalid ("object")`)
		})

		t.Run("if the pattern is malformed", func(t *testing.T) {
			_, err := Compile("p", &schema.Schema{Pattern: "a("})

			assertError(t, err, Server, `The "pattern" value in the schema is invalid ("a(")`)
		})
	})
}

func TestCoercer_Coerce(t *testing.T) {
	t.Run("will return nil", func(t *testing.T) {
		t.Run("if the parameter has no value", func(t *testing.T) {
			c, err := Compile("p", &schema.Schema{Format: "date"})
			if !assert.Nil(t, err) {
				return
			}

			v, err := c.Coerce(Absent())
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Nil(t, v) {
				return
			}
		})

		t.Run("if the parameter is invalid", func(t *testing.T) {
			c, err := Compile("p", &schema.Schema{Type: schema.TypeInteger, Format: "int32"})
			if !assert.Nil(t, err) {
				return
			}

			v, err := c.Coerce(Present("4294967296"))
			if !assertError(t, err, Client, `"4294967296" is an invalid int32`) {
				return
			}
			if !assert.Nil(t, v) {
				return
			}
		})
	})

	t.Run("will compare numeric bounds", func(t *testing.T) {
		t.Run("if the bounds were decoded from json", func(t *testing.T) {
			c, err := Compile("limit", &schema.Schema{
				Type:    schema.TypeInteger,
				Minimum: float64(1),
				Maximum: float64(100),
			})
			if !assert.Nil(t, err) {
				return
			}

			_, err = c.Coerce(Present("101"))
			if !assertError(t, err, Client, `"101" is greater than maximum 100`) {
				return
			}

			_, err = c.Coerce(Present("0"))
			if !assertError(t, err, Client, `"0" is less than minimum 1`) {
				return
			}
		})

		t.Run("if the bounds are strings", func(t *testing.T) {
			c, err := Compile("ratio", &schema.Schema{
				Type:             schema.TypeNumber,
				Maximum:          "1.0",
				ExclusiveMaximum: true,
			})
			if !assert.Nil(t, err) {
				return
			}

			_, err = c.Coerce(Present("1"))
			if !assertError(t, err, Client, `"1" is equal to exclusive maximum 1.0`) {
				return
			}
		})
	})

	t.Run("will compare string bounds lexically", func(t *testing.T) {
		c, err := Compile("name", &schema.Schema{Minimum: "b"})
		if !assert.Nil(t, err) {
			return
		}

		_, err = c.Coerce(Present("abc"))
		if !assertError(t, err, Client, `"abc" is less than minimum b`) {
			return
		}

		v, err := c.Coerce(Present("bcd"))
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, "bcd", v) {
			return
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("will return the date", func(t *testing.T) {
		t.Run("if the input is a valid date", func(t *testing.T) {
			v, err := Validate(Present("2009-08-12"), &schema.Schema{Format: "date"}, "since")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, civil.Date{Year: 2009, Month: time.August, Day: 12}, v) {
				return
			}
		})
	})

	t.Run("will return the default date", func(t *testing.T) {
		for _, def := range []any{"2010-01-01", civil.Date{Year: 2010, Month: time.January, Day: 1}} {
			for _, in := range []Input{Absent(), Blank()} {
				v, err := Validate(in, &schema.Schema{Format: "date", Default: def}, "since")
				if !assert.Nil(t, err) {
					return
				}
				if !assert.Equal(t, civil.Date{Year: 2010, Month: time.January, Day: 1}, v) {
					return
				}
			}
		}
	})

	t.Run("will return a client error", func(t *testing.T) {
		t.Run("if the required parameter is absent", func(t *testing.T) {
			_, err := Validate(Absent(), &schema.Schema{Format: "date", Required: true}, "since")

			assertError(t, err, Client, "Missing required parameter")
		})
	})

	t.Run("will return a server error", func(t *testing.T) {
		t.Run("if the maximum is not a valid date", func(t *testing.T) {
			_, err := Validate(Present("2009-08-12"), &schema.Schema{Format: "date", Maximum: "2009-15-27"}, "since")

			assertError(t, err, Server, `The "maximum" value in the schema is invalid ("2009-15-27")`)
		})
	})
}

func TestCoercer_Coerce_float(t *testing.T) {
	t.Run("will accept a value equal to a typed bound", func(t *testing.T) {
		t.Run("if the bounds are inclusive", func(t *testing.T) {
			c, err := Compile("ratio", &schema.Schema{
				Type:    schema.TypeNumber,
				Format:  "float",
				Minimum: 5.1,
				Maximum: 5.1,
			})
			if !assert.Nil(t, err) {
				return
			}

			v, err := c.Coerce(Present("5.1"))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, float64(float32(5.1)), v) {
				return
			}
		})
	})

	t.Run("will reject a value equal to a typed bound", func(t *testing.T) {
		t.Run("if the minimum is exclusive", func(t *testing.T) {
			c, err := Compile("ratio", &schema.Schema{
				Type:             schema.TypeNumber,
				Format:           "float",
				Minimum:          5.1,
				ExclusiveMinimum: true,
			})
			if !assert.Nil(t, err) {
				return
			}

			_, err = c.Coerce(Present("5.1"))
			if !assertError(t, err, Client, `"5.1" is equal to exclusive minimum 5.1`) {
				return
			}
		})

		t.Run("if the maximum is exclusive", func(t *testing.T) {
			c, err := Compile("ratio", &schema.Schema{
				Type:             schema.TypeNumber,
				Format:           "float",
				Maximum:          5.1,
				ExclusiveMaximum: true,
			})
			if !assert.Nil(t, err) {
				return
			}

			_, err = c.Coerce(Present("5.1"))
			if !assertError(t, err, Client, `"5.1" is equal to exclusive maximum 5.1`) {
				return
			}
		})
	})
}

func TestCoercer_Coerce_enum(t *testing.T) {
	t.Run("will compare the parsed value", func(t *testing.T) {
		testCases := []struct {
			Name     string
			Schema   *schema.Schema
			Text     string
			Expected any
		}{
			{
				Name:     "if the enum holds integers",
				Schema:   &schema.Schema{Type: schema.TypeInteger, Enum: []any{1, 2}},
				Text:     "01",
				Expected: int64(1),
			},
			{
				Name:     "if the enum holds integers as text",
				Schema:   &schema.Schema{Type: schema.TypeInteger, Enum: []any{"1", "2"}},
				Text:     "+2",
				Expected: int64(2),
			},
			{
				Name:     "if the enum holds booleans",
				Schema:   &schema.Schema{Type: schema.TypeBoolean, Enum: []any{true}},
				Text:     "TRUE",
				Expected: true,
			},
			{
				Name:     "if the enum holds dates",
				Schema:   &schema.Schema{Format: "date", Enum: []any{"2009-08-12", "2010-01-01"}},
				Text:     "2010-01-01",
				Expected: civil.Date{Year: 2010, Month: time.January, Day: 1},
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				c, err := Compile("p", testCase.Schema)
				if !assert.Nil(t, err) {
					return
				}

				v, err := c.Coerce(Present(testCase.Text))
				if !assert.Nil(t, err) {
					return
				}
				if !assert.Equal(t, testCase.Expected, v) {
					return
				}
			})
		}
	})

	t.Run("will return a client error", func(t *testing.T) {
		t.Run("if the value is not in the enum", func(t *testing.T) {
			c, err := Compile("limit", &schema.Schema{Type: schema.TypeInteger, Enum: []any{1, 2}})
			if !assert.Nil(t, err) {
				return
			}

			_, err = c.Coerce(Present("3"))
			if !assertError(t, err, Client, `No enum match for: "3"`) {
				return
			}

			var eerr structural.EnumMismatchError
			if !assert.ErrorAs(t, err, &eerr) {
				return
			}
		})
	})

	t.Run("will return a server error", func(t *testing.T) {
		t.Run("if an enum value is not in the parameter format", func(t *testing.T) {
			c, err := Compile("limit", &schema.Schema{Type: schema.TypeInteger, Enum: []any{1, "x"}})
			if !assert.Nil(t, err) {
				return
			}

			_, err = c.Coerce(Present("1"))
			if !assertError(t, err, Server, `The "enum" value in the schema is invalid ("x")`) {
				return
			}
		})
	})
}

func TestCoercer_Coerce_fractionalIntegerBounds(t *testing.T) {
	t.Run("will accept every integer inside the bounds", func(t *testing.T) {
		testCases := []struct {
			Name   string
			Schema *schema.Schema
			Text   string
		}{
			{
				Name:   "if the maximum is fractional",
				Schema: &schema.Schema{Type: schema.TypeInteger, Maximum: 5.5},
				Text:   "5",
			},
			{
				Name:   "if the exclusive maximum is fractional",
				Schema: &schema.Schema{Type: schema.TypeInteger, Maximum: 5.5, ExclusiveMaximum: true},
				Text:   "5",
			},
			{
				Name:   "if the exclusive minimum is fractional",
				Schema: &schema.Schema{Type: schema.TypeInteger, Minimum: 4.5, ExclusiveMinimum: true},
				Text:   "5",
			},
			{
				Name:   "if the minimum is a negative fraction",
				Schema: &schema.Schema{Type: schema.TypeInteger, Minimum: -0.5},
				Text:   "0",
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				c, err := Compile("limit", testCase.Schema)
				if !assert.Nil(t, err) {
					return
				}

				_, err = c.Coerce(Present(testCase.Text))
				if !assert.Nil(t, err) {
					return
				}
				if !assert.Nil(t, c.Verify()) {
					return
				}
			})
		}
	})

	t.Run("will return a client error", func(t *testing.T) {
		t.Run("if the value is outside a fractional bound", func(t *testing.T) {
			c, err := Compile("limit", &schema.Schema{Type: schema.TypeInteger, Minimum: 4.5, Maximum: 5.5})
			if !assert.Nil(t, err) {
				return
			}

			_, err = c.Coerce(Present("6"))
			if !assertError(t, err, Client, `"6" is greater than maximum 5.5`) {
				return
			}

			_, err = c.Coerce(Present("4"))
			if !assertError(t, err, Client, `"4" is less than minimum 4.5`) {
				return
			}
		})
	})

	t.Run("will return a server error", func(t *testing.T) {
		t.Run("if a fractional default is given for an integer", func(t *testing.T) {
			c, err := Compile("limit", &schema.Schema{Type: schema.TypeInteger, Default: 5.5})
			if !assert.Nil(t, err) {
				return
			}

			_, err = c.Coerce(Absent())
			if !assertError(t, err, Server, `The "default" value in the schema is invalid ("5.5")`) {
				return
			}
		})
	})
}
