// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config reads parameter definition documents from one or more
// sources and decodes them into Go values.
//
// A [Source] writes its key value pairs into a [Store]. Sources are applied
// in order, so values from later sources override values from earlier ones:
//
//	m, err := config.Read(
//	    config.FromYaml(config.NewFileReader(os.DirFS("."), "params.yaml")),
//	    config.FromJson(strings.NewReader(`{"parameters": []}`)),
//	)
//
// The merged values are then decoded with [Manager.Unmarshal], which uses
// the "config" struct tag to map keys onto fields.
//
// A document may also be rendered as a text/template before it is decoded,
// see [Template].
package config
