// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"io"
	"net/http"
	"slices"
	"strconv"

	"github.com/swaggest/openapi-go/openapi3"
)

// OpenApi returns the OpenAPI 3 description of the operation. Operations
// with parameters also document the 400 and 500 responses used for
// rejected parameters and malformed parameter schemas. Operations which
// read a request body document the 400 response for an invalid body.
func (op *Operation[Req, Resp]) OpenApi() openapi3.Operation {
	var spec openapi3.Operation
	for _, p := range op.params {
		spec.Parameters = append(spec.Parameters, openapi3.ParameterOrRef{
			Parameter: p.schema.OpenApi(),
		})
	}

	var req Req
	if content := mediaTypes(&req); len(content) > 0 {
		spec.RequestBody = &openapi3.RequestBodyOrRef{
			RequestBody: &openapi3.RequestBody{
				Content: content,
			},
		}
	}

	var body Resp
	responses := map[int]openapi3.Response{
		op.statusCode: {
			Description: http.StatusText(op.statusCode),
			Content:     mediaTypes(&body),
		},
	}
	statusCodes := slices.Clone(op.responses)
	if len(op.params) > 0 {
		statusCodes = append(statusCodes, http.StatusBadRequest, http.StatusInternalServerError)
	}
	if _, ok := any(&req).(io.ReaderFrom); ok {
		statusCodes = append(statusCodes, http.StatusBadRequest)
	}
	for _, statusCode := range statusCodes {
		if _, ok := responses[statusCode]; ok {
			continue
		}
		responses[statusCode] = openapi3.Response{
			Description: http.StatusText(statusCode),
		}
	}

	spec.Responses.MapOfResponseOrRefValues = make(map[string]openapi3.ResponseOrRef, len(responses))
	for statusCode, r := range responses {
		spec.Responses.MapOfResponseOrRefValues[strconv.Itoa(statusCode)] = openapi3.ResponseOrRef{
			Response: &r,
		}
	}
	return spec
}

// mediaTypes documents a body which describes its own content
// type and schema. Bodies which can't describe both are omitted.
func mediaTypes(body any) map[string]openapi3.MediaType {
	ct, ok := body.(ContentTyper)
	if !ok {
		return nil
	}
	schemaer, ok := body.(OpenApiV3Schemaer)
	if !ok {
		return nil
	}
	sch, err := schemaer.OpenApiV3Schema()
	if err != nil {
		return nil
	}
	return map[string]openapi3.MediaType{
		ct.ContentType(): {
			Schema: &openapi3.SchemaOrRef{
				Schema: sch,
			},
		},
	}
}
