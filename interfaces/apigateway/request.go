// Package apigateway turns API Gateway proxy events into typed order
// operations through a short-circuiting stage pipeline: the first failing
// stage's taxonomy error is the one surfaced, and nothing after it runs.
package apigateway

import (
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"orders-backend/domain"
	apperrors "orders-backend/pkg/errors"
	"orders-backend/pkg/validation"
)

const jsonContentType = "application/json"

// jsonBody checks the declared content type and extracts the raw body. An
// absent content-type header is accepted; anything other than JSON is not.
func jsonBody(req events.APIGatewayProxyRequest) (string, error) {
	if ct := contentType(req.Headers); ct != "" && ct != jsonContentType {
		return "", apperrors.NewUnsupportedContent(jsonContentType, ct)
	}

	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return "", apperrors.NewMalformedContent("Failed to decode request body", err.Error())
		}
		return string(decoded), nil
	}
	return req.Body, nil
}

// contentType finds the content-type header regardless of case and strips
// any media type parameters.
func contentType(headers map[string]string) string {
	for name, value := range headers {
		if strings.EqualFold(name, "Content-Type") {
			media, _, _ := strings.Cut(value, ";")
			return strings.ToLower(strings.TrimSpace(media))
		}
	}
	return ""
}

// decodeCreateOrder runs the parse and validation stages over a raw JSON
// body and produces a typed CreateOrder or a taxonomy error.
func decodeCreateOrder(body string) (domain.CreateOrder, error) {
	var input domain.CreateOrder

	if body == "" {
		return input, apperrors.NewMalformedContent("Missing request body. JSON document expected", "")
	}

	var raw any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return input, apperrors.NewMalformedContent("Failed to parse JSON body", err.Error())
	}
	if _, ok := raw.(map[string]any); !ok {
		return input, apperrors.NewResourceInvalid([]string{"request body is not a JSON object"}, nil)
	}

	if err := json.Unmarshal([]byte(body), &input); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) {
			// typeErr.Field is a dotted path without array indices
			// (items.quantity, not items[0].quantity): the decoder does not
			// report which element mismatched. Validator-stage field errors
			// carry the indexed form.
			return input, apperrors.NewResourceInvalid(nil, map[string][]string{
				typeErr.Field: {fmt.Sprintf("must be of type %s", typeErr.Type)},
			})
		}
		return input, apperrors.NewMalformedContent("Failed to parse JSON body", err.Error())
	}

	if err := validation.Struct(input); err != nil {
		return input, err
	}
	return input, nil
}

// pathID validates a path parameter that must be a time-sortable
// identifier before it reaches the repository.
func pathID(params map[string]string, name string) (string, error) {
	id := params[name]
	if !domain.IsTimeSortableID(id) {
		return "", apperrors.NewResourceInvalid(nil, map[string][]string{
			name: {"must be a valid time-sortable identifier (UUIDv7)"},
		})
	}
	return id, nil
}
