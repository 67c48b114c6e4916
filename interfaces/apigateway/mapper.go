package apigateway

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	apperrors "orders-backend/pkg/errors"
)

// ResponseMapper deterministically maps a terminal outcome to a transport
// response. Only the internal_failure branch logs its cause; every other
// branch is an expected client outcome.
type ResponseMapper struct {
	logger *zap.Logger
}

// NewResponseMapper creates a mapper logging through the given logger.
func NewResponseMapper(logger *zap.Logger) *ResponseMapper {
	return &ResponseMapper{logger: logger}
}

type errorBody struct {
	Type    string         `json:"type"`
	Error   string         `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// Success renders a success value with the operation's intended status code.
func (m *ResponseMapper) Success(status int, body any) events.APIGatewayProxyResponse {
	return respond(status, body)
}

// Failure renders a taxonomy error. Errors from outside the taxonomy are
// treated as internal failures, which cannot happen through the pipeline's
// own stages.
func (m *ResponseMapper) Failure(err error) events.APIGatewayProxyResponse {
	e := apperrors.As(err)
	if e == nil {
		e = apperrors.NewInternalFailure("unclassified error", err)
	}

	switch e.Kind {
	case apperrors.KindResourceInvalid:
		return respond(http.StatusUnprocessableEntity, errorBody{
			Type:  string(e.Kind),
			Error: e.Message,
			Context: map[string]any{
				"form":   e.Form,
				"fields": e.Fields,
			},
		})

	case apperrors.KindMalformedContent:
		return respond(http.StatusBadRequest, errorBody{
			Type:  string(e.Kind),
			Error: e.Message,
			Context: map[string]any{
				"reason": e.Reason,
			},
		})

	case apperrors.KindUnsupportedContent:
		return respond(http.StatusUnsupportedMediaType, errorBody{
			Type:  string(e.Kind),
			Error: e.Message,
			Context: map[string]any{
				"expected": e.Expected,
				"actual":   e.Actual,
			},
		})

	case apperrors.KindResourceNotFound:
		return respond(http.StatusNotFound, errorBody{
			Type:  string(e.Kind),
			Error: e.Message,
			Context: map[string]any{
				"resource": e.Resource,
				"id":       e.ID,
			},
		})

	case apperrors.KindResourceExists:
		return respond(http.StatusConflict, errorBody{
			Type:  string(e.Kind),
			Error: e.Message,
			Context: map[string]any{
				"resource": e.Resource,
				"id":       e.ID,
			},
		})

	case apperrors.KindThrottled:
		ctx := map[string]any{}
		if e.RetryAfter > 0 {
			ctx["retry_after_ms"] = e.RetryAfter.Milliseconds()
		}
		return respond(http.StatusTooManyRequests, errorBody{
			Type:    string(e.Kind),
			Error:   e.Message,
			Context: ctx,
		})

	default:
		// internal_failure: the cause stays server-side.
		m.logger.Error("internal failure",
			zap.String("message", e.Message),
			zap.Error(e.Cause),
		)
		return respond(http.StatusInternalServerError, errorBody{
			Type:    string(apperrors.KindInternalFailure),
			Message: "Internal server error",
		})
	}
}

// NotFoundRoute is the fallback for a routing miss. It is intentionally not
// drawn from the error taxonomy: no domain operation failed.
func (m *ResponseMapper) NotFoundRoute() events.APIGatewayProxyResponse {
	return respond(http.StatusNotFound, map[string]string{
		"message": "Not found",
	})
}

func respond(status int, body any) events.APIGatewayProxyResponse {
	raw, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"content-type": jsonContentType},
			Body:       `{"type":"internal_failure","message":"Internal server error"}`,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"content-type": jsonContentType},
		Body:       string(raw),
	}
}
