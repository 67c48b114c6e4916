// Package rest serves the order pipeline over plain HTTP for local
// development. It translates chi-routed requests into the same request
// descriptor the Lambda entry point receives, so both paths exercise one
// pipeline.
package rest

import (
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"orders-backend/interfaces/apigateway"
)

// NewRouter configures the local HTTP router over the pipeline handler.
func NewRouter(handler *apigateway.Handler, logger *zap.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	router.Post("/orders", adapt(handler, "POST", "/orders"))
	router.Get("/customers/{customer_id}/orders/{order_id}", adapt(handler, "GET", "/customers/{customer_id}/orders/{order_id}"))
	router.Get("/customers/{customer_id}/orders", adapt(handler, "GET", "/customers/{customer_id}/orders"))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not found"}`))
	})

	return router
}

// adapt bridges an HTTP request into the API Gateway request descriptor the
// pipeline consumes.
func adapt(handler *apigateway.Handler, method, resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		pathParams := map[string]string{}
		if ctx := chi.RouteContext(r.Context()); ctx != nil {
			for i, key := range ctx.URLParams.Keys {
				pathParams[key] = ctx.URLParams.Values[i]
			}
		}

		queryParams := map[string]string{}
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				queryParams[key] = values[0]
			}
		}

		headers := map[string]string{}
		if ct := r.Header.Get("Content-Type"); ct != "" {
			headers["content-type"] = ct
		}

		event := events.APIGatewayProxyRequest{
			Resource:              resource,
			Path:                  r.URL.Path,
			HTTPMethod:            method,
			Headers:               headers,
			PathParameters:        pathParams,
			QueryStringParameters: queryParams,
			Body:                  string(body),
		}

		resp, err := handler.Handle(r.Context(), event)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		for name, value := range resp.Headers {
			w.Header().Set(name, value)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write([]byte(resp.Body))
	}
}
