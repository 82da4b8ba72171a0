package graph

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/graph-gophers/graphql-go"

	"quiz-backend/internal/metrics"
)

const maxRequestBytes = 1 << 20

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves GraphQL over GET (query string) and POST (JSON body).
// Resolver errors are still answered with 200; the HTTP status only reflects
// transport problems.
type Handler struct {
	schema  *graphql.Schema
	metrics *metrics.Metrics
}

func NewHandler(schema *graphql.Schema, m *metrics.Metrics) *Handler {
	return &Handler{schema: schema, metrics: m}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, status, message := decodeRequest(w, r)
	if status != 0 {
		writeTransportError(w, status, message)
		return
	}

	resp := h.schema.Exec(r.Context(), req.Query, req.OperationName, req.Variables)
	for _, qe := range resp.Errors {
		code := "GRAPHQL_VALIDATION_FAILED"
		if c, ok := qe.Extensions["code"].(string); ok {
			code = c
		}
		h.metrics.ObserveGraphQLError(code)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (request, int, string) {
	var req request

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if raw := q.Get("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				return req, http.StatusBadRequest, "variables must be a JSON object"
			}
		}
	case http.MethodPost:
		if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
			return req, http.StatusUnsupportedMediaType, "content type must be application/json"
		}
		body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			return req, http.StatusBadRequest, "request body must be a GraphQL JSON request"
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		return req, http.StatusMethodNotAllowed, "method not allowed"
	}

	if strings.TrimSpace(req.Query) == "" {
		return req, http.StatusBadRequest, "query is required"
	}
	return req, 0, ""
}

func writeTransportError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": []map[string]any{{
			"message":    message,
			"extensions": map[string]any{"code": "BAD_REQUEST"},
		}},
	})
}
