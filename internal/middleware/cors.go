package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORS lets browser clients on other origins send bearer tokens to /graphql
// and the REST auth routes. Entries may use one wildcard, e.g.
// "https://*.example.com"; an empty list allows any origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "Retry-After"},
		MaxAge:         3600,
	}).Handler
}
