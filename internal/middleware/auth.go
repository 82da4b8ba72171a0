package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"quiz-backend/internal/auth"
	"quiz-backend/internal/metrics"
	"quiz-backend/pkg/apierror"
)

// statusByOutcome maps every reject outcome of the guard to a response status.
var statusByOutcome = map[auth.Outcome]int{
	auth.OutcomeBadRequest:   http.StatusBadRequest,
	auth.OutcomeUnauthorized: http.StatusUnauthorized,
	auth.OutcomeServerError:  http.StatusInternalServerError,
}

type AuthMiddleware struct {
	guard   *auth.Guard
	metrics *metrics.Metrics
}

func NewAuthMiddleware(guard *auth.Guard, m *metrics.Metrics) *AuthMiddleware {
	return &AuthMiddleware{guard: guard, metrics: m}
}

// Authenticate attaches the caller identity when a valid bearer token is
// present. Requests without credentials continue anonymously; bad credentials
// stop the request.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := m.guard.Authenticate(r)
		m.metrics.ObserveAuthDecision(decision.Outcome.String())

		switch decision.Outcome {
		case auth.OutcomeForward:
			next.ServeHTTP(w, r)
		case auth.OutcomeSuccess:
			setRequestUser(r.Context(), decision.Identity.ID)
			ctx := auth.ContextWithIdentity(r.Context(), decision.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		default:
			status, ok := statusByOutcome[decision.Outcome]
			if !ok {
				status = http.StatusInternalServerError
			}
			writeDecisionError(w, r, status, decision)
		}
	})
}

// RequireAuth rejects anonymous requests. It must run after Authenticate.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.IdentityFromContext(r.Context()); !ok {
			writeJSONError(w, http.StatusUnauthorized, string(apierror.KindNotAuthorized), "authentication required", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeDecisionError(w http.ResponseWriter, r *http.Request, status int, decision auth.Decision) {
	kind := apierror.KindOf(decision.Err)
	message := "authentication failed"
	details := ""

	var apiErr *apierror.APIError
	if errors.As(decision.Err, &apiErr) {
		message = apiErr.Message
		details = apiErr.Details
	}

	if status >= http.StatusInternalServerError {
		slog.Error("authentication failed", "outcome", decision.Outcome.String(), "path", r.URL.Path, "error", decision.Err)
		message = "authentication unavailable"
		details = ""
	} else {
		slog.Debug("authentication rejected", "outcome", decision.Outcome.String(), "path", r.URL.Path, "error", decision.Err)
	}

	writeJSONError(w, status, string(kind), message, details)
}
