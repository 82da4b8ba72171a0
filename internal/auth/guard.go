package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"quiz-backend/internal/model"
	"quiz-backend/pkg/apierror"
)

const (
	AuthorizationHeader = "Authorization"
	bearerPrefix        = "bearer "
)

// Outcome is the terminal state of one authentication decision.
type Outcome int

const (
	// OutcomeForward means no credential was supplied; the request goes on
	// anonymously.
	OutcomeForward Outcome = iota
	OutcomeSuccess
	OutcomeBadRequest
	OutcomeUnauthorized
	OutcomeServerError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeForward:
		return "forward"
	case OutcomeSuccess:
		return "success"
	case OutcomeBadRequest:
		return "bad_request"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// Decision is the result of Guard.Authenticate. Identity is set only on
// OutcomeSuccess; Err is set on every reject outcome.
type Decision struct {
	Outcome  Outcome
	Identity model.SafeUser
	Err      error
}

// SafeUserLookup resolves a token subject to an identity. It must return
// model.ErrUserNotFound (possibly wrapped) when the user does not exist.
type SafeUserLookup interface {
	FindSafeByID(ctx context.Context, id int) (model.SafeUser, error)
}

// Guard turns an inbound Authorization header into an authentication decision.
type Guard struct {
	cfg   *SigningConfig
	users SafeUserLookup
}

func NewGuard(cfg *SigningConfig, users SafeUserLookup) *Guard {
	return &Guard{cfg: cfg, users: users}
}

func (g *Guard) Authenticate(r *http.Request) Decision {
	values := r.Header.Values(AuthorizationHeader)
	if len(values) == 0 {
		return Decision{Outcome: OutcomeForward}
	}

	if g == nil || g.cfg == nil || g.users == nil {
		return reject(OutcomeServerError, apierror.Unknown(errors.New("authentication guard is not initialized")))
	}

	if len(values) > 1 {
		return reject(OutcomeBadRequest, apierror.BadRequest("multiple authorization headers", ""))
	}

	token, ok := bearerToken(values[0])
	if !ok {
		return reject(OutcomeBadRequest, apierror.BadRequest("malformed authorization header", "expected Bearer scheme"))
	}

	claims, err := ValidateToken(token, g.cfg, Access)
	if err != nil {
		if IsMalformed(err) {
			return reject(OutcomeBadRequest, err)
		}
		return reject(OutcomeUnauthorized, err)
	}

	userID, err := claims.UserID()
	if err != nil {
		return reject(OutcomeBadRequest, apierror.Token("invalid token subject", err))
	}

	identity, err := g.users.FindSafeByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) || apierror.IsKind(err, apierror.KindNotFound) {
			return reject(OutcomeUnauthorized, apierror.Token("token subject no longer exists", err))
		}
		return reject(OutcomeServerError, err)
	}

	return Decision{Outcome: OutcomeSuccess, Identity: identity}
}

func reject(outcome Outcome, err error) Decision {
	return Decision{Outcome: outcome, Err: err}
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
