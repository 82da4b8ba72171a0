package apierror

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers and transports.
type Kind string

const (
	KindCrypto           Kind = "CRYPTO_ERROR"
	KindToken            Kind = "TOKEN_ERROR"
	KindWrongTokenType   Kind = "WRONG_TOKEN_TYPE"
	KindDatabase         Kind = "DATABASE_ERROR"
	KindNotAuthorized    Kind = "NOT_AUTHORIZED"
	KindWrongCredentials Kind = "WRONG_CREDENTIALS"
	KindUnknown          Kind = "UNKNOWN_ERROR"
	KindBadRequest       Kind = "BAD_REQUEST"
	KindNotFound         Kind = "NOT_FOUND"
	KindAlreadyExists    Kind = "ALREADY_EXISTS"
)

// statusByKind must list every Kind; Kinds() is derived from it.
var statusByKind = map[Kind]int{
	KindCrypto:           http.StatusInternalServerError,
	KindToken:            http.StatusUnauthorized,
	KindWrongTokenType:   http.StatusUnauthorized,
	KindDatabase:         http.StatusInternalServerError,
	KindNotAuthorized:    http.StatusForbidden,
	KindWrongCredentials: http.StatusUnauthorized,
	KindUnknown:          http.StatusInternalServerError,
	KindBadRequest:       http.StatusBadRequest,
	KindNotFound:         http.StatusNotFound,
	KindAlreadyExists:    http.StatusConflict,
}

// HTTPStatus returns the transport status for the kind. Unlisted kinds map to 500.
func (k Kind) HTTPStatus() int {
	if status, ok := statusByKind[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Kinds lists every known kind.
func Kinds() []Kind {
	out := make([]Kind, 0, len(statusByKind))
	for k := range statusByKind {
		out = append(out, k)
	}
	return out
}

type APIError struct {
	Code       Kind   `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func New(kind Kind, message string, details string) *APIError {
	return &APIError{Code: kind, Message: message, Details: details, HTTPStatus: kind.HTTPStatus()}
}

func Wrap(kind Kind, message string, err error) *APIError {
	e := New(kind, message, "")
	e.Err = err
	return e
}

// KindOf reports the kind of the first APIError in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Crypto converts a hashing or signing engine failure.
func Crypto(err error) *APIError {
	return Wrap(KindCrypto, "cryptographic operation failed", err)
}

// Token converts a token decode or claim validation failure.
func Token(message string, err error) *APIError {
	if message == "" {
		message = "invalid token"
	}
	return Wrap(KindToken, message, err)
}

// Database converts a storage failure. sql.ErrNoRows becomes NOT_FOUND; an
// error that is already an APIError is returned unchanged.
func Database(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return Wrap(KindNotFound, op+": not found", err)
	}

	return Wrap(KindDatabase, op+" failed", err)
}

// Unknown converts an unexpected internal state.
func Unknown(err error) *APIError {
	return Wrap(KindUnknown, "unexpected server error", err)
}

func NotAuthorized(details string) *APIError {
	return New(KindNotAuthorized, "not authorized", details)
}

func BadRequest(message string, details string) *APIError {
	return New(KindBadRequest, message, details)
}
