package graph

import (
	"log/slog"

	"quiz-backend/pkg/apierror"
)

// resolverError is reported to clients with extensions.code set to the error
// kind. Server-side kinds get a generic message.
type resolverError struct {
	kind    apierror.Kind
	message string
}

func (e *resolverError) Error() string {
	return e.message
}

func (e *resolverError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.kind)}
}

func toResolverError(op string, err error) error {
	if err == nil {
		return nil
	}

	kind := apierror.KindOf(err)
	if kind.HTTPStatus() >= 500 {
		slog.Error("resolver failed", "op", op, "kind", kind, "error", err)
		return &resolverError{kind: kind, message: "internal server error"}
	}

	return &resolverError{kind: kind, message: err.Error()}
}
