package handler

import (
	"errors"
	"encoding/json"
	"log/slog"
	"net/http"

	"quiz-backend/internal/model"
	"quiz-backend/pkg/apierror"
)

const maxBodyBytes = 64 << 10

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError maps err through the apierror status table. Server-side kinds
// are logged and answered with a generic message.
func writeError(w http.ResponseWriter, err error) {
	kind := apierror.KindOf(err)
	status := kind.HTTPStatus()
	body := &model.APIError{Code: string(kind), Message: "Unexpected server error"}

	if status < http.StatusInternalServerError {
		body.Message = err.Error()
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) {
			body.Message = apiErr.Message
			body.Details = apiErr.Details
		}
	} else {
		slog.Error("request failed", "kind", kind, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apierror.BadRequest("invalid JSON body", err.Error())
	}
	return nil
}
