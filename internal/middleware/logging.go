package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	requestIDHeader   = "X-Request-ID"
	maxRequestIDLen   = 128
	maxCapturedBytes  = 8 << 10
	graphqlPathSuffix = "/graphql"
)

// loggedBody covers both response shapes: the REST envelope and a GraphQL
// result whose errors carry extensions.code.
type loggedBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
	Errors []struct {
		Extensions struct {
			Code string `json:"code"`
		} `json:"extensions"`
	} `json:"errors"`
}

// requestInfo is shared by pointer so inner middleware can annotate the log
// line written by Logging.
type requestInfo struct {
	id     string
	userID int
}

type requestInfoKey struct{}

func RequestIDFromContext(ctx context.Context) string {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		return info.id
	}
	return ""
}

func setRequestUser(ctx context.Context, userID int) {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		info.userID = userID
	}
}

// Logging writes one line per request. Failed REST calls log the envelope's
// error code; GraphQL calls log resolver error codes even on a 200.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		info := &requestInfo{id: requestID}
		ctx := context.WithValue(r.Context(), requestInfoKey{}, info)

		started := time.Now()
		wrapped := &responseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
			captureAll:     strings.HasSuffix(r.URL.Path, graphqlPathSuffix),
		}

		next.ServeHTTP(wrapped, r.WithContext(ctx))

		attrs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(started).Milliseconds(),
			"client_ip", extractClientIP(r),
		}
		if info.userID > 0 {
			attrs = append(attrs, "user_id", info.userID)
		}
		attrs = append(attrs, bodyAttrs(wrapped.body.Bytes())...)

		switch {
		case wrapped.status >= 500:
			slog.Error("request", attrs...)
		case wrapped.status >= 400:
			slog.Warn("request", attrs...)
		default:
			slog.Info("request", attrs...)
		}
	})
}

func bodyAttrs(body []byte) []any {
	if len(body) == 0 {
		return nil
	}

	var parsed loggedBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil
	}

	var attrs []any
	if parsed.Error != nil {
		attrs = append(attrs, "error_code", parsed.Error.Code, "error_message", parsed.Error.Message)
		if parsed.Error.Details != "" {
			attrs = append(attrs, "error_details", parsed.Error.Details)
		}
	}
	if len(parsed.Errors) > 0 {
		codes := make([]string, 0, len(parsed.Errors))
		for _, e := range parsed.Errors {
			codes = append(codes, e.Extensions.Code)
		}
		attrs = append(attrs, "graphql_error_codes", strings.Join(codes, ","))
	}
	return attrs
}

type responseWriter struct {
	http.ResponseWriter
	status      int
	body        bytes.Buffer
	captureAll  bool
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if rw.wroteHeader {
		return
	}
	rw.status = statusCode
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if (rw.captureAll || rw.status >= 400) && rw.body.Len() < maxCapturedBytes {
		rw.body.Write(b[:min(len(b), maxCapturedBytes-rw.body.Len())])
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
