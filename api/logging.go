package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Common field names for structured logging.
const (
	fieldComponent  = "component"
	fieldRequestID  = "request_id"
	fieldMethod     = "method"
	fieldPath       = "path"
	fieldStatusCode = "status_code"
	fieldDuration   = "duration_ms"
	fieldBytes      = "bytes"
	fieldEmployee   = "employee_id"
	fieldError      = "error"
)

type loggerKey struct{}

// RequestLogger stores a request-scoped logger in the context and logs one
// line per request once the handler returns. It must run after
// middleware.RequestID.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			logger := base.With(
				fieldComponent, "http",
				fieldRequestID, middleware.GetReqID(r.Context()),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ctx := context.WithValue(r.Context(), loggerKey{}, logger)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "request",
				fieldMethod, r.Method,
				fieldPath, r.URL.Path,
				fieldStatusCode, status,
				fieldBytes, ww.BytesWritten(),
				fieldDuration, time.Since(start).Milliseconds(),
			)
		})
	}
}

// loggerFrom returns the request logger, or the default logger outside a
// request.
func loggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
