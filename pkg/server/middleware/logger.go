package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Logger attaches a request-scoped logger to the context and logs the outcome
// of every request once it has been served. The request id is only present
// when middleware.RequestID runs before it.
func Logger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			fields := logger.With().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", req.RemoteAddr)
			if id := middleware.GetReqID(req.Context()); id != "" {
				fields = fields.Str("request_id", id)
			}
			reqLogger := fields.Logger()

			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, req.WithContext(reqLogger.WithContext(req.Context())))

			level := zerolog.InfoLevel
			if ww.Status() >= http.StatusInternalServerError {
				level = zerolog.WarnLevel
			}
			reqLogger.WithLevel(level).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("request served")
		})
	}
}
