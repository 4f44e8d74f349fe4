package middleware

import (
	"log/slog"
	"net/http"
	"time"

	logctx "github.com/pribylovaa/go-audio-sections/pkg/log"
)

// Logging кладёт request-scoped логгер (с request_id) в контекст
// и пишет одну запись на запрос. 5xx пишутся уровнем warn.
func Logging(l *slog.Logger) func(http.Handler) http.Handler {
	if l == nil {
		l = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := l
			if rid := r.Header.Get(HeaderRequestID); rid != "" {
				reqLogger = reqLogger.With(slog.String("request_id", rid))
			}
			r = r.WithContext(logctx.Into(r.Context(), reqLogger))

			rec := record(w)
			start := time.Now()
			next.ServeHTTP(rec, r)
			dur := time.Since(start)

			status := rec.statusOr200()
			lvl := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				lvl = slog.LevelWarn
			}

			logctx.From(r.Context()).LogAttrs(r.Context(), lvl, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Duration("dur", dur),
				slog.Int("bytes", rec.bytes),
			)
		})
	}
}
