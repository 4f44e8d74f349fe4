package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/go-audio-sections/internal/dataerr"
	"github.com/pribylovaa/go-audio-sections/internal/transport/http/apierrors"
	logctx "github.com/pribylovaa/go-audio-sections/pkg/log"
)

// Timeout ограничивает запрос дедлайном d; более ранний дедлайн клиента
// сохраняется. Если дедлайн истёк, а хендлер ничего не ответил,
// клиент получает REQUEST_TIMEOUT (504). d <= 0 — no-op.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	const op = "transport.http.middleware.Timeout"

	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			rec := record(w)
			r = r.WithContext(ctx)
			next.ServeHTTP(rec, r)

			if !errors.Is(ctx.Err(), context.DeadlineExceeded) || rec.written() {
				return
			}

			logctx.From(ctx).Warn("http_request_timeout",
				slog.String("op", op),
				slog.String("path", r.URL.Path),
				slog.Duration("timeout", d),
			)
			apierrors.WriteError(rec, r, &dataerr.Error{Kind: dataerr.RequestTimeout, Err: ctx.Err()})
		})
	}
}
