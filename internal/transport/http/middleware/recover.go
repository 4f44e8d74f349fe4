package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/pribylovaa/go-audio-sections/internal/dataerr"
	"github.com/pribylovaa/go-audio-sections/internal/transport/http/apierrors"
	logctx "github.com/pribylovaa/go-audio-sections/pkg/log"
)

// Recover превращает panic хендлера в UNEXPECTED_ERROR (500).
// Причина и стек уходят в лог, клиент получает только код вида.
// Если ответ уже начат, тело не дописывается.
// http.ErrAbortHandler пробрасывается дальше: так net/http обрывает соединение.
func Recover() func(http.Handler) http.Handler {
	const op = "transport.http.middleware.Recover"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := record(w)

			defer func() {
				reason := recover()
				if reason == nil {
					return
				}
				if reason == http.ErrAbortHandler {
					panic(reason)
				}

				logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "http_panic",
					slog.String("op", op),
					slog.String("path", r.URL.Path),
					slog.String("request_id", r.Header.Get(HeaderRequestID)),
					slog.Any("reason", reason),
					slog.String("stack", string(debug.Stack())),
				)

				if rec.written() {
					return
				}
				apierrors.WriteError(rec, r, &dataerr.Error{
					Kind: dataerr.UnexpectedError,
					Err:  fmt.Errorf("panic: %v", reason),
				})
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
