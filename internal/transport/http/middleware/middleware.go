// middleware — HTTP-мидлвары сервиса секций: восстановление после panic,
// идентификатор запроса, логирование и дедлайн запроса.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Options — параметры стека мидлваров.
type Options struct {
	Logger *slog.Logger
	// Timeout <= 0 — без дедлайна.
	Timeout time.Duration
}

// Stack возвращает мидлвары сервиса от внешнего к внутреннему:
// Recover -> RequestID -> Logging -> Timeout.
// RequestID стоит до Logging: id попадает в логгер запроса.
func Stack(opts Options) chi.Middlewares {
	mws := chi.Chain(Recover(), RequestID(), Logging(opts.Logger))
	if opts.Timeout > 0 {
		mws = append(mws, Timeout(opts.Timeout))
	}

	return mws
}

// responseRecorder запоминает статус и объём ответа.
// Один экземпляр разделяется всеми мидлварами запроса (см. record).
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

// record оборачивает w, переиспользуя уже существующую обёртку.
func record(w http.ResponseWriter) *responseRecorder {
	if rec, ok := w.(*responseRecorder); ok {
		return rec
	}

	return &responseRecorder{ResponseWriter: w}
}

// WriteHeader пропускает только первый статус.
func (w *responseRecorder) WriteHeader(code int) {
	if w.status != 0 {
		return
	}
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// Unwrap открывает исходный writer для http.ResponseController.
func (w *responseRecorder) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// written — ответ уже начат, конверт ошибки писать поздно.
func (w *responseRecorder) written() bool { return w.status != 0 }

func (w *responseRecorder) statusOr200() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
