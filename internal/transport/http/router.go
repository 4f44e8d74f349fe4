// http собирает REST-поверхность сервиса секций на chi.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-audio-sections/internal/service"
	"github.com/pribylovaa/go-audio-sections/internal/transport/http/handlers"
	"github.com/pribylovaa/go-audio-sections/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
	// Ready — готовность для /healthz; nil — всегда готов.
	Ready func() bool
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(p handlers.Pager, s service.Searcher, opts Options) http.Handler {
	root := chi.NewRouter()

	root.Use(middleware.Stack(middleware.Options{Logger: opts.Logger, Timeout: opts.Timeout})...)

	h := handlers.New(p, s, opts.Ready)

	root.Get("/livez", h.Livez)
	root.Get("/healthz", h.Healthz)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// sections
	r.Get("/sections", h.ListSections)
	r.Get("/sections/state", h.State)
	r.Get("/sections/{key}", h.GetSection)
	r.Post("/sections/refresh", h.Refresh)
	r.Post("/sections/append", h.Append)
	r.Post("/sections/prepend", h.Prepend)
	r.Post("/sections/retry", h.Retry)

	// search
	r.Get("/search", h.Search)
}
