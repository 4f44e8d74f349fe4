package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/internal/service"
)

// Pager — операции ленты секций. Реализуется *service.Pager.
type Pager interface {
	Sections(ctx context.Context, opts models.ListOptions) (*models.SectionPage, error)
	SectionByKey(ctx context.Context, key string) (*models.Section, error)
	CachedCount(ctx context.Context) (int, error)
	States() service.LoadStates
	SetAnchor(key string)
	Refresh(ctx context.Context) (service.LoadResult, error)
	Append(ctx context.Context) (service.LoadResult, error)
	Prepend(ctx context.Context) (service.LoadResult, error)
	Retry(ctx context.Context) error
}

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	Pager    Pager
	Searcher service.Searcher
	// Ready — готовность к трафику для /healthz; nil — всегда готов.
	Ready func() bool
}

func New(p Pager, s service.Searcher, ready func() bool) *Handlers {
	return &Handlers{Pager: p, Searcher: s, Ready: ready}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// Livez — процесс жив.
func (h *Handlers) Livez(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Healthz — процесс готов обслуживать запросы.
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	if h.Ready != nil && !h.Ready() {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
