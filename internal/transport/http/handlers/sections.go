package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/internal/service"
	"github.com/pribylovaa/go-audio-sections/internal/transport/http/apierrors"
)

// ListSections — GET /sections?limit=&page_token=.
func (h *Handlers) ListSections(w http.ResponseWriter, r *http.Request) {
	var opts models.ListOptions
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			apierrors.WriteError(w, r, fmt.Errorf("limit: %w", service.ErrInvalidArgument))
			return
		}

		opts.Limit = int32(n)
	}

	opts.PageToken = r.URL.Query().Get("page_token")

	page, err := h.Pager.Sections(r.Context(), opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SectionsListResponse{
		Items:         sectionsFromModels(page.Items),
		NextPageToken: page.NextPageToken,
		States:        h.Pager.States(),
	})
}

// GetSection — GET /sections/{key}.
func (h *Handlers) GetSection(w http.ResponseWriter, r *http.Request) {
	sec, err := h.Pager.SectionByKey(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SectionGetResponse{Item: sectionFromModel(*sec)})
}

// State — GET /sections/state.
func (h *Handlers) State(w http.ResponseWriter, r *http.Request) {
	n, err := h.Pager.CachedCount(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, StateResponse{States: h.Pager.States(), CachedSections: n})
}

// Refresh — POST /sections/refresh?anchor=KEY.
// anchor — ключ секции, ближайшей к текущей позиции клиента.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	if anchor := r.URL.Query().Get("anchor"); anchor != "" {
		h.Pager.SetAnchor(anchor)
	}

	h.load(w, r, models.LoadRefresh, h.Pager.Refresh)
}

// Append — POST /sections/append.
func (h *Handlers) Append(w http.ResponseWriter, r *http.Request) {
	h.load(w, r, models.LoadAppend, h.Pager.Append)
}

// Prepend — POST /sections/prepend.
func (h *Handlers) Prepend(w http.ResponseWriter, r *http.Request) {
	h.load(w, r, models.LoadPrepend, h.Pager.Prepend)
}

// Retry — POST /sections/retry: повтор направлений в состоянии ошибки.
func (h *Handlers) Retry(w http.ResponseWriter, r *http.Request) {
	if err := h.Pager.Retry(r.Context()); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	n, err := h.Pager.CachedCount(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, StateResponse{States: h.Pager.States(), CachedSections: n})
}

func (h *Handlers) load(w http.ResponseWriter, r *http.Request, lt models.LoadType, fn func(context.Context) (service.LoadResult, error)) {
	res, err := fn(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LoadResponse{
		Direction:              lt.String(),
		EndOfPaginationReached: res.EndOfPaginationReached,
		States:                 h.Pager.States(),
	})
}
