package handlers

import (
	"net/http"

	"github.com/pribylovaa/go-audio-sections/internal/service"
	"github.com/pribylovaa/go-audio-sections/internal/transport/http/apierrors"
)

// Search — GET /search?q=. Запрос нормализуется; пустой запрос
// отдаёт пустой список без обращения к сети.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	q := service.Normalize(r.URL.Query().Get("q"))

	sections, err := h.Searcher.Search(r.Context(), q)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{Query: q, Items: sectionsFromModels(sections)})
}
