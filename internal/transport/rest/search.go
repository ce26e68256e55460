package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mediseek/medisearch-backend/internal/domain"
)

type diseaseSearcher interface {
	Search(ctx context.Context, query string) []domain.DiseaseSearchItem
}

// SearchHandler serves the disease suggestion endpoint.
type SearchHandler struct {
	search diseaseSearcher
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(search diseaseSearcher) *SearchHandler {
	return &SearchHandler{search: search}
}

// SearchResponse is the JSON envelope of the search endpoint.
type SearchResponse struct {
	Items []domain.DiseaseSearchItem `json:"items"`
}

// Diseases handles GET /api/v1/diseases/search?q=<query>.
// It always responds 200 with a (possibly empty) items list: an absent or
// empty query and an unreachable upstream both render as zero suggestions,
// never as an error status.
func (h *SearchHandler) Diseases(w http.ResponseWriter, r *http.Request) {
	items := h.search.Search(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, SearchResponse{Items: items})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
