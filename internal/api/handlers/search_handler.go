package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/cafoodfinder/internal/domain/entities"
	"github.com/zatekoja/cafoodfinder/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/cafoodfinder/pkg/errors"
	"github.com/zatekoja/cafoodfinder/pkg/export"
)

const exportFileName = "ca_food_places.csv"

// FoodSearcher runs a food places search
type FoodSearcher interface {
	Search(ctx context.Context, req entities.SearchRequest) (*entities.SearchResult, error)
}

// SearchHandler handles food place search endpoints
type SearchHandler struct {
	searcher FoodSearcher
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searcher FoodSearcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

type searchResponse struct {
	SearchID string                  `json:"search_id"`
	Origin   entities.Coordinates    `json:"origin"`
	Status   entities.SearchStatus   `json:"status"`
	Message  string                  `json:"message,omitempty"`
	Count    int                     `json:"count"`
	Results  entities.ResultTable    `json:"results"`
	Failures []entities.PlaceFailure `json:"failures"`
}

// ListCategories handles GET /api/categories
func (h *SearchHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"categories":        entities.FoodCategories,
		"min_radius_km":     entities.MinRadiusKm,
		"max_radius_km":     entities.MaxRadiusKm,
		"default_radius_km": entities.DefaultRadiusKm,
	})
}

// Search handles GET /api/search?postal_code=...&radius_km=...&categories=restaurant,cafe
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, ok := h.runSearch(w, r)
	if !ok {
		return
	}

	resp := searchResponse{
		SearchID: result.SearchID,
		Origin:   result.Origin,
		Status:   result.Status,
		Count:    len(result.Rows),
		Results:  result.Rows,
		Failures: result.Failures,
	}
	if result.Status == entities.SearchStatusEmpty {
		resp.Message = "No .ca websites found for the selected criteria."
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// Export handles GET /api/search/export and returns the result table as CSV
func (h *SearchHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, ok := h.runSearch(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, result.Rows); err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("failed to export search results")
		respondWithError(w, http.StatusInternalServerError, "failed to export results")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName))
	w.Header().Set("X-Search-ID", result.SearchID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *SearchHandler) runSearch(w http.ResponseWriter, r *http.Request) (*entities.SearchResult, bool) {
	req, err := ParseSearchRequest(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return nil, false
	}

	result, err := h.searcher.Search(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return nil, false
	}
	return result, true
}

// ParseSearchRequest reads a search request from query parameters.
// Categories may be given comma separated and/or as repeated parameters.
func ParseSearchRequest(r *http.Request) (entities.SearchRequest, error) {
	query := r.URL.Query()

	req := entities.SearchRequest{
		PostalCode: strings.TrimSpace(query.Get("postal_code")),
		RadiusKm:   entities.DefaultRadiusKm,
	}

	if raw := strings.TrimSpace(query.Get("radius_km")); raw != "" {
		radius, err := strconv.Atoi(raw)
		if err != nil {
			return req, apperrors.NewValidationError("invalid radius_km parameter")
		}
		req.RadiusKm = radius
	}

	for _, value := range query["categories"] {
		for _, raw := range strings.Split(value, ",") {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			category, err := entities.ParseCategory(raw)
			if err != nil {
				return req, apperrors.NewValidationError(err.Error())
			}
			req.Categories = append(req.Categories, category)
		}
	}

	return req, nil
}
