package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/cafoodfinder/internal/api/handlers"
	"github.com/zatekoja/cafoodfinder/internal/domain/entities"
	apperrors "github.com/zatekoja/cafoodfinder/pkg/errors"
)

type MockFoodSearcher struct {
	mock.Mock
}

func (m *MockFoodSearcher) Search(ctx context.Context, req entities.SearchRequest) (*entities.SearchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SearchResult), args.Error(1)
}

func kmPtr(v float64) *float64 { return &v }

func sampleResult() *entities.SearchResult {
	return &entities.SearchResult{
		SearchID: "search-1",
		Origin:   entities.Coordinates{Latitude: 43.65, Longitude: -79.38},
		Status:   entities.SearchStatusOK,
		Rows: entities.ResultTable{
			{
				Name:       "Pizza North",
				Website:    "pizza.ca",
				MapsLink:   "https://maps.google.com/?q=place_id:p1",
				Address:    "1 King St W",
				DistanceKm: kmPtr(0.14),
				Types:      "restaurant",
				Latitude:   kmPtr(43.651),
				Longitude:  kmPtr(-79.381),
			},
		},
		Failures: []entities.PlaceFailure{},
	}
}

func TestSearchHandler_Search_Success(t *testing.T) {
	searcher := new(MockFoodSearcher)
	handler := handlers.NewSearchHandler(searcher)

	expected := entities.SearchRequest{
		PostalCode: "M5H2N2",
		RadiusKm:   5,
		Categories: []entities.Category{entities.CategoryRestaurant, entities.CategoryCafe, entities.CategoryBar},
	}
	searcher.On("Search", mock.Anything, expected).Return(sampleResult(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/search?postal_code=M5H2N2&radius_km=5&categories=restaurant,cafe&categories=bar", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "search-1", body["search_id"])
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, float64(1), body["count"])
	results := body["results"].([]interface{})
	require.Len(t, results, 1)
	row := results[0].(map[string]interface{})
	assert.Equal(t, "Pizza North", row["name"])
	assert.Equal(t, 0.14, row["distance_km"])
	searcher.AssertExpectations(t)
}

func TestSearchHandler_Search_EmptyResult(t *testing.T) {
	searcher := new(MockFoodSearcher)
	handler := handlers.NewSearchHandler(searcher)

	searcher.On("Search", mock.Anything, mock.Anything).Return(&entities.SearchResult{
		SearchID: "search-2",
		Status:   entities.SearchStatusEmpty,
		Rows:     entities.ResultTable{},
		Failures: []entities.PlaceFailure{},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/search?postal_code=M5H2N2&categories=food", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "EMPTY", body["status"])
	assert.Contains(t, body["message"], "No .ca websites")
}

func TestSearchHandler_Search_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", apperrors.NewValidationError("at least one food category is required"), http.StatusBadRequest, "at least one food category is required"},
		{"not found", apperrors.NewNotFoundError("postal code not found: X0X0X0"), http.StatusNotFound, "postal code not found: X0X0X0"},
		{"external", apperrors.NewExternalError("geocode request failed", errors.New("dial tcp")), http.StatusBadGateway, "places provider request failed"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := new(MockFoodSearcher)
			handler := handlers.NewSearchHandler(searcher)
			searcher.On("Search", mock.Anything, mock.Anything).Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodGet, "/api/search?postal_code=X0X0X0&categories=cafe", nil)
			w := httptest.NewRecorder()

			handler.Search(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestSearchHandler_Search_BadParameters(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"non numeric radius", "postal_code=M5H2N2&radius_km=five&categories=cafe"},
		{"unknown category", "postal_code=M5H2N2&categories=cafe,pharmacy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := new(MockFoodSearcher)
			handler := handlers.NewSearchHandler(searcher)

			req := httptest.NewRequest(http.MethodGet, "/api/search?"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.Search(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			searcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
		})
	}
}

func TestSearchHandler_Export(t *testing.T) {
	searcher := new(MockFoodSearcher)
	handler := handlers.NewSearchHandler(searcher)
	searcher.On("Search", mock.Anything, mock.Anything).Return(sampleResult(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/search/export?postal_code=M5H2N2&categories=restaurant", nil)
	w := httptest.NewRecorder()

	handler.Export(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ca_food_places.csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "name,website,maps_link,address,distance_km,types,lat,lon", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Pizza North,pizza.ca,"))
}

func TestSearchHandler_ListCategories(t *testing.T) {
	handler := handlers.NewSearchHandler(new(MockFoodSearcher))

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()

	handler.ListCategories(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Categories  []string `json:"categories"`
		MaxRadiusKm int      `json:"max_radius_km"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, []string{"restaurant", "cafe", "bar", "bakery", "meal_takeaway", "meal_delivery", "food"}, body.Categories)
	assert.Equal(t, 15, body.MaxRadiusKm)
}

func TestParseSearchRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/search?postal_code=%20M5H2N2%20", nil)

	parsed, err := handlers.ParseSearchRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "M5H2N2", parsed.PostalCode)
	assert.Equal(t, entities.DefaultRadiusKm, parsed.RadiusKm)
	assert.Empty(t, parsed.Categories)
}
