package places

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/zatekoja/cafoodfinder/internal/domain/entities"
	"github.com/zatekoja/cafoodfinder/internal/domain/providers"
	apperrors "github.com/zatekoja/cafoodfinder/pkg/errors"
)

// MockPlacesProvider is an offline provider for local development
type MockPlacesProvider struct {
	places map[string]mockPlace
}

type mockPlace struct {
	category entities.Category
	detail   entities.PlaceDetail
	offset   [2]float64
}

// mockForwardSortation maps the first three postal code characters to a location
var mockForwardSortation = map[string]entities.Coordinates{
	"M5H": {Latitude: 43.65, Longitude: -79.38},
	"M5V": {Latitude: 43.6426, Longitude: -79.3871},
	"H2X": {Latitude: 45.5088, Longitude: -73.5698},
	"K1P": {Latitude: 45.4215, Longitude: -75.6972},
	"V6B": {Latitude: 49.2798, Longitude: -123.1147},
	"T2P": {Latitude: 51.0478, Longitude: -114.0719},
}

// NewMockPlacesProvider creates a new mock places provider
func NewMockPlacesProvider() providers.PlacesProvider {
	return &MockPlacesProvider{
		places: map[string]mockPlace{
			"mock-restaurant-1": {
				category: entities.CategoryRestaurant,
				offset:   [2]float64{0.004, 0.002},
				detail: entities.PlaceDetail{
					Name:             "Maple Leaf Bistro",
					Website:          "https://mapleleafbistro.ca",
					FormattedAddress: "12 King St W, Toronto, ON",
					Types:            []string{"restaurant", "food", "point_of_interest", "establishment"},
				},
			},
			"mock-restaurant-2": {
				category: entities.CategoryRestaurant,
				offset:   [2]float64{-0.01, 0.006},
				detail: entities.PlaceDetail{
					Name:             "Global Burger",
					Website:          "https://globalburger.com",
					FormattedAddress: "300 Queen St W, Toronto, ON",
					Types:            []string{"restaurant", "meal_takeaway", "food"},
				},
			},
			"mock-cafe-1": {
				category: entities.CategoryCafe,
				offset:   [2]float64{0.001, -0.003},
				detail: entities.PlaceDetail{
					Name:             "Northern Grind",
					Website:          "https://northerngrind.ca/menu",
					FormattedAddress: "88 Bay St, Toronto, ON",
					Types:            []string{"cafe", "food", "store"},
				},
			},
			"mock-bakery-1": {
				category: entities.CategoryBakery,
				offset:   [2]float64{0.02, 0.01},
				detail: entities.PlaceDetail{
					Name:             "Butter Tart Co",
					Website:          "buttertart.ca",
					FormattedAddress: "5 Front St E, Toronto, ON",
					Types:            []string{"bakery", "cafe", "food"},
				},
			},
		},
	}
}

// Geocode resolves a handful of known forward sortation areas
func (m *MockPlacesProvider) Geocode(ctx context.Context, postalCode string) (*entities.Coordinates, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(postalCode), " ", ""))
	if normalized == "" {
		return nil, apperrors.NewValidationError("postal code is required")
	}
	if len(normalized) >= 3 {
		if coords, ok := mockForwardSortation[normalized[:3]]; ok {
			return &coords, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("postal code not found: %s", postalCode))
}

// SearchNearby returns the mock places registered for the category
func (m *MockPlacesProvider) SearchNearby(ctx context.Context, origin entities.Coordinates, radiusMeters int, category entities.Category) ([]entities.PlaceSummary, error) {
	summaries := make([]entities.PlaceSummary, 0)
	for _, id := range m.sortedIDs() {
		place := m.places[id]
		if place.category != category {
			continue
		}
		summaries = append(summaries, entities.PlaceSummary{
			PlaceID: id,
			Types:   place.detail.Types,
		})
	}
	return summaries, nil
}

// GetDetails returns the registered details. Unknown ids yield an empty detail.
// Locations are reported relative to Toronto.
func (m *MockPlacesProvider) GetDetails(ctx context.Context, placeID string) (*entities.PlaceDetail, error) {
	place, ok := m.places[placeID]
	if !ok {
		return &entities.PlaceDetail{}, nil
	}
	base := mockForwardSortation["M5H"]
	detail := place.detail
	detail.Location = &entities.Coordinates{
		Latitude:  base.Latitude + place.offset[0],
		Longitude: base.Longitude + place.offset[1],
	}
	return &detail, nil
}

func (m *MockPlacesProvider) sortedIDs() []string {
	ids := make([]string, 0, len(m.places))
	for id := range m.places {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
