package providers

import (
	"context"

	"github.com/zatekoja/cafoodfinder/internal/domain/entities"
)

// Geocoder resolves a postal code to coordinates
type Geocoder interface {
	// Geocode returns the location of a Canadian postal code.
	// A postal code with no match yields a NOT_FOUND AppError.
	Geocode(ctx context.Context, postalCode string) (*entities.Coordinates, error)
}

// PlaceSearcher finds places of one category around an origin
type PlaceSearcher interface {
	// SearchNearby returns every page of results in provider order
	SearchNearby(ctx context.Context, origin entities.Coordinates, radiusMeters int, category entities.Category) ([]entities.PlaceSummary, error)
}

// PlaceDetailFetcher loads extended fields for a single place
type PlaceDetailFetcher interface {
	// GetDetails returns the place details; absent fields are left empty
	GetDetails(ctx context.Context, placeID string) (*entities.PlaceDetail, error)
}

// PlacesProvider is a places backend offering all three operations
type PlacesProvider interface {
	Geocoder
	PlaceSearcher
	PlaceDetailFetcher
}
