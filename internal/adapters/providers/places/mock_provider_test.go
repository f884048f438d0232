package places_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/cafoodfinder/internal/adapters/providers/places"
	"github.com/zatekoja/cafoodfinder/internal/domain/entities"
	apperrors "github.com/zatekoja/cafoodfinder/pkg/errors"
)

func TestMockPlacesProvider(t *testing.T) {
	provider := places.NewMockPlacesProvider()
	ctx := context.Background()

	coords, err := provider.Geocode(ctx, "m5h 2n2")
	require.NoError(t, err)
	assert.Equal(t, 43.65, coords.Latitude)

	_, err = provider.Geocode(ctx, "X0X0X0")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	summaries, err := provider.SearchNearby(ctx, *coords, 5000, entities.CategoryRestaurant)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "mock-restaurant-1", summaries[0].PlaceID)

	detail, err := provider.GetDetails(ctx, summaries[0].PlaceID)
	require.NoError(t, err)
	assert.Equal(t, "Maple Leaf Bistro", detail.Name)
	require.NotNil(t, detail.Location)

	unknown, err := provider.GetDetails(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, &entities.PlaceDetail{}, unknown)
}
