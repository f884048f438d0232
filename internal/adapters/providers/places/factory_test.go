package places_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/cafoodfinder/internal/adapters/providers/places"
	"github.com/zatekoja/cafoodfinder/pkg/config"
)

func TestNewFromConfig(t *testing.T) {
	google, err := places.NewFromConfig(config.PlacesConfig{
		Provider:    "google",
		APIKey:      "test-key",
		HTTPTimeout: time.Second,
		MaxPages:    3,
	})
	require.NoError(t, err)
	assert.IsType(t, &places.GooglePlacesProvider{}, google)

	mock, err := places.NewFromConfig(config.PlacesConfig{Provider: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &places.MockPlacesProvider{}, mock)

	_, err = places.NewFromConfig(config.PlacesConfig{Provider: "yelp"})
	assert.Error(t, err)
}
