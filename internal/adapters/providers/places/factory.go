package places

import (
	"fmt"
	"net/http"

	"github.com/zatekoja/cafoodfinder/internal/domain/providers"
	"github.com/zatekoja/cafoodfinder/pkg/config"
)

// NewFromConfig builds the configured places provider
func NewFromConfig(cfg config.PlacesConfig) (providers.PlacesProvider, error) {
	switch cfg.Provider {
	case "google":
		return NewGooglePlacesProviderWithOptions(cfg.APIKey, GoogleOptions{
			GeocodeURL: cfg.GeocodeURL,
			NearbyURL:  cfg.NearbyURL,
			DetailsURL: cfg.DetailsURL,
			HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
			Country:    cfg.Country,
			PageDelay:  cfg.PageDelay,
			MaxPages:   cfg.MaxPages,
		}), nil
	case "mock":
		return NewMockPlacesProvider(), nil
	default:
		return nil, fmt.Errorf("unknown places provider %q", cfg.Provider)
	}
}
