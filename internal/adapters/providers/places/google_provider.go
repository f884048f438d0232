package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/cafoodfinder/internal/domain/entities"
	"github.com/zatekoja/cafoodfinder/internal/domain/providers"
	"github.com/zatekoja/cafoodfinder/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/cafoodfinder/pkg/errors"
)

const (
	googleGeocodeURL      = "https://maps.googleapis.com/maps/api/geocode/json"
	googleNearbySearchURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	googlePlaceDetailsURL = "https://maps.googleapis.com/maps/api/place/details/json"
	placeDetailsFields    = "website,formatted_address,name,geometry,types"
	defaultCountry        = "Canada"
	defaultPageDelay      = 2 * time.Second
	defaultMaxPages       = 10
	defaultHTTPTimeout    = 10 * time.Second
	endpointGeocode       = "geocode"
	endpointNearbySearch  = "nearby_search"
	endpointPlaceDetails  = "place_details"
	statusOK              = "OK"
	statusZeroResults     = "ZERO_RESULTS"
	statusNotFound        = "NOT_FOUND"
)

// GoogleOptions overrides endpoints and pacing of the Google provider.
// Zero values fall back to the production defaults.
type GoogleOptions struct {
	GeocodeURL string
	NearbyURL  string
	DetailsURL string
	HTTPClient *http.Client
	// Country is appended to postal codes before geocoding
	Country string
	// PageDelay is the wait before requesting a next_page_token page
	PageDelay time.Duration
	// MaxPages bounds the pages fetched for one nearby search
	MaxPages int
}

// GooglePlacesProvider implements PlacesProvider using the Google Geocoding and Places web services.
type GooglePlacesProvider struct {
	apiKey     string
	httpClient *http.Client
	geocodeURL string
	nearbyURL  string
	detailsURL string
	country    string
	pageDelay  time.Duration
	maxPages   int
}

// NewGooglePlacesProvider creates a provider against the public Google endpoints.
func NewGooglePlacesProvider(apiKey string) providers.PlacesProvider {
	return NewGooglePlacesProviderWithOptions(apiKey, GoogleOptions{})
}

// NewGooglePlacesProviderWithOptions allows overriding URLs, HTTP client and pagination (used for tests).
func NewGooglePlacesProviderWithOptions(apiKey string, opts GoogleOptions) providers.PlacesProvider {
	p := &GooglePlacesProvider{
		apiKey:     apiKey,
		httpClient: opts.HTTPClient,
		geocodeURL: opts.GeocodeURL,
		nearbyURL:  opts.NearbyURL,
		detailsURL: opts.DetailsURL,
		country:    opts.Country,
		pageDelay:  opts.PageDelay,
		maxPages:   opts.MaxPages,
	}
	if strings.TrimSpace(p.geocodeURL) == "" {
		p.geocodeURL = googleGeocodeURL
	}
	if strings.TrimSpace(p.nearbyURL) == "" {
		p.nearbyURL = googleNearbySearchURL
	}
	if strings.TrimSpace(p.detailsURL) == "" {
		p.detailsURL = googlePlaceDetailsURL
	}
	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if strings.TrimSpace(p.country) == "" {
		p.country = defaultCountry
	}
	if p.pageDelay <= 0 {
		p.pageDelay = defaultPageDelay
	}
	if p.maxPages <= 0 {
		p.maxPages = defaultMaxPages
	}
	return p
}

// Geocode resolves a postal code to coordinates using the first geocoding result.
func (g *GooglePlacesProvider) Geocode(ctx context.Context, postalCode string) (*entities.Coordinates, error) {
	trimmed := strings.TrimSpace(postalCode)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("postal code is required")
	}

	ctx, span := observability.StartSpan(ctx, "places.geocode")
	defer span.End()

	params := url.Values{}
	params.Set("address", fmt.Sprintf("%s, %s", trimmed, g.country))

	var payload googleGeocodeResponse
	if err := g.getJSON(ctx, endpointGeocode, g.geocodeURL, params, &payload); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	if err := checkStatus(endpointGeocode, payload.Status, payload.ErrorMessage, statusZeroResults); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("postal code not found: %s", postalCode))
	}

	first := payload.Results[0]
	if first.Geometry == nil || first.Geometry.Location == nil {
		err := apperrors.NewExternalError("geocode response missing location", nil)
		observability.RecordError(span, err)
		return nil, err
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("formatted_address", first.FormattedAddress).
		Msg("postal code geocoded")

	loc := first.Geometry.Location
	return &entities.Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}

// SearchNearby runs a nearby search and follows next_page_token until the provider stops returning one.
func (g *GooglePlacesProvider) SearchNearby(ctx context.Context, origin entities.Coordinates, radiusMeters int, category entities.Category) ([]entities.PlaceSummary, error) {
	ctx, span := observability.StartSpan(ctx, "places.nearby_search")
	defer span.End()
	observability.SetSpanAttributes(span,
		attribute.String("places.category", string(category)),
		attribute.Int("places.radius_m", radiusMeters),
	)

	params := url.Values{}
	params.Set("location", formatLocation(origin))
	params.Set("radius", strconv.Itoa(radiusMeters))
	params.Set("type", string(category))

	summaries := make([]entities.PlaceSummary, 0)
	for page := 1; ; page++ {
		var payload googleNearbySearchResponse
		if err := g.getJSON(ctx, endpointNearbySearch, g.nearbyURL, params, &payload); err != nil {
			observability.RecordError(span, err)
			return nil, err
		}
		if err := checkStatus(endpointNearbySearch, payload.Status, payload.ErrorMessage, statusZeroResults); err != nil {
			observability.RecordError(span, err)
			return nil, err
		}

		for _, result := range payload.Results {
			summaries = append(summaries, entities.PlaceSummary{
				PlaceID: result.PlaceID,
				Types:   result.Types,
			})
		}

		if payload.NextPageToken == "" {
			observability.SetSpanAttributes(span, attribute.Int("places.pages", page))
			return summaries, nil
		}
		if page >= g.maxPages {
			err := apperrors.NewInternalError(
				fmt.Sprintf("nearby search for %s exceeded %d pages", category, g.maxPages), nil)
			observability.RecordError(span, err)
			return nil, err
		}

		// The token only becomes valid after a short delay on the provider side.
		if err := wait(ctx, g.pageDelay); err != nil {
			return nil, apperrors.NewExternalError("nearby search pagination interrupted", err)
		}
		params = url.Values{}
		params.Set("pagetoken", payload.NextPageToken)
	}
}

// GetDetails fetches the fixed detail field set for a place.
func (g *GooglePlacesProvider) GetDetails(ctx context.Context, placeID string) (*entities.PlaceDetail, error) {
	ctx, span := observability.StartSpan(ctx, "places.details")
	defer span.End()
	observability.SetSpanAttributes(span, attribute.String("places.place_id", placeID))

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", placeDetailsFields)

	var payload googlePlaceDetailsResponse
	if err := g.getJSON(ctx, endpointPlaceDetails, g.detailsURL, params, &payload); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if err := checkStatus(endpointPlaceDetails, payload.Status, payload.ErrorMessage, statusZeroResults, statusNotFound); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	detail := &entities.PlaceDetail{}
	if payload.Result == nil {
		return detail, nil
	}

	detail.Name = payload.Result.Name
	detail.Website = payload.Result.Website
	detail.FormattedAddress = payload.Result.FormattedAddress
	detail.Types = payload.Result.Types
	if payload.Result.Geometry != nil && payload.Result.Geometry.Location != nil {
		detail.Location = &entities.Coordinates{
			Latitude:  payload.Result.Geometry.Location.Lat,
			Longitude: payload.Result.Geometry.Location.Lng,
		}
	}
	return detail, nil
}

// getJSON issues a keyed GET request and decodes the JSON body into out.
func (g *GooglePlacesProvider) getJSON(ctx context.Context, endpoint, baseURL string, params url.Values, out interface{}) (err error) {
	if g.apiKey == "" {
		return apperrors.NewInternalError("places api key is required", nil)
	}

	start := time.Now()
	defer func() {
		observability.RecordPlacesCall(endpoint, err, time.Since(start))
	}()

	params.Set("key", g.apiKey)
	reqURL := fmt.Sprintf("%s?%s", baseURL, params.Encode())
	params.Del("key")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to build %s request", endpoint), redactURLError(err))
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalError(fmt.Sprintf("%s request failed", endpoint), redactURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewExternalError(fmt.Sprintf("%s request returned status %d", endpoint, resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewExternalError(fmt.Sprintf("failed to decode %s response", endpoint), err)
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("endpoint", endpoint).
		Dur("duration", time.Since(start)).
		Msg("places api call completed")

	return nil
}

// checkStatus maps a provider status to an error. OK, an empty status and any
// of the accepted statuses are not errors.
func checkStatus(endpoint, status, message string, accepted ...string) error {
	if status == "" || status == statusOK {
		return nil
	}
	for _, s := range accepted {
		if status == s {
			return nil
		}
	}
	if message != "" {
		return apperrors.NewExternalError(fmt.Sprintf("%s failed: %s - %s", endpoint, status, message), nil)
	}
	return apperrors.NewExternalError(fmt.Sprintf("%s failed: %s", endpoint, status), nil)
}

// redactURLError drops the request URL, which carries the API key, from transport errors.
func redactURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

func formatLocation(c entities.Coordinates) string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type googleGeocodeResponse struct {
	Status       string                `json:"status"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Results      []googleGeocodeResult `json:"results"`
}

type googleGeocodeResult struct {
	FormattedAddress string          `json:"formatted_address"`
	Geometry         *googleGeometry `json:"geometry"`
}

type googleGeometry struct {
	Location *googleLocation `json:"location"`
}

type googleLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type googleNearbySearchResponse struct {
	Status        string                     `json:"status"`
	ErrorMessage  string                     `json:"error_message,omitempty"`
	NextPageToken string                     `json:"next_page_token,omitempty"`
	Results       []googleNearbySearchResult `json:"results"`
}

type googleNearbySearchResult struct {
	PlaceID string   `json:"place_id"`
	Types   []string `json:"types"`
}

type googlePlaceDetailsResponse struct {
	Status       string                    `json:"status"`
	ErrorMessage string                    `json:"error_message,omitempty"`
	Result       *googlePlaceDetailsResult `json:"result"`
}

type googlePlaceDetailsResult struct {
	Name             string          `json:"name"`
	Website          string          `json:"website"`
	FormattedAddress string          `json:"formatted_address"`
	Types            []string        `json:"types"`
	Geometry         *googleGeometry `json:"geometry"`
}
