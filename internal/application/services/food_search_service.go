package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/cafoodfinder/internal/domain/entities"
	"github.com/zatekoja/cafoodfinder/internal/domain/providers"
	"github.com/zatekoja/cafoodfinder/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/cafoodfinder/pkg/errors"
	"github.com/zatekoja/cafoodfinder/pkg/geo"
)

// FoodSearchService finds .ca food businesses around a postal code.
// Every call runs its own sequential pipeline; the service holds no per-search state.
type FoodSearchService struct {
	geocoder providers.Geocoder
	searcher providers.PlaceSearcher
	details  providers.PlaceDetailFetcher
}

// NewFoodSearchService creates a new food search service
func NewFoodSearchService(
	geocoder providers.Geocoder,
	searcher providers.PlaceSearcher,
	details providers.PlaceDetailFetcher,
) *FoodSearchService {
	return &FoodSearchService{
		geocoder: geocoder,
		searcher: searcher,
		details:  details,
	}
}

// NewFoodSearchServiceFromProvider wires all three roles to one places provider
func NewFoodSearchServiceFromProvider(provider providers.PlacesProvider) *FoodSearchService {
	return NewFoodSearchService(provider, provider, provider)
}

// ValidateRequest checks the request before any network call and returns it
// with trimmed postal code and de-duplicated categories.
func ValidateRequest(req entities.SearchRequest) (entities.SearchRequest, error) {
	req.PostalCode = strings.TrimSpace(req.PostalCode)
	if req.PostalCode == "" {
		return req, apperrors.NewValidationError("postal code is required")
	}
	if req.RadiusKm < entities.MinRadiusKm || req.RadiusKm > entities.MaxRadiusKm {
		return req, apperrors.NewValidationError(fmt.Sprintf(
			"radius must be between %d and %d km", entities.MinRadiusKm, entities.MaxRadiusKm))
	}
	if len(req.Categories) == 0 {
		return req, apperrors.NewValidationError("at least one food category is required")
	}

	seen := make(map[entities.Category]struct{}, len(req.Categories))
	categories := make([]entities.Category, 0, len(req.Categories))
	for _, c := range req.Categories {
		if !entities.IsFoodCategory(string(c)) {
			return req, apperrors.NewValidationError(fmt.Sprintf("unknown food category %q", c))
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}
	req.Categories = categories
	return req, nil
}

// Search geocodes the postal code, searches every category, fetches details
// per place and returns the filtered, de-duplicated table sorted by distance.
//
// Geocoding and nearby search failures abort the search. A failed detail fetch
// is recorded in SearchResult.Failures and the remaining places are still processed.
func (s *FoodSearchService) Search(ctx context.Context, req entities.SearchRequest) (*entities.SearchResult, error) {
	start := time.Now()
	searchID := uuid.New().String()
	ctx = observability.WithSearchID(ctx, searchID)

	ctx, span := observability.StartSpan(ctx, "food_search.search")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)

	result, err := s.search(ctx, searchID, req)
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordSearch(string(apperrors.TypeOf(err)), 0, time.Since(start))
		logger.Warn().Err(err).Str("error_type", string(apperrors.TypeOf(err))).Msg("food search failed")
		return nil, err
	}

	observability.SetSpanAttributes(span,
		attribute.Int("search.rows", len(result.Rows)),
		attribute.Int("search.failures", len(result.Failures)),
	)
	observability.RecordSearch(string(result.Status), len(result.Rows), time.Since(start))
	logger.Info().
		Str("status", string(result.Status)).
		Int("rows", len(result.Rows)).
		Int("failures", len(result.Failures)).
		Dur("duration", time.Since(start)).
		Msg("food search completed")

	return result, nil
}

func (s *FoodSearchService) search(ctx context.Context, searchID string, req entities.SearchRequest) (*entities.SearchResult, error) {
	req, err := ValidateRequest(req)
	if err != nil {
		return nil, err
	}

	logger := observability.LoggerFromContext(ctx)
	logger.Info().
		Int("radius_km", req.RadiusKm).
		Int("categories", len(req.Categories)).
		Msg("food search started")

	origin, err := s.geocoder.Geocode(ctx, req.PostalCode)
	if err != nil {
		return nil, err
	}

	rows := make(entities.ResultTable, 0)
	failures := make([]entities.PlaceFailure, 0)

	for _, category := range req.Categories {
		summaries, err := s.searcher.SearchNearby(ctx, *origin, req.RadiusMeters(), category)
		if err != nil {
			return nil, fmt.Errorf("nearby search for %s: %w", category, err)
		}

		matched := 0
		for _, summary := range summaries {
			detail, err := s.details.GetDetails(ctx, summary.PlaceID)
			if err != nil {
				if ctx.Err() != nil {
					return nil, apperrors.NewExternalError("food search cancelled", ctx.Err())
				}
				observability.RecordDetailFailure()
				logger.Warn().Err(err).
					Str("place_id", summary.PlaceID).
					Str("category", string(category)).
					Msg("place details fetch failed")
				failures = append(failures, entities.PlaceFailure{
					PlaceID:  summary.PlaceID,
					Category: category,
					Error:    err.Error(),
					Err:      err,
				})
				continue
			}

			row, ok := BuildResultRow(*origin, summary.PlaceID, detail)
			if !ok {
				continue
			}
			matched++
			rows = append(rows, row)
		}

		logger.Debug().
			Str("category", string(category)).
			Int("places", len(summaries)).
			Int("matched", matched).
			Msg("category processed")
	}

	table := rows.DedupByName()
	table.SortByDistance()

	status := entities.SearchStatusOK
	if len(table) == 0 {
		status = entities.SearchStatusEmpty
	}

	return &entities.SearchResult{
		SearchID: searchID,
		Origin:   *origin,
		Status:   status,
		Rows:     table,
		Failures: failures,
	}, nil
}

// BuildResultRow turns place details into a result row. It reports false when
// the website does not pass the .ca filter.
func BuildResultRow(origin entities.Coordinates, placeID string, detail *entities.PlaceDetail) (entities.ResultRow, bool) {
	if detail == nil || !entities.IsCanadianWebsite(detail.Website) {
		return entities.ResultRow{}, false
	}

	row := entities.ResultRow{
		Name:     detail.Name,
		Website:  detail.Website,
		MapsLink: entities.MapsLink(placeID),
		Address:  detail.FormattedAddress,
		Types:    strings.Join(detail.FoodTypes(), ", "),
	}

	if detail.Location != nil {
		lat, lng := detail.Location.Latitude, detail.Location.Longitude
		row.Latitude = &lat
		row.Longitude = &lng

		originPoint := origin.Point()
		placePoint := detail.Location.Point()
		if meters := geo.DistanceMeters(&originPoint, &placePoint); meters != nil {
			km := geo.MetersToKm(*meters)
			row.DistanceKm = &km
		}
	}

	return row, true
}
