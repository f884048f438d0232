package entities

import "sort"

// Radius bounds offered to users, in kilometers
const (
	MinRadiusKm     = 1
	MaxRadiusKm     = 15
	DefaultRadiusKm = 5
)

// SearchRequest describes one food places search
type SearchRequest struct {
	PostalCode string     `json:"postal_code"`
	RadiusKm   int        `json:"radius_km"`
	Categories []Category `json:"categories"`
}

// RadiusMeters returns the search radius in meters
func (r SearchRequest) RadiusMeters() int {
	return r.RadiusKm * 1000
}

// ResultRow is one business in the result table. Name is its identity.
type ResultRow struct {
	Name       string   `json:"name"`
	Website    string   `json:"website"`
	MapsLink   string   `json:"maps_link"`
	Address    string   `json:"address"`
	DistanceKm *float64 `json:"distance_km"`
	Types      string   `json:"types"`
	Latitude   *float64 `json:"lat"`
	Longitude  *float64 `json:"lon"`
}

// ResultTable is an ordered sequence of result rows
type ResultTable []ResultRow

// DedupByName keeps the first row for each distinct name (exact, case-sensitive match)
func (t ResultTable) DedupByName() ResultTable {
	seen := make(map[string]struct{}, len(t))
	out := make(ResultTable, 0, len(t))
	for _, row := range t {
		if _, ok := seen[row.Name]; ok {
			continue
		}
		seen[row.Name] = struct{}{}
		out = append(out, row)
	}
	return out
}

// SortByDistance orders rows by ascending distance in place.
// Rows without a distance go last; ties keep their relative order.
func (t ResultTable) SortByDistance() {
	sort.SliceStable(t, func(i, j int) bool {
		a, b := t[i].DistanceKm, t[j].DistanceKm
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})
}

// PlaceFailure records a place whose details could not be fetched
type PlaceFailure struct {
	PlaceID  string   `json:"place_id"`
	Category Category `json:"category"`
	Error    string   `json:"error"`
	Err      error    `json:"-"`
}

// SearchStatus summarizes the outcome of a successful search
type SearchStatus string

const (
	// SearchStatusOK means at least one row passed the website filter
	SearchStatusOK SearchStatus = "OK"
	// SearchStatusEmpty means nothing matched; it is not an error
	SearchStatusEmpty SearchStatus = "EMPTY"
)

// SearchResult is the outcome of one search
type SearchResult struct {
	SearchID string         `json:"search_id"`
	Origin   Coordinates    `json:"origin"`
	Status   SearchStatus   `json:"status"`
	Rows     ResultTable    `json:"results"`
	Failures []PlaceFailure `json:"failures"`
}
