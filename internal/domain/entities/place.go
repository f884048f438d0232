package entities

import (
	"fmt"
	"strings"

	"github.com/zatekoja/cafoodfinder/pkg/geo"
)

// Category is a food-establishment place type understood by the places provider
type Category string

const (
	CategoryRestaurant   Category = "restaurant"
	CategoryCafe         Category = "cafe"
	CategoryBar          Category = "bar"
	CategoryBakery       Category = "bakery"
	CategoryMealTakeaway Category = "meal_takeaway"
	CategoryMealDelivery Category = "meal_delivery"
	CategoryFood         Category = "food"
)

// FoodCategories is the fixed set of categories a search can select from,
// in the order they are offered to users.
var FoodCategories = []Category{
	CategoryRestaurant,
	CategoryCafe,
	CategoryBar,
	CategoryBakery,
	CategoryMealTakeaway,
	CategoryMealDelivery,
	CategoryFood,
}

// IsFoodCategory reports whether tag belongs to FoodCategories
func IsFoodCategory(tag string) bool {
	for _, c := range FoodCategories {
		if string(c) == tag {
			return true
		}
	}
	return false
}

// ParseCategory validates a raw category tag
func ParseCategory(raw string) (Category, error) {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if !IsFoodCategory(tag) {
		return "", fmt.Errorf("unknown food category %q", raw)
	}
	return Category(tag), nil
}

// Coordinates represents geographical coordinates in degrees
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Point converts the coordinates for distance calculations
func (c Coordinates) Point() geo.Point {
	return geo.Point{Lat: c.Latitude, Lng: c.Longitude}
}

// PlaceSummary is the minimal record returned by a nearby search
type PlaceSummary struct {
	PlaceID string
	Types   []string
}

// PlaceDetail holds the extended fields for one place.
// Any field the provider omits is left empty; Location is nil without geometry.
type PlaceDetail struct {
	Name             string
	Website          string
	FormattedAddress string
	Location         *Coordinates
	Types            []string
}

// FoodTypes returns the detail's type tags that are food categories, in provider order
func (d *PlaceDetail) FoodTypes() []string {
	types := make([]string, 0, len(d.Types))
	for _, t := range d.Types {
		if IsFoodCategory(t) {
			types = append(types, t)
		}
	}
	return types
}
