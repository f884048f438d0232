package entities

import (
	"fmt"
	"strings"
)

// IsCanadianWebsite applies the literal ".ca" rule used to keep a place:
// the website must end with ".ca" or contain ".ca/". Hosts are not parsed.
func IsCanadianWebsite(website string) bool {
	if website == "" {
		return false
	}
	return strings.HasSuffix(website, ".ca") || strings.Contains(website, ".ca/")
}

// MapsLink builds a map viewer URL for a place identifier
func MapsLink(placeID string) string {
	return fmt.Sprintf("https://maps.google.com/?q=place_id:%s", placeID)
}
