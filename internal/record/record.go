package record

import "strings"

// Location is a single named site extracted from a region's listing.
// A nil field means the source page did not provide it.
type Location struct {
	Category   *string `json:"category,omitempty"`
	Name       *string `json:"name,omitempty"`
	Address    *string `json:"address,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

// NearbyPlace is one result of a radius search around a Location.
type NearbyPlace struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	City     *string `json:"city,omitempty"`
	Region   *string `json:"region,omitempty"`
}

// Text returns a pointer to the trimmed value, or nil when the value is blank.
func Text(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// JoinAddress builds "<city>, <region>". Both parts are required.
func JoinAddress(city, region *string) *string {
	if city == nil || region == nil {
		return nil
	}
	address := *city + ", " + *region
	return &address
}
