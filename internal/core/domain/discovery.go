package domain

// Place is an external result returned by the places provider.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Vicinity         string   `json:"vicinity,omitempty"`
	Location         GeoPoint `json:"location"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
	Types            []string `json:"types,omitempty"`
	BusinessStatus   string   `json:"business_status,omitempty"`
	OpenNow          *bool    `json:"open_now,omitempty"`
	Icon             string   `json:"icon,omitempty"`
	MapsLink         string   `json:"maps_link,omitempty"`
}

// PlacePhoto references a photo attached to a place.
type PlacePhoto struct {
	Reference string `json:"photo_reference"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// PlaceDetails is the detailed view of a single external place.
type PlaceDetails struct {
	PlaceID          string       `json:"place_id,omitempty"`
	Name             string       `json:"name"`
	FormattedAddress string       `json:"formatted_address,omitempty"`
	Location         GeoPoint     `json:"location"`
	Rating           *float64     `json:"rating,omitempty"`
	UserRatingsTotal *int         `json:"user_ratings_total,omitempty"`
	Website          string       `json:"website,omitempty"`
	Photos           []PlacePhoto `json:"photos,omitempty"`
}

// LocalResult is a provider from our own database, rendered for discovery.
type LocalResult struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Location   GeoPoint `json:"location"`
	DistanceKm float64  `json:"distance_km"`
	MapsLink   string   `json:"maps_link"`
	Phone      string   `json:"phone"`
	Rating     float64  `json:"rating"`
	IsLocal    bool     `json:"is_local"`
	ProviderID int64    `json:"provider_id"`
}

// DiscoveryResult is one entry of the merged, distance-ranked list.
type DiscoveryResult struct {
	Source     string   `json:"source"` // "local" | "google"
	Name       string   `json:"name"`
	Address    string   `json:"address,omitempty"`
	Location   GeoPoint `json:"location"`
	DistanceKm float64  `json:"distance_km"`
	MapsLink   string   `json:"maps_link,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	IsLocal    bool     `json:"is_local"`
	ProviderID *int64   `json:"provider_id,omitempty"`
	PlaceID    string   `json:"place_id,omitempty"`
}

// Discovery is the full response of a nearby-services search.
type Discovery struct {
	ServiceType    string            `json:"service_type"`
	UserLocation   GeoPoint          `json:"user_location"`
	Radius         int               `json:"radius"`
	GoogleResults  []Place           `json:"google_results"`
	LocalProviders []LocalResult     `json:"local_providers"`
	Results        []DiscoveryResult `json:"results"`
}

// PlaceLookup is the answer for a place id: a local provider or an external place.
type PlaceLookup struct {
	IsLocal  bool          `json:"is_local"`
	Provider *Provider     `json:"-"`
	External *PlaceDetails `json:"-"`
}
