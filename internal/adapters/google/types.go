package google

type nearbyResponse struct {
	Results      []placeResult `json:"results"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

type detailsResponse struct {
	Result       placeResult `json:"result"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

type placeResult struct {
	BusinessStatus   string        `json:"business_status,omitempty"`
	FormattedAddress string        `json:"formatted_address,omitempty"`
	Geometry         geometry      `json:"geometry"`
	Icon             string        `json:"icon"`
	Name             string        `json:"name"`
	OpeningHours     *openingHours `json:"opening_hours,omitempty"`
	Photos           []photo       `json:"photos,omitempty"`
	PlaceID          string        `json:"place_id"`
	Rating           *float64      `json:"rating,omitempty"`
	Types            []string      `json:"types"`
	UserRatingsTotal *int          `json:"user_ratings_total,omitempty"`
	Vicinity         string        `json:"vicinity,omitempty"`
	Website          string        `json:"website,omitempty"`
}

type geometry struct {
	Location location `json:"location"`
}

type location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type openingHours struct {
	OpenNow bool `json:"open_now"`
}

type photo struct {
	Height         int    `json:"height"`
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
}
