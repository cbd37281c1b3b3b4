package geo

import (
	"fmt"
	"math"
	"net/url"
)

// KmPerDegree is the rough length of one degree of latitude.
const KmPerDegree = 111.0

// MaxRequestDistance is the planar distance (degrees, ~11 km) beyond which a
// customer may not request a provider.
const MaxRequestDistance = 0.1

const mapsSearchURL = "https://www.google.com/maps/search/?api=1"

// PlanarDistance is the Euclidean distance in degrees between two points,
// treating latitude and longitude as flat axes. It is not a great-circle
// distance: east-west separation is overstated away from the equator.
func PlanarDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := lat1 - lat2
	dLng := lng1 - lng2
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// DegreesToKm converts a planar degree distance to kilometres, rounded to 2 decimals.
func DegreesToKm(d float64) float64 {
	return math.Round(d*KmPerDegree*100) / 100
}

// ValidCoordinates reports whether lat/lng are within WGS 84 bounds.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// MapsLink builds a Google Maps search URL for a point, pinned to placeID when given.
func MapsLink(lat, lng float64, placeID string) string {
	link := mapsSearchURL + "&query=" + formatCoord(lat) + "," + formatCoord(lng)
	if placeID != "" {
		link += "&query_place_id=" + url.QueryEscape(placeID)
	}
	return link
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%g", v)
}
