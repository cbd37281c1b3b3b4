// Package nominatim implements ports.Geocoder on the OpenStreetMap Nominatim search API.
package nominatim

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/pkg/httpx"
	"github.com/samirrijal/nearmeconnect/internal/pkg/logging"
	"github.com/samirrijal/nearmeconnect/internal/pkg/metrics"
)

// result is one search hit. Nominatim encodes coordinates as strings.
type result struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocoder resolves addresses with Nominatim. The public instance allows
// one request per second, so calls are paced accordingly.
type Geocoder struct {
	http    *httpx.Client
	baseURL string
}

// New creates a Geocoder. userAgent is required by the Nominatim usage policy.
func New(baseURL, userAgent string, timeout time.Duration) *Geocoder {
	return &Geocoder{
		http:    httpx.New(timeout, httpx.WithRate(1), httpx.WithUserAgent(userAgent)),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Geocode returns the best match for address.
func (g *Geocoder) Geocode(ctx context.Context, address string) (_ domain.GeoPoint, err error) {
	defer logging.Time(ctx, "nominatim.geocode")(&err)
	defer metrics.ObserveUpstream("nominatim", "search", time.Now(), &err)

	var results []result
	params := map[string]string{"q": address, "format": "json", "limit": "1"}
	if err := g.http.GetJSON(ctx, g.baseURL+"/search", params, &results); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: geocode: %v", domain.ErrUpstream, err)
	}
	if len(results) == 0 {
		return domain.GeoPoint{}, fmt.Errorf("%w: no match for %q", domain.ErrLocationUnavailable, address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: bad latitude %q", domain.ErrLocationUnavailable, results[0].Lat)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: bad longitude %q", domain.ErrLocationUnavailable, results[0].Lon)
	}
	return domain.GeoPoint{Lat: lat, Lng: lng}, nil
}
