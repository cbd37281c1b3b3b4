// Package google implements ports.PlacesProvider on the Google Places web API.
package google

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/pkg/geo"
	"github.com/samirrijal/nearmeconnect/internal/pkg/httpx"
	"github.com/samirrijal/nearmeconnect/internal/pkg/logging"
	"github.com/samirrijal/nearmeconnect/internal/pkg/metrics"
)

const (
	statusOK             = "OK"
	statusZeroResults    = "ZERO_RESULTS"
	statusOverQueryLimit = "OVER_QUERY_LIMIT"
	statusRequestDenied  = "REQUEST_DENIED"
	statusInvalidRequest = "INVALID_REQUEST"

	detailsFields = "name,formatted_address,geometry,rating,user_ratings_total,photos,website"
)

var (
	ErrQuotaExceeded  = errors.New("places: query quota exceeded")
	ErrRequestDenied  = errors.New("places: request denied")
	ErrInvalidRequest = errors.New("places: invalid request")
	ErrUnknownStatus  = errors.New("places: unknown status")
)

// serviceTypes maps known service names to place types. Names mapped to ""
// have no matching type and are searched by keyword.
var serviceTypes = map[string]string{
	"plumber":       "plumber",
	"electrician":   "electrician",
	"mechanic":      "car_repair",
	"doctor":        "doctor",
	"tailor":        "clothing_store",
	"carpenter":     "",
	"ac technician": "hvac_contractor",
	"barber":        "hair_care",
	"salon":         "beauty_salon",
	"painter":       "",
	"mover":         "moving_company",
	"tutor":         "",
	"laundry":       "laundry",
}

// PlaceType returns the place type for a service name, or "" to use a keyword search.
func PlaceType(service string) string {
	return serviceTypes[strings.ToLower(strings.TrimSpace(service))]
}

// Client calls the nearbysearch and details endpoints.
type Client struct {
	http    *httpx.Client
	baseURL string
	apiKey  string
}

// New creates a places client. rps bounds outbound request rate.
func New(baseURL, apiKey string, timeout time.Duration, rps float64) *Client {
	return &Client{
		http:    httpx.New(timeout, httpx.WithRate(rps)),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// NearbySearch finds places of serviceType within radiusMeters of origin.
func (c *Client) NearbySearch(ctx context.Context, origin domain.GeoPoint, serviceType string, radiusMeters int) (_ []domain.Place, err error) {
	defer logging.Time(ctx, "places.nearby")(&err)
	defer metrics.ObserveUpstream("google", "nearby", time.Now(), &err)

	params := map[string]string{
		"location": strconv.FormatFloat(origin.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(origin.Lng, 'f', -1, 64),
		"radius":   strconv.Itoa(radiusMeters),
		"key":      c.apiKey,
	}
	if t := PlaceType(serviceType); t != "" {
		params["type"] = t
	} else {
		params["keyword"] = serviceType
	}

	var resp nearbyResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/nearbysearch/json", params, &resp); err != nil {
		return nil, fmt.Errorf("%w: nearby search: %v", domain.ErrUpstream, err)
	}

	switch resp.Status {
	case statusOK, statusZeroResults:
	default:
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrUpstream, statusErr(resp.Status), resp.ErrorMessage)
	}

	places := make([]domain.Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, toPlace(r))
	}
	return places, nil
}

// PlaceDetails fetches one place. Any status other than OK is reported as
// domain.ErrNotFound carrying the upstream message.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (_ *domain.PlaceDetails, err error) {
	defer logging.Time(ctx, "places.details")(&err)
	defer metrics.ObserveUpstream("google", "details", time.Now(), &err)

	params := map[string]string{
		"place_id": placeID,
		"fields":   detailsFields,
		"key":      c.apiKey,
	}

	var resp detailsResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/details/json", params, &resp); err != nil {
		return nil, fmt.Errorf("%w: place details: %v", domain.ErrUpstream, err)
	}
	if resp.Status != statusOK {
		msg := resp.ErrorMessage
		if msg == "" {
			msg = "Place not found"
		}
		return nil, &NotFoundError{Status: resp.Status, Message: msg}
	}

	r := resp.Result
	d := &domain.PlaceDetails{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Location:         domain.GeoPoint{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
		Website:          r.Website,
	}
	if d.PlaceID == "" {
		d.PlaceID = placeID
	}
	for _, p := range r.Photos {
		d.Photos = append(d.Photos, domain.PlacePhoto{Reference: p.PhotoReference, Width: p.Width, Height: p.Height})
	}
	return d, nil
}

// NotFoundError is a details lookup the upstream refused. It matches domain.ErrNotFound.
type NotFoundError struct {
	Status  string
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Is(target error) bool { return target == domain.ErrNotFound }

func statusErr(status string) error {
	switch status {
	case statusOverQueryLimit:
		return ErrQuotaExceeded
	case statusRequestDenied:
		return ErrRequestDenied
	case statusInvalidRequest:
		return ErrInvalidRequest
	default:
		return fmt.Errorf("%w %q", ErrUnknownStatus, status)
	}
}

func toPlace(r placeResult) domain.Place {
	loc := domain.GeoPoint{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng}
	p := domain.Place{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		Vicinity:         r.Vicinity,
		Location:         loc,
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
		Types:            r.Types,
		BusinessStatus:   r.BusinessStatus,
		Icon:             r.Icon,
		MapsLink:         geo.MapsLink(loc.Lat, loc.Lng, r.PlaceID),
	}
	if r.OpeningHours != nil {
		open := r.OpeningHours.OpenNow
		p.OpenNow = &open
	}
	return p
}
