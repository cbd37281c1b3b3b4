package usecases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/ports"
	"github.com/samirrijal/nearmeconnect/internal/pkg/geo"
	"github.com/samirrijal/nearmeconnect/internal/pkg/logging"
	"github.com/samirrijal/nearmeconnect/internal/pkg/metrics"
	"github.com/samirrijal/nearmeconnect/internal/pkg/telemetry"
)

const (
	DefaultRadius   = 5000
	MaxRadius       = 50000
	localResultCap  = 10
	discoveryTTL    = 5 * 60
	localNameSuffix = " (NearMeConnect)"
)

var (
	ErrServiceRequired = errors.New("service type is required")
	ErrServiceLookup   = errors.New("could not validate service types")
	ErrInvalidRadius   = errors.New("radius must be a positive number (max 50000)")
)

// InvalidServiceError reports an unknown service type and the accepted names.
type InvalidServiceError struct {
	Valid []string
}

func (e *InvalidServiceError) Error() string {
	return "Invalid service type. Valid options: " + strings.Join(e.Valid, ", ")
}

// DiscoverQuery is a raw nearby-services search as received from a client.
type DiscoverQuery struct {
	Service  string
	Address  string
	Radius   string // "" means DefaultRadius
	ClientIP string
}

// DiscoveryService combines local providers with external places around a point.
type DiscoveryService struct {
	categories *CategoryService
	providers  ports.ProviderRepository
	places     ports.PlacesProvider
	locations  *LocationService
	cache      ports.CacheService
}

// NewDiscoveryService creates a new DiscoveryService. cache may be nil.
func NewDiscoveryService(
	categories *CategoryService,
	providers ports.ProviderRepository,
	places ports.PlacesProvider,
	locations *LocationService,
	cache ports.CacheService,
) *DiscoveryService {
	return &DiscoveryService{
		categories: categories,
		providers:  providers,
		places:     places,
		locations:  locations,
		cache:      cache,
	}
}

// Discover validates q in order (service, location, radius) and returns local
// and external matches ranked by planar distance.
func (s *DiscoveryService) Discover(ctx context.Context, q DiscoverQuery) (_ *domain.Discovery, err error) {
	ctx, span := telemetry.StartSpan(ctx, "discovery.Discover",
		attribute.String("service", q.Service),
		attribute.Bool("has_address", q.Address != ""),
	)
	defer span.End()
	defer func() {
		metrics.DiscoveryRequests.WithLabelValues(outcome(err)).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if strings.TrimSpace(q.Service) == "" {
		return nil, ErrServiceRequired
	}
	category, all, err := s.categories.Match(ctx, q.Service)
	if err != nil {
		logging.FromContext(ctx).Error("list categories", "error", err)
		return nil, ErrServiceLookup
	}
	if category == nil {
		valid := make([]string, len(all))
		for i, c := range all {
			valid[i] = strings.ToLower(c.Name)
		}
		return nil, &InvalidServiceError{Valid: valid}
	}

	origin, err := s.locations.Resolve(ctx, q.Address, q.ClientIP)
	if err != nil {
		logging.FromContext(ctx).Info("resolve discovery location", "error", err)
		return nil, fmt.Errorf("%w: could not determine valid location", domain.ErrLocationUnavailable)
	}

	radius, err := parseRadius(q.Radius)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("radius", radius))

	key := fmt.Sprintf("discover:%s:%.4f:%.4f:%d", strings.ToLower(category.Name), origin.Lat, origin.Lng, radius)
	var hit domain.Discovery
	if cacheGet(ctx, s.cache, "discover", key, &hit) {
		hit.ServiceType = q.Service
		hit.UserLocation = origin
		return &hit, nil
	}

	external, err := s.places.NearbySearch(ctx, origin, strings.ToLower(q.Service), radius)
	if err != nil {
		return nil, err
	}

	nearest, err := s.providers.NearestInCategory(ctx, category.Name, origin, localResultCap)
	if err != nil {
		return nil, fmt.Errorf("nearest providers: %w", err)
	}

	d := &domain.Discovery{
		ServiceType:    q.Service,
		UserLocation:   origin,
		Radius:         radius,
		GoogleResults:  external,
		LocalProviders: make([]domain.LocalResult, 0, len(nearest)),
	}
	if d.GoogleResults == nil {
		d.GoogleResults = []domain.Place{}
	}
	for _, p := range nearest {
		d.LocalProviders = append(d.LocalProviders, localResult(p, origin))
	}
	d.Results = merge(origin, d.LocalProviders, d.GoogleResults)

	metrics.DiscoveryResults.WithLabelValues("local").Observe(float64(len(d.LocalProviders)))
	metrics.DiscoveryResults.WithLabelValues("google").Observe(float64(len(d.GoogleResults)))

	cacheSet(ctx, s.cache, "discover", key, d, discoveryTTL)
	return d, nil
}

// Lookup resolves a place id. All-digit ids naming an existing provider are
// answered locally; everything else is fetched from the places provider.
func (s *DiscoveryService) Lookup(ctx context.Context, placeID string) (*domain.PlaceLookup, error) {
	if placeID == "" {
		return nil, fmt.Errorf("%w: place id is required", domain.ErrInvalidInput)
	}
	if isDigits(placeID) {
		if id, err := strconv.ParseInt(placeID, 10, 64); err == nil {
			p, err := s.providers.GetByID(ctx, id)
			switch {
			case err == nil:
				return &domain.PlaceLookup{IsLocal: true, Provider: p}, nil
			case !errors.Is(err, domain.ErrNotFound):
				return nil, err
			}
		}
	}

	details, err := s.places.PlaceDetails(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return &domain.PlaceLookup{External: details}, nil
}

func localResult(p domain.Provider, origin domain.GeoPoint) domain.LocalResult {
	dist := geo.Between(origin, p.Location)
	if p.Distance != nil {
		dist = *p.Distance
	}
	name := ""
	if p.User != nil {
		name = p.User.DisplayName()
	}
	return domain.LocalResult{
		Name:       name + localNameSuffix,
		Address:    p.Address,
		Location:   p.Location,
		DistanceKm: geo.DegreesToKm(dist),
		MapsLink:   geo.MapsLink(p.Location.Lat, p.Location.Lng, ""),
		Phone:      p.Phone,
		Rating:     p.Rating,
		IsLocal:    true,
		ProviderID: p.ID,
	}
}

func merge(origin domain.GeoPoint, local []domain.LocalResult, external []domain.Place) []domain.DiscoveryResult {
	out := make([]domain.DiscoveryResult, 0, len(local)+len(external))
	for _, l := range local {
		rating, id := l.Rating, l.ProviderID
		out = append(out, domain.DiscoveryResult{
			Source:     "local",
			Name:       l.Name,
			Address:    l.Address,
			Location:   l.Location,
			DistanceKm: l.DistanceKm,
			MapsLink:   l.MapsLink,
			Rating:     &rating,
			IsLocal:    true,
			ProviderID: &id,
		})
	}
	for _, p := range external {
		out = append(out, domain.DiscoveryResult{
			Source:     "google",
			Name:       p.Name,
			Address:    p.Vicinity,
			Location:   p.Location,
			DistanceKm: geo.DegreesToKm(geo.Between(origin, p.Location)),
			MapsLink:   p.MapsLink,
			Rating:     p.Rating,
			PlaceID:    p.PlaceID,
		})
	}
	geo.RankByDistance(out)
	return out
}

func parseRadius(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultRadius, nil
	}
	r, err := strconv.Atoi(raw)
	if err != nil || r <= 0 || r > MaxRadius {
		return 0, ErrInvalidRadius
	}
	return r, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func outcome(err error) string {
	var invalid *InvalidServiceError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrServiceRequired), errors.Is(err, ErrInvalidRadius), errors.As(err, &invalid):
		return "bad_request"
	case errors.Is(err, domain.ErrLocationUnavailable):
		return "location_error"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream_error"
	default:
		return "error"
	}
}
