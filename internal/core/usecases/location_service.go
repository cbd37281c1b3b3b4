package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/ports"
)

const (
	geocodeTTL = 24 * 60 * 60
	ipTTL      = 60 * 60
)

// LocationService resolves addresses and client IPs to coordinates, caching
// both in the shared cache.
type LocationService struct {
	geocoder ports.Geocoder
	ips      ports.IPLocator
	cache    ports.CacheService
}

// NewLocationService creates a new LocationService. cache may be nil.
func NewLocationService(geocoder ports.Geocoder, ips ports.IPLocator, cache ports.CacheService) *LocationService {
	return &LocationService{geocoder: geocoder, ips: ips, cache: cache}
}

// Geocode resolves a free-form address.
func (s *LocationService) Geocode(ctx context.Context, address string) (domain.GeoPoint, error) {
	norm := strings.Join(strings.Fields(strings.ToLower(address)), " ")
	if norm == "" {
		return domain.GeoPoint{}, domain.ErrLocationUnavailable
	}
	return s.cached(ctx, "geo:addr:"+norm, "geocode", geocodeTTL, func() (domain.GeoPoint, error) {
		return s.geocoder.Geocode(ctx, address)
	})
}

// Locate resolves a client IP. An empty ip locates the server itself.
func (s *LocationService) Locate(ctx context.Context, ip string) (domain.GeoPoint, error) {
	key := ip
	if key == "" {
		key = "self"
	}
	return s.cached(ctx, "geo:ip:"+key, "iplocate", ipTTL, func() (domain.GeoPoint, error) {
		return s.ips.Locate(ctx, ip)
	})
}

// Resolve geocodes address when given, otherwise locates ip.
func (s *LocationService) Resolve(ctx context.Context, address, ip string) (domain.GeoPoint, error) {
	if strings.TrimSpace(address) != "" {
		return s.Geocode(ctx, address)
	}
	return s.Locate(ctx, ip)
}

func (s *LocationService) cached(ctx context.Context, key, op string, ttl int, fetch func() (domain.GeoPoint, error)) (domain.GeoPoint, error) {
	var hit domain.GeoPoint
	if cacheGet(ctx, s.cache, op, key, &hit) {
		return hit, nil
	}

	p, err := fetch()
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%s: %w", op, err)
	}
	if !p.Valid() {
		return domain.GeoPoint{}, fmt.Errorf("%s: %w: coordinates out of range", op, domain.ErrLocationUnavailable)
	}

	cacheSet(ctx, s.cache, op, key, p, ttl)
	return p, nil
}
