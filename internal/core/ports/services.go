package ports

import (
	"context"
	"errors"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRequestEvent(ctx context.Context, event *domain.RequestEvent) error
	PublishReviewEvent(ctx context.Context, event *domain.ReviewEvent) error
}

// ErrCacheMiss is returned by CacheService.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// Geocoder resolves a free-form address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.GeoPoint, error)
}

// IPLocator resolves a client IP to approximate coordinates.
// An empty ip means "the server's own public address".
type IPLocator interface {
	Locate(ctx context.Context, ip string) (domain.GeoPoint, error)
}

// PlacesProvider queries an external places directory.
type PlacesProvider interface {
	NearbySearch(ctx context.Context, origin domain.GeoPoint, serviceType string, radiusMeters int) ([]domain.Place, error)
	PlaceDetails(ctx context.Context, placeID string) (*domain.PlaceDetails, error)
}

// TokenIssuer mints and verifies JWT token pairs.
type TokenIssuer interface {
	IssuePair(p domain.Principal) (domain.TokenPair, error)
	ParseRefresh(token string) (*domain.Principal, error)
}
