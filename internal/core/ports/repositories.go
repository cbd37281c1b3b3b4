package ports

import (
	"context"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
)

// UserRepository persists users and their profiles.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// CategoryRepository persists service categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int64) error
}

// ProviderFilter narrows a provider listing.
type ProviderFilter struct {
	Category string // case-insensitive category name, "" = all
}

// ProviderRepository persists service providers.
type ProviderRepository interface {
	List(ctx context.Context, filter ProviderFilter) ([]domain.Provider, error)
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error)
	Create(ctx context.Context, provider *domain.Provider) error
	Update(ctx context.Context, provider *domain.Provider) error
	Delete(ctx context.Context, id int64) error
	UpdateLocation(ctx context.Context, id int64, loc domain.GeoPoint) error
	// RefreshRating recomputes the provider rating as the mean of its reviews.
	RefreshRating(ctx context.Context, id int64) error
	// NearestInCategory returns up to limit providers of the category, ordered
	// by planar degree distance from origin, with Distance populated.
	NearestInCategory(ctx context.Context, category string, origin domain.GeoPoint, limit int) ([]domain.Provider, error)
}

// ServiceRequestRepository persists service requests.
type ServiceRequestRepository interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.ServiceRequest, error)
	ListByProvider(ctx context.Context, providerID int64) ([]domain.ServiceRequest, error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error)
	Create(ctx context.Context, req *domain.ServiceRequest) error
	Update(ctx context.Context, req *domain.ServiceRequest) error
	Delete(ctx context.Context, id int64) error
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	ListByProvider(ctx context.Context, providerID int64) ([]domain.Review, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Review, error)
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id int64) error
}
