package http_test

import (
	"context"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/ports"
)

// ---- Mock repositories ----

type mockUserRepo struct {
	users map[string]*domain.User
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	if _, exists := m.users[u.Username]; exists {
		return domain.ErrConflict
	}
	u.ID = int64(len(m.users) + 1)
	m.users[u.Username] = u
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

type mockCategoryRepo struct {
	listFn func(ctx context.Context) ([]domain.Category, error)
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []domain.Category{{ID: 1, Name: "Electrician"}, {ID: 2, Name: "Plumber"}}, nil
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	return &domain.Category{ID: id, Name: "Plumber"}, nil
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	c.ID = 10
	return nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, c *domain.Category) error { return nil }
func (m *mockCategoryRepo) Delete(ctx context.Context, id int64) error           { return nil }

type mockProviderRepo struct {
	getByIDFn     func(ctx context.Context, id int64) (*domain.Provider, error)
	getByUserIDFn func(ctx context.Context, userID int64) (*domain.Provider, error)
	nearestFn     func(ctx context.Context, category string, origin domain.GeoPoint, limit int) ([]domain.Provider, error)
	moved         *domain.GeoPoint
}

func (m *mockProviderRepo) List(ctx context.Context, f ports.ProviderFilter) ([]domain.Provider, error) {
	return nil, nil
}

func (m *mockProviderRepo) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockProviderRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockProviderRepo) Create(ctx context.Context, p *domain.Provider) error { return nil }
func (m *mockProviderRepo) Update(ctx context.Context, p *domain.Provider) error { return nil }
func (m *mockProviderRepo) Delete(ctx context.Context, id int64) error           { return nil }
func (m *mockProviderRepo) RefreshRating(ctx context.Context, id int64) error    { return nil }

func (m *mockProviderRepo) UpdateLocation(ctx context.Context, id int64, loc domain.GeoPoint) error {
	m.moved = &loc
	return nil
}

func (m *mockProviderRepo) NearestInCategory(ctx context.Context, category string, origin domain.GeoPoint, limit int) ([]domain.Provider, error) {
	if m.nearestFn != nil {
		return m.nearestFn(ctx, category, origin, limit)
	}
	return nil, nil
}

type mockRequestRepo struct {
	created []*domain.ServiceRequest
}

func (m *mockRequestRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.ServiceRequest, error) {
	return nil, nil
}

func (m *mockRequestRepo) ListByProvider(ctx context.Context, providerID int64) ([]domain.ServiceRequest, error) {
	return nil, nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	return nil, domain.ErrNotFound
}

func (m *mockRequestRepo) Create(ctx context.Context, r *domain.ServiceRequest) error {
	r.ID = int64(len(m.created) + 1)
	m.created = append(m.created, r)
	return nil
}

func (m *mockRequestRepo) Update(ctx context.Context, r *domain.ServiceRequest) error { return nil }
func (m *mockRequestRepo) Delete(ctx context.Context, id int64) error                 { return nil }

type mockReviewRepo struct{}

func (m *mockReviewRepo) ListByProvider(ctx context.Context, providerID int64) ([]domain.Review, error) {
	return nil, nil
}

func (m *mockReviewRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Review, error) {
	return nil, nil
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	return nil, domain.ErrNotFound
}

func (m *mockReviewRepo) Create(ctx context.Context, r *domain.Review) error { return nil }
func (m *mockReviewRepo) Update(ctx context.Context, r *domain.Review) error { return nil }
func (m *mockReviewRepo) Delete(ctx context.Context, id int64) error         { return nil }

// ---- Mock outbound services ----

type mockPlaces struct {
	nearbyFn  func(ctx context.Context, origin domain.GeoPoint, serviceType string, radius int) ([]domain.Place, error)
	detailsFn func(ctx context.Context, placeID string) (*domain.PlaceDetails, error)
}

func (m *mockPlaces) NearbySearch(ctx context.Context, origin domain.GeoPoint, serviceType string, radius int) ([]domain.Place, error) {
	if m.nearbyFn != nil {
		return m.nearbyFn(ctx, origin, serviceType, radius)
	}
	return nil, nil
}

func (m *mockPlaces) PlaceDetails(ctx context.Context, placeID string) (*domain.PlaceDetails, error) {
	if m.detailsFn != nil {
		return m.detailsFn(ctx, placeID)
	}
	return nil, domain.ErrNotFound
}

type fixedLocator struct {
	point domain.GeoPoint
	err   error
}

func (f fixedLocator) Geocode(ctx context.Context, address string) (domain.GeoPoint, error) {
	return f.point, f.err
}

func (f fixedLocator) Locate(ctx context.Context, ip string) (domain.GeoPoint, error) {
	return f.point, f.err
}
