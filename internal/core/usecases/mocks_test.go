package usecases_test

import (
	"context"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/ports"
)

// --- Mock UserRepository ---

type mockUserRepo struct {
	createFn        func(ctx context.Context, u *domain.User) error
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	u.ID = 1
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, domain.ErrNotFound
}

// --- Mock CategoryRepository ---

type mockCategoryRepo struct {
	listFn    func(ctx context.Context) ([]domain.Category, error)
	getByIDFn func(ctx context.Context, id int64) (*domain.Category, error)
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Category{ID: id, Name: "Plumber"}, nil
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *domain.Category) error { return nil }
func (m *mockCategoryRepo) Update(ctx context.Context, c *domain.Category) error { return nil }
func (m *mockCategoryRepo) Delete(ctx context.Context, id int64) error           { return nil }

// --- Mock ProviderRepository ---

type mockProviderRepo struct {
	listFn           func(ctx context.Context, f ports.ProviderFilter) ([]domain.Provider, error)
	getByIDFn        func(ctx context.Context, id int64) (*domain.Provider, error)
	getByUserIDFn    func(ctx context.Context, userID int64) (*domain.Provider, error)
	createFn         func(ctx context.Context, p *domain.Provider) error
	updateFn         func(ctx context.Context, p *domain.Provider) error
	updateLocationFn func(ctx context.Context, id int64, loc domain.GeoPoint) error
	nearestFn        func(ctx context.Context, category string, origin domain.GeoPoint, limit int) ([]domain.Provider, error)
	refreshed        []int64
}

func (m *mockProviderRepo) List(ctx context.Context, f ports.ProviderFilter) ([]domain.Provider, error) {
	if m.listFn != nil {
		return m.listFn(ctx, f)
	}
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

func (m *mockProviderRepo) Create(ctx context.Context, p *domain.Provider) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	p.ID = 1
	return nil
}

func (m *mockProviderRepo) Update(ctx context.Context, p *domain.Provider) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return nil
}

func (m *mockProviderRepo) Delete(ctx context.Context, id int64) error { return nil }

func (m *mockProviderRepo) UpdateLocation(ctx context.Context, id int64, loc domain.GeoPoint) error {
	if m.updateLocationFn != nil {
		return m.updateLocationFn(ctx, id, loc)
	}
	return nil
}

func (m *mockProviderRepo) RefreshRating(ctx context.Context, id int64) error {
	m.refreshed = append(m.refreshed, id)
	return nil
}

func (m *mockProviderRepo) NearestInCategory(ctx context.Context, category string, origin domain.GeoPoint, limit int) ([]domain.Provider, error) {
	if m.nearestFn != nil {
		return m.nearestFn(ctx, category, origin, limit)
	}
	return nil, nil
}

// --- Mock ServiceRequestRepository ---

type mockRequestRepo struct {
	listByCustomerFn func(ctx context.Context, customerID int64) ([]domain.ServiceRequest, error)
	listByProviderFn func(ctx context.Context, providerID int64) ([]domain.ServiceRequest, error)
	getByIDFn        func(ctx context.Context, id int64) (*domain.ServiceRequest, error)
	created          []*domain.ServiceRequest
	updated          []*domain.ServiceRequest
}

func (m *mockRequestRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.ServiceRequest, error) {
	if m.listByCustomerFn != nil {
		return m.listByCustomerFn(ctx, customerID)
	}
	return nil, nil
}

func (m *mockRequestRepo) ListByProvider(ctx context.Context, providerID int64) ([]domain.ServiceRequest, error) {
	if m.listByProviderFn != nil {
		return m.listByProviderFn(ctx, providerID)
	}
	return nil, nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRequestRepo) Create(ctx context.Context, r *domain.ServiceRequest) error {
	r.ID = int64(len(m.created) + 1)
	m.created = append(m.created, r)
	return nil
}

func (m *mockRequestRepo) Update(ctx context.Context, r *domain.ServiceRequest) error {
	m.updated = append(m.updated, r)
	return nil
}

func (m *mockRequestRepo) Delete(ctx context.Context, id int64) error { return nil }

// --- Mock ReviewRepository ---

type mockReviewRepo struct {
	getByIDFn func(ctx context.Context, id int64) (*domain.Review, error)
	created   []*domain.Review
}

func (m *mockReviewRepo) ListByProvider(ctx context.Context, providerID int64) ([]domain.Review, error) {
	return []domain.Review{{ProviderID: providerID}}, nil
}

func (m *mockReviewRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Review, error) {
	return []domain.Review{{CustomerID: customerID}}, nil
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockReviewRepo) Create(ctx context.Context, r *domain.Review) error {
	r.ID = int64(len(m.created) + 1)
	m.created = append(m.created, r)
	return nil
}

func (m *mockReviewRepo) Update(ctx context.Context, r *domain.Review) error { return nil }
func (m *mockReviewRepo) Delete(ctx context.Context, id int64) error         { return nil }

// --- Mock outbound services ---

type mockPublisher struct {
	requestEvents []*domain.RequestEvent
	reviewEvents  []*domain.ReviewEvent
	err           error
}

func (m *mockPublisher) PublishRequestEvent(ctx context.Context, e *domain.RequestEvent) error {
	m.requestEvents = append(m.requestEvents, e)
	return m.err
}

func (m *mockPublisher) PublishReviewEvent(ctx context.Context, e *domain.ReviewEvent) error {
	m.reviewEvents = append(m.reviewEvents, e)
	return m.err
}

type mockCache struct {
	data map[string][]byte
	err  error // returned by Get when set
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, ports.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type mockGeocoder struct {
	calls     int
	geocodeFn func(ctx context.Context, address string) (domain.GeoPoint, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (domain.GeoPoint, error) {
	m.calls++
	if m.geocodeFn != nil {
		return m.geocodeFn(ctx, address)
	}
	return domain.GeoPoint{}, domain.ErrLocationUnavailable
}

type mockIPLocator struct {
	locateFn func(ctx context.Context, ip string) (domain.GeoPoint, error)
}

func (m *mockIPLocator) Locate(ctx context.Context, ip string) (domain.GeoPoint, error) {
	if m.locateFn != nil {
		return m.locateFn(ctx, ip)
	}
	return domain.GeoPoint{}, domain.ErrLocationUnavailable
}

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

type mockTokens struct {
	parseFn func(token string) (*domain.Principal, error)
	issued  []domain.Principal
}

func (m *mockTokens) IssuePair(p domain.Principal) (domain.TokenPair, error) {
	m.issued = append(m.issued, p)
	return domain.TokenPair{Access: "access-" + p.Username, Refresh: "refresh-" + p.Username}, nil
}

func (m *mockTokens) ParseRefresh(token string) (*domain.Principal, error) {
	if m.parseFn != nil {
		return m.parseFn(token)
	}
	return nil, domain.ErrInvalidToken
}
