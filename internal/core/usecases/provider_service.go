package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/ports"
)

// ProviderInput carries provider fields. Nil fields are left unchanged on update.
type ProviderInput struct {
	CategoryID   *int64
	Bio          *string
	Phone        *string
	Address      *string
	Latitude     *float64
	Longitude    *float64
	ProfileImage *string
}

// ProviderService handles service-provider profiles.
type ProviderService struct {
	providers  ports.ProviderRepository
	categories ports.CategoryRepository
	locations  *LocationService
}

// NewProviderService creates a new ProviderService.
func NewProviderService(providers ports.ProviderRepository, categories ports.CategoryRepository, locations *LocationService) *ProviderService {
	return &ProviderService{providers: providers, categories: categories, locations: locations}
}

func (s *ProviderService) List(ctx context.Context, filter ports.ProviderFilter) ([]domain.Provider, error) {
	return s.providers.List(ctx, filter)
}

func (s *ProviderService) Get(ctx context.Context, id int64) (*domain.Provider, error) {
	return s.providers.GetByID(ctx, id)
}

// Create registers the caller as a provider. Only accounts flagged as service
// providers may do so, once.
func (s *ProviderService) Create(ctx context.Context, caller domain.Principal, in ProviderInput) (*domain.Provider, error) {
	if !caller.IsServiceProvider {
		return nil, fmt.Errorf("%w: only service providers can create a provider profile", domain.ErrForbidden)
	}
	if in.CategoryID == nil || in.Address == nil || strings.TrimSpace(*in.Address) == "" {
		return nil, fmt.Errorf("%w: category_id and address are required", domain.ErrInvalidInput)
	}

	existing, err := s.providers.GetByUserID(ctx, caller.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: provider profile already exists", domain.ErrConflict)
	}

	p := &domain.Provider{UserID: caller.UserID}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.providers.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update modifies a provider. Only the owner or staff may update.
func (s *ProviderService) Update(ctx context.Context, caller domain.Principal, id int64, in ProviderInput) (*domain.Provider, error) {
	p, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.providers.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a provider. Only the owner or staff may delete.
func (s *ProviderService) Delete(ctx context.Context, caller domain.Principal, id int64) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	return s.providers.Delete(ctx, id)
}

// UpdateLocation moves the caller's own provider record.
func (s *ProviderService) UpdateLocation(ctx context.Context, caller domain.Principal, loc domain.GeoPoint) (*domain.Provider, error) {
	p, err := s.providers.GetByUserID(ctx, caller.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: only service providers can update location", domain.ErrForbidden)
	}
	if err != nil {
		return nil, err
	}
	if !loc.Valid() {
		return nil, fmt.Errorf("%w: invalid coordinates - out of valid range", domain.ErrInvalidInput)
	}
	if err := s.providers.UpdateLocation(ctx, p.ID, loc); err != nil {
		return nil, err
	}
	p.Location = loc
	return p, nil
}

// ForUser returns the provider record owned by userID.
func (s *ProviderService) ForUser(ctx context.Context, userID int64) (*domain.Provider, error) {
	return s.providers.GetByUserID(ctx, userID)
}

func (s *ProviderService) owned(ctx context.Context, caller domain.Principal, id int64) (*domain.Provider, error) {
	p, err := s.providers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != caller.UserID && !caller.IsStaff {
		return nil, fmt.Errorf("%w: not the owner of this provider", domain.ErrForbidden)
	}
	return p, nil
}

// apply copies set fields of in onto p. An address change without explicit
// coordinates is geocoded.
func (s *ProviderService) apply(ctx context.Context, p *domain.Provider, in ProviderInput) error {
	if in.CategoryID != nil {
		c, err := s.categories.GetByID(ctx, *in.CategoryID)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: unknown category %d", domain.ErrInvalidInput, *in.CategoryID)
		}
		if err != nil {
			return err
		}
		p.CategoryID = c.ID
		p.Category = c
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.ProfileImage != nil {
		p.ProfileImage = *in.ProfileImage
	}

	addressChanged := in.Address != nil && *in.Address != p.Address
	if in.Address != nil {
		p.Address = *in.Address
	}

	switch {
	case in.Latitude != nil && in.Longitude != nil:
		loc := domain.GeoPoint{Lat: *in.Latitude, Lng: *in.Longitude}
		if !loc.Valid() {
			return fmt.Errorf("%w: invalid coordinates - out of valid range", domain.ErrInvalidInput)
		}
		p.Location = loc
	case in.Latitude != nil || in.Longitude != nil:
		return fmt.Errorf("%w: latitude and longitude must be given together", domain.ErrInvalidInput)
	case addressChanged:
		loc, err := s.locations.Geocode(ctx, p.Address)
		if err != nil {
			return fmt.Errorf("%w: could not geocode address", domain.ErrLocationUnavailable)
		}
		p.Location = loc
	}
	return nil
}
