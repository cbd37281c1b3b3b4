package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/ports"
	"github.com/samirrijal/nearmeconnect/internal/pkg/geo"
	"github.com/samirrijal/nearmeconnect/internal/pkg/logging"
)

// RequestUpdate carries mutable request fields. Nil fields are left unchanged.
type RequestUpdate struct {
	Message     *string
	IsAccepted  *bool
	IsCompleted *bool
}

// RequestService handles service requests between customers and providers.
type RequestService struct {
	requests  ports.ServiceRequestRepository
	providers ports.ProviderRepository
	locations *LocationService
	events    ports.EventPublisher
}

// NewRequestService creates a new RequestService. events may be nil.
func NewRequestService(
	requests ports.ServiceRequestRepository,
	providers ports.ProviderRepository,
	locations *LocationService,
	events ports.EventPublisher,
) *RequestService {
	return &RequestService{requests: requests, providers: providers, locations: locations, events: events}
}

// List returns the requests addressed to the caller when the caller owns a
// provider profile, otherwise the requests the caller made.
func (s *RequestService) List(ctx context.Context, caller domain.Principal) ([]domain.ServiceRequest, error) {
	p, err := s.providers.GetByUserID(ctx, caller.UserID)
	switch {
	case err == nil:
		return s.requests.ListByProvider(ctx, p.ID)
	case errors.Is(err, domain.ErrNotFound):
		return s.requests.ListByCustomer(ctx, caller.UserID)
	default:
		return nil, err
	}
}

// Create files a request from a customer. Service providers cannot create requests.
func (s *RequestService) Create(ctx context.Context, caller domain.Principal, providerID int64, message string) (*domain.ServiceRequest, error) {
	if caller.IsServiceProvider {
		return nil, fmt.Errorf("%w: service providers cannot create requests", domain.ErrForbidden)
	}
	if _, err := s.providers.GetByID(ctx, providerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown provider %d", domain.ErrInvalidInput, providerID)
		}
		return nil, err
	}
	return s.create(ctx, caller, providerID, message)
}

// CreateNearby files a request to a provider only if the requester is within
// geo.MaxRequestDistance of it. origin is used when non-nil, otherwise the
// requester is located by ip.
func (s *RequestService) CreateNearby(ctx context.Context, caller domain.Principal, providerID int64, message string, origin *domain.GeoPoint, ip string) (*domain.ServiceRequest, error) {
	provider, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	var at domain.GeoPoint
	if origin != nil {
		at = *origin
	} else {
		at, err = s.locations.Locate(ctx, ip)
		if err != nil {
			logging.FromContext(ctx).Warn("locate requester", "ip", ip, "error", err)
			return nil, fmt.Errorf("%w: could not determine your location", domain.ErrLocationUnavailable)
		}
	}
	if !at.Valid() {
		return nil, fmt.Errorf("%w: could not determine your location", domain.ErrLocationUnavailable)
	}

	if geo.Between(at, provider.Location) > geo.MaxRequestDistance {
		return nil, domain.ErrTooFar
	}
	return s.create(ctx, caller, provider.ID, message)
}

// Get returns a request visible to the caller.
func (s *RequestService) Get(ctx context.Context, caller domain.Principal, id int64) (*domain.ServiceRequest, error) {
	r, _, err := s.visible(ctx, caller, id)
	return r, err
}

// Update modifies a request. Only the addressed provider may accept or
// complete it; completing implies accepting.
func (s *RequestService) Update(ctx context.Context, caller domain.Principal, id int64, in RequestUpdate) (*domain.ServiceRequest, error) {
	r, isProvider, err := s.visible(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if (in.IsAccepted != nil || in.IsCompleted != nil) && !isProvider {
		return nil, fmt.Errorf("%w: only the provider can accept or complete a request", domain.ErrForbidden)
	}
	if in.Message != nil {
		r.Message = *in.Message
	}
	if in.IsAccepted != nil {
		r.IsAccepted = *in.IsAccepted
	}
	if in.IsCompleted != nil {
		r.IsCompleted = *in.IsCompleted
	}
	if r.IsCompleted {
		r.IsAccepted = true
	}

	if err := s.requests.Update(ctx, r); err != nil {
		return nil, err
	}
	s.publish(ctx, domain.EventUpdated, r)
	return r, nil
}

// Delete removes a request. Participants and staff may delete.
func (s *RequestService) Delete(ctx context.Context, caller domain.Principal, id int64) error {
	r, _, err := s.visible(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.requests.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, domain.EventDeleted, r)
	return nil
}

func (s *RequestService) create(ctx context.Context, caller domain.Principal, providerID int64, message string) (*domain.ServiceRequest, error) {
	r := &domain.ServiceRequest{
		CustomerID: caller.UserID,
		ProviderID: providerID,
		Message:    message,
	}
	if err := s.requests.Create(ctx, r); err != nil {
		return nil, err
	}
	s.publish(ctx, domain.EventCreated, r)
	return r, nil
}

// visible loads a request and checks the caller is its customer, its
// provider, or staff. isProvider reports whether the caller is the provider.
func (s *RequestService) visible(ctx context.Context, caller domain.Principal, id int64) (*domain.ServiceRequest, bool, error) {
	r, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	provider, err := s.providers.GetByID(ctx, r.ProviderID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}
	isProvider := provider != nil && provider.UserID == caller.UserID
	if r.CustomerID != caller.UserID && !isProvider && !caller.IsStaff {
		return nil, false, fmt.Errorf("%w: not a participant of this request", domain.ErrForbidden)
	}
	return r, isProvider, nil
}

// publish is best effort: a broker outage must not fail the request.
func (s *RequestService) publish(ctx context.Context, eventType string, r *domain.ServiceRequest) {
	if s.events == nil {
		return
	}
	ev := &domain.RequestEvent{Type: eventType, Request: r, At: time.Now().UTC()}
	if err := s.events.PublishRequestEvent(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("publish request event", "type", eventType, "request", r.ID, "error", err)
	}
}
