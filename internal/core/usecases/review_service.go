package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/ports"
	"github.com/samirrijal/nearmeconnect/internal/pkg/logging"
)

// ReviewUpdate carries mutable review fields. Nil fields are left unchanged.
type ReviewUpdate struct {
	Rating  *int
	Comment *string
}

// ReviewService handles customer reviews and keeps provider ratings current.
type ReviewService struct {
	reviews   ports.ReviewRepository
	providers ports.ProviderRepository
	events    ports.EventPublisher
}

// NewReviewService creates a new ReviewService. events may be nil.
func NewReviewService(reviews ports.ReviewRepository, providers ports.ProviderRepository, events ports.EventPublisher) *ReviewService {
	return &ReviewService{reviews: reviews, providers: providers, events: events}
}

// List returns reviews of providerID when given, otherwise the caller's own.
func (s *ReviewService) List(ctx context.Context, caller domain.Principal, providerID *int64) ([]domain.Review, error) {
	if providerID != nil {
		return s.reviews.ListByProvider(ctx, *providerID)
	}
	return s.reviews.ListByCustomer(ctx, caller.UserID)
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*domain.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// Create records a review by the caller. Providers cannot review themselves.
func (s *ReviewService) Create(ctx context.Context, caller domain.Principal, providerID int64, rating int, comment string) (*domain.Review, error) {
	if err := validRating(rating); err != nil {
		return nil, err
	}
	provider, err := s.providers.GetByID(ctx, providerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown provider %d", domain.ErrInvalidInput, providerID)
	}
	if err != nil {
		return nil, err
	}
	if provider.UserID == caller.UserID {
		return nil, fmt.Errorf("%w: providers cannot review themselves", domain.ErrForbidden)
	}

	r := &domain.Review{
		CustomerID: caller.UserID,
		ProviderID: providerID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, err
	}
	s.afterChange(ctx, domain.EventCreated, r)
	return r, nil
}

// Update modifies a review. Only the author or staff may update.
func (s *ReviewService) Update(ctx context.Context, caller domain.Principal, id int64, in ReviewUpdate) (*domain.Review, error) {
	r, err := s.authored(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.Rating != nil {
		if err := validRating(*in.Rating); err != nil {
			return nil, err
		}
		r.Rating = *in.Rating
	}
	if in.Comment != nil {
		r.Comment = *in.Comment
	}
	if err := s.reviews.Update(ctx, r); err != nil {
		return nil, err
	}
	s.afterChange(ctx, domain.EventUpdated, r)
	return r, nil
}

// Delete removes a review. Only the author or staff may delete.
func (s *ReviewService) Delete(ctx context.Context, caller domain.Principal, id int64) error {
	r, err := s.authored(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.afterChange(ctx, domain.EventDeleted, r)
	return nil
}

func (s *ReviewService) authored(ctx context.Context, caller domain.Principal, id int64) (*domain.Review, error) {
	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.CustomerID != caller.UserID && !caller.IsStaff {
		return nil, fmt.Errorf("%w: not the author of this review", domain.ErrForbidden)
	}
	return r, nil
}

// afterChange recomputes the provider rating and publishes the event.
// Neither failure is returned: the review itself is already stored.
func (s *ReviewService) afterChange(ctx context.Context, eventType string, r *domain.Review) {
	log := logging.FromContext(ctx)
	if err := s.providers.RefreshRating(ctx, r.ProviderID); err != nil {
		log.Error("refresh provider rating", "provider", r.ProviderID, "error", err)
	}
	if s.events == nil {
		return
	}
	ev := &domain.ReviewEvent{Type: eventType, Review: r, At: time.Now().UTC()}
	if err := s.events.PublishReviewEvent(ctx, ev); err != nil {
		log.Warn("publish review event", "type", eventType, "review", r.ID, "error", err)
	}
}

func validRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}
	return nil
}
