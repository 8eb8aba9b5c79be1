package service

import (
	"context"
	"errors"
	"fmt"

	natsadapter "github.com/rentfage/property-service/internal/adapter/nats"
	"github.com/rentfage/property-service/internal/domain/entity"
	"github.com/rentfage/property-service/internal/identity"
	"github.com/rentfage/property-service/internal/platform/logger"
	"github.com/rentfage/property-service/internal/platform/metrics"
	"github.com/rentfage/property-service/internal/platform/watch"
	"github.com/rentfage/property-service/internal/repository"
)

const (
	natsSubjectRequestCreated       = "request.created"
	natsSubjectRequestStatusUpdated = "request.status.updated"
)

// RequestService owns the purchase-request lifecycle: submission by the
// signed-in user, per-user history, and the admin approve/reject flow.
// Missing identities and unknown ids are deliberate no-ops rather than
// errors, matching how the client treats them.
type RequestService struct {
	store     repository.RequestStore
	ident     identity.Provider
	publisher natsadapter.MessagePublisher // nil when NATS is not configured
	metrics   *metrics.Metrics
	log       logger.Logger
}

func NewRequestService(
	store repository.RequestStore,
	ident identity.Provider,
	publisher natsadapter.MessagePublisher,
	m *metrics.Metrics,
	log logger.Logger,
) *RequestService {
	return &RequestService{
		store:     store,
		ident:     ident,
		publisher: publisher,
		metrics:   m,
		log:       log,
	}
}

// Submit files a pending request for the given listing on behalf of the
// current user. Without a signed-in identity nothing happens and nil is
// returned; there is no anonymous submission.
func (s *RequestService) Submit(ctx context.Context, listing entity.Listing) (*entity.Request, error) {
	userID, ok := s.ident.CurrentUserIdentity(ctx)
	if !ok {
		s.log.Debug("Submit ignored: no signed-in user")
		return nil, nil
	}

	req, err := entity.NewRequest(userID, listing)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	stored, err := s.store.Append(ctx, *req)
	if err != nil {
		return nil, fmt.Errorf("failed to store request: %w", err)
	}

	s.publish(ctx, natsSubjectRequestCreated, stored)
	s.metrics.RequestsSubmittedTotal.Inc()
	s.log.Infof("Request %d submitted by %s for listing %d", stored.ID, stored.UserID, listing.ID)
	return &stored, nil
}

// ListMine returns the current user's requests in creation order; empty
// when nobody is signed in.
func (s *RequestService) ListMine(ctx context.Context) ([]entity.Request, error) {
	userID, ok := s.ident.CurrentUserIdentity(ctx)
	if !ok {
		return []entity.Request{}, nil
	}
	return s.store.ListByUser(ctx, userID)
}

// ListAll is the admin projection over the whole collection.
func (s *RequestService) ListAll(ctx context.Context) ([]entity.Request, error) {
	return s.store.ListAll(ctx)
}

// WatchAll streams the admin projection; it re-emits after every
// submission and every decision.
func (s *RequestService) WatchAll() *watch.Subscription[[]entity.Request] {
	return s.store.Watch()
}

func (s *RequestService) Approve(ctx context.Context, requestID int64) error {
	return s.decide(ctx, requestID, entity.RequestStatusApproved)
}

func (s *RequestService) Reject(ctx context.Context, requestID int64) error {
	return s.decide(ctx, requestID, entity.RequestStatusRejected)
}

func (s *RequestService) decide(ctx context.Context, requestID int64, status entity.RequestStatus) error {
	updated, err := s.store.UpdateStatus(ctx, requestID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("Decision ignored: request %d not found", requestID)
			return nil
		}
		// Already-decided requests stay where they are.
		s.log.Warnf("Decision ignored for request %d: %v", requestID, err)
		return nil
	}

	s.publish(ctx, natsSubjectRequestStatusUpdated, updated)
	s.metrics.RequestDecisionsTotal.WithLabelValues(string(status)).Inc()
	s.log.Infof("Request %d moved to %s", requestID, status)
	return nil
}

func (s *RequestService) publish(ctx context.Context, subject string, message interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, subject, message); err != nil {
		s.log.Warnf("Failed to publish %s event: %v", subject, err)
	}
}
