package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rentfage/property-service/internal/domain/entity"
	"github.com/rentfage/property-service/internal/platform/watch"
	"github.com/rentfage/property-service/internal/repository"
)

// RequestStore keeps the canonical request collection in memory, guarded by
// a single write lock. Requests are only ever appended or transitioned,
// never removed.
type RequestStore struct {
	mu       sync.Mutex
	requests []entity.Request
	b        *watch.Broadcaster[[]entity.Request]
}

func NewRequestStore() *RequestStore {
	s := &RequestStore{b: watch.NewBroadcaster[[]entity.Request]()}
	s.b.Publish(nil)
	return s
}

func (s *RequestStore) Append(ctx context.Context, req entity.Request) (entity.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var max int64
	for _, r := range s.requests {
		if r.ID > max {
			max = r.ID
		}
	}
	req.ID = max + 1
	s.requests = append(s.requests, req)
	s.b.Publish(s.snapshotLocked())
	return req, nil
}

func (s *RequestStore) GetByID(ctx context.Context, id int64) (*entity.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, fmt.Errorf("request %d: %w", id, repository.ErrNotFound)
}

func (s *RequestStore) ListByUser(ctx context.Context, userID string) ([]entity.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Request, 0)
	for _, r := range s.requests {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *RequestStore) ListAll(ctx context.Context) ([]entity.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

func (s *RequestStore) UpdateStatus(ctx context.Context, id int64, status entity.RequestStatus) (*entity.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.requests {
		if s.requests[i].ID != id {
			continue
		}
		if err := s.requests[i].UpdateStatus(status); err != nil {
			return nil, err
		}
		out := s.requests[i]
		s.b.Publish(s.snapshotLocked())
		return &out, nil
	}
	return nil, fmt.Errorf("request %d: %w", id, repository.ErrNotFound)
}

func (s *RequestStore) Watch() *watch.Subscription[[]entity.Request] {
	return s.b.Subscribe()
}

func (s *RequestStore) snapshotLocked() []entity.Request {
	out := make([]entity.Request, len(s.requests))
	copy(out, s.requests)
	return out
}
