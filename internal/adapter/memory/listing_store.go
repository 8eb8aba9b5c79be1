// Package memory provides in-process store implementations with the same
// contracts as the Mongo-backed ones. They back the tests and storage-free
// runs of the service.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rentfage/property-service/internal/domain/entity"
	"github.com/rentfage/property-service/internal/platform/watch"
	"github.com/rentfage/property-service/internal/repository"
)

type ListingStore struct {
	mu       sync.Mutex
	listings map[int64]entity.Listing

	allB *watch.Broadcaster[[]entity.Listing]
	favB *watch.Broadcaster[[]entity.Listing]
	byID map[int64]*watch.Broadcaster[repository.ListingUpdate]
}

func NewListingStore() *ListingStore {
	s := &ListingStore{
		listings: make(map[int64]entity.Listing),
		allB:     watch.NewBroadcaster[[]entity.Listing](),
		favB:     watch.NewBroadcaster[[]entity.Listing](),
		byID:     make(map[int64]*watch.Broadcaster[repository.ListingUpdate]),
	}
	s.allB.Publish(nil)
	s.favB.Publish(nil)
	return s
}

func (s *ListingStore) All(ctx context.Context) ([]entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

func (s *ListingStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.listings)), nil
}

func (s *ListingStore) GetByID(ctx context.Context, id int64) (*entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (s *ListingStore) Insert(ctx context.Context, listing entity.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[listing.ID]; ok {
		return fmt.Errorf("listing %d: %w", listing.ID, repository.ErrAlreadyExists)
	}
	s.listings[listing.ID] = listing
	s.notifyLocked()
	return nil
}

func (s *ListingStore) InsertAll(ctx context.Context, listings []entity.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range listings {
		if _, ok := s.listings[l.ID]; ok {
			return fmt.Errorf("listing %d: %w", l.ID, repository.ErrAlreadyExists)
		}
	}
	for _, l := range listings {
		s.listings[l.ID] = l
	}
	s.notifyLocked()
	return nil
}

func (s *ListingStore) Update(ctx context.Context, listing entity.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[listing.ID]; !ok {
		return fmt.Errorf("listing %d: %w", listing.ID, repository.ErrNotFound)
	}
	s.listings[listing.ID] = listing
	s.notifyLocked()
	return nil
}

func (s *ListingStore) Delete(ctx context.Context, listing entity.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[listing.ID]; !ok {
		return fmt.Errorf("listing %d: %w", listing.ID, repository.ErrNotFound)
	}
	delete(s.listings, listing.ID)
	s.notifyLocked()
	return nil
}

func (s *ListingStore) WatchAll() *watch.Subscription[[]entity.Listing] {
	return s.allB.Subscribe()
}

func (s *ListingStore) WatchFavorites() *watch.Subscription[[]entity.Listing] {
	return s.favB.Subscribe()
}

func (s *ListingStore) WatchByID(id int64) *watch.Subscription[repository.ListingUpdate] {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		b = watch.NewBroadcaster[repository.ListingUpdate]()
		s.byID[id] = b
	}
	// Prime with the current row state so the subscription replays it.
	l, found := s.listings[id]
	b.Publish(repository.ListingUpdate{Listing: l, Found: found})
	return b.Subscribe()
}

// snapshotLocked copies the table in ascending ID order.
func (s *ListingStore) snapshotLocked() []entity.Listing {
	out := make([]entity.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// notifyLocked broadcasts fresh snapshots while the write lock is held, so
// every committed write is visible to observers before it returns.
func (s *ListingStore) notifyLocked() {
	all := s.snapshotLocked()
	favorites := make([]entity.Listing, 0, len(all))
	for _, l := range all {
		if l.IsFavorite {
			favorites = append(favorites, l)
		}
	}
	s.allB.Publish(all)
	s.favB.Publish(favorites)
	for id, b := range s.byID {
		l, found := s.listings[id]
		b.Publish(repository.ListingUpdate{Listing: l, Found: found})
	}
}
