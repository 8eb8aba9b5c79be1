package service

import (
	"context"
	"errors"
	"fmt"

	redisadapter "github.com/rentfage/property-service/internal/adapter/redis"
	"github.com/rentfage/property-service/internal/domain/entity"
	"github.com/rentfage/property-service/internal/platform/logger"
	"github.com/rentfage/property-service/internal/platform/watch"
	"github.com/rentfage/property-service/internal/repository"
)

// CatalogService is the single gateway between the listing store and the
// rest of the system. It owns the seeding policy and the read cache; all
// other components reach the store through it.
type CatalogService struct {
	store repository.ListingStore
	cache *redisadapter.ListingCache // nil when the cache is not configured
	log   logger.Logger
}

func NewCatalogService(store repository.ListingStore, cache *redisadapter.ListingCache, log logger.Logger) *CatalogService {
	return &CatalogService{
		store: store,
		cache: cache,
		log:   log,
	}
}

func (s *CatalogService) WatchAll() *watch.Subscription[[]entity.Listing] {
	return s.store.WatchAll()
}

func (s *CatalogService) WatchFavorites() *watch.Subscription[[]entity.Listing] {
	return s.store.WatchFavorites()
}

func (s *CatalogService) WatchByID(id int64) *watch.Subscription[repository.ListingUpdate] {
	return s.store.WatchByID(id)
}

func (s *CatalogService) All(ctx context.Context) ([]entity.Listing, error) {
	return s.store.All(ctx)
}

func (s *CatalogService) Favorites(ctx context.Context) ([]entity.Listing, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	favorites := make([]entity.Listing, 0, len(all))
	for _, l := range all {
		if l.IsFavorite {
			favorites = append(favorites, l)
		}
	}
	return favorites, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id int64) (*entity.Listing, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil {
			return cached, nil
		} else if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("Listing cache read failed for id %d: %v", id, err)
		}
	}

	listing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, *listing); err != nil {
			s.log.Warnf("Listing cache write failed for id %d: %v", id, err)
		}
	}
	return listing, nil
}

func (s *CatalogService) Insert(ctx context.Context, listing entity.Listing) error {
	if err := s.store.Insert(ctx, listing); err != nil {
		return err
	}
	s.log.Infof("Listing %d inserted", listing.ID)
	return nil
}

func (s *CatalogService) Update(ctx context.Context, listing entity.Listing) error {
	if err := s.store.Update(ctx, listing); err != nil {
		return err
	}
	s.evict(ctx, listing.ID)
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, listing entity.Listing) error {
	if err := s.store.Delete(ctx, listing); err != nil {
		return err
	}
	s.evict(ctx, listing.ID)
	return nil
}

// SeedIfEmpty populates the store with the built-in sample dataset when it
// holds nothing. Calling it again, or concurrently, is harmless: the seed
// rows carry fixed IDs, so a racing batch fails with ErrAlreadyExists and
// is treated as an already-done seeding.
func (s *CatalogService) SeedIfEmpty(ctx context.Context) error {
	count, err := s.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to check listing count for seeding: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := sampleListings()
	if err := s.store.InsertAll(ctx, seed); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			s.log.Info("Seed skipped: another caller already populated the store")
			return nil
		}
		return fmt.Errorf("failed to seed listings: %w", err)
	}
	s.log.Infof("Seeded store with %d sample listings", len(seed))
	return nil
}

func (s *CatalogService) evict(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.Warnf("Listing cache eviction failed for id %d: %v", id, err)
	}
}
