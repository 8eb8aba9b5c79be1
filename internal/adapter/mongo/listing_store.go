package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rentfage/property-service/internal/app/config"
	"github.com/rentfage/property-service/internal/domain/entity"
	"github.com/rentfage/property-service/internal/platform/logger"
	"github.com/rentfage/property-service/internal/platform/watch"
	"github.com/rentfage/property-service/internal/repository"
)

const listingCollectionName = "listings"

// ListingStore persists listings in a Mongo collection keyed by the numeric
// listing ID and re-broadcasts a full snapshot after every committed write,
// before the write returns to its caller.
type ListingStore struct {
	collection *mongo.Collection
	log        logger.Logger

	writeMu sync.Mutex
	allB    *watch.Broadcaster[[]entity.Listing]
	favB    *watch.Broadcaster[[]entity.Listing]
	byIDMu  sync.Mutex
	byID    map[int64]*watch.Broadcaster[repository.ListingUpdate]
}

func NewListingStore(ctx context.Context, client *mongo.Client, cfg config.MongoDBConfig, log logger.Logger) *ListingStore {
	s := &ListingStore{
		collection: client.Database(cfg.Database).Collection(listingCollectionName),
		log:        log,
		allB:       watch.NewBroadcaster[[]entity.Listing](),
		favB:       watch.NewBroadcaster[[]entity.Listing](),
		byID:       make(map[int64]*watch.Broadcaster[repository.ListingUpdate]),
	}
	// Prime the broadcasters so subscriptions replay the current table.
	s.notify(ctx)
	return s
}

func (s *ListingStore) All(ctx context.Context) ([]entity.Listing, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer cursor.Close(ctx)

	listings := []entity.Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return listings, nil
}

func (s *ListingStore) Count(ctx context.Context) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

func (s *ListingStore) GetByID(ctx context.Context, id int64) (*entity.Listing, error) {
	var listing entity.Listing
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing %d: %w", id, err)
	}
	return &listing, nil
}

func (s *ListingStore) Insert(ctx context.Context, listing entity.Listing) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.collection.InsertOne(ctx, listing); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("listing %d: %w", listing.ID, repository.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to insert listing %d: %w", listing.ID, err)
	}
	s.notify(ctx)
	return nil
}

func (s *ListingStore) InsertAll(ctx context.Context, listings []entity.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	docs := make([]interface{}, len(listings))
	for i, l := range listings {
		docs[i] = l
	}
	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("listing batch: %w", repository.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to insert %d listings: %w", len(listings), err)
	}
	// One broadcast for the whole batch: observers see all of it at once.
	s.notify(ctx)
	return nil
}

func (s *ListingStore) Update(ctx context.Context, listing entity.Listing) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": listing.ID}, listing)
	if err != nil {
		return fmt.Errorf("failed to update listing %d: %w", listing.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("listing %d: %w", listing.ID, repository.ErrNotFound)
	}
	s.notify(ctx)
	return nil
}

func (s *ListingStore) Delete(ctx context.Context, listing entity.Listing) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": listing.ID})
	if err != nil {
		return fmt.Errorf("failed to delete listing %d: %w", listing.ID, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("listing %d: %w", listing.ID, repository.ErrNotFound)
	}
	s.notify(ctx)
	return nil
}

func (s *ListingStore) WatchAll() *watch.Subscription[[]entity.Listing] {
	return s.allB.Subscribe()
}

func (s *ListingStore) WatchFavorites() *watch.Subscription[[]entity.Listing] {
	return s.favB.Subscribe()
}

func (s *ListingStore) WatchByID(id int64) *watch.Subscription[repository.ListingUpdate] {
	s.byIDMu.Lock()
	defer s.byIDMu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		b = watch.NewBroadcaster[repository.ListingUpdate]()
		s.byID[id] = b
		// Prime the new broadcaster with the current row state.
		listing, err := s.GetByID(context.Background(), id)
		switch {
		case err == nil:
			b.Publish(repository.ListingUpdate{Listing: *listing, Found: true})
		case errors.Is(err, repository.ErrNotFound):
			b.Publish(repository.ListingUpdate{Found: false})
		default:
			s.log.Warnf("Failed to prime watch for listing %d: %v", id, err)
		}
	}
	return b.Subscribe()
}

// notify re-reads the table and pushes fresh snapshots to every observer.
// Called with writeMu held by the committing write.
func (s *ListingStore) notify(ctx context.Context) {
	all, err := s.All(ctx)
	if err != nil {
		s.log.Errorf("Failed to refresh listing snapshot for observers: %v", err)
		return
	}
	favorites := make([]entity.Listing, 0, len(all))
	byID := make(map[int64]entity.Listing, len(all))
	for _, l := range all {
		byID[l.ID] = l
		if l.IsFavorite {
			favorites = append(favorites, l)
		}
	}

	s.allB.Publish(all)
	s.favB.Publish(favorites)

	s.byIDMu.Lock()
	defer s.byIDMu.Unlock()
	for id, b := range s.byID {
		l, found := byID[id]
		b.Publish(repository.ListingUpdate{Listing: l, Found: found})
	}
}
