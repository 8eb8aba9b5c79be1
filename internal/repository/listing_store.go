package repository

import (
	"context"

	"github.com/rentfage/property-service/internal/domain/entity"
	"github.com/rentfage/property-service/internal/platform/watch"
)

// ListingUpdate is a point-in-time view of a single listing row. Found is
// false when the row does not exist (yet, or anymore).
type ListingUpdate struct {
	Listing entity.Listing
	Found   bool
}

// ListingStore is the durable table of listings. Reads come in two shapes:
// synchronous snapshots and Watch subscriptions that re-emit a complete,
// consistent snapshot after every committed write. The snapshot for a
// committed write is broadcast before the write call returns to its caller.
//
// Snapshot order is ascending ID, which equals insertion order here.
type ListingStore interface {
	All(ctx context.Context) ([]entity.Listing, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Listing, error)

	// Insert fails with ErrAlreadyExists when the ID is taken. InsertAll
	// applies the batch so observers see either none or all of it.
	Insert(ctx context.Context, listing entity.Listing) error
	InsertAll(ctx context.Context, listings []entity.Listing) error
	Update(ctx context.Context, listing entity.Listing) error
	Delete(ctx context.Context, listing entity.Listing) error

	WatchAll() *watch.Subscription[[]entity.Listing]
	WatchFavorites() *watch.Subscription[[]entity.Listing]
	WatchByID(id int64) *watch.Subscription[ListingUpdate]
}
