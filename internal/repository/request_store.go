package repository

import (
	"context"

	"github.com/rentfage/property-service/internal/domain/entity"
	"github.com/rentfage/property-service/internal/platform/watch"
)

// RequestStore owns the canonical, append-only request collection. Writers
// are serialized by the store so request IDs stay unique and monotonically
// increasing across the whole collection.
type RequestStore interface {
	// Append assigns the next ID (max existing + 1, or 1 when empty) and
	// stores the request. The stored value is returned.
	Append(ctx context.Context, req entity.Request) (entity.Request, error)
	GetByID(ctx context.Context, id int64) (*entity.Request, error)

	// ListByUser returns the user's requests in creation order.
	ListByUser(ctx context.Context, userID string) ([]entity.Request, error)
	ListAll(ctx context.Context) ([]entity.Request, error)

	// UpdateStatus applies a lifecycle transition and returns the updated
	// request. ErrNotFound when the ID is unknown; a transition error when
	// the move is not legal.
	UpdateStatus(ctx context.Context, id int64, status entity.RequestStatus) (*entity.Request, error)

	// Watch emits the full collection after every committed change; it
	// backs the admin projection.
	Watch() *watch.Subscription[[]entity.Request]
}
