package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentfage/property-service/internal/domain/entity"
	"github.com/rentfage/property-service/internal/platform/watch"
	"github.com/rentfage/property-service/internal/repository"
)

func receiveListings(t *testing.T, sub *watch.Subscription[[]entity.Listing]) []entity.Listing {
	t.Helper()
	select {
	case v, ok := <-sub.Updates():
		require.True(t, ok, "subscription channel closed unexpectedly")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for listings snapshot")
		panic("unreachable")
	}
}

func receiveUpdate(t *testing.T, sub *watch.Subscription[repository.ListingUpdate]) repository.ListingUpdate {
	t.Helper()
	select {
	case v, ok := <-sub.Updates():
		require.True(t, ok, "subscription channel closed unexpectedly")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for listing update")
		panic("unreachable")
	}
}

func TestListingStore_InsertAndGetByID(t *testing.T) {
	store := NewListingStore()
	ctx := context.Background()
	listing := entity.Listing{ID: 1, Address: "Av. Providencia 1208, Providencia", Price: "UF 28.500"}

	require.NoError(t, store.Insert(ctx, listing))

	got, err := store.GetByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, listing, *got)

	count, err := store.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestListingStore_GetByID_NotFound(t *testing.T) {
	store := NewListingStore()

	got, err := store.GetByID(context.Background(), 99)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListingStore_Insert_DuplicateID(t *testing.T) {
	store := NewListingStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, entity.Listing{ID: 1, Address: "first"}))

	err := store.Insert(ctx, entity.Listing{ID: 1, Address: "second"})

	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	got, _ := store.GetByID(ctx, 1)
	assert.Equal(t, "first", got.Address)
}

func TestListingStore_InsertAll_AtomicOnDuplicate(t *testing.T) {
	store := NewListingStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, entity.Listing{ID: 2}))

	err := store.InsertAll(ctx, []entity.Listing{{ID: 1}, {ID: 2}, {ID: 3}})

	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	count, _ := store.Count(ctx)
	assert.Equal(t, int64(1), count, "a failed batch must not apply partially")
}

func TestListingStore_All_SortedByAscendingID(t *testing.T) {
	store := NewListingStore()
	ctx := context.Background()
	require.NoError(t, store.InsertAll(ctx, []entity.Listing{{ID: 3}, {ID: 1}, {ID: 2}}))

	all, err := store.All(ctx)

	assert.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(2), all[1].ID)
	assert.Equal(t, int64(3), all[2].ID)
}

func TestListingStore_Update_NotFound(t *testing.T) {
	store := NewListingStore()

	err := store.Update(context.Background(), entity.Listing{ID: 8})

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListingStore_Delete_NotFound(t *testing.T) {
	store := NewListingStore()

	err := store.Delete(context.Background(), entity.Listing{ID: 8})

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListingStore_WatchAll_ReplaysCurrentSnapshot(t *testing.T) {
	store := NewListingStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, entity.Listing{ID: 1}))

	sub := store.WatchAll()
	defer sub.Cancel()

	snapshot := receiveListings(t, sub)
	require.Len(t, snapshot, 1)
	assert.Equal(t, int64(1), snapshot[0].ID)
}

func TestListingStore_WatchAll_WriteVisibleWithoutWaiting(t *testing.T) {
	store := NewListingStore()
	ctx := context.Background()

	sub := store.WatchAll()
	defer sub.Cancel()
	receiveListings(t, sub) // drain the initial empty snapshot

	require.NoError(t, store.Insert(ctx, entity.Listing{ID: 1}))

	// The snapshot carrying the write is already buffered once Insert
	// returns; no further store activity is needed to observe it.
	select {
	case snapshot := <-sub.Updates():
		require.Len(t, snapshot, 1)
	default:
		t.Fatal("committed write was not visible to an existing observer")
	}
}

func TestListingStore_WatchFavorites_FiltersAndTracksToggles(t *testing.T) {
	store := NewListingStore()
	ctx := context.Background()
	require.NoError(t, store.InsertAll(ctx, []entity.Listing{
		{ID: 1, IsFavorite: true},
		{ID: 2},
	}))

	sub := store.WatchFavorites()
	defer sub.Cancel()

	favorites := receiveListings(t, sub)
	require.Len(t, favorites, 1)
	assert.Equal(t, int64(1), favorites[0].ID)

	require.NoError(t, store.Update(ctx, entity.Listing{ID: 1, IsFavorite: false}))
	assert.Empty(t, receiveListings(t, sub))

	require.NoError(t, store.Update(ctx, entity.Listing{ID: 2, IsFavorite: true}))
	favorites = receiveListings(t, sub)
	require.Len(t, favorites, 1)
	assert.Equal(t, int64(2), favorites[0].ID)
}

func TestListingStore_WatchByID_ExistingRow(t *testing.T) {
	store := NewListingStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, entity.Listing{ID: 4, Address: "old"}))

	sub := store.WatchByID(4)
	defer sub.Cancel()

	update := receiveUpdate(t, sub)
	assert.True(t, update.Found)
	assert.Equal(t, "old", update.Listing.Address)

	require.NoError(t, store.Update(ctx, entity.Listing{ID: 4, Address: "new"}))
	update = receiveUpdate(t, sub)
	assert.True(t, update.Found)
	assert.Equal(t, "new", update.Listing.Address)
}

func TestListingStore_WatchByID_MissingThenInserted(t *testing.T) {
	store := NewListingStore()
	ctx := context.Background()

	sub := store.WatchByID(9)
	defer sub.Cancel()

	update := receiveUpdate(t, sub)
	assert.False(t, update.Found)

	require.NoError(t, store.Insert(ctx, entity.Listing{ID: 9, Address: "late arrival"}))
	update = receiveUpdate(t, sub)
	assert.True(t, update.Found)
	assert.Equal(t, "late arrival", update.Listing.Address)
}

func TestListingStore_WatchByID_DeleteReportsAbsence(t *testing.T) {
	store := NewListingStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, entity.Listing{ID: 4}))

	sub := store.WatchByID(4)
	defer sub.Cancel()
	receiveUpdate(t, sub)

	require.NoError(t, store.Delete(ctx, entity.Listing{ID: 4}))

	update := receiveUpdate(t, sub)
	assert.False(t, update.Found)
}
