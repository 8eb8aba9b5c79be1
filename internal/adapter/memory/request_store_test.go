package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentfage/property-service/internal/domain/entity"
	"github.com/rentfage/property-service/internal/repository"
)

func newPendingRequest(t *testing.T, userID string, listingID int64) entity.Request {
	t.Helper()
	req, err := entity.NewRequest(userID, entity.Listing{ID: listingID})
	require.NoError(t, err)
	return *req
}

func TestRequestStore_Append_AssignsSequentialIDs(t *testing.T) {
	store := NewRequestStore()
	ctx := context.Background()

	first, err := store.Append(ctx, newPendingRequest(t, "u1", 1))
	require.NoError(t, err)
	second, err := store.Append(ctx, newPendingRequest(t, "u2", 2))
	require.NoError(t, err)
	third, err := store.Append(ctx, newPendingRequest(t, "u1", 3))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, int64(3), third.ID)
}

func TestRequestStore_ListByUser_FiltersInSubmissionOrder(t *testing.T) {
	store := NewRequestStore()
	ctx := context.Background()
	_, err := store.Append(ctx, newPendingRequest(t, "alice", 1))
	require.NoError(t, err)
	_, err = store.Append(ctx, newPendingRequest(t, "bob", 2))
	require.NoError(t, err)
	_, err = store.Append(ctx, newPendingRequest(t, "alice", 3))
	require.NoError(t, err)

	mine, err := store.ListByUser(ctx, "alice")

	assert.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, int64(1), mine[0].ID)
	assert.Equal(t, int64(3), mine[1].ID)

	none, err := store.ListByUser(ctx, "carol")
	assert.NoError(t, err)
	assert.Empty(t, none)
}

func TestRequestStore_ListAll_EverySubmission(t *testing.T) {
	store := NewRequestStore()
	ctx := context.Background()
	_, err := store.Append(ctx, newPendingRequest(t, "alice", 1))
	require.NoError(t, err)
	_, err = store.Append(ctx, newPendingRequest(t, "bob", 2))
	require.NoError(t, err)

	all, err := store.ListAll(ctx)

	assert.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRequestStore_UpdateStatus_Approve(t *testing.T) {
	store := NewRequestStore()
	ctx := context.Background()
	submitted, err := store.Append(ctx, newPendingRequest(t, "u1", 1))
	require.NoError(t, err)

	decided, err := store.UpdateStatus(ctx, submitted.ID, entity.RequestStatusApproved)

	assert.NoError(t, err)
	assert.Equal(t, entity.RequestStatusApproved, decided.Status)

	stored, err := store.GetByID(ctx, submitted.ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.RequestStatusApproved, stored.Status)
}

func TestRequestStore_UpdateStatus_DecisionIsFinal(t *testing.T) {
	store := NewRequestStore()
	ctx := context.Background()
	submitted, err := store.Append(ctx, newPendingRequest(t, "u1", 1))
	require.NoError(t, err)
	_, err = store.UpdateStatus(ctx, submitted.ID, entity.RequestStatusRejected)
	require.NoError(t, err)

	decided, err := store.UpdateStatus(ctx, submitted.ID, entity.RequestStatusApproved)

	assert.Error(t, err)
	assert.Nil(t, decided)

	stored, _ := store.GetByID(ctx, submitted.ID)
	assert.Equal(t, entity.RequestStatusRejected, stored.Status)
}

func TestRequestStore_UpdateStatus_NotFound(t *testing.T) {
	store := NewRequestStore()

	decided, err := store.UpdateStatus(context.Background(), 42, entity.RequestStatusApproved)

	assert.Nil(t, decided)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRequestStore_Watch_SeesAppendsAndDecisions(t *testing.T) {
	store := NewRequestStore()
	ctx := context.Background()

	sub := store.Watch()
	defer sub.Cancel()

	drain := func() []entity.Request {
		select {
		case v := <-sub.Updates():
			return v
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for request snapshot")
			panic("unreachable")
		}
	}
	assert.Empty(t, drain())

	submitted, err := store.Append(ctx, newPendingRequest(t, "u1", 1))
	require.NoError(t, err)
	snapshot := drain()
	require.Len(t, snapshot, 1)
	assert.Equal(t, entity.RequestStatusPending, snapshot[0].Status)

	_, err = store.UpdateStatus(ctx, submitted.ID, entity.RequestStatusApproved)
	require.NoError(t, err)
	snapshot = drain()
	require.Len(t, snapshot, 1)
	assert.Equal(t, entity.RequestStatusApproved, snapshot[0].Status)
}
