package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rentfage/property-service/internal/domain/entity"
	"github.com/rentfage/property-service/internal/repository"
)

const listingCacheKeyPrefix = "listing:"

// ListingCache is a read-through cache for single-listing lookups.
// Mutations must invalidate through Delete; the store itself is the source
// of truth.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{client: client, ttl: ttl}
}

func (c *ListingCache) key(id int64) string {
	return fmt.Sprintf("%s%d", listingCacheKeyPrefix, id)
}

func (c *ListingCache) Get(ctx context.Context, id int64) (*entity.Listing, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing %d from cache: %w", id, err)
	}

	var listing entity.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		// A corrupt entry only hurts if it stays; drop it and report a miss.
		_ = c.Delete(ctx, id)
		return nil, repository.ErrNotFound
	}
	return &listing, nil
}

func (c *ListingCache) Set(ctx context.Context, listing entity.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to marshal listing %d for cache: %w", listing.ID, err)
	}
	if err := c.client.Set(ctx, c.key(listing.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache listing %d: %w", listing.ID, err)
	}
	return nil
}

func (c *ListingCache) Delete(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to evict listing %d from cache: %w", id, err)
	}
	return nil
}
