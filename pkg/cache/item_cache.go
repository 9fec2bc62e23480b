package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultItemTTL applies when NewItemCache is given a non-positive ttl.
const DefaultItemTTL = 24 * time.Hour

// DefaultFillTTL bounds entries written by Fill. A read that loaded a row just
// before a concurrent delete can re-cache it after the eviction; the entry then
// outlives the row by at most this long.
const DefaultFillTTL = time.Minute

const itemCacheKeyPrefix = "item"

// CachedItem is the read model stored as a Redis hash.
type CachedItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ItemCache reads and writes item entries keyed "item:{id}".
type ItemCache struct {
	client  *RedisClient
	ttl     time.Duration
	fillTTL time.Duration
}

func NewItemCache(r *RedisClient, ttl time.Duration) *ItemCache {
	if ttl <= 0 {
		ttl = DefaultItemTTL
	}
	return (&ItemCache{client: r, ttl: ttl}).WithFillTTL(DefaultFillTTL)
}

// WithFillTTL sets the TTL used by Fill, capped at the cache TTL.
// Non-positive values select DefaultFillTTL.
func (c *ItemCache) WithFillTTL(d time.Duration) *ItemCache {
	if d <= 0 {
		d = DefaultFillTTL
	}
	c.fillTTL = min(d, c.ttl)
	return c
}

// Get returns redis.Nil when the key is absent or expired.
func (c *ItemCache) Get(ctx context.Context, id int64) (*CachedItem, error) {
	vals, err := c.client.Client().HGetAll(ctx, ItemKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	return decodeItem(vals)
}

// Set writes all fields and refreshes the TTL in one pipeline. Use it for
// values that come from a committed change event.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) error {
	if err := c.write(ctx, item, c.ttl); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Fill is Set with the short fill TTL, for read-through writes after a miss.
func (c *ItemCache) Fill(ctx context.Context, item *CachedItem) error {
	if err := c.write(ctx, item, c.fillTTL); err != nil {
		return fmt.Errorf("cache fill: %w", err)
	}
	return nil
}

func (c *ItemCache) write(ctx context.Context, item *CachedItem, ttl time.Duration) error {
	key := ItemKey(item.ID)
	pipe := c.client.Client().TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, encodeItem(item)...)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Delete removes the entry. Deleting a missing key is not an error.
func (c *ItemCache) Delete(ctx context.Context, id int64) error {
	if err := c.client.Client().Del(ctx, ItemKey(id)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// IsMiss reports whether err means the item was not cached.
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}

// ItemKey builds "item:{id}".
func ItemKey(id int64) string {
	return itemCacheKeyPrefix + ":" + strconv.FormatInt(id, 10)
}

func encodeItem(item *CachedItem) []any {
	return []any{
		"id", strconv.FormatInt(item.ID, 10),
		"name", item.Name,
	}
}

func decodeItem(vals map[string]string) (*CachedItem, error) {
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	id, err := strconv.ParseInt(vals["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	name, ok := vals["name"]
	if !ok {
		return nil, fmt.Errorf("cache entry %d has no name field", id)
	}
	return &CachedItem{ID: id, Name: name}, nil
}
