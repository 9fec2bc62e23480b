package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ghuser/itemstore/pkg/config"
)

func newTestConfig(url string) *config.Config {
	return &config.Config{RedisURL: url, RedisPoolSize: 4}
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("not-a-valid-url"))
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("redis://localhost:19999"))
	if err == nil {
		t.Fatal("expected error when Redis is unreachable, got nil")
	}
}

func TestClientOptions(t *testing.T) {
	opts, err := clientOptions(&config.Config{RedisURL: "redis://localhost:6379/3", RedisPoolSize: 7})
	if err != nil {
		t.Fatalf("clientOptions: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 3 {
		t.Errorf("unexpected addr/db: %s/%d", opts.Addr, opts.DB)
	}
	if opts.PoolSize != 7 || opts.MinIdleConns != 2 {
		t.Errorf("unexpected pool sizing: %d/%d", opts.PoolSize, opts.MinIdleConns)
	}
	if opts.PoolTimeout != 4*time.Second {
		t.Errorf("unexpected pool timeout %v", opts.PoolTimeout)
	}

	opts, err = clientOptions(&config.Config{RedisURL: "redis://localhost:6379", RedisPoolSize: 1})
	if err != nil {
		t.Fatal(err)
	}
	if opts.MinIdleConns != 1 {
		t.Errorf("min idle must not exceed pool size, got %d", opts.MinIdleConns)
	}
}

func TestItemKey(t *testing.T) {
	if got := ItemKey(42); got != "item:42" {
		t.Errorf("ItemKey(42) = %q", got)
	}
}

func TestEncodeDecodeItem(t *testing.T) {
	in := &CachedItem{ID: 7, Name: "Widget"}
	args := encodeItem(in)
	vals := map[string]string{}
	for i := 0; i < len(args); i += 2 {
		vals[args[i].(string)] = args[i+1].(string)
	}

	out, err := decodeItem(vals)
	if err != nil {
		t.Fatalf("decodeItem: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeItem_Errors(t *testing.T) {
	tests := []struct {
		name     string
		vals     map[string]string
		wantMiss bool
	}{
		{"empty hash is a miss", map[string]string{}, true},
		{"bad id", map[string]string{"id": "x", "name": "a"}, false},
		{"missing name", map[string]string{"id": "1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeItem(tt.vals)
			if err == nil {
				t.Fatal("expected error")
			}
			if IsMiss(err) != tt.wantMiss {
				t.Errorf("IsMiss(%v) = %v, want %v", err, IsMiss(err), tt.wantMiss)
			}
		})
	}
}

func TestNewItemCache_DefaultTTL(t *testing.T) {
	if c := NewItemCache(nil, 0); c.ttl != DefaultItemTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultItemTTL)
	}
	if c := NewItemCache(nil, time.Minute); c.ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", c.ttl)
	}
}

func TestItemCache_FillTTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		fill time.Duration
		want time.Duration
	}{
		{"default", DefaultItemTTL, 0, DefaultFillTTL},
		{"explicit", DefaultItemTTL, 10 * time.Second, 10 * time.Second},
		{"capped at cache ttl", 30 * time.Second, time.Hour, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewItemCache(nil, tt.ttl).WithFillTTL(tt.fill)
			if c.fillTTL != tt.want {
				t.Errorf("fillTTL = %v, want %v", c.fillTTL, tt.want)
			}
		})
	}
}

// Integration tests, skipped unless REDIS_URL is set.
func TestRedisIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	rc, err := NewRedisClient(newTestConfig(redisURL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close() //nolint:errcheck

	ctx := context.Background()

	t.Run("Ping", func(t *testing.T) {
		if err := rc.Ping(ctx); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("ItemCache lifecycle", func(t *testing.T) {
		c := NewItemCache(rc, time.Minute)
		id := time.Now().UnixNano()
		defer c.Delete(ctx, id) //nolint:errcheck

		if _, err := c.Get(ctx, id); !IsMiss(err) {
			t.Fatalf("expected miss before Set, got %v", err)
		}

		want := &CachedItem{ID: id, Name: fmt.Sprintf("item-%d", id)}
		if err := c.Set(ctx, want); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := c.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("cached item mismatch (-want +got):\n%s", diff)
		}

		ttl, err := rc.Client().TTL(ctx, ItemKey(id)).Result()
		if err != nil || ttl <= 0 || ttl > time.Minute {
			t.Errorf("unexpected TTL %v (err %v)", ttl, err)
		}

		if err := c.Fill(ctx, want); err != nil {
			t.Fatalf("Fill: %v", err)
		}
		ttl, err = rc.Client().TTL(ctx, ItemKey(id)).Result()
		if err != nil || ttl <= 0 || ttl > DefaultFillTTL {
			t.Errorf("Fill TTL %v exceeds %v (err %v)", ttl, DefaultFillTTL, err)
		}

		if err := c.Delete(ctx, id); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := c.Get(ctx, id); !IsMiss(err) {
			t.Fatalf("expected miss after Delete, got %v", err)
		}
	})
}
