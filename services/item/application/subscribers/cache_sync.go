// Package subscribers keeps the item read cache in step with the outbox
// events published by the repository.
package subscribers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	pkgcache "github.com/ghuser/itemstore/pkg/cache"
	"github.com/ghuser/itemstore/pkg/events"
	"github.com/ghuser/itemstore/pkg/logger"
	itemdomain "github.com/ghuser/itemstore/services/item/domain"
	domainevents "github.com/ghuser/itemstore/services/item/domain/events"
	"github.com/ghuser/itemstore/services/item/domain/models"
)

// ItemReader loads the current state of an item.
type ItemReader interface {
	GetByID(ctx context.Context, id int64) (*models.Item, error)
}

// CacheWriter refreshes and evicts cache entries.
type CacheWriter interface {
	Set(ctx context.Context, item *pkgcache.CachedItem) error
	Delete(ctx context.Context, id int64) error
}

// Subscriber is the subset of events.EventBus used by Register.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler events.Handler) (<-chan error, error)
}

// CacheSync handles item events. Every handler is idempotent, so redelivery
// after a retry is harmless.
type CacheSync struct {
	items ItemReader
	cache CacheWriter
	log   logger.Logger
}

func NewCacheSync(items ItemReader, cache CacheWriter, log logger.Logger) *CacheSync {
	return &CacheSync{items: items, cache: cache, log: log}
}

// Handlers maps each item topic to its handler.
func (s *CacheSync) Handlers() map[string]events.Handler {
	return map[string]events.Handler{
		domainevents.TopicItemCreated: s.Refresh,
		domainevents.TopicItemUpdated: s.Refresh,
		domainevents.TopicItemDeleted: s.Evict,
	}
}

// Refresh re-reads the item from the database instead of trusting the
// payload, so an out-of-order delivery cannot resurrect a stale name.
// An item that no longer exists is evicted.
func (s *CacheSync) Refresh(ctx context.Context, msg *message.Message) error {
	var env domainevents.Envelope
	if !s.decode(ctx, msg, &env) {
		return nil
	}

	item, err := s.items.GetByID(ctx, env.ItemID)
	if errors.Is(err, itemdomain.ErrItemNotFound) {
		return s.evict(ctx, env.ItemID)
	}
	if err != nil {
		return fmt.Errorf("load item %d: %w", env.ItemID, err)
	}

	if err := s.cache.Set(ctx, &pkgcache.CachedItem{ID: item.ID, Name: item.Name.String()}); err != nil {
		return fmt.Errorf("cache item %d: %w", item.ID, err)
	}
	s.log.DebugContext(ctx, "item cache refreshed", "item_id", item.ID, "event_id", env.EventID)
	return nil
}

// Evict drops the cache entry of a deleted item.
func (s *CacheSync) Evict(ctx context.Context, msg *message.Message) error {
	var env domainevents.Envelope
	if !s.decode(ctx, msg, &env) {
		return nil
	}
	return s.evict(ctx, env.ItemID)
}

func (s *CacheSync) evict(ctx context.Context, id int64) error {
	if err := s.cache.Delete(ctx, id); err != nil {
		return fmt.Errorf("evict item %d: %w", id, err)
	}
	s.log.DebugContext(ctx, "item cache evicted", "item_id", id)
	return nil
}

// decode reports false for payloads that can never be processed. Those are
// logged and acked, since retrying cannot fix them.
func (s *CacheSync) decode(ctx context.Context, msg *message.Message, env *domainevents.Envelope) bool {
	if err := json.Unmarshal(msg.Payload, env); err != nil {
		s.log.ErrorContext(ctx, "dropping undecodable item event", "message_uuid", msg.UUID, "error", err)
		return false
	}
	if env.ItemID <= 0 {
		s.log.ErrorContext(ctx, "dropping item event without item_id", "message_uuid", msg.UUID)
		return false
	}
	return true
}

// Register subscribes s to every item topic. Errors that exhaust the bus
// retries are logged until ctx ends.
func Register(ctx context.Context, bus Subscriber, s *CacheSync, log logger.Logger) error {
	handlers := s.Handlers()
	for _, topic := range domainevents.Topics {
		errCh, err := bus.Subscribe(ctx, topic, handlers[topic])
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
		go func(topic string, errCh <-chan error) {
			for err := range errCh {
				log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic, errCh)
	}
	log.Info("event subscribers registered", "topics", domainevents.Topics)
	return nil
}
