package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	pkgcache "github.com/ghuser/itemstore/pkg/cache"
	"github.com/ghuser/itemstore/pkg/logger"
	itemdomain "github.com/ghuser/itemstore/services/item/domain"
	"github.com/ghuser/itemstore/services/item/domain/models"
	"github.com/ghuser/itemstore/services/item/domain/repositories"
)

// ItemCache is the read cache consulted by GetByID. *cache.ItemCache implements it.
type ItemCache interface {
	Get(ctx context.Context, id int64) (*pkgcache.CachedItem, error)
	Fill(ctx context.Context, item *pkgcache.CachedItem) error
	Delete(ctx context.Context, id int64) error
}

// ItemService orchestrates the item use cases. Events are published by the
// repository inside the write transaction; the cache is kept here.
type ItemService struct {
	repo  repositories.ItemRepository
	cache ItemCache
	log   logger.Logger
	inst  instruments
}

// NewItemService wires repo and an optional cache (nil disables caching).
func NewItemService(repo repositories.ItemRepository, itemCache ItemCache, log logger.Logger) *ItemService {
	return &ItemService{
		repo:  repo,
		cache: itemCache,
		log:   log,
		inst:  newInstruments(),
	}
}

// Create validates name and persists a new item.
func (s *ItemService) Create(ctx context.Context, name string) (_ *models.Item, err error) {
	ctx, done := s.inst.start(ctx, "Create")
	defer done(&err)

	itemName, err := models.NewItemName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItemName, err)
	}

	item := models.NewItem(itemName)
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	return item, nil
}

// List returns every item. An empty store yields an empty, non-nil slice.
func (s *ItemService) List(ctx context.Context) (_ []*models.Item, err error) {
	ctx, done := s.inst.start(ctx, "List")
	defer done(&err)

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if items == nil {
		items = []*models.Item{}
	}
	return items, nil
}

// GetByID is read-through cached. Cache failures are logged and fall back
// to the repository; they never fail the call.
func (s *ItemService) GetByID(ctx context.Context, id int64) (_ *models.Item, err error) {
	ctx, done := s.inst.start(ctx, "GetByID", attribute.Int64("item.id", id))
	defer done(&err)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			return &models.Item{ID: cached.ID, Name: models.ItemName(cached.Name)}, nil
		case !pkgcache.IsMiss(err):
			s.log.WarnContext(ctx, "item cache read failed", "item_id", id, "error", err)
		}
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}

	if s.cache != nil {
		if err := s.cache.Fill(ctx, toCached(item)); err != nil {
			s.log.WarnContext(ctx, "item cache write failed", "item_id", id, "error", err)
		}
	}
	return item, nil
}

// UpdateName renames an existing item and evicts its cache entry.
// Returns ErrItemNotFound without creating anything when id is absent.
func (s *ItemService) UpdateName(ctx context.Context, id int64, name string) (err error) {
	ctx, done := s.inst.start(ctx, "UpdateName", attribute.Int64("item.id", id))
	defer done(&err)

	itemName, err := models.NewItemName(name)
	if err != nil {
		return fmt.Errorf("%w: %w", itemdomain.ErrInvalidItemName, err)
	}
	if err := s.repo.UpdateName(ctx, id, itemName); err != nil {
		return fmt.Errorf("update item %d: %w", id, err)
	}
	s.evict(ctx, id)
	return nil
}

// Delete removes an item and evicts its cache entry.
func (s *ItemService) Delete(ctx context.Context, id int64) (err error) {
	ctx, done := s.inst.start(ctx, "Delete", attribute.Int64("item.id", id))
	defer done(&err)

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	s.evict(ctx, id)
	return nil
}

func (s *ItemService) evict(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.WarnContext(ctx, "item cache evict failed", "item_id", id, "error", err)
	}
}

func toCached(item *models.Item) *pkgcache.CachedItem {
	return &pkgcache.CachedItem{ID: item.ID, Name: item.Name.String()}
}
