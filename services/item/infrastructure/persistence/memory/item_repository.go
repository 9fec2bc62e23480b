// Package memory is an in-process ItemRepository used by tests of the layers
// above persistence.
package memory

import (
	"context"
	"sort"
	"sync"

	itemdomain "github.com/ghuser/itemstore/services/item/domain"
	"github.com/ghuser/itemstore/services/item/domain/models"
	"github.com/ghuser/itemstore/services/item/domain/repositories"
)

var _ repositories.ItemRepository = (*ItemRepository)(nil)

// ItemRepository stores items in a map and assigns ids from a counter,
// mirroring a BIGSERIAL column.
type ItemRepository struct {
	mu     sync.Mutex
	items  map[int64]string
	nextID int64

	// Err, when set, is returned by every call.
	Err error
}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: map[int64]string{}, nextID: 1}
}

func (r *ItemRepository) Save(_ context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if item.IsPersisted() {
		return itemdomain.ErrItemPersisted
	}
	item.ID = r.nextID
	r.nextID++
	r.items[item.ID] = item.Name.String()
	return nil
}

func (r *ItemRepository) List(context.Context) ([]*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	items := make([]*models.Item, 0, len(r.items))
	for id, name := range r.items {
		items = append(items, &models.Item{ID: id, Name: models.ItemName(name)})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *ItemRepository) GetByID(_ context.Context, id int64) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	name, ok := r.items[id]
	if !ok {
		return nil, itemdomain.ErrItemNotFound
	}
	return &models.Item{ID: id, Name: models.ItemName(name)}, nil
}

func (r *ItemRepository) UpdateName(_ context.Context, id int64, name models.ItemName) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.items[id]; !ok {
		return itemdomain.ErrItemNotFound
	}
	r.items[id] = name.String()
	return nil
}

func (r *ItemRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.items[id]; !ok {
		return itemdomain.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

// Len reports the number of stored items.
func (r *ItemRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
