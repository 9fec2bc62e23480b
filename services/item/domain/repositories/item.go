package repositories

import (
	"context"

	"github.com/ghuser/itemstore/services/item/domain/models"
)

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
// Every method that addresses a single id returns domain.ErrItemNotFound
// when no such row exists.
type ItemRepository interface {
	// Save inserts a new item and sets its database-assigned ID. An item that
	// already has an ID is rejected with domain.ErrItemPersisted.
	Save(ctx context.Context, item *models.Item) error

	// List returns every item. Order is not part of the contract.
	List(ctx context.Context) ([]*models.Item, error)

	GetByID(ctx context.Context, id int64) (*models.Item, error)

	// UpdateName overwrites the name of an existing item.
	UpdateName(ctx context.Context, id int64, name models.ItemName) error

	Delete(ctx context.Context, id int64) error
}
