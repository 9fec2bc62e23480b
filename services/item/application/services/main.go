package services

import (
	"github.com/ghuser/itemstore/pkg/app"
	"github.com/ghuser/itemstore/services/item/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Item *ItemService
}

// New wires the item services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewItemRepository(a.Db, a.EventBus)

	var itemCache ItemCache
	if a.Redis != nil {
		itemCache = a.ItemCache()
	}
	return &Services{
		Item: NewItemService(repo, itemCache, a.Logger),
	}
}
