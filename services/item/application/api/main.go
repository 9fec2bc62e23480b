package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemstore/pkg/app"
	"github.com/ghuser/itemstore/services/item/application/handlers"
	appsvcs "github.com/ghuser/itemstore/services/item/application/services"
)

// ItemRoutes wires the item services from a and registers their endpoints on r.
func ItemRoutes(r chi.Router, a *app.Application) {
	RegisterItemHandlers(r, appsvcs.New(a))
}

// RegisterItemHandlers mounts the /items endpoints backed by svcs.
func RegisterItemHandlers(r chi.Router, svcs *appsvcs.Services) {
	r.Route("/items", func(r chi.Router) {
		r.Post("/", handlers.NewPostItemHandler(svcs).Execute)
		r.Get("/", handlers.NewListItemsHandler(svcs).Execute)
		r.Get("/{id}", handlers.NewGetItemHandler(svcs).Execute)
		r.Put("/{id}", handlers.NewPutItemHandler(svcs).Execute)
		r.Delete("/{id}", handlers.NewDeleteItemHandler(svcs).Execute)
	})
}
