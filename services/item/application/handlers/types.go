package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	itemdomain "github.com/ghuser/itemstore/services/item/domain"
	"github.com/ghuser/itemstore/services/item/domain/models"
)

// ItemRequest is the request body for POST /items/ and PUT /items/{id}.
type ItemRequest struct {
	Name string `json:"name" validate:"required" example:"Widget"`
} // @name ItemRequest

// CreateItemResponse is returned on successful item creation.
type CreateItemResponse struct {
	Message string `json:"message" example:"Item created successfully"`
	ID      int64  `json:"id"      example:"1"`
} // @name CreateItemResponse

// ItemResponse is the projection of an item returned by the read endpoints.
type ItemResponse struct {
	ID   int64  `json:"id"   example:"1"`
	Item string `json:"item" example:"Widget"`
} // @name ItemResponse

// MessageResponse acknowledges an update or delete.
type MessageResponse struct {
	Message string `json:"message" example:"Item updated successfully"`
} // @name MessageResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error  string            `json:"error"            example:"Item not found"`
	Fields map[string]string `json:"fields,omitempty"`
} // @name ErrorResponse

// Acknowledgement messages.
const (
	msgCreated = "Item created successfully"
	msgUpdated = "Item updated successfully"
	msgDeleted = "Item deleted successfully"
)

func toItemResponse(item *models.Item) ItemResponse {
	return ItemResponse{ID: item.ID, Item: item.Name.String()}
}

// itemID reads the {id} path parameter. Anything but a positive integer
// is ErrInvalidItemID.
func itemID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", itemdomain.ErrInvalidItemID, raw)
	}
	return id, nil
}
