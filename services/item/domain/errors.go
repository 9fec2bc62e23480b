package domain

import "errors"

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidItemName indicates the item name violates domain constraints.
	ErrInvalidItemName = errors.New("invalid item name")

	// ErrItemPersisted indicates Save was handed an item that already has an ID.
	ErrItemPersisted = errors.New("item already persisted")

	// ErrInvalidItemID indicates an item id that can never exist (not a positive integer).
	ErrInvalidItemID = errors.New("invalid item id")
)
