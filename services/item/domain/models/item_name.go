package models

import "errors"

// ItemName is a value object for an item's name. The only rule is that a
// name must be present.
type ItemName string

var errNameRequired = errors.New("item name is required")

// NewItemName returns s as an ItemName, or an error if s is empty.
func NewItemName(s string) (ItemName, error) {
	if s == "" {
		return "", errNameRequired
	}
	return ItemName(s), nil
}

// String returns the underlying string value.
func (n ItemName) String() string {
	return string(n)
}
