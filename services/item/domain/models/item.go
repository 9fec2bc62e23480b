package models

// Item is the only aggregate of this bounded context. ID is assigned by the
// database on insert and never changes; Name is the only mutable field.
type Item struct {
	ID   int64
	Name ItemName
}

// NewItem builds an Item that has not been persisted yet (ID is zero).
func NewItem(name ItemName) *Item {
	return &Item{Name: name}
}

// IsPersisted reports whether the database has assigned an ID.
func (i *Item) IsPersisted() bool {
	return i.ID > 0
}
