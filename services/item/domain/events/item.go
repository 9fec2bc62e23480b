package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics published through the outbox when an Item changes.
const (
	TopicItemCreated = "item.created"
	TopicItemUpdated = "item.updated"
	TopicItemDeleted = "item.deleted"
)

// Topics lists every item topic, in the order the worker subscribes to them.
var Topics = []string{TopicItemCreated, TopicItemUpdated, TopicItemDeleted}

// SchemaVersion is the payload version carried by every item event.
// Increment on breaking changes.
const SchemaVersion = 1

// Envelope carries the fields shared by every item event.
type Envelope struct {
	EventID    uuid.UUID `json:"event_id"` // deduplication key
	Version    int       `json:"version"`
	ItemID     int64     `json:"item_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEnvelope stamps a fresh event id and the current UTC time.
func NewEnvelope(itemID int64) Envelope {
	return Envelope{
		EventID:    uuid.New(),
		Version:    SchemaVersion,
		ItemID:     itemID,
		OccurredAt: time.Now().UTC(),
	}
}

// ItemCreatedEvent is published after a new Item is inserted.
type ItemCreatedEvent struct {
	Envelope
	Name string `json:"name"`
}

// ItemUpdatedEvent is published after an Item is renamed.
type ItemUpdatedEvent struct {
	Envelope
	Name string `json:"name"`
}

// ItemDeletedEvent is published after an Item is removed.
type ItemDeletedEvent struct {
	Envelope
}
