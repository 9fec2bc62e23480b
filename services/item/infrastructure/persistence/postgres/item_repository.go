package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ghuser/itemstore/pkg/database"
	"github.com/ghuser/itemstore/pkg/events"
	itemdomain "github.com/ghuser/itemstore/services/item/domain"
	domainevents "github.com/ghuser/itemstore/services/item/domain/events"
	"github.com/ghuser/itemstore/services/item/domain/models"
	"github.com/ghuser/itemstore/services/item/domain/repositories"
	"github.com/ghuser/itemstore/services/item/infrastructure/persistence/postgres/db"
)

var _ repositories.ItemRepository = (*ItemRepository)(nil)

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
// Reads borrow one pooled connection per call; writes run in a transaction
// that also carries the outbox event for the change.
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewItemRepository returns a repository over database. A nil bus disables
// event publishing.
func NewItemRepository(database *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: database, bus: bus}
}

// Save inserts item, sets its ID and publishes item.created in the same transaction.
func (r *ItemRepository) Save(ctx context.Context, item *models.Item) error {
	if item.IsPersisted() {
		return fmt.Errorf("save item %d: %w", item.ID, itemdomain.ErrItemPersisted)
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row, err := db.New(tx).InsertItem(ctx, item.Name.String())
		if err != nil {
			return classify("insert item", err)
		}
		item.ID = row.ID

		return r.publish(ctx, tx, domainevents.TopicItemCreated, domainevents.ItemCreatedEvent{
			Envelope: domainevents.NewEnvelope(row.ID),
			Name:     row.Name,
		})
	})
}

// List returns all items ordered by id.
func (r *ItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	var items []*models.Item
	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		rows, err := db.New(conn).ListItems(ctx)
		if err != nil {
			return classify("list items", err)
		}
		items = make([]*models.Item, len(rows))
		for i, row := range rows {
			items[i] = rowToItem(row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID returns ErrItemNotFound if no row has id.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	var item *models.Item
	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		row, err := db.New(conn).GetItemByID(ctx, id)
		if err != nil {
			return classify("get item", err)
		}
		item = rowToItem(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateName renames item id and publishes item.updated. A missing row is
// reported from the affected-row count and nothing is inserted.
func (r *ItemRepository) UpdateName(ctx context.Context, id int64, name models.ItemName) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		n, err := db.New(tx).UpdateItemName(ctx, db.UpdateItemNameParams{ID: id, Name: name.String()})
		if err != nil {
			return classify("update item", err)
		}
		if n == 0 {
			return itemdomain.ErrItemNotFound
		}

		return r.publish(ctx, tx, domainevents.TopicItemUpdated, domainevents.ItemUpdatedEvent{
			Envelope: domainevents.NewEnvelope(id),
			Name:     name.String(),
		})
	})
}

// Delete removes item id and publishes item.deleted.
func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		n, err := db.New(tx).DeleteItem(ctx, id)
		if err != nil {
			return classify("delete item", err)
		}
		if n == 0 {
			return itemdomain.ErrItemNotFound
		}

		return r.publish(ctx, tx, domainevents.TopicItemDeleted, domainevents.ItemDeletedEvent{
			Envelope: domainevents.NewEnvelope(id),
		})
	})
}

func (r *ItemRepository) publish(ctx context.Context, tx *sql.Tx, topic string, event any) error {
	if r.bus == nil {
		return nil
	}
	env := envelopeOf(event)
	msg, err := events.NewJSONMessage(env.EventID.String(), env.Version, event)
	if err != nil {
		return fmt.Errorf("build %s message: %w", topic, err)
	}
	if err := r.bus.PublishTx(ctx, tx, topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func envelopeOf(event any) domainevents.Envelope {
	switch e := event.(type) {
	case domainevents.ItemCreatedEvent:
		return e.Envelope
	case domainevents.ItemUpdatedEvent:
		return e.Envelope
	case domainevents.ItemDeletedEvent:
		return e.Envelope
	default:
		return domainevents.Envelope{}
	}
}

// classify maps a missing row to ErrItemNotFound and wraps the rest with op.
// Names are validated before they reach the driver, so constraint violations
// surface as storage failures.
func classify(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return itemdomain.ErrItemNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func rowToItem(row db.ItemItem) *models.Item {
	return &models.Item{
		ID:   row.ID,
		Name: models.ItemName(row.Name),
	}
}
