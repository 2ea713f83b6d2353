package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	Created      = "created"
	Updated      = "updated"
	Deleted      = "deleted"
	ProductAdded = "product_added"
)

// Event is published after a change has been committed.
type Event struct {
	ID         string    `json:"event_id"`
	Type       string    `json:"type"`
	Entity     string    `json:"entity"`
	EntityID   uint      `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func New(entity, action string, id uint) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       entity + "_" + action,
		Entity:     entity,
		EntityID:   id,
		OccurredAt: time.Now().UTC(),
	}
}

// Key keeps all events of one row on the same partition.
func (e Event) Key() string {
	return fmt.Sprintf("%s:%d", e.Entity, e.EntityID)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event; used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
