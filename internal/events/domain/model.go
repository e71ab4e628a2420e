// Package domain contains the meal event outbox record.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Event types emitted by the propagation engine.
const (
	TypeMealUpdated    = "meal.updated"
	TypeMealPropagated = "meal.propagated"
)

// MealEvent is an outbox row. Events are written in the same pass that
// produced them and drained by an external publisher; the dedupe key keeps a
// retried pass from enqueueing the same event twice.
type MealEvent struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	SellerID  snowflake.ID      `gorm:"not null;uniqueIndex:uq_meal_events_dedupe" json:"seller_id"`
	EventType string            `gorm:"type:text;not null" json:"event_type"`
	Payload   datatypes.JSONMap `gorm:"type:jsonb" json:"payload"`
	DedupeKey string            `gorm:"type:text;uniqueIndex:uq_meal_events_dedupe" json:"dedupe_key"`
	Published bool              `gorm:"not null;default:false" json:"published"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (MealEvent) TableName() string { return "meal_events" }

// Outbox enqueues meal events for asynchronous delivery.
type Outbox interface {
	// Publish enqueues an event. A duplicate dedupe key is silently dropped.
	Publish(ctx context.Context, sellerID snowflake.ID, eventType, dedupeKey string, payload map[string]any) error

	// Pending returns unpublished events in insertion order.
	Pending(ctx context.Context, limit int) ([]MealEvent, error)

	// MarkPublished flags drained events.
	MarkPublished(ctx context.Context, ids []snowflake.ID) error
}
