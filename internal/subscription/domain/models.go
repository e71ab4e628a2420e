// Package domain contains the subscription record and its materialized
// per-day meal snapshot.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/meal"
	"gorm.io/datatypes"
)

// Subscription statuses. Only active subscriptions receive propagated meals.
const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// Subscription ties a customer to one of a seller's offerings. TodayMeal is a
// denormalized copy of the canonical configuration, replaced wholesale on
// every propagation pass so reads never join back to the configuration table.
type Subscription struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	SellerID     snowflake.ID `gorm:"not null;index:idx_subscriptions_seller_status" json:"seller_id"`
	OfferingID   snowflake.ID `gorm:"not null;index:idx_subscriptions_offering" json:"offering_id"`
	CustomerID   snowflake.ID `gorm:"not null" json:"customer_id"`
	CustomerName string       `gorm:"type:text;not null;default:''" json:"customer_name"`
	Status       string       `gorm:"type:text;not null;default:'active';index:idx_subscriptions_seller_status" json:"status"`

	// Shift is the window the subscriber currently receives meals in; "both"
	// spans the two windows. StartShift records the window chosen at signup
	// and never changes afterwards.
	Shift      meal.Shift `gorm:"type:text;not null;default:'morning'" json:"shift"`
	StartShift meal.Shift `gorm:"type:text;not null;default:'morning'" json:"start_shift"`

	TodayMeal datatypes.JSONType[meal.Snapshot] `gorm:"type:jsonb" json:"today_meal"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// IsActive reports whether the subscription receives propagated meals.
func (s Subscription) IsActive() bool { return s.Status == StatusActive }

// EffectiveShift resolves the single window used to pick a snapshot's meal
// type. Dual-shift subscribers fall back to the window they signed up with.
func (s Subscription) EffectiveShift() meal.Shift {
	if s.Shift == meal.ShiftBoth {
		if s.StartShift == meal.ShiftEvening {
			return meal.ShiftEvening
		}
		return meal.ShiftMorning
	}
	return s.Shift
}
