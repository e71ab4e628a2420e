// Package domain contains the canonical per-(seller, tier) meal
// configuration record.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/meal"
	"gorm.io/datatypes"
)

// Configuration states derived from the update counter.
const (
	StateSeeded = "seeded"
	StateEdited = "edited"
)

// MealConfiguration is the canonical meal definition for one (seller, tier)
// pair. LegacyMeal predates shift-keyed content and is still written by
// unscoped edits; MorningMeal/EveningMeal carry the newer shift-scoped
// variants. The two are deliberately distinct fields because different call
// sites target one or the other.
type MealConfiguration struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	SellerID snowflake.ID `gorm:"not null;uniqueIndex:uq_meal_configurations_seller_tier" json:"seller_id"`
	Tier     string       `gorm:"type:text;not null;uniqueIndex:uq_meal_configurations_seller_tier" json:"tier"`

	LegacyMeal  datatypes.JSONType[meal.Snapshot] `gorm:"type:jsonb" json:"legacy_meal"`
	MorningMeal datatypes.JSONType[meal.Snapshot] `gorm:"type:jsonb" json:"morning_meal"`
	EveningMeal datatypes.JSONType[meal.Snapshot] `gorm:"type:jsonb" json:"evening_meal"`

	Templates datatypes.JSONType[TierTemplates] `gorm:"type:jsonb" json:"templates"`

	TotalSubscriptions  int64      `gorm:"not null;default:0" json:"total_subscriptions"`
	ActiveSubscriptions int64      `gorm:"not null;default:0" json:"active_subscriptions"`
	LastMealUpdate      *time.Time `gorm:"" json:"last_meal_update,omitempty"`
	MealUpdateCount     int64      `gorm:"not null;default:0" json:"meal_update_count"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (MealConfiguration) TableName() string { return "meal_configurations" }

// State reports where the record sits in its lifecycle: seeded until the
// first explicit edit, edited from then on. Records are never deleted.
func (c MealConfiguration) State() string {
	if c.MealUpdateCount > 0 {
		return StateEdited
	}
	return StateSeeded
}

// ShiftMeal returns the snapshot stored for a concrete shift.
func (c MealConfiguration) ShiftMeal(shift meal.Shift) meal.Snapshot {
	if shift == meal.ShiftEvening {
		return c.EveningMeal.Data()
	}
	return c.MorningMeal.Data()
}
