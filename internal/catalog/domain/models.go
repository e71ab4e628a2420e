// Package domain contains the read-only offering catalog models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Offering is a seller's sellable meal plan at a tier. Offerings are owned by
// an external catalog surface; this service only reads them for targeting.
type Offering struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	SellerID    snowflake.ID `gorm:"not null;index:idx_offerings_seller_tier" json:"seller_id"`
	Tier        string       `gorm:"type:text;not null;index:idx_offerings_seller_tier" json:"tier"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	PriceCents  int64        `gorm:"not null;default:0" json:"price_cents"`
	Active      bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Offering) TableName() string { return "offerings" }
