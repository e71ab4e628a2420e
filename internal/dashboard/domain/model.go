// Package domain contains the derived staleness views served to operators.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// SellerStaleness breaks down why a seller's subscribers lack a usable
// same-day meal.
type SellerStaleness struct {
	SellerID            snowflake.ID `json:"seller_id"`
	ActiveSubscriptions int          `json:"active_subscriptions"`
	MissingToday        int          `json:"missing_today"`
	Unavailable         int          `json:"unavailable"`
	Outdated            int          `json:"outdated"`
}

// Stale reports whether any active subscriber needs attention.
func (s SellerStaleness) Stale() bool {
	return s.MissingToday+s.Unavailable+s.Outdated > 0
}

// StalenessReport is a point-in-time aggregation across sellers. It is a
// pure read; computing it never mutates subscription or configuration state.
type StalenessReport struct {
	GeneratedAt         time.Time         `json:"generated_at"`
	Date                time.Time         `json:"date"`
	ActiveSubscriptions int               `json:"active_subscriptions"`
	StaleSubscriptions  int               `json:"stale_subscriptions"`
	StaleSellers        int               `json:"stale_sellers"`
	Sellers             []SellerStaleness `json:"sellers"`
}

// Service computes staleness on demand. SellerID zero spans all sellers.
type Service interface {
	ComputeStaleness(ctx context.Context, sellerID snowflake.ID) (StalenessReport, error)
}
