package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Service resolves and validates the open set of tiers a seller offers.
// Tiers are free-form strings, never a closed enum, so every check goes back
// to the live offering catalog.
type Service interface {
	// ListTiers returns the seller's distinct tier values, sorted. Empty
	// slice when the seller has no offerings.
	ListTiers(ctx context.Context, sellerID snowflake.ID) ([]string, error)

	// ValidateTier reports whether at least one offering of the seller has
	// exactly that tier string. Case-sensitive; fails closed.
	ValidateTier(ctx context.Context, sellerID snowflake.ID, tier string) (bool, error)

	// ResolveOfferings returns the seller's offerings of the tier, narrowed
	// to a single offering when offeringID is non-zero.
	ResolveOfferings(ctx context.Context, sellerID snowflake.ID, tier string, offeringID snowflake.ID) ([]Offering, error)

	// ListOfferings pages through a seller's offerings for editing surfaces.
	ListOfferings(ctx context.Context, req ListOfferingsRequest) (ListOfferingsResponse, error)
}

// ListOfferingsRequest filters a seller's offerings.
type ListOfferingsRequest struct {
	SellerID  snowflake.ID
	Tier      string
	PageToken string
	PageSize  int32
}

// ListOfferingsResponse is a single page of offerings.
type ListOfferingsResponse struct {
	Offerings     []Offering `json:"offerings"`
	HasMore       bool       `json:"has_more"`
	NextPageToken string     `json:"next_page_token,omitempty"`
}

var (
	ErrInvalidSeller = errors.New("invalid_seller")
	ErrInvalidTier   = errors.New("invalid_tier")
)

// ParseID parses an external snowflake identifier.
func ParseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, ErrInvalidSeller
	}
	return id, nil
}
