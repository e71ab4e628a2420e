// Package domain defines the meal edit command and the aggregated result of
// a propagation pass.
package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/meal"
	mealconfigdomain "github.com/tiffinlabs/mealgrid/internal/mealconfig/domain"
)

var (
	ErrInvalidSeller    = errors.New("invalid_seller")
	ErrInvalidTier      = errors.New("invalid_tier")
	ErrOfferingNotFound = errors.New("offering_not_found")
	ErrMissingActor     = errors.New("missing_actor")
)

// UnknownTierError rejects an edit against a tier the seller does not offer.
// It carries the seller's actual tiers so the caller can self-correct.
type UnknownTierError struct {
	Tier           string
	AvailableTiers []string
}

func (e *UnknownTierError) Error() string {
	return fmt.Sprintf("unknown_tier: %s", e.Tier)
}

// EditMealCommand is a seller-scoped meal edit. Shift empty means the edit
// spans both service windows; OfferingID non-zero narrows the edit to one
// offering instead of the whole tier.
type EditMealCommand struct {
	SellerID    snowflake.ID
	Tier        string
	OfferingID  snowflake.ID
	Shift       meal.Shift
	Items       []meal.Item
	MealType    meal.MealType
	IsAvailable *bool
	ActorID     string
}

// Validate rejects a malformed command before anything is resolved or
// written. Items are checked here but normalized later, once per pass.
func (c EditMealCommand) Validate() error {
	if c.SellerID == 0 {
		return ErrInvalidSeller
	}
	if strings.TrimSpace(c.Tier) == "" {
		return ErrInvalidTier
	}
	if c.Shift != "" && !meal.ValidEditShift(c.Shift) {
		return meal.ErrInvalidShift
	}
	if strings.TrimSpace(c.ActorID) == "" {
		return ErrMissingActor
	}
	if _, err := meal.NormalizeItems(c.Items); err != nil {
		return err
	}
	return nil
}

// FailedUpdate names one subscription whose write failed during fan-out.
type FailedUpdate struct {
	SubscriptionID snowflake.ID `json:"subscription_id"`
	Error          string       `json:"error"`
}

// AffectedSubscription summarizes one successfully updated subscription.
type AffectedSubscription struct {
	SubscriptionID snowflake.ID  `json:"subscription_id"`
	CustomerID     snowflake.ID  `json:"customer_id"`
	CustomerName   string        `json:"customer_name"`
	Shift          meal.Shift    `json:"shift"`
	MealType       meal.MealType `json:"meal_type"`
}

// PropagationResult is the aggregated outcome of one pass. Counts are always
// present so an empty tier is distinguishable from a failed pass.
type PropagationResult struct {
	UpdatedCount          int                            `json:"updated_count"`
	SkippedCount          int                            `json:"skipped_count"`
	FailedUpdates         []FailedUpdate                 `json:"failed_updates"`
	AffectedSubscriptions []AffectedSubscription         `json:"affected_subscriptions"`
	TemplateEcho          mealconfigdomain.TierTemplates `json:"template_echo"`
	ProcessingTimeMs      int64                          `json:"processing_time_ms"`
}

// Service runs meal edits end to end: validation, targeting, concurrent
// fan-out onto subscriptions and the canonical configuration write.
type Service interface {
	Propagate(ctx context.Context, cmd EditMealCommand) (*PropagationResult, error)
}
