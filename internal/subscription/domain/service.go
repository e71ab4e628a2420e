package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/meal"
)

var (
	ErrNotFound = errors.New("subscription_not_found")
	ErrInactive = errors.New("subscription_inactive")
)

// Service exposes subscription reads, propagation targeting and the two
// snapshot write paths: the fan-out write used by propagation and the direct
// per-subscription edit.
type Service interface {
	Get(ctx context.Context, id snowflake.ID) (*Subscription, error)

	// FindTargets returns the seller's active subscriptions on the given
	// offerings whose shift falls inside the edit's scope. An empty editShift
	// targets every shift.
	FindTargets(ctx context.Context, sellerID snowflake.ID, offeringIDs []snowflake.ID, editShift meal.Shift) ([]Subscription, error)

	// WriteTodayMeal validates the snapshot and replaces the subscription's
	// today_meal column in a single statement. Nothing is written on a
	// validation failure.
	WriteTodayMeal(ctx context.Context, id snowflake.ID, snapshot meal.Snapshot) error

	// EditMeal applies a one-off snapshot to a single subscription without
	// touching the canonical configuration.
	EditMeal(ctx context.Context, req EditMealRequest) (*Subscription, error)

	// CountByOfferings returns total and active subscription counts across
	// the offerings, for the configuration's cached stats.
	CountByOfferings(ctx context.Context, sellerID snowflake.ID, offeringIDs []snowflake.ID) (total, active int64, err error)
}

// EditMealRequest is a direct edit of one subscription's snapshot.
type EditMealRequest struct {
	SubscriptionID snowflake.ID
	Items          []meal.Item
	MealType       meal.MealType
	IsAvailable    *bool
	ActorID        string
}
