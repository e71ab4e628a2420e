package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/meal"
)

// Service owns the canonical per-(seller, tier) configuration record.
// Creation is lazy and idempotent; records are mutated on every edit and
// never deleted.
type Service interface {
	// GetOrCreate returns the existing record or inserts one seeded from
	// TemplateFor. Concurrent first-time calls converge on one record via
	// the uniqueness constraint plus a fetch-on-conflict retry.
	GetOrCreate(ctx context.Context, sellerID snowflake.ID, tier string) (*MealConfiguration, error)

	// UpdateLegacy overwrites the legacy meal field and stamps audit fields.
	UpdateLegacy(ctx context.Context, cfg *MealConfiguration, snapshot meal.Snapshot, actorID string) (*MealConfiguration, error)

	// UpdateShift overwrites the named shift's meal field. Rejects with
	// meal.ErrInvalidShift before any mutation when shift is not a concrete
	// window.
	UpdateShift(ctx context.Context, cfg *MealConfiguration, shift meal.Shift, snapshot meal.Snapshot, actorID string) (*MealConfiguration, error)

	// RefreshStats records the subscription counts observed by the latest
	// propagation pass.
	RefreshStats(ctx context.Context, cfg *MealConfiguration, total, active int64) error

	// Get returns the record for a pair, or ErrNotFound.
	Get(ctx context.Context, sellerID snowflake.ID, tier string) (*MealConfiguration, error)

	// Suggestions assembles read-only template content for editing surfaces.
	Suggestions(ctx context.Context, sellerID snowflake.ID, tier string) (Suggestions, error)
}

// Suggestions is the read-only editing aid: the heuristic template for the
// tier plus whatever the configuration currently holds.
type Suggestions struct {
	Tier      string        `json:"tier"`
	Template  TierTemplates `json:"template"`
	Legacy    meal.Snapshot `json:"legacy"`
	Morning   meal.Snapshot `json:"morning"`
	Evening   meal.Snapshot `json:"evening"`
	State     string        `json:"state"`
	EditCount int64         `json:"edit_count"`
}

var (
	ErrInvalidSeller = errors.New("invalid_seller")
	ErrInvalidTier   = errors.New("invalid_tier")
	ErrNotFound      = errors.New("configuration_not_found")
)
