package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/meal"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Subscription, error)
	FindActiveByOfferings(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, offeringIDs []snowflake.ID) ([]Subscription, error)
	// UpdateTodayMeal replaces only the snapshot column and the update
	// timestamp; other columns are never touched by a meal write.
	UpdateTodayMeal(ctx context.Context, db *gorm.DB, id snowflake.ID, snapshot meal.Snapshot, now time.Time) error
	CountByOfferings(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, offeringIDs []snowflake.ID) (total, active int64, err error)
}
