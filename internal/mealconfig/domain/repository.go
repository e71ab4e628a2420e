package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// InsertIgnoreConflict inserts a new record, silently ignoring a
	// uniqueness conflict so creation races resolve by refetch.
	InsertIgnoreConflict(ctx context.Context, db *gorm.DB, cfg *MealConfiguration) error
	FindBySellerTier(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, tier string) (*MealConfiguration, error)
	Update(ctx context.Context, db *gorm.DB, cfg *MealConfiguration) error
}
