package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	DistinctTiers(ctx context.Context, db *gorm.DB, sellerID snowflake.ID) ([]string, error)
	FindBySellerTier(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, tier string, offeringID snowflake.ID) ([]Offering, error)
	List(ctx context.Context, db *gorm.DB, req ListOfferingsRequest) ([]Offering, error)
}
