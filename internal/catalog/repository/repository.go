// Package repository implements the offering catalog queries.
package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/catalog/domain"
	"github.com/tiffinlabs/mealgrid/pkg/db/option"
	"github.com/tiffinlabs/mealgrid/pkg/db/pagination"
	"gorm.io/gorm"
)

type repositoryImpl struct{}

// Provide builds the catalog repository.
func Provide() domain.Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) DistinctTiers(ctx context.Context, db *gorm.DB, sellerID snowflake.ID) ([]string, error) {
	var tiers []string
	err := db.WithContext(ctx).
		Model(&domain.Offering{}).
		Distinct("tier").
		Where("seller_id = ?", sellerID).
		Order("tier ASC").
		Pluck("tier", &tiers).Error
	if err != nil {
		return nil, err
	}
	return tiers, nil
}

func (r *repositoryImpl) FindBySellerTier(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, tier string, offeringID snowflake.ID) ([]domain.Offering, error) {
	tx := db.WithContext(ctx).
		Where("seller_id = ? AND tier = ?", sellerID, tier)
	if offeringID != 0 {
		tx = tx.Where("id = ?", offeringID)
	}
	var offerings []domain.Offering
	if err := tx.Order("id ASC").Find(&offerings).Error; err != nil {
		return nil, err
	}
	return offerings, nil
}

func (r *repositoryImpl) List(ctx context.Context, db *gorm.DB, req domain.ListOfferingsRequest) ([]domain.Offering, error) {
	tx := db.WithContext(ctx).Where("seller_id = ?", req.SellerID)
	if req.Tier != "" {
		tx = tx.Where("tier = ?", req.Tier)
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"created_at": true}}),
		option.ApplyPagination(pagination.Pagination{
			PageToken: req.PageToken,
			PageSize:  int(req.PageSize),
		}),
	}
	for _, opt := range opts {
		tx = opt(tx)
	}

	var offerings []domain.Offering
	if err := tx.Find(&offerings).Error; err != nil {
		return nil, err
	}
	return offerings, nil
}
