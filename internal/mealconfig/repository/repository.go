// Package repository persists meal configuration records.
package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/mealconfig/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repositoryImpl struct{}

// Provide builds the meal configuration repository.
func Provide() domain.Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) InsertIgnoreConflict(ctx context.Context, db *gorm.DB, cfg *domain.MealConfiguration) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "seller_id"}, {Name: "tier"}},
			DoNothing: true,
		}).
		Create(cfg).Error
}

func (r *repositoryImpl) FindBySellerTier(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, tier string) (*domain.MealConfiguration, error) {
	var cfg domain.MealConfiguration
	err := db.WithContext(ctx).
		Where("seller_id = ? AND tier = ?", sellerID, tier).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *repositoryImpl) Update(ctx context.Context, db *gorm.DB, cfg *domain.MealConfiguration) error {
	return db.WithContext(ctx).Save(cfg).Error
}
