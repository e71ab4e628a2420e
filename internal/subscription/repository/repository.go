// Package repository persists subscription records.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/meal"
	"github.com/tiffinlabs/mealgrid/internal/subscription/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repositoryImpl struct{}

// Provide builds the subscription repository.
func Provide() domain.Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repositoryImpl) FindActiveByOfferings(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, offeringIDs []snowflake.ID) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := db.WithContext(ctx).
		Where("seller_id = ? AND status = ? AND offering_id IN ?", sellerID, domain.StatusActive, offeringIDs).
		Order("id ASC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repositoryImpl) UpdateTodayMeal(ctx context.Context, db *gorm.DB, id snowflake.ID, snapshot meal.Snapshot, now time.Time) error {
	result := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"today_meal": datatypes.NewJSONType(snapshot),
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repositoryImpl) CountByOfferings(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, offeringIDs []snowflake.ID) (total, active int64, err error) {
	base := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("seller_id = ? AND offering_id IN ?", sellerID, offeringIDs)
	if err = base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = base.Session(&gorm.Session{}).Where("status = ?", domain.StatusActive).Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}
