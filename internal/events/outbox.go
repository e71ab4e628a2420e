// Package events provides the database-backed meal event outbox.
package events

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/events/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OutboxParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type outbox struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewOutbox(p OutboxParam) domain.Outbox {
	return &outbox{
		db:    p.DB,
		log:   p.Log.Named("events.outbox"),
		genID: p.GenID,
	}
}

func (o *outbox) Publish(ctx context.Context, sellerID snowflake.ID, eventType, dedupeKey string, payload map[string]any) error {
	if payload == nil {
		payload = map[string]any{}
	}
	event := &domain.MealEvent{
		ID:        o.genID.Generate(),
		SellerID:  sellerID,
		EventType: eventType,
		Payload:   datatypes.JSONMap(payload),
		DedupeKey: dedupeKey,
	}
	err := o.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "seller_id"}, {Name: "dedupe_key"}},
			DoNothing: true,
		}).
		Create(event).Error
	if err != nil {
		o.log.Warn("event enqueue failed",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
	return err
}

func (o *outbox) Pending(ctx context.Context, limit int) ([]domain.MealEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var pending []domain.MealEvent
	err := o.db.WithContext(ctx).
		Where("published = ?", false).
		Order("id ASC").
		Limit(limit).
		Find(&pending).Error
	if err != nil {
		return nil, err
	}
	return pending, nil
}

func (o *outbox) MarkPublished(ctx context.Context, ids []snowflake.ID) error {
	if len(ids) == 0 {
		return nil
	}
	return o.db.WithContext(ctx).
		Model(&domain.MealEvent{}).
		Where("id IN ?", ids).
		Update("published", true).Error
}
