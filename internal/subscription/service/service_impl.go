package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/clock"
	"github.com/tiffinlabs/mealgrid/internal/meal"
	"github.com/tiffinlabs/mealgrid/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("subscription.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Subscription, error) {
	sub, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrNotFound
	}
	return sub, nil
}

func (s *Service) FindTargets(ctx context.Context, sellerID snowflake.ID, offeringIDs []snowflake.ID, editShift meal.Shift) ([]domain.Subscription, error) {
	if len(offeringIDs) == 0 {
		return nil, nil
	}
	subs, err := s.repo.FindActiveByOfferings(ctx, s.db, sellerID, offeringIDs)
	if err != nil {
		return nil, err
	}

	// Shift targeting is resolved in one place so the fan-out and the
	// dashboard agree on who an edit reaches.
	targets := subs[:0]
	for _, sub := range subs {
		if meal.ShiftInScope(sub.Shift, editShift) {
			targets = append(targets, sub)
		}
	}
	return targets, nil
}

func (s *Service) WriteTodayMeal(ctx context.Context, id snowflake.ID, snapshot meal.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateTodayMeal(ctx, s.db, id, snapshot, s.clock.Now())
}

func (s *Service) EditMeal(ctx context.Context, req domain.EditMealRequest) (*domain.Subscription, error) {
	sub, err := s.Get(ctx, req.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if !sub.IsActive() {
		return nil, domain.ErrInactive
	}

	items, err := meal.NormalizeItems(req.Items)
	if err != nil {
		return nil, err
	}
	mealType := req.MealType
	if mealType == "" {
		mealType = meal.DefaultMealType(sub.EffectiveShift())
	}
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	now := s.clock.Now()
	snapshot := meal.Snapshot{
		Items:       items,
		MealType:    mealType,
		Date:        clock.Midnight(now),
		IsAvailable: available,
		LastUpdated: now,
		UpdatedBy:   req.ActorID,
	}
	if err := s.repo.UpdateTodayMeal(ctx, s.db, sub.ID, snapshot, now); err != nil {
		return nil, err
	}

	s.log.Info("subscription meal edited",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("actor_id", req.ActorID),
	)
	sub.TodayMeal = datatypes.NewJSONType(snapshot)
	sub.UpdatedAt = now
	return sub, nil
}

func (s *Service) CountByOfferings(ctx context.Context, sellerID snowflake.ID, offeringIDs []snowflake.ID) (total, active int64, err error) {
	if len(offeringIDs) == 0 {
		return 0, 0, nil
	}
	return s.repo.CountByOfferings(ctx, s.db, sellerID, offeringIDs)
}
