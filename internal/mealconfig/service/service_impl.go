package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/meal"
	"github.com/tiffinlabs/mealgrid/internal/mealconfig/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("mealconfig.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) GetOrCreate(ctx context.Context, sellerID snowflake.ID, tier string) (*domain.MealConfiguration, error) {
	if sellerID == 0 {
		return nil, domain.ErrInvalidSeller
	}
	tier = strings.TrimSpace(tier)
	if tier == "" {
		return nil, domain.ErrInvalidTier
	}

	existing, err := s.repo.FindBySellerTier(ctx, s.db, sellerID, tier)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	seeded := s.seedConfiguration(sellerID, tier)
	if err := s.repo.InsertIgnoreConflict(ctx, s.db, seeded); err != nil {
		return nil, err
	}

	// A concurrent first edit may have won the insert; the refetch returns
	// whichever record the constraint kept.
	created, err := s.repo.FindBySellerTier(ctx, s.db, sellerID, tier)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, domain.ErrNotFound
	}
	if created.ID == seeded.ID {
		s.log.Info("seeded meal configuration",
			zap.String("seller_id", sellerID.String()),
			zap.String("tier", tier),
		)
	}
	return created, nil
}

func (s *Service) UpdateLegacy(ctx context.Context, cfg *domain.MealConfiguration, snapshot meal.Snapshot, actorID string) (*domain.MealConfiguration, error) {
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stampSnapshot(&snapshot, now, actorID)
	cfg.LegacyMeal = datatypes.NewJSONType(snapshot)
	bumpStats(cfg, now)

	if err := s.repo.Update(ctx, s.db, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *Service) UpdateShift(ctx context.Context, cfg *domain.MealConfiguration, shift meal.Shift, snapshot meal.Snapshot, actorID string) (*domain.MealConfiguration, error) {
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	if !meal.ValidEditShift(shift) {
		return nil, meal.ErrInvalidShift
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stampSnapshot(&snapshot, now, actorID)
	switch shift {
	case meal.ShiftMorning:
		cfg.MorningMeal = datatypes.NewJSONType(snapshot)
	case meal.ShiftEvening:
		cfg.EveningMeal = datatypes.NewJSONType(snapshot)
	}
	bumpStats(cfg, now)

	if err := s.repo.Update(ctx, s.db, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *Service) RefreshStats(ctx context.Context, cfg *domain.MealConfiguration, total, active int64) error {
	if cfg == nil {
		return domain.ErrNotFound
	}
	cfg.TotalSubscriptions = total
	cfg.ActiveSubscriptions = active
	cfg.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, s.db, cfg)
}

func (s *Service) Get(ctx context.Context, sellerID snowflake.ID, tier string) (*domain.MealConfiguration, error) {
	if sellerID == 0 {
		return nil, domain.ErrInvalidSeller
	}
	cfg, err := s.repo.FindBySellerTier(ctx, s.db, sellerID, strings.TrimSpace(tier))
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	return cfg, nil
}

func (s *Service) Suggestions(ctx context.Context, sellerID snowflake.ID, tier string) (domain.Suggestions, error) {
	tier = strings.TrimSpace(tier)
	if tier == "" {
		return domain.Suggestions{}, domain.ErrInvalidTier
	}

	suggestions := domain.Suggestions{
		Tier:     tier,
		Template: domain.TemplateFor(tier),
		State:    domain.StateSeeded,
	}

	cfg, err := s.repo.FindBySellerTier(ctx, s.db, sellerID, tier)
	if err != nil {
		return domain.Suggestions{}, err
	}
	if cfg != nil {
		suggestions.Legacy = cfg.LegacyMeal.Data()
		suggestions.Morning = cfg.MorningMeal.Data()
		suggestions.Evening = cfg.EveningMeal.Data()
		suggestions.State = cfg.State()
		suggestions.EditCount = cfg.MealUpdateCount
	}
	return suggestions, nil
}

func (s *Service) seedConfiguration(sellerID snowflake.ID, tier string) *domain.MealConfiguration {
	template := domain.TemplateFor(tier)
	now := time.Now().UTC()

	lunch := meal.Snapshot{
		Items:       template.Lunch,
		MealType:    meal.MealTypeLunch,
		IsAvailable: true,
		LastUpdated: now,
		UpdatedBy:   "system",
	}
	dinner := meal.Snapshot{
		Items:       template.Dinner,
		MealType:    meal.MealTypeDinner,
		IsAvailable: true,
		LastUpdated: now,
		UpdatedBy:   "system",
	}

	return &domain.MealConfiguration{
		ID:          s.genID.Generate(),
		SellerID:    sellerID,
		Tier:        tier,
		LegacyMeal:  datatypes.NewJSONType(lunch),
		MorningMeal: datatypes.NewJSONType(lunch),
		EveningMeal: datatypes.NewJSONType(dinner),
		Templates:   datatypes.NewJSONType(template),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func stampSnapshot(snapshot *meal.Snapshot, now time.Time, actorID string) {
	snapshot.LastUpdated = now
	snapshot.UpdatedBy = actorID
}

func bumpStats(cfg *domain.MealConfiguration, now time.Time) {
	cfg.MealUpdateCount++
	cfg.LastMealUpdate = &now
	cfg.UpdatedAt = now
}
