package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/tiffinlabs/mealgrid/internal/audit/domain"
	catalogdomain "github.com/tiffinlabs/mealgrid/internal/catalog/domain"
	"github.com/tiffinlabs/mealgrid/internal/clock"
	"github.com/tiffinlabs/mealgrid/internal/config"
	eventsdomain "github.com/tiffinlabs/mealgrid/internal/events/domain"
	"github.com/tiffinlabs/mealgrid/internal/meal"
	mealconfigdomain "github.com/tiffinlabs/mealgrid/internal/mealconfig/domain"
	"github.com/tiffinlabs/mealgrid/internal/observability/metrics"
	"github.com/tiffinlabs/mealgrid/internal/propagation/domain"
	subscriptiondomain "github.com/tiffinlabs/mealgrid/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultMaxConcurrent = 32

type ServiceParam struct {
	fx.In

	Log           *zap.Logger
	Cfg           config.Config
	Clock         clock.Clock
	Catalog       catalogdomain.Service
	Configs       mealconfigdomain.Service
	Subscriptions subscriptiondomain.Service
	Outbox        eventsdomain.Outbox
	Audit         auditdomain.Service
	Metrics       *metrics.PropagationMetrics
}

type Service struct {
	log           *zap.Logger
	clock         clock.Clock
	catalog       catalogdomain.Service
	configs       mealconfigdomain.Service
	subscriptions subscriptiondomain.Service
	outbox        eventsdomain.Outbox
	audit         auditdomain.Service
	metrics       *metrics.PropagationMetrics
	maxConcurrent int
}

func NewService(p ServiceParam) domain.Service {
	maxConcurrent := p.Cfg.Propagation.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Service{
		log:           p.Log.Named("propagation.service"),
		clock:         p.Clock,
		catalog:       p.Catalog,
		configs:       p.Configs,
		subscriptions: p.Subscriptions,
		outbox:        p.Outbox,
		audit:         p.Audit,
		metrics:       p.Metrics,
		maxConcurrent: maxConcurrent,
	}
}

// Propagate runs one meal edit end to end. The command is validated before
// anything is resolved; after that, one subscription's failure never aborts
// the rest of the pass.
func (s *Service) Propagate(ctx context.Context, cmd domain.EditMealCommand) (*domain.PropagationResult, error) {
	start := time.Now()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	items, err := meal.NormalizeItems(cmd.Items)
	if err != nil {
		return nil, err
	}

	offerings, err := s.resolveOfferings(ctx, cmd)
	if err != nil {
		return nil, err
	}
	offeringIDs := make([]snowflake.ID, 0, len(offerings))
	for _, offering := range offerings {
		offeringIDs = append(offeringIDs, offering.ID)
	}

	cfg, err := s.configs.GetOrCreate(ctx, cmd.SellerID, cmd.Tier)
	if err != nil {
		return nil, err
	}

	active, err := s.subscriptions.FindTargets(ctx, cmd.SellerID, offeringIDs, "")
	if err != nil {
		return nil, err
	}
	var targets, skipped []subscriptiondomain.Subscription
	for _, sub := range active {
		if meal.ShiftInScope(sub.Shift, cmd.Shift) {
			targets = append(targets, sub)
		} else {
			skipped = append(skipped, sub)
		}
	}

	// One midnight for the whole pass so every snapshot shares the same day.
	now := s.clock.Now()
	today := clock.Midnight(now)
	available := true
	if cmd.IsAvailable != nil {
		available = *cmd.IsAvailable
	}

	affected, failed := s.fanOut(ctx, targets, fanOutInput{
		items:     items,
		mealType:  cmd.MealType,
		date:      today,
		available: available,
		now:       now,
		actorID:   cmd.ActorID,
	})

	if err := s.persistConfiguration(ctx, cfg, cmd, items, today, available); err != nil {
		return nil, err
	}
	s.refreshStats(ctx, cfg, cmd.SellerID, offeringIDs)

	result := &domain.PropagationResult{
		UpdatedCount:          len(affected),
		SkippedCount:          len(skipped),
		FailedUpdates:         failed,
		AffectedSubscriptions: affected,
		TemplateEcho:          cfg.Templates.Data(),
		ProcessingTimeMs:      time.Since(start).Milliseconds(),
	}

	scope := "legacy"
	if cmd.Shift != "" {
		scope = string(cmd.Shift)
	}
	s.metrics.ObservePass(scope, time.Since(start), result.UpdatedCount, result.SkippedCount, len(failed))
	s.recordPass(ctx, cmd, cfg, result, today)

	s.log.Info("propagation pass complete",
		zap.String("seller_id", cmd.SellerID.String()),
		zap.String("tier", cmd.Tier),
		zap.String("scope", scope),
		zap.Int("updated", result.UpdatedCount),
		zap.Int("skipped", result.SkippedCount),
		zap.Int("failed", len(failed)),
		zap.Int64("processing_time_ms", result.ProcessingTimeMs),
	)
	return result, nil
}

func (s *Service) resolveOfferings(ctx context.Context, cmd domain.EditMealCommand) ([]catalogdomain.Offering, error) {
	ok, err := s.catalog.ValidateTier(ctx, cmd.SellerID, cmd.Tier)
	if err != nil {
		return nil, err
	}
	if !ok {
		tiers, err := s.catalog.ListTiers(ctx, cmd.SellerID)
		if err != nil {
			return nil, err
		}
		sort.Strings(tiers)
		return nil, &domain.UnknownTierError{Tier: cmd.Tier, AvailableTiers: tiers}
	}

	offerings, err := s.catalog.ResolveOfferings(ctx, cmd.SellerID, cmd.Tier, cmd.OfferingID)
	if err != nil {
		return nil, err
	}
	if len(offerings) == 0 {
		if cmd.OfferingID != 0 {
			return nil, domain.ErrOfferingNotFound
		}
		tiers, err := s.catalog.ListTiers(ctx, cmd.SellerID)
		if err != nil {
			return nil, err
		}
		sort.Strings(tiers)
		return nil, &domain.UnknownTierError{Tier: cmd.Tier, AvailableTiers: tiers}
	}
	return offerings, nil
}

type fanOutInput struct {
	items     []meal.Item
	mealType  meal.MealType
	date      time.Time
	available bool
	now       time.Time
	actorID   string
}

type fanOutOutcome struct {
	affected *domain.AffectedSubscription
	failed   *domain.FailedUpdate
}

// fanOut writes one snapshot per target concurrently, bounded by the
// configured limit. Outcomes land in per-index slots so no lock is shared
// between subscription writes.
func (s *Service) fanOut(ctx context.Context, targets []subscriptiondomain.Subscription, in fanOutInput) ([]domain.AffectedSubscription, []domain.FailedUpdate) {
	if len(targets) == 0 {
		return nil, nil
	}

	outcomes := make([]fanOutOutcome, len(targets))
	sem := make(chan struct{}, s.maxConcurrent)
	var wg sync.WaitGroup

	for i := range targets {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			sub := targets[i]
			mealType := in.mealType
			if mealType == "" {
				mealType = meal.DefaultMealType(sub.EffectiveShift())
			}
			snapshot := meal.Snapshot{
				Items:       in.items,
				MealType:    mealType,
				Date:        in.date,
				IsAvailable: in.available,
				LastUpdated: in.now,
				UpdatedBy:   in.actorID,
			}
			if err := s.subscriptions.WriteTodayMeal(ctx, sub.ID, snapshot); err != nil {
				outcomes[i].failed = &domain.FailedUpdate{
					SubscriptionID: sub.ID,
					Error:          err.Error(),
				}
				return
			}
			outcomes[i].affected = &domain.AffectedSubscription{
				SubscriptionID: sub.ID,
				CustomerID:     sub.CustomerID,
				CustomerName:   sub.CustomerName,
				Shift:          sub.Shift,
				MealType:       mealType,
			}
		}(i)
	}
	wg.Wait()

	var affected []domain.AffectedSubscription
	var failed []domain.FailedUpdate
	for _, outcome := range outcomes {
		if outcome.affected != nil {
			affected = append(affected, *outcome.affected)
		}
		if outcome.failed != nil {
			failed = append(failed, *outcome.failed)
		}
	}
	return affected, failed
}

// persistConfiguration writes the normalized content back onto the canonical
// record so subscriptions created after this pass inherit the edit.
func (s *Service) persistConfiguration(ctx context.Context, cfg *mealconfigdomain.MealConfiguration, cmd domain.EditMealCommand, items []meal.Item, today time.Time, available bool) error {
	mealType := cmd.MealType
	snapshot := meal.Snapshot{
		Items:       items,
		Date:        today,
		IsAvailable: available,
	}
	if cmd.Shift != "" {
		if mealType == "" {
			mealType = meal.DefaultMealType(cmd.Shift)
		}
		snapshot.MealType = mealType
		_, err := s.configs.UpdateShift(ctx, cfg, cmd.Shift, snapshot, cmd.ActorID)
		return err
	}
	if mealType == "" {
		mealType = meal.MealTypeBoth
	}
	snapshot.MealType = mealType
	_, err := s.configs.UpdateLegacy(ctx, cfg, snapshot, cmd.ActorID)
	return err
}

func (s *Service) refreshStats(ctx context.Context, cfg *mealconfigdomain.MealConfiguration, sellerID snowflake.ID, offeringIDs []snowflake.ID) {
	total, active, err := s.subscriptions.CountByOfferings(ctx, sellerID, offeringIDs)
	if err != nil {
		s.log.Warn("stats refresh failed", zap.Error(err))
		return
	}
	if err := s.configs.RefreshStats(ctx, cfg, total, active); err != nil {
		s.log.Warn("stats refresh failed", zap.Error(err))
	}
}

// recordPass writes the audit entry and outbox event. Both are best-effort;
// the pass already happened.
func (s *Service) recordPass(ctx context.Context, cmd domain.EditMealCommand, cfg *mealconfigdomain.MealConfiguration, result *domain.PropagationResult, today time.Time) {
	sellerID := cmd.SellerID
	actorID := cmd.ActorID
	targetID := cfg.ID.String()
	metadata := map[string]any{
		"tier":          cmd.Tier,
		"shift":         string(cmd.Shift),
		"updated_count": result.UpdatedCount,
		"skipped_count": result.SkippedCount,
		"failed_count":  len(result.FailedUpdates),
		"date":          today.Format("2006-01-02"),
	}
	_ = s.audit.AuditLog(ctx, &sellerID, auditdomain.ActorTypeUser, &actorID, "meal.propagated", "meal_configuration", &targetID, metadata)

	dedupeKey := fmt.Sprintf("%s|%s|%s|%d", cmd.Tier, cmd.Shift, today.Format("2006-01-02"), cfg.MealUpdateCount)
	_ = s.outbox.Publish(ctx, sellerID, eventsdomain.TypeMealPropagated, dedupeKey, metadata)
}
