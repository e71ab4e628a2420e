package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/tiffinlabs/mealgrid/internal/audit/domain"
	auditrepo "github.com/tiffinlabs/mealgrid/internal/audit/repository"
	auditservice "github.com/tiffinlabs/mealgrid/internal/audit/service"
	catalogdomain "github.com/tiffinlabs/mealgrid/internal/catalog/domain"
	catalogrepo "github.com/tiffinlabs/mealgrid/internal/catalog/repository"
	catalogservice "github.com/tiffinlabs/mealgrid/internal/catalog/service"
	"github.com/tiffinlabs/mealgrid/internal/clock"
	"github.com/tiffinlabs/mealgrid/internal/config"
	"github.com/tiffinlabs/mealgrid/internal/events"
	eventsdomain "github.com/tiffinlabs/mealgrid/internal/events/domain"
	"github.com/tiffinlabs/mealgrid/internal/meal"
	mealconfigdomain "github.com/tiffinlabs/mealgrid/internal/mealconfig/domain"
	mealconfigrepo "github.com/tiffinlabs/mealgrid/internal/mealconfig/repository"
	mealconfigservice "github.com/tiffinlabs/mealgrid/internal/mealconfig/service"
	"github.com/tiffinlabs/mealgrid/internal/propagation/domain"
	subscriptiondomain "github.com/tiffinlabs/mealgrid/internal/subscription/domain"
	subscriptionrepo "github.com/tiffinlabs/mealgrid/internal/subscription/repository"
	subscriptionservice "github.com/tiffinlabs/mealgrid/internal/subscription/service"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 6, 10, 9, 15, 0, 0, time.UTC)

const (
	sellerID = snowflake.ID(7001)
	actorID  = "admin-7001"
)

// Unscoped edit reaches every active subscription of the tier.
func TestPropagateUnscopedReachesAllShifts(t *testing.T) {
	h := newHarness(t, nil)
	h.seedOffering(t, 1, "premium")
	h.seedSubscription(t, 101, 1, subscriptiondomain.StatusActive, meal.ShiftMorning)
	h.seedSubscription(t, 102, 1, subscriptiondomain.StatusActive, meal.ShiftMorning)
	h.seedSubscription(t, 103, 1, subscriptiondomain.StatusActive, meal.ShiftEvening)

	result, err := h.svc.Propagate(context.Background(), domain.EditMealCommand{
		SellerID: sellerID,
		Tier:     "premium",
		Items:    []meal.Item{{Name: "Paneer Rice"}},
		ActorID:  actorID,
	})
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	if result.UpdatedCount != 3 || result.SkippedCount != 0 {
		t.Fatalf("expected updated=3 skipped=0, got updated=%d skipped=%d", result.UpdatedCount, result.SkippedCount)
	}
	if len(result.FailedUpdates) != 0 {
		t.Fatalf("expected no failures, got %v", result.FailedUpdates)
	}

	for _, id := range []int64{101, 102, 103} {
		snap := h.todayMeal(t, id)
		if len(snap.Items) != 1 || snap.Items[0].Name != "Paneer Rice" {
			t.Fatalf("subscription %d not updated: %+v", id, snap.Items)
		}
		if !snap.Date.Equal(clock.Midnight(testNow)) {
			t.Fatalf("subscription %d snapshot must carry today's midnight", id)
		}
	}
	// Morning subscriber defaulted to lunch, evening to dinner.
	if got := h.todayMeal(t, 101).MealType; got != meal.MealTypeLunch {
		t.Fatalf("morning subscriber meal type = %q", got)
	}
	if got := h.todayMeal(t, 103).MealType; got != meal.MealTypeDinner {
		t.Fatalf("evening subscriber meal type = %q", got)
	}
}

// Evening edit skips morning-only subscribers and still reaches dual-shift
// ones; only the evening slot of the configuration changes.
func TestPropagateEveningScope(t *testing.T) {
	h := newHarness(t, nil)
	h.seedOffering(t, 1, "premium")
	h.seedSubscription(t, 111, 1, subscriptiondomain.StatusActive, meal.ShiftMorning)
	h.seedSubscription(t, 112, 1, subscriptiondomain.StatusActive, meal.ShiftMorning)
	h.seedSubscription(t, 113, 1, subscriptiondomain.StatusActive, meal.ShiftEvening)
	h.seedSubscription(t, 114, 1, subscriptiondomain.StatusActive, meal.ShiftBoth)

	ctx := context.Background()
	before, err := h.configs.GetOrCreate(ctx, sellerID, "premium")
	if err != nil {
		t.Fatalf("getOrCreate: %v", err)
	}
	morningBefore := before.MorningMeal.Data()

	result, err := h.svc.Propagate(ctx, domain.EditMealCommand{
		SellerID: sellerID,
		Tier:     "premium",
		Shift:    meal.ShiftEvening,
		Items:    []meal.Item{{Name: "Paneer Rice"}},
		ActorID:  actorID,
	})
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	if result.UpdatedCount != 2 || result.SkippedCount != 2 {
		t.Fatalf("expected updated=2 skipped=2, got updated=%d skipped=%d", result.UpdatedCount, result.SkippedCount)
	}

	if len(h.todayMeal(t, 111).Items) != 0 {
		t.Fatalf("morning-only subscriber must be untouched by an evening edit")
	}
	if h.todayMeal(t, 113).Items[0].Name != "Paneer Rice" {
		t.Fatalf("evening subscriber must be updated")
	}
	if h.todayMeal(t, 114).Items[0].Name != "Paneer Rice" {
		t.Fatalf("dual-shift subscriber must be updated")
	}

	after, err := h.configs.Get(ctx, sellerID, "premium")
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if after.EveningMeal.Data().Items[0].Name != "Paneer Rice" {
		t.Fatalf("configuration evening slot must carry the edit")
	}
	if len(after.MorningMeal.Data().Items) != len(morningBefore.Items) {
		t.Fatalf("configuration morning slot must be unchanged")
	}
}

// Re-applying the same command converges to the same state with the same
// counts.
func TestPropagateIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	h.seedOffering(t, 1, "basic")
	h.seedSubscription(t, 121, 1, subscriptiondomain.StatusActive, meal.ShiftMorning)
	h.seedSubscription(t, 122, 1, subscriptiondomain.StatusActive, meal.ShiftEvening)

	cmd := domain.EditMealCommand{
		SellerID: sellerID,
		Tier:     "basic",
		Items:    []meal.Item{{Name: "Dal", Quantity: "1 bowl"}, {Name: "Rice"}},
		ActorID:  actorID,
	}
	ctx := context.Background()

	first, err := h.svc.Propagate(ctx, cmd)
	if err != nil {
		t.Fatalf("first propagate: %v", err)
	}
	snapshotAfterFirst := h.todayMeal(t, 121)

	second, err := h.svc.Propagate(ctx, cmd)
	if err != nil {
		t.Fatalf("second propagate: %v", err)
	}
	if first.UpdatedCount != second.UpdatedCount {
		t.Fatalf("updated count must match across identical passes: %d vs %d", first.UpdatedCount, second.UpdatedCount)
	}

	snapshotAfterSecond := h.todayMeal(t, 121)
	if fmt.Sprint(snapshotAfterFirst.Items) != fmt.Sprint(snapshotAfterSecond.Items) {
		t.Fatalf("re-applied edit must converge to identical content")
	}
	if !snapshotAfterFirst.Date.Equal(snapshotAfterSecond.Date) {
		t.Fatalf("re-applied edit must keep the same snapshot date")
	}
}

// Empty items are rejected before any write.
func TestPropagateValidationRejectsBeforeWrites(t *testing.T) {
	h := newHarness(t, nil)
	h.seedOffering(t, 1, "basic")
	h.seedSubscription(t, 131, 1, subscriptiondomain.StatusActive, meal.ShiftMorning)

	_, err := h.svc.Propagate(context.Background(), domain.EditMealCommand{
		SellerID: sellerID,
		Tier:     "basic",
		Items:    []meal.Item{},
		ActorID:  actorID,
	})
	if !errors.Is(err, meal.ErrNoItems) {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
	if len(h.todayMeal(t, 131).Items) != 0 {
		t.Fatalf("rejected command must touch zero subscriptions")
	}

	var count int64
	if err := h.db.Model(&mealconfigdomain.MealConfiguration{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected command must not create a configuration")
	}
}

// Unknown tier comes back as a typed error carrying the seller's real tiers.
func TestPropagateUnknownTierListsAvailable(t *testing.T) {
	h := newHarness(t, nil)
	h.seedOffering(t, 1, "basic")
	h.seedOffering(t, 2, "premium")

	_, err := h.svc.Propagate(context.Background(), domain.EditMealCommand{
		SellerID: sellerID,
		Tier:     "gold",
		Items:    []meal.Item{{Name: "Dal"}},
		ActorID:  actorID,
	})

	var unknownTier *domain.UnknownTierError
	if !errors.As(err, &unknownTier) {
		t.Fatalf("expected UnknownTierError, got %v", err)
	}
	if fmt.Sprint(unknownTier.AvailableTiers) != "[basic premium]" {
		t.Fatalf("expected available tiers [basic premium], got %v", unknownTier.AvailableTiers)
	}
}

// One corrupted subscription fails alone; the rest of the batch lands.
func TestPropagatePartialFailureIsolated(t *testing.T) {
	poisoned := snowflake.ID(142)
	h := newHarness(t, func(inner subscriptiondomain.Service) subscriptiondomain.Service {
		return &poisonedWrites{Service: inner, failFor: poisoned}
	})
	h.seedOffering(t, 1, "premium")
	h.seedSubscription(t, 141, 1, subscriptiondomain.StatusActive, meal.ShiftMorning)
	h.seedSubscription(t, 142, 1, subscriptiondomain.StatusActive, meal.ShiftMorning)
	h.seedSubscription(t, 143, 1, subscriptiondomain.StatusActive, meal.ShiftEvening)

	result, err := h.svc.Propagate(context.Background(), domain.EditMealCommand{
		SellerID: sellerID,
		Tier:     "premium",
		Items:    []meal.Item{{Name: "Paneer Rice"}},
		ActorID:  actorID,
	})
	if err != nil {
		t.Fatalf("partial failure must not fail the pass: %v", err)
	}
	if result.UpdatedCount != 2 {
		t.Fatalf("expected updated=2, got %d", result.UpdatedCount)
	}
	if len(result.FailedUpdates) != 1 || result.FailedUpdates[0].SubscriptionID != poisoned {
		t.Fatalf("expected exactly one failure for %d, got %v", poisoned, result.FailedUpdates)
	}
	if h.todayMeal(t, 141).Items[0].Name != "Paneer Rice" {
		t.Fatalf("healthy subscriptions must still be updated")
	}
}

// An empty tier is a clean zero-count pass, not an error, and the outbox
// dedupes the repeated pass.
func TestPropagateEmptyTierAndOutboxDedupe(t *testing.T) {
	h := newHarness(t, nil)
	h.seedOffering(t, 1, "basic")

	cmd := domain.EditMealCommand{
		SellerID: sellerID,
		Tier:     "basic",
		Items:    []meal.Item{{Name: "Dal"}},
		ActorID:  actorID,
	}
	ctx := context.Background()

	result, err := h.svc.Propagate(ctx, cmd)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	if result.UpdatedCount != 0 || result.SkippedCount != 0 || len(result.FailedUpdates) != 0 {
		t.Fatalf("empty tier must report clean zero counts, got %+v", result)
	}

	if _, err := h.svc.Propagate(ctx, cmd); err != nil {
		t.Fatalf("second propagate: %v", err)
	}

	pending, err := h.outbox.Pending(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	keys := map[string]int{}
	for _, event := range pending {
		keys[event.DedupeKey]++
	}
	for key, n := range keys {
		if n > 1 {
			t.Fatalf("dedupe key %q enqueued %d times", key, n)
		}
	}
}

type poisonedWrites struct {
	subscriptiondomain.Service
	failFor snowflake.ID
}

func (p *poisonedWrites) WriteTodayMeal(ctx context.Context, id snowflake.ID, snapshot meal.Snapshot) error {
	if id == p.failFor {
		return errors.New("corrupted_reference")
	}
	return p.Service.WriteTodayMeal(ctx, id, snapshot)
}

type harness struct {
	db      *gorm.DB
	svc     domain.Service
	configs mealconfigdomain.Service
	outbox  eventsdomain.Outbox
}

func newHarness(t *testing.T, wrap func(subscriptiondomain.Service) subscriptiondomain.Service) *harness {
	t.Helper()
	db := openTestDB(t)
	log := zap.NewNop()
	fixed := clock.Fixed(testNow)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	catalog := catalogservice.NewService(catalogservice.ServiceParam{
		DB: db, Log: log, Repo: catalogrepo.Provide(),
	})
	configs := mealconfigservice.NewService(mealconfigservice.ServiceParam{
		DB: db, Log: log, GenID: node, Repo: mealconfigrepo.Provide(),
	})
	subs := subscriptionservice.NewService(subscriptionservice.ServiceParam{
		DB: db, Log: log, Clock: fixed, Repo: subscriptionrepo.Provide(),
	})
	if wrap != nil {
		subs = wrap(subs)
	}
	auditSvc := auditservice.NewService(auditservice.ServiceParam{
		DB: db, Log: log, GenID: node, Repo: auditrepo.Provide(),
	})
	outbox := events.NewOutbox(events.OutboxParam{DB: db, Log: log, GenID: node})

	svc := NewService(ServiceParam{
		Log:           log,
		Cfg:           config.Config{Propagation: config.PropagationConfig{MaxConcurrent: 4}},
		Clock:         fixed,
		Catalog:       catalog,
		Configs:       configs,
		Subscriptions: subs,
		Outbox:        outbox,
		Audit:         auditSvc,
		Metrics:       nil,
	})
	return &harness{db: db, svc: svc, configs: configs, outbox: outbox}
}

func (h *harness) seedOffering(t *testing.T, id int64, tier string) {
	t.Helper()
	offering := catalogdomain.Offering{
		ID:       snowflake.ID(id),
		SellerID: sellerID,
		Tier:     tier,
		Name:     fmt.Sprintf("%s plan %d", tier, id),
		Active:   true,
	}
	if err := h.db.Create(&offering).Error; err != nil {
		t.Fatalf("seed offering %d: %v", id, err)
	}
}

func (h *harness) seedSubscription(t *testing.T, id, offeringID int64, status string, shift meal.Shift) {
	t.Helper()
	startShift := shift
	if startShift == meal.ShiftBoth {
		startShift = meal.ShiftMorning
	}
	sub := subscriptiondomain.Subscription{
		ID:           snowflake.ID(id),
		SellerID:     sellerID,
		OfferingID:   snowflake.ID(offeringID),
		CustomerID:   snowflake.ID(9000 + id),
		CustomerName: fmt.Sprintf("customer-%d", id),
		Status:       status,
		Shift:        shift,
		StartShift:   startShift,
	}
	if err := h.db.Create(&sub).Error; err != nil {
		t.Fatalf("seed subscription %d: %v", id, err)
	}
}

func (h *harness) todayMeal(t *testing.T, id int64) meal.Snapshot {
	t.Helper()
	var sub subscriptiondomain.Subscription
	if err := h.db.First(&sub, "id = ?", id).Error; err != nil {
		t.Fatalf("reload subscription %d: %v", id, err)
	}
	return sub.TodayMeal.Data()
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&catalogdomain.Offering{},
		&subscriptiondomain.Subscription{},
		&mealconfigdomain.MealConfiguration{},
		&auditdomain.AuditLog{},
		&eventsdomain.MealEvent{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// One connection keeps sqlite from returning busy errors under the
	// concurrent fan-out.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	return db
}
