package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/clock"
	"github.com/tiffinlabs/mealgrid/internal/dashboard/domain"
	"github.com/tiffinlabs/mealgrid/internal/meal"
	subscriptiondomain "github.com/tiffinlabs/mealgrid/internal/subscription/domain"
	"github.com/tiffinlabs/mealgrid/pkg/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)

func TestComputeStalenessClassification(t *testing.T) {
	svc, db := setupDashboard(t)
	ctx := context.Background()
	today := clock.Midnight(testNow)

	// Seller 1: one fresh, one missing, one unavailable, one outdated.
	seedSub(t, db, 1, 1, subscriptiondomain.StatusActive, nil)
	seedSub(t, db, 2, 1, subscriptiondomain.StatusActive, &meal.Snapshot{
		Items: []meal.Item{{Name: "Dal"}}, IsAvailable: true, Date: today,
	})
	seedSub(t, db, 3, 1, subscriptiondomain.StatusActive, &meal.Snapshot{
		Items: []meal.Item{{Name: "Dal"}}, IsAvailable: false, Date: today,
	})
	seedSub(t, db, 4, 1, subscriptiondomain.StatusActive, &meal.Snapshot{
		Items: []meal.Item{{Name: "Dal"}}, IsAvailable: true, Date: today.AddDate(0, 0, -1),
	})
	// Seller 2: fully fresh.
	seedSub(t, db, 5, 2, subscriptiondomain.StatusActive, &meal.Snapshot{
		Items: []meal.Item{{Name: "Rice"}}, IsAvailable: true, Date: today,
	})
	// Cancelled subscriptions never count.
	seedSub(t, db, 6, 1, subscriptiondomain.StatusCancelled, nil)

	report, err := svc.ComputeStaleness(ctx, 0)
	if err != nil {
		t.Fatalf("computeStaleness: %v", err)
	}
	if report.ActiveSubscriptions != 5 {
		t.Fatalf("expected 5 active subscriptions, got %d", report.ActiveSubscriptions)
	}
	if report.StaleSellers != 1 {
		t.Fatalf("expected 1 stale seller, got %d", report.StaleSellers)
	}
	if report.StaleSubscriptions != 3 {
		t.Fatalf("expected 3 stale subscriptions, got %d", report.StaleSubscriptions)
	}

	if len(report.Sellers) != 2 {
		t.Fatalf("expected 2 sellers, got %d", len(report.Sellers))
	}
	seller1 := report.Sellers[0]
	if seller1.MissingToday != 1 || seller1.Unavailable != 1 || seller1.Outdated != 1 {
		t.Fatalf("unexpected breakdown for seller 1: %+v", seller1)
	}
	seller2 := report.Sellers[1]
	if seller2.Stale() {
		t.Fatalf("seller 2 must be clean: %+v", seller2)
	}
}

func TestComputeStalenessSellerScoped(t *testing.T) {
	svc, db := setupDashboard(t)

	seedSub(t, db, 11, 1, subscriptiondomain.StatusActive, nil)
	seedSub(t, db, 12, 2, subscriptiondomain.StatusActive, nil)

	report, err := svc.ComputeStaleness(context.Background(), snowflake.ID(1))
	if err != nil {
		t.Fatalf("computeStaleness: %v", err)
	}
	if report.ActiveSubscriptions != 1 || len(report.Sellers) != 1 {
		t.Fatalf("scoped report must cover one seller, got %+v", report)
	}
	if report.Sellers[0].SellerID != 1 {
		t.Fatalf("wrong seller in scoped report: %+v", report.Sellers[0])
	}
}

func setupDashboard(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&subscriptiondomain.Subscription{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc := NewService(ServiceParam{
		Log:   zap.NewNop(),
		Clock: clock.Fixed(testNow),
		Subs:  repository.ProvideStore[subscriptiondomain.Subscription](db),
	})
	return svc, db
}

func seedSub(t *testing.T, db *gorm.DB, id, sellerID int64, status string, snapshot *meal.Snapshot) {
	t.Helper()
	sub := subscriptiondomain.Subscription{
		ID:         snowflake.ID(id),
		SellerID:   snowflake.ID(sellerID),
		OfferingID: snowflake.ID(100 + sellerID),
		CustomerID: snowflake.ID(9000 + id),
		Status:     status,
		Shift:      meal.ShiftMorning,
		StartShift: meal.ShiftMorning,
	}
	if snapshot != nil {
		sub.TodayMeal = datatypes.NewJSONType(*snapshot)
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("seed subscription %d: %v", id, err)
	}
}
