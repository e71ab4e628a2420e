package events

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/events/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestPublishDedupesBySellerAndKey(t *testing.T) {
	outbox, db := setupOutbox(t)
	ctx := context.Background()
	sellerID := snowflake.ID(61)

	payload := map[string]any{"tier": "premium"}
	if err := outbox.Publish(ctx, sellerID, domain.TypeMealPropagated, "premium||2025-06-10|1", payload); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if err := outbox.Publish(ctx, sellerID, domain.TypeMealPropagated, "premium||2025-06-10|1", payload); err != nil {
		t.Fatalf("duplicate publish must be silently dropped: %v", err)
	}
	// Same key under another seller is a distinct event.
	if err := outbox.Publish(ctx, snowflake.ID(62), domain.TypeMealPropagated, "premium||2025-06-10|1", payload); err != nil {
		t.Fatalf("other seller publish: %v", err)
	}

	var count int64
	if err := db.Model(&domain.MealEvent{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 events after dedupe, got %d", count)
	}
}

func TestPendingAndMarkPublished(t *testing.T) {
	outbox, _ := setupOutbox(t)
	ctx := context.Background()
	sellerID := snowflake.ID(63)

	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("basic||2025-06-1%d|0", i)
		if err := outbox.Publish(ctx, sellerID, domain.TypeMealUpdated, key, nil); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}

	pending, err := outbox.Pending(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending events, got %d", len(pending))
	}

	ids := []snowflake.ID{pending[0].ID, pending[1].ID}
	if err := outbox.MarkPublished(ctx, ids); err != nil {
		t.Fatalf("markPublished: %v", err)
	}

	remaining, err := outbox.Pending(ctx, 10)
	if err != nil {
		t.Fatalf("pending after drain: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != pending[2].ID {
		t.Fatalf("expected one remaining event, got %v", remaining)
	}
}

func setupOutbox(t *testing.T) (domain.Outbox, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.MealEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(3)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	outbox := NewOutbox(OutboxParam{DB: db, Log: zap.NewNop(), GenID: node})
	return outbox, db
}
