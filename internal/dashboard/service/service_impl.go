package service

import (
	"context"
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/clock"
	"github.com/tiffinlabs/mealgrid/internal/dashboard/domain"
	subscriptiondomain "github.com/tiffinlabs/mealgrid/internal/subscription/domain"
	"github.com/tiffinlabs/mealgrid/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Subs  repository.Repository[subscriptiondomain.Subscription]
}

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	subs  repository.Repository[subscriptiondomain.Subscription]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:   p.Log.Named("dashboard.service"),
		clock: p.Clock,
		subs:  p.Subs,
	}
}

// ComputeStaleness classifies each active subscription's snapshot against
// today's date. Snapshot dates live inside the JSON column, so the
// classification happens here rather than in dialect-specific SQL.
func (s *Service) ComputeStaleness(ctx context.Context, sellerID snowflake.ID) (domain.StalenessReport, error) {
	now := s.clock.Now()
	today := clock.Midnight(now)

	filter := &subscriptiondomain.Subscription{
		Status:   subscriptiondomain.StatusActive,
		SellerID: sellerID,
	}
	subs, err := s.subs.Find(ctx, filter)
	if err != nil {
		return domain.StalenessReport{}, err
	}

	perSeller := map[snowflake.ID]*domain.SellerStaleness{}
	for _, sub := range subs {
		entry := perSeller[sub.SellerID]
		if entry == nil {
			entry = &domain.SellerStaleness{SellerID: sub.SellerID}
			perSeller[sub.SellerID] = entry
		}
		entry.ActiveSubscriptions++

		snapshot := sub.TodayMeal.Data()
		switch {
		case len(snapshot.Items) == 0:
			entry.MissingToday++
		case !snapshot.IsAvailable:
			entry.Unavailable++
		case snapshot.Date.Before(today):
			entry.Outdated++
		}
	}

	report := domain.StalenessReport{
		GeneratedAt:         now,
		Date:                today,
		ActiveSubscriptions: len(subs),
	}
	for _, entry := range perSeller {
		report.Sellers = append(report.Sellers, *entry)
		if entry.Stale() {
			report.StaleSellers++
			report.StaleSubscriptions += entry.MissingToday + entry.Unavailable + entry.Outdated
		}
	}
	sort.Slice(report.Sellers, func(i, j int) bool {
		return report.Sellers[i].SellerID < report.Sellers[j].SellerID
	})
	return report, nil
}
