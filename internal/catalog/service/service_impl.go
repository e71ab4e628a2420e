package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tiffinlabs/mealgrid/internal/cache"
	"github.com/tiffinlabs/mealgrid/internal/catalog/domain"
	"github.com/tiffinlabs/mealgrid/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Tier lists change rarely relative to how often edits validate them, so a
// short cache keeps the hot path off the database without an invalidation
// protocol.
const tierCacheTTL = 30 * time.Second

type ServiceParam struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository

	tierCache cache.Cache[snowflake.ID, []string]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("catalog.service"),
		repo:      p.Repo,
		tierCache: cache.NewTTLCache[snowflake.ID, []string](),
	}
}

func (s *Service) ListTiers(ctx context.Context, sellerID snowflake.ID) ([]string, error) {
	if sellerID == 0 {
		return nil, domain.ErrInvalidSeller
	}
	if tiers, ok := s.tierCache.Get(sellerID); ok {
		return tiers, nil
	}

	tiers, err := s.repo.DistinctTiers(ctx, s.db, sellerID)
	if err != nil {
		return nil, err
	}
	if tiers == nil {
		tiers = []string{}
	}
	s.tierCache.Set(sellerID, tiers, tierCacheTTL)
	return tiers, nil
}

func (s *Service) ValidateTier(ctx context.Context, sellerID snowflake.ID, tier string) (bool, error) {
	if sellerID == 0 {
		return false, domain.ErrInvalidSeller
	}
	if strings.TrimSpace(tier) == "" {
		return false, domain.ErrInvalidTier
	}

	tiers, err := s.ListTiers(ctx, sellerID)
	if err != nil {
		return false, err
	}
	for _, known := range tiers {
		if known == tier {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) ResolveOfferings(ctx context.Context, sellerID snowflake.ID, tier string, offeringID snowflake.ID) ([]domain.Offering, error) {
	if sellerID == 0 {
		return nil, domain.ErrInvalidSeller
	}
	if strings.TrimSpace(tier) == "" {
		return nil, domain.ErrInvalidTier
	}
	return s.repo.FindBySellerTier(ctx, s.db, sellerID, tier, offeringID)
}

func (s *Service) ListOfferings(ctx context.Context, req domain.ListOfferingsRequest) (domain.ListOfferingsResponse, error) {
	if req.SellerID == 0 {
		return domain.ListOfferingsResponse{}, domain.ErrInvalidSeller
	}
	size := req.PageSize
	if size <= 0 {
		size = 50
	}

	offerings, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return domain.ListOfferingsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(offerings, size, func(o domain.Offering) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        o.ID.String(),
			CreatedAt: o.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(offerings) > int(size) {
		offerings = offerings[:size]
	}

	resp := domain.ListOfferingsResponse{Offerings: offerings}
	if pageInfo != nil {
		resp.HasMore = pageInfo.HasMore
		resp.NextPageToken = pageInfo.NextPageToken
	}
	return resp, nil
}
