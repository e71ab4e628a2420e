// Package seed provisions a demo seller for local development.
package seed

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/tiffinlabs/mealgrid/internal/catalog/domain"
	"github.com/tiffinlabs/mealgrid/internal/config"
	"github.com/tiffinlabs/mealgrid/internal/meal"
	subscriptiondomain "github.com/tiffinlabs/mealgrid/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Param struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cfg   config.Config
	GenID *snowflake.Node
}

// Run seeds one demo seller with two tiers and a handful of subscriptions.
// It is a no-op in production, when seeding is disabled, or when offerings
// already exist.
func Run(p Param) error {
	if p.Cfg.IsProduction() || !p.Cfg.Bootstrap.SeedDemoSeller {
		return nil
	}
	log := p.Log.Named("seed")
	ctx := context.Background()

	var count int64
	if err := p.DB.WithContext(ctx).Model(&catalogdomain.Offering{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	sellerID := p.GenID.Generate()
	basic := catalogdomain.Offering{
		ID:          p.GenID.Generate(),
		SellerID:    sellerID,
		Tier:        "basic",
		Name:        "Basic Tiffin",
		Description: "Daily home-style tiffin",
		PriceCents:  250000,
		Active:      true,
	}
	premium := catalogdomain.Offering{
		ID:          p.GenID.Generate(),
		SellerID:    sellerID,
		Tier:        "premium",
		Name:        "Premium Tiffin",
		Description: "Richer daily tiffin with extra dishes",
		PriceCents:  400000,
		Active:      true,
	}
	if err := p.DB.WithContext(ctx).Create(&[]catalogdomain.Offering{basic, premium}).Error; err != nil {
		return err
	}

	subs := []subscriptiondomain.Subscription{
		demoSubscription(p.GenID, sellerID, basic.ID, "Asha Pawar", meal.ShiftMorning),
		demoSubscription(p.GenID, sellerID, basic.ID, "Ravi Kulkarni", meal.ShiftEvening),
		demoSubscription(p.GenID, sellerID, premium.ID, "Meena Joshi", meal.ShiftMorning),
		demoSubscription(p.GenID, sellerID, premium.ID, "Sunil Deshmukh", meal.ShiftBoth),
	}
	if err := p.DB.WithContext(ctx).Create(&subs).Error; err != nil {
		return err
	}

	log.Info("seeded demo seller",
		zap.String("seller_id", sellerID.String()),
		zap.Int("offerings", 2),
		zap.Int("subscriptions", len(subs)),
	)
	return nil
}

func demoSubscription(genID *snowflake.Node, sellerID, offeringID snowflake.ID, name string, shift meal.Shift) subscriptiondomain.Subscription {
	startShift := shift
	if startShift == meal.ShiftBoth {
		startShift = meal.ShiftMorning
	}
	return subscriptiondomain.Subscription{
		ID:           genID.Generate(),
		SellerID:     sellerID,
		OfferingID:   offeringID,
		CustomerID:   genID.Generate(),
		CustomerName: name,
		Status:       subscriptiondomain.StatusActive,
		Shift:        shift,
		StartShift:   startShift,
	}
}
