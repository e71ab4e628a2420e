package dashboard

import (
	"context"

	"github.com/tiffinlabs/mealgrid/internal/config"
	"github.com/tiffinlabs/mealgrid/internal/dashboard/service"
	subscriptiondomain "github.com/tiffinlabs/mealgrid/internal/subscription/domain"
	"github.com/tiffinlabs/mealgrid/pkg/repository"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("dashboard.service",
	fx.Provide(func(db *gorm.DB) repository.Repository[subscriptiondomain.Subscription] {
		return repository.ProvideStore[subscriptiondomain.Subscription](db)
	}),
	fx.Provide(service.NewService),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func runWorker(lc fx.Lifecycle, cfg config.Config, worker *Worker) {
	if !cfg.Staleness.Enabled {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go worker.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
