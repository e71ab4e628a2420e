package subscription

import (
	"github.com/tiffinlabs/mealgrid/internal/subscription/repository"
	"github.com/tiffinlabs/mealgrid/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
