package mealconfig

import (
	"github.com/tiffinlabs/mealgrid/internal/mealconfig/repository"
	"github.com/tiffinlabs/mealgrid/internal/mealconfig/service"
	"go.uber.org/fx"
)

var Module = fx.Module("mealconfig.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
