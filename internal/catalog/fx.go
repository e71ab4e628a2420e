package catalog

import (
	"github.com/tiffinlabs/mealgrid/internal/catalog/repository"
	"github.com/tiffinlabs/mealgrid/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
