package propagation

import (
	"github.com/tiffinlabs/mealgrid/internal/propagation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("propagation.service",
	fx.Provide(service.NewService),
)
