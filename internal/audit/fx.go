package audit

import (
	"github.com/tiffinlabs/mealgrid/internal/audit/repository"
	"github.com/tiffinlabs/mealgrid/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
