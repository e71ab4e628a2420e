// Package observability bundles logging and metrics wiring.
package observability

import (
	"github.com/tiffinlabs/mealgrid/internal/config"
	"github.com/tiffinlabs/mealgrid/internal/observability/logger"
	"github.com/tiffinlabs/mealgrid/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	logger.Module,
	fx.Provide(func(cfg config.Config) *metrics.PropagationMetrics {
		return metrics.PropagationWithConfig(metrics.Config{
			ServiceName: cfg.ServiceName,
			Environment: cfg.Environment,
		})
	}),
)
