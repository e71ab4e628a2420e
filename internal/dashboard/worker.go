// Package dashboard polls subscription staleness and publishes it as gauges.
package dashboard

import (
	"context"
	"time"

	"github.com/tiffinlabs/mealgrid/internal/config"
	"github.com/tiffinlabs/mealgrid/internal/dashboard/domain"
	"github.com/tiffinlabs/mealgrid/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultPollInterval = time.Minute

type WorkerParam struct {
	fx.In

	Log     *zap.Logger
	Cfg     config.Config
	Service domain.Service
	Metrics *metrics.PropagationMetrics
}

type Worker struct {
	log      *zap.Logger
	service  domain.Service
	metrics  *metrics.PropagationMetrics
	interval time.Duration
}

func NewWorker(p WorkerParam) *Worker {
	interval := p.Cfg.Staleness.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Worker{
		log:      p.Log.Named("dashboard.staleness"),
		service:  p.Service,
		metrics:  p.Metrics,
		interval: interval,
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(ctx); err != nil {
			w.log.Warn("staleness poll failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	report, err := w.service.ComputeStaleness(ctx, 0)
	if err != nil {
		return err
	}
	w.metrics.SetStaleness(report.StaleSellers, report.StaleSubscriptions, report.ActiveSubscriptions)

	if report.StaleSellers > 0 {
		w.log.Warn("sellers with stale meals",
			zap.Int("stale_sellers", report.StaleSellers),
			zap.Int("stale_subscriptions", report.StaleSubscriptions),
		)
	}
	return nil
}
