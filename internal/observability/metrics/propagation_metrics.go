// Package metrics exposes prometheus instruments for the propagation engine
// and the staleness dashboard.
package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config identifies the emitting service on every metric.
type Config struct {
	ServiceName string
	Environment string
}

// PropagationMetrics tracks meal edit fan-out outcomes.
type PropagationMetrics struct {
	passDuration      *prometheus.HistogramVec
	subscriptionsSeen *prometheus.CounterVec
	passes            *prometheus.CounterVec

	staleSellers        prometheus.Gauge
	staleSubscriptions  prometheus.Gauge
	activeSubscriptions prometheus.Gauge
}

var (
	propagationOnce    sync.Once
	propagationMetrics *PropagationMetrics
)

// Propagation returns the process-wide propagation metrics.
func Propagation() *PropagationMetrics {
	return PropagationWithConfig(Config{})
}

// PropagationWithConfig initializes the singleton with service labels.
func PropagationWithConfig(cfg Config) *PropagationMetrics {
	propagationOnce.Do(func() {
		propagationMetrics = newPropagationMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return propagationMetrics
}

// ResetPropagationMetricsForTest clears the singleton between tests.
func ResetPropagationMetricsForTest() {
	propagationOnce = sync.Once{}
	propagationMetrics = nil
}

func newPropagationMetrics(registerer prometheus.Registerer, cfg Config) *PropagationMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "mealgrid"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	passDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "mealgrid_propagation_pass_duration_seconds",
			Help: "Wall time of a single meal propagation pass.",
			Buckets: []float64{
				0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
			},
			ConstLabels: constLabels,
		},
		[]string{"scope"}, // legacy | morning | evening
	)

	subscriptionsSeen := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "mealgrid_propagation_subscriptions_total",
			Help:        "Subscriptions touched by propagation passes by outcome.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // updated | skipped | failed
	)

	passes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "mealgrid_propagation_passes_total",
			Help:        "Completed propagation passes by terminal state.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // clean | partial_failure
	)

	staleSellers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "mealgrid_stale_sellers_total",
		Help:        "Sellers with at least one active subscription missing a same-day meal.",
		ConstLabels: constLabels,
	})

	staleSubscriptions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "mealgrid_stale_subscriptions_total",
		Help:        "Active subscriptions without a same-day meal snapshot.",
		ConstLabels: constLabels,
	})

	activeSubscriptions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "mealgrid_active_subscriptions_total",
		Help:        "Active subscriptions observed by the staleness poller.",
		ConstLabels: constLabels,
	})

	registerer.MustRegister(
		passDuration,
		subscriptionsSeen,
		passes,
		staleSellers,
		staleSubscriptions,
		activeSubscriptions,
	)

	return &PropagationMetrics{
		passDuration:        passDuration,
		subscriptionsSeen:   subscriptionsSeen,
		passes:              passes,
		staleSellers:        staleSellers,
		staleSubscriptions:  staleSubscriptions,
		activeSubscriptions: activeSubscriptions,
	}
}

// ObservePass records the duration and outcome mix of a completed pass.
func (m *PropagationMetrics) ObservePass(scope string, duration time.Duration, updated, skipped, failed int) {
	if m == nil {
		return
	}
	m.passDuration.WithLabelValues(scope).Observe(duration.Seconds())
	m.subscriptionsSeen.WithLabelValues("updated").Add(float64(updated))
	m.subscriptionsSeen.WithLabelValues("skipped").Add(float64(skipped))
	m.subscriptionsSeen.WithLabelValues("failed").Add(float64(failed))

	result := "clean"
	if failed > 0 {
		result = "partial_failure"
	}
	m.passes.WithLabelValues(result).Inc()
}

// SetStaleness publishes the latest staleness snapshot.
func (m *PropagationMetrics) SetStaleness(staleSellers, staleSubscriptions, activeSubscriptions int) {
	if m == nil {
		return
	}
	m.staleSellers.Set(float64(staleSellers))
	m.staleSubscriptions.Set(float64(staleSubscriptions))
	m.activeSubscriptions.Set(float64(activeSubscriptions))
}
