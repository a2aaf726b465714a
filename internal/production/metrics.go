package production

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kestrelflow/eventchain/internal/model"
)

// MetricsConfig controls whether OpenTelemetry metrics collection is active.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active. Default: false (no-op).
	Enabled     bool
	ServiceName string
}

// DefaultMetricsConfig returns a config with metrics disabled.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{Enabled: false, ServiceName: "eventchain"}
}

// Metrics implements core.MetricsRecorder on top of OpenTelemetry, exporting
// to stdout when enabled (swap the reader for an OTLP one in a real
// deployment; the instrument set stays the same).
type Metrics struct {
	meterProvider *sdkmetric.MeterProvider
	shutdown      func(context.Context) error

	activations metric.Int64Counter
	transitions metric.Int64Counter
	ticks       metric.Int64Counter
	chainCloses metric.Float64Histogram
}

// NewMetrics creates a Metrics instance. When cfg.Enabled is false, every
// instrument is a genuine no-op meter (the OTel SDK's own behavior for an
// unconfigured MeterProvider), so callers never need to branch on Enabled.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	m := &Metrics{}

	if !cfg.Enabled {
		m.meterProvider = sdkmetric.NewMeterProvider()
		m.shutdown = func(context.Context) error { return nil }
	} else {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("create stdout metrics exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
		m.meterProvider = mp
		m.shutdown = mp.Shutdown
	}

	meter := m.meterProvider.Meter(cfg.ServiceName)
	var err error

	m.activations, err = meter.Int64Counter("eventchain.events.activated",
		metric.WithDescription("Count of events transitioning add -> start"))
	if err != nil {
		return nil, fmt.Errorf("create activations counter: %w", err)
	}

	m.transitions, err = meter.Int64Counter("eventchain.lifecycle.transitions",
		metric.WithDescription("Count of lifecycle run-mode transitions"))
	if err != nil {
		return nil, fmt.Errorf("create transitions counter: %w", err)
	}

	m.ticks, err = meter.Int64Counter("eventchain.timewatcher.ticks",
		metric.WithDescription("Count of Engine.Tick calls"))
	if err != nil {
		return nil, fmt.Errorf("create ticks counter: %w", err)
	}

	m.chainCloses, err = meter.Float64Histogram("eventchain.chain.duration_ms",
		metric.WithDescription("Wall-clock duration of a drained chain"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("create chain duration histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) EventActivated(group, name string) {
	m.activations.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("group", group),
		attribute.String("name", name),
	))
}

func (m *Metrics) LifecycleTransition(mode model.RunMode) {
	m.transitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("mode", string(mode)),
	))
}

func (m *Metrics) TimeWatcherTick() {
	m.ticks.Add(context.Background(), 1)
}

func (m *Metrics) ChainClosed(durationMS float64) {
	m.chainCloses.Record(context.Background(), durationMS)
}

// Shutdown flushes and releases the underlying meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.shutdown(ctx)
}
