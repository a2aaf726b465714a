package production_test

import (
	"context"
	"testing"

	"github.com/kestrelflow/eventchain/internal/model"
	"github.com/kestrelflow/eventchain/internal/production"
)

func TestMetricsDisabledIsSafeNoOp(t *testing.T) {
	m, err := production.NewMetrics(production.DefaultMetricsConfig())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	m.EventActivated("test", "noop")
	m.LifecycleTransition(model.RunModeStart)
	m.TimeWatcherTick()
	m.ChainClosed(12.5)

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestMetricsEnabledRecordsWithoutError(t *testing.T) {
	cfg := production.DefaultMetricsConfig()
	cfg.Enabled = true
	m, err := production.NewMetrics(cfg)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	defer m.Shutdown(context.Background())

	m.EventActivated("test", "noop")
	m.LifecycleTransition(model.RunModeEnd)
	m.TimeWatcherTick()
	m.ChainClosed(1.0)
}
