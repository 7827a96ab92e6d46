package service

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"trend_bot/internal/models"
)

func TestMetricsCounters(t *testing.T) {
	m := New()

	m.ObserveSignal(models.SideBuy)
	m.ObserveSignal(models.SideBuy)
	m.ObserveSignal(models.SideHold)
	m.ObserveOrder(models.SideBuy, models.OrderRejected)
	m.ObserveRefusal("notional limit")
	m.SetLong(true)

	if got := testutil.ToFloat64(m.Signals.WithLabelValues("BUY")); got != 2 {
		t.Fatalf("BUY signals: %v", got)
	}
	if got := testutil.ToFloat64(m.Orders.WithLabelValues("BUY", "rejected")); got != 1 {
		t.Fatalf("rejected orders: %v", got)
	}
	if got := testutil.ToFloat64(m.Refusals.WithLabelValues("notional limit")); got != 1 {
		t.Fatalf("refusals: %v", got)
	}
	if got := testutil.ToFloat64(m.Position); got != 1 {
		t.Fatalf("position gauge: %v", got)
	}
	m.SetLong(false)
	if got := testutil.ToFloat64(m.Position); got != 0 {
		t.Fatalf("position gauge after close: %v", got)
	}
}

func TestRegistryGathers(t *testing.T) {
	m := New()
	m.Ticks.Inc()
	if _, err := m.Registry.Gather(); err != nil {
		t.Fatalf("gather: %v", err)
	}
}
