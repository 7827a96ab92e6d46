package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"trend_bot/internal/models"
)

const namespace = "trend_bot"

// Metrics: счётчики торгового цикла на собственном реестре.
type Metrics struct {
	Registry *prometheus.Registry

	Ticks       prometheus.Counter
	TickErrors  *prometheus.CounterVec
	Signals     *prometheus.CounterVec
	Orders      *prometheus.CounterVec
	Refusals    *prometheus.CounterVec
	Position    prometheus.Gauge
	LastPrice   prometheus.Gauge
	RealizedPnL prometheus.Gauge
	TickSeconds prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "ticks_total",
			Help: "Completed loop iterations.",
		}),
		TickErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "tick_errors_total",
			Help: "Iterations aborted by an error, by stage.",
		}, []string{"stage"}),
		Signals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "signals_total",
			Help: "Classifier outputs.",
		}, []string{"side"}),
		Orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "orders_total",
			Help: "Market orders sent to the broker.",
		}, []string{"side", "status"}),
		Refusals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "order_refusals_total",
			Help: "Orders not sent because the sizer refused.",
		}, []string{"reason"}),
		Position: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "position_long",
			Help: "1 when the bot believes it holds a long position.",
		}),
		LastPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_price",
			Help: "Last observed price.",
		}),
		RealizedPnL: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "realized_pnl_rub",
			Help: "Estimated realized PnL since start, fees included.",
		}),
		TickSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "tick_duration_seconds",
			Help:    "Wall time of one iteration.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		m.Ticks, m.TickErrors, m.Signals, m.Orders, m.Refusals,
		m.Position, m.LastPrice, m.RealizedPnL, m.TickSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveSignal(side models.Side) {
	m.Signals.WithLabelValues(string(side)).Inc()
}

func (m *Metrics) ObserveOrder(side models.Side, status models.OrderStatus) {
	m.Orders.WithLabelValues(string(side), string(status)).Inc()
}

func (m *Metrics) ObserveRefusal(reason string) {
	m.Refusals.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveTickError(stage string) {
	m.TickErrors.WithLabelValues(stage).Inc()
}

func (m *Metrics) SetLong(long bool) {
	if long {
		m.Position.Set(1)
		return
	}
	m.Position.Set(0)
}
