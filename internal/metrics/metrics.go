// Package metrics exposes Prometheus instrumentation for the dashboard:
// tick throughput, symbol selections, M&A alerts and WebSocket fan-out.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ndrandal/stock-dashboard/internal/dashboard"
)

// Metrics holds all Prometheus collectors for the dashboard service.
type Metrics struct {
	// Dashboard metrics
	TicksTotal         prometheus.Counter // Ticks applied by the scheduler
	SymbolChangesTotal prometheus.Counter // Successful symbol selections
	MAAlertsTotal      prometheus.Counter // Ticks that carried an M&A alert
	WindowLength       prometheus.Gauge   // Samples held in the rolling window
	LastPrice          prometheus.Gauge   // Newest sample price

	// WebSocket metrics
	WSClients       prometheus.Gauge   // Connected viewers
	WSDroppedFrames prometheus.Counter // Frames dropped on full client buffers

	gatherer prometheus.Gatherer
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics on a custom registerer (useful for testing).
// If registerer also implements prometheus.Gatherer, Handler serves from it.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	m := &Metrics{
		TicksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_ticks_total",
			Help: "Total number of dashboard ticks applied",
		}),
		SymbolChangesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_symbol_changes_total",
			Help: "Total number of symbol selections",
		}),
		MAAlertsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_ma_alerts_total",
			Help: "Total number of ticks carrying an M&A news alert",
		}),
		WindowLength: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_window_length",
			Help: "Number of samples in the rolling window",
		}),
		LastPrice: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_last_price",
			Help: "Price of the newest sample",
		}),
		WSClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_ws_clients",
			Help: "Number of connected WebSocket clients",
		}),
		WSDroppedFrames: factory.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_ws_dropped_frames_total",
			Help: "Total number of frames dropped because a client buffer was full",
		}),
		gatherer: prometheus.DefaultGatherer,
	}
	if g, ok := registerer.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// Observe records a post-tick snapshot. Registered as a scheduler listener.
func (m *Metrics) Observe(s dashboard.Snapshot) {
	m.TicksTotal.Inc()
	m.WindowLength.Set(float64(len(s.MarketData)))
	if p, ok := s.LastPrice(); ok {
		m.LastPrice.Set(p)
	}
	if s.Volatility != nil && s.Volatility.HasMANews() {
		m.MAAlertsTotal.Inc()
	}
}

// SymbolChanged records a selection. Registered as a dashboard select hook.
func (m *Metrics) SymbolChanged(string) {
	m.SymbolChangesTotal.Inc()
}

// SetClients updates the connected client gauge.
func (m *Metrics) SetClients(n int) {
	m.WSClients.Set(float64(n))
}

// FrameDropped counts a frame lost to back-pressure.
func (m *Metrics) FrameDropped() {
	m.WSDroppedFrames.Inc()
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
