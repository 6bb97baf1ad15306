// Package monitor exposes prop-firm rule state as Prometheus metrics.
package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config for metric naming.
type Config struct {
	Namespace string
	Subsystem string
}

func DefaultConfig() Config {
	return Config{Namespace: "propfirm", Subsystem: "rules"}
}

// Monitor collects rule-state metrics on its own registry.
type Monitor struct {
	registry *prometheus.Registry

	portfolioValue  prometheus.Gauge
	hwm             prometheus.Gauge
	drawdown        prometheus.Gauge
	maxDrawdown     prometheus.Gauge
	trailingFrozen  prometheus.Gauge
	breaches        prometheus.Counter
	tradingHalted   prometheus.Gauge
	dailyPnl        prometheus.Gauge
	blockedOrders   prometheus.Counter
	ordersSubmitted *prometheus.CounterVec
	violations      prometheus.Gauge
	barsProcessed   prometheus.Counter
}

// New creates a Monitor with the given naming config.
func New(cfg Config) *Monitor {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem, Name: name, Help: help,
		})
	}
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem, Name: name, Help: help,
		})
	}

	return &Monitor{
		registry:       reg,
		portfolioValue: gauge("portfolio_value_dollars", "Current total portfolio value"),
		hwm:            gauge("hwm_dollars", "Effective high-water mark"),
		drawdown:       gauge("drawdown_dollars", "Current drawdown from the effective HWM"),
		maxDrawdown:    gauge("max_drawdown_dollars", "Largest drawdown seen"),
		trailingFrozen: gauge("trailing_frozen", "1 when the HWM is pinned at the trail-stop level"),
		breaches:       counter("drawdown_breaches_total", "New-worst drawdown breach events"),
		tradingHalted:  gauge("trading_halted", "1 while the daily loss breaker blocks trading"),
		dailyPnl:       gauge("daily_pnl_dollars", "Portfolio value change since day open"),
		blockedOrders:  counter("blocked_orders_total", "Order submissions suppressed by the daily loss breaker"),
		ordersSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
			Name: "orders_submitted_total", Help: "Accepted order submissions by side",
		}, []string{"side"}),
		violations:    gauge("consistency_violations", "Days currently above the consistency cap"),
		barsProcessed: counter("bars_total", "Bars processed"),
	}
}

// Registry returns the metric registry for exposition.
func (m *Monitor) Registry() *prometheus.Registry { return m.registry }

// Handler returns the /metrics HTTP handler.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr in a background goroutine.
func (m *Monitor) Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}

func (m *Monitor) ObserveBar(value, hwm, drawdown, maxDrawdown, dailyPnl float64, frozen bool) {
	m.barsProcessed.Inc()
	m.portfolioValue.Set(value)
	m.hwm.Set(hwm)
	m.drawdown.Set(drawdown)
	m.maxDrawdown.Set(maxDrawdown)
	m.dailyPnl.Set(dailyPnl)
	m.trailingFrozen.Set(boolGauge(frozen))
}

func (m *Monitor) IncBreach()            { m.breaches.Inc() }
func (m *Monitor) SetHalted(halted bool) { m.tradingHalted.Set(boolGauge(halted)) }
func (m *Monitor) IncBlockedOrder()      { m.blockedOrders.Inc() }
func (m *Monitor) IncOrder(side string)  { m.ordersSubmitted.WithLabelValues(side).Inc() }
func (m *Monitor) SetViolations(n int)   { m.violations.Set(float64(n)) }

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
