package sim

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"propfirm-go/engine"
	"propfirm-go/infrastructure/alert"
	"propfirm-go/market"
	"propfirm-go/monitor"
	"propfirm-go/order"
	"propfirm-go/risk"
	"propfirm-go/session"
	"propfirm-go/strategy"
)

// Runner drives a bar series through the broker, the registered rule
// components and the strategy, in that order, once per bar.
type Runner struct {
	instrument string
	broker     *Broker
	registry   *engine.Registry
	strat      strategy.Strategy
	szr        strategy.Sizer

	drawdown    *risk.TrailingDrawdownMonitor
	breaker     *risk.DailyLossBreaker
	consistency *risk.ConsistencyMonitor
	closer      *session.Closer

	metrics *monitor.Monitor
	alerts  *alert.Manager
	log     *zap.Logger

	orders   *countingOrders
	firedDay time.Time
}

// Result is the run summary.
type Result struct {
	Bars            int
	StartingValue   float64
	FinalValue      float64
	NetPnl          float64
	OrdersSubmitted int
	OrdersBlocked   int
	TradingBlocked  bool
	Drawdown        risk.DrawdownAnalysis
	Consistency     risk.ConsistencyAnalysis
}

// RunnerOptions collects the pieces a Runner is assembled from. Broker,
// Registry, Drawdown and Strategy are required; the rest are optional.
type RunnerOptions struct {
	Instrument  string
	Broker      *Broker
	Registry    *engine.Registry
	Strategy    strategy.Strategy
	Sizer       strategy.Sizer
	Drawdown    *risk.TrailingDrawdownMonitor
	Breaker     *risk.DailyLossBreaker
	Consistency *risk.ConsistencyMonitor
	Closer      *session.Closer
	Metrics     *monitor.Monitor
	Alerts      *alert.Manager
	Logger      *zap.Logger
}

// NewRunner wires the components into the registry and returns a Runner.
// The strategy's orders go through the breaker's gate when a breaker is
// present, so a blocked day suppresses new entries but not flattens.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	switch {
	case opts.Broker == nil:
		return nil, fmt.Errorf("sim: broker is required")
	case opts.Registry == nil:
		return nil, fmt.Errorf("sim: registry is required")
	case opts.Drawdown == nil:
		return nil, fmt.Errorf("sim: drawdown monitor is required")
	case opts.Strategy == nil:
		return nil, fmt.Errorf("sim: strategy is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := &Runner{
		instrument:  opts.Instrument,
		broker:      opts.Broker,
		registry:    opts.Registry,
		strat:       opts.Strategy,
		szr:         opts.Sizer,
		drawdown:    opts.Drawdown,
		breaker:     opts.Breaker,
		consistency: opts.Consistency,
		closer:      opts.Closer,
		metrics:     opts.Metrics,
		alerts:      opts.Alerts,
		log:         log,
	}

	// The breaker runs before the drawdown monitor so a day-boundary
	// reset is visible within the same bar.
	if r.breaker != nil {
		r.registry.RegisterBar(r.breaker)
	}
	r.registry.RegisterBar(r.drawdown)
	if r.consistency != nil {
		r.registry.RegisterTrade(r.consistency)
	}
	if r.closer != nil {
		r.registry.RegisterTimer(r.closer)
	}
	r.broker.SetTradeClosedFunc(func(at time.Time, pnl float64) {
		r.registry.DispatchTrade(at, pnl)
	})

	var strategyOrders engine.OrderAPI = r.broker
	if r.breaker != nil {
		strategyOrders = r.breaker.Orders()
	}
	r.orders = &countingOrders{inner: strategyOrders, metrics: r.metrics, log: log}
	return r, nil
}

// Broker exposes the broker for inspection.
func (r *Runner) Broker() *Broker { return r.broker }

// Metrics returns the monitor, nil when metrics are disabled.
func (r *Runner) Metrics() *monitor.Monitor { return r.metrics }

// Run replays the bars in order and returns the summary. Bars must be
// chronological; market.LoadCSV already guarantees that.
func (r *Runner) Run(bars []market.Bar) (Result, error) {
	if len(bars) == 0 {
		return Result{}, fmt.Errorf("sim: no bars to run")
	}

	ends := market.SessionEnds(bars)
	start := r.broker.TotalValue()
	prevBreaches := 0
	prevBlocked := false

	for i, bar := range bars {
		r.broker.OnBar(r.instrument, bar)

		snap := engine.PortfolioSnapshot{Timestamp: bar.Time, TotalValue: r.broker.TotalValue()}
		r.registry.DispatchBar(snap, ends[i])

		if r.closer != nil && r.closer.CloseTime().Reached(bar.Time) {
			day := truncateDay(bar.Time)
			if !day.Equal(r.firedDay) {
				r.firedDay = day
				r.registry.DispatchTimer("session-close", bar.Time)
			}
		}

		r.strat.OnBar(bar, strategy.Context{
			Instrument: r.instrument,
			Orders:     r.orders,
			Positions:  r.broker,
			Sizer:      r.szr,
		})

		prevBreaches, prevBlocked = r.observe(snap, prevBreaches, prevBlocked)
	}

	r.drawdown.Finish()

	res := Result{
		Bars:            len(bars),
		StartingValue:   start,
		FinalValue:      r.broker.TotalValue(),
		OrdersSubmitted: r.orders.Submitted(),
		OrdersBlocked:   r.orders.Blocked(),
		Drawdown:        r.drawdown.Analysis(),
	}
	res.NetPnl = res.FinalValue - res.StartingValue
	if r.breaker != nil {
		res.TradingBlocked = r.breaker.TradingBlocked()
	}
	if r.consistency != nil {
		res.Consistency = r.consistency.Analysis()
		if r.metrics != nil {
			r.metrics.SetViolations(len(res.Consistency.Violations))
		}
		if !res.Consistency.Consistent {
			r.fireAlert("consistency", alert.LevelWarning,
				fmt.Sprintf("%d day(s) above %.0f%% of net profit", len(res.Consistency.Violations), res.Consistency.MaxDayPct),
				nil, bars[len(bars)-1].Time)
		}
	}
	return res, nil
}

// observe pushes per-bar state to metrics and fires alerts on rule
// transitions.
func (r *Runner) observe(snap engine.PortfolioSnapshot, prevBreaches int, prevBlocked bool) (int, bool) {
	da := r.drawdown.Analysis()

	if r.metrics != nil {
		dailyPnl := 0.0
		if r.breaker != nil {
			dailyPnl = snap.TotalValue - r.breaker.DayStartValue()
		}
		r.metrics.ObserveBar(snap.TotalValue, da.Hwm, da.CurrentDrawdown, da.MaxDrawdown, dailyPnl, da.TrailingFrozen)
		for n := prevBreaches; n < da.BreachCount; n++ {
			r.metrics.IncBreach()
		}
	}

	blocked := false
	if r.breaker != nil {
		blocked = r.breaker.TradingBlocked()
	}
	if r.metrics != nil && blocked != prevBlocked {
		r.metrics.SetHalted(blocked)
	}

	if da.BreachCount > prevBreaches {
		last := da.Breaches[len(da.Breaches)-1]
		r.log.Warn("trailing drawdown breached",
			zap.Float64("drawdown", last.Drawdown),
			zap.Float64("value", last.Value),
			zap.Float64("hwm", last.Hwm))
		r.fireAlert("drawdown", alert.LevelCritical,
			fmt.Sprintf("trailing drawdown breached, new worst %.2f", last.Drawdown),
			map[string]interface{}{"hwm": last.Hwm, "value": last.Value}, snap.Timestamp)
	}
	if blocked && !prevBlocked {
		r.log.Warn("daily loss limit hit, trading halted for the day",
			zap.Float64("value", snap.TotalValue))
		r.fireAlert("daily_loss", alert.LevelWarning,
			"daily loss limit hit, new entries blocked until next session",
			nil, snap.Timestamp)
	}
	if !blocked && prevBlocked {
		r.log.Info("new session, trading unblocked")
	}

	return da.BreachCount, blocked
}

func (r *Runner) fireAlert(rule, level, msg string, fields map[string]interface{}, at time.Time) {
	if r.alerts == nil {
		return
	}
	errs := r.alerts.Fire(alert.Alert{
		Level:     level,
		Rule:      rule,
		Message:   msg,
		Timestamp: at,
		Fields:    fields,
	})
	for _, err := range errs {
		r.log.Warn("alert delivery failed", zap.Error(err))
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// countingOrders wraps the strategy-facing OrderAPI, counting accepted and
// suppressed submissions.
type countingOrders struct {
	inner     engine.OrderAPI
	metrics   *monitor.Monitor
	log       *zap.Logger
	submitted int
	blocked   int
}

func (c *countingOrders) Buy(instrument string, qty int) *engine.OrderHandle {
	return c.record(c.inner.Buy(instrument, qty), string(order.SideBuy), instrument, qty)
}

func (c *countingOrders) Sell(instrument string, qty int) *engine.OrderHandle {
	return c.record(c.inner.Sell(instrument, qty), string(order.SideSell), instrument, qty)
}

func (c *countingOrders) Close(instrument string) *engine.OrderHandle {
	return c.inner.Close(instrument)
}

func (c *countingOrders) CancelAllPending(instrument string) {
	c.inner.CancelAllPending(instrument)
}

func (c *countingOrders) record(h *engine.OrderHandle, side, instrument string, qty int) *engine.OrderHandle {
	if h == nil {
		c.blocked++
		if c.metrics != nil {
			c.metrics.IncBlockedOrder()
		}
		c.log.Debug("order suppressed",
			zap.String("side", side),
			zap.String("instrument", instrument),
			zap.Int("qty", qty))
		return nil
	}
	c.submitted++
	if c.metrics != nil {
		c.metrics.IncOrder(side)
	}
	return h
}

func (c *countingOrders) Submitted() int { return c.submitted }
func (c *countingOrders) Blocked() int   { return c.blocked }
