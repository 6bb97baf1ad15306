// Package session flattens open positions at a configured time of day.
package session

import (
	"time"

	"propfirm-go/engine"
)

// CloseConfig configures a Closer.
type CloseConfig struct {
	CloseTime        TimeOfDay
	CancelOpenOrders bool
}

// TimeOfDay is a wall-clock time within a trading session.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Reached reports whether t's clock time is at or past the time of day.
func (d TimeOfDay) Reached(t time.Time) bool {
	h, m, _ := t.Clock()
	return h > d.Hour || (h == d.Hour && m >= d.Minute)
}

func (d TimeOfDay) valid() bool {
	return d.Hour >= 0 && d.Hour < 24 && d.Minute >= 0 && d.Minute < 60
}

// Closer cancels pending orders and market-closes every nonzero position
// when its session timer fires. Re-firing while flat is a no-op. It never
// touches sizing or drawdown state.
type Closer struct {
	cfg       CloseConfig
	orders    engine.OrderAPI
	positions engine.PositionSource
}

// NewCloser validates the config and returns a closer wired to the host.
func NewCloser(cfg CloseConfig, orders engine.OrderAPI, positions engine.PositionSource) (*Closer, error) {
	if !cfg.CloseTime.valid() {
		return nil, engine.ConfigErrorf("session.closer", "closeTime", "invalid time of day %02d:%02d", cfg.CloseTime.Hour, cfg.CloseTime.Minute)
	}
	if orders == nil {
		return nil, engine.ConfigErrorf("session.closer", "orders", "order API is required")
	}
	if positions == nil {
		return nil, engine.ConfigErrorf("session.closer", "positions", "position source is required")
	}
	return &Closer{cfg: cfg, orders: orders, positions: positions}, nil
}

// CloseTime returns the configured flatten time, for host timer setup.
func (c *Closer) CloseTime() TimeOfDay { return c.cfg.CloseTime }

// OnTimer handles the session-close fire.
func (c *Closer) OnTimer(_ string, _ time.Time) {
	for _, inst := range c.positions.Instruments() {
		if c.cfg.CancelOpenOrders {
			c.orders.CancelAllPending(inst)
		}
		if c.positions.Position(inst) != 0 {
			c.orders.Close(inst)
		}
	}
}
