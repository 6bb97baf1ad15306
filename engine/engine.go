// Package engine defines the boundary between the bar-driven host and the
// rule components. The host owns the simulation loop, order execution and
// the portfolio; components only observe snapshots and issue order intents
// back through OrderAPI.
package engine

import "time"

// PortfolioSnapshot is the read-only per-bar view supplied by the host.
type PortfolioSnapshot struct {
	Timestamp  time.Time
	TotalValue float64
}

// OrderHandle identifies an accepted order submission. A nil handle from
// any OrderAPI call means the submission was suppressed, not that it failed.
type OrderHandle struct {
	ID         string
	Instrument string
	Side       string // BUY/SELL/CLOSE
	Quantity   int
}

// OrderAPI is the order-intent surface the host exposes to components.
// Calls are fire-and-forget: execution and fill semantics stay host-side.
type OrderAPI interface {
	Buy(instrument string, qty int) *OrderHandle
	Sell(instrument string, qty int) *OrderHandle
	Close(instrument string) *OrderHandle
	CancelAllPending(instrument string)
}

// PositionSource reports current positions and portfolio value.
type PositionSource interface {
	Position(instrument string) int
	TotalValue() float64
	Instruments() []string
}

// BarHandler receives one callback per simulated bar, in chronological
// order. isSessionEnd marks the last bar of a trading session.
type BarHandler interface {
	OnBar(snap PortfolioSnapshot, isSessionEnd bool)
}

// TradeHandler receives realized P&L when the host closes a trade.
type TradeHandler interface {
	OnTradeClosed(day time.Time, pnl float64)
}

// TimerHandler receives session timer fires at the configured time of day.
type TimerHandler interface {
	OnTimer(id string, at time.Time)
}
