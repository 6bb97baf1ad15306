package risk

import (
	"sync"
	"time"

	"propfirm-go/engine"
)

// DailyLossConfig configures a DailyLossBreaker.
type DailyLossConfig struct {
	DailyLossLimit   float64
	CancelOpenOrders bool
}

// DailyLossBreaker halts trading for the rest of the day once the portfolio
// value has dropped DailyLossLimit dollars below its value at the day open.
//
// Two states: Active and Blocked. Blocked is terminal for the trading day;
// the only way back to Active is the day-boundary reset on the first bar of
// the next day. On the Active->Blocked transition the breaker cancels
// pending orders (when configured) and flattens every open position.
//
// Order submissions are suppressed, not rejected: the wrapped OrderAPI from
// Orders() returns nil handles while blocked. Close and cancel pass through
// so the breaker's own flatten (and anything reducing exposure) still works.
type DailyLossBreaker struct {
	cfg       DailyLossConfig
	orders    engine.OrderAPI
	positions engine.PositionSource

	mu       sync.RWMutex
	started  bool
	prevDay  time.Time
	dayStart float64
	blocked  bool
}

// NewDailyLossBreaker validates the config and returns a breaker wired to
// the host order API and position source.
func NewDailyLossBreaker(cfg DailyLossConfig, orders engine.OrderAPI, positions engine.PositionSource) (*DailyLossBreaker, error) {
	if cfg.DailyLossLimit <= 0 {
		return nil, engine.ConfigErrorf("risk.dailyloss", "dailyLossLimit", "must be > 0, got %v", cfg.DailyLossLimit)
	}
	if orders == nil {
		return nil, engine.ConfigErrorf("risk.dailyloss", "orders", "order API is required")
	}
	if positions == nil {
		return nil, engine.ConfigErrorf("risk.dailyloss", "positions", "position source is required")
	}
	return &DailyLossBreaker{cfg: cfg, orders: orders, positions: positions}, nil
}

// OnBar processes one portfolio snapshot in chronological order.
func (b *DailyLossBreaker) OnBar(snap engine.PortfolioSnapshot, _ bool) {
	b.mu.Lock()

	day := dateOf(snap.Timestamp)
	if !b.started {
		b.started = true
		b.prevDay = day
		b.dayStart = snap.TotalValue
	} else if !day.Equal(b.prevDay) {
		// New trading day: unblock and rebase.
		b.prevDay = day
		b.dayStart = snap.TotalValue
		b.blocked = false
	}

	trip := !b.blocked && b.dayStart-snap.TotalValue >= b.cfg.DailyLossLimit
	if trip {
		b.blocked = true
	}
	b.mu.Unlock()

	if trip {
		// Issue order intents outside the lock; the wrapped API re-reads
		// the blocked flag.
		for _, inst := range b.positions.Instruments() {
			if b.cfg.CancelOpenOrders {
				b.orders.CancelAllPending(inst)
			}
			if b.positions.Position(inst) != 0 {
				b.orders.Close(inst)
			}
		}
	}
}

// TradingBlocked reports whether the breaker has halted the current day.
func (b *DailyLossBreaker) TradingBlocked() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.blocked
}

// DayStartValue returns the portfolio value at the current day open.
func (b *DailyLossBreaker) DayStartValue() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dayStart
}

// Orders returns the host order API gated by this breaker: Buy and Sell
// are no-ops returning nil while blocked.
func (b *DailyLossBreaker) Orders() engine.OrderAPI {
	return gatedOrders{breaker: b}
}

type gatedOrders struct {
	breaker *DailyLossBreaker
}

func (g gatedOrders) Buy(instrument string, qty int) *engine.OrderHandle {
	if g.breaker.TradingBlocked() {
		return nil
	}
	return g.breaker.orders.Buy(instrument, qty)
}

func (g gatedOrders) Sell(instrument string, qty int) *engine.OrderHandle {
	if g.breaker.TradingBlocked() {
		return nil
	}
	return g.breaker.orders.Sell(instrument, qty)
}

func (g gatedOrders) Close(instrument string) *engine.OrderHandle {
	return g.breaker.orders.Close(instrument)
}

func (g gatedOrders) CancelAllPending(instrument string) {
	g.breaker.orders.CancelAllPending(instrument)
}

// dateOf strips the time-of-day component, keeping the location so day
// boundaries follow the feed's timezone.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
