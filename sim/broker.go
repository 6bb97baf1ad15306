// Package sim is the in-memory bar-driven host used for backtests and
// integration tests. It owns execution and the portfolio; rule components
// only observe snapshots and submit intents through the OrderAPI.
package sim

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"propfirm-go/economics"
	"propfirm-go/engine"
	"propfirm-go/market"
	"propfirm-go/order"
)

// Broker simulates execution for one or more futures instruments. Market
// orders are queued and fill at the next bar's open, matching the
// one-bar-later semantics of the reference engine. Commission is charged
// per contract per side through the instrument's economics profile.
type Broker struct {
	mu       sync.RWMutex
	profiles map[string]economics.Profile
	cash     float64
	prices   map[string]float64
	now      time.Time
	book     *order.Book
	pending  []pendingOrder
	pos      map[string]*position
	log      *zap.Logger

	// onTradeClosed fires when a position returns to flat, with the
	// round trip's net P&L (commissions included).
	onTradeClosed func(at time.Time, pnl float64)
}

type pendingOrder struct {
	id         string
	instrument string
	qty        int // signed; 0 means flatten
	isClose    bool
}

type position struct {
	qty      int
	avgEntry float64
	tradePnl float64
}

// NewBroker creates a broker with a starting cash balance and one tradable
// instrument.
func NewBroker(profile economics.Profile, startingBalance float64, log *zap.Logger) *Broker {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Broker{
		profiles: map[string]economics.Profile{profile.Symbol(): profile},
		cash:     startingBalance,
		prices:   make(map[string]float64),
		book:     order.NewBook(),
		pos:      make(map[string]*position),
		log:      log,
	}
	return b
}

// AddInstrument makes another contract tradable.
func (b *Broker) AddInstrument(profile economics.Profile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profiles[profile.Symbol()] = profile
}

// SetTradeClosedFunc installs the trade-close callback.
func (b *Broker) SetTradeClosedFunc(fn func(at time.Time, pnl float64)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onTradeClosed = fn
}

// Book exposes the order book for inspection.
func (b *Broker) Book() *order.Book { return b.book }

// OnBar fills the queued orders at the bar's open, then marks positions to
// the bar's close.
func (b *Broker) OnBar(instrument string, bar market.Bar) {
	b.mu.Lock()
	b.now = bar.Time

	queue := b.pending
	b.pending = nil
	type closedTrade struct {
		at  time.Time
		pnl float64
	}
	var closed []closedTrade
	for _, po := range queue {
		if po.instrument != instrument {
			b.pending = append(b.pending, po) // other instruments wait for their bar
			continue
		}
		qty := po.qty
		if po.isClose {
			qty = -b.position(po.instrument).qty
		}
		if qty == 0 {
			b.book.MarkFilled(po.id) // close of an already flat position
			continue
		}
		if pnl, done := b.fill(po.instrument, qty, bar.Open); done {
			closed = append(closed, closedTrade{at: bar.Time, pnl: pnl})
		}
		b.book.MarkFilled(po.id)
		b.log.Debug("order filled",
			zap.String("instrument", po.instrument),
			zap.Int("qty", qty),
			zap.Float64("price", bar.Open))
	}

	b.prices[instrument] = bar.Close
	cb := b.onTradeClosed
	b.mu.Unlock()

	if cb != nil {
		for _, c := range closed {
			cb(c.at, c.pnl)
		}
	}
}

// fill applies a signed fill, returning the round trip P&L when the
// position returns to flat. Caller holds the lock.
func (b *Broker) fill(instrument string, qty int, price float64) (pnl float64, closedTrade bool) {
	profile := b.profiles[instrument]
	p := b.position(instrument)

	commission := profile.Commission() * float64(abs(qty))
	b.cash -= commission
	p.tradePnl -= commission

	switch {
	case p.qty == 0 || sameSign(p.qty, qty):
		// Opening or extending: weighted average entry.
		total := p.avgEntry*float64(abs(p.qty)) + price*float64(abs(qty))
		p.qty += qty
		p.avgEntry = total / float64(abs(p.qty))
	default:
		closing := abs(qty)
		if closing > abs(p.qty) {
			closing = abs(p.qty)
		}
		direction := sign(p.qty)
		realized := profile.PnL(p.avgEntry, price, direction*closing)
		b.cash += realized
		p.tradePnl += realized
		p.qty += qty

		if sameSign(p.qty, qty) {
			// Reversal: remainder opens a fresh position.
			p.avgEntry = price
		}
		if p.qty == 0 || sameSign(p.qty, qty) {
			pnl = p.tradePnl
			closedTrade = true
			p.tradePnl = 0
			if sameSign(p.qty, qty) {
				// Commission for the reopening leg belongs to the new trade.
				reopen := profile.Commission() * float64(abs(p.qty))
				pnl += reopen
				p.tradePnl = -reopen
			}
		}
	}
	if p.qty == 0 {
		p.avgEntry = 0
	}
	return pnl, closedTrade
}

func (b *Broker) position(instrument string) *position {
	p, ok := b.pos[instrument]
	if !ok {
		p = &position{}
		b.pos[instrument] = p
	}
	return p
}

// Buy queues a market buy. Returns nil for a non-positive quantity or an
// unknown instrument.
func (b *Broker) Buy(instrument string, qty int) *engine.OrderHandle {
	return b.submit(instrument, qty, order.SideBuy)
}

// Sell queues a market sell.
func (b *Broker) Sell(instrument string, qty int) *engine.OrderHandle {
	return b.submit(instrument, -qty, order.SideSell)
}

func (b *Broker) submit(instrument string, signedQty int, side order.Side) *engine.OrderHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	if signedQty == 0 || (side == order.SideBuy && signedQty < 0) || (side == order.SideSell && signedQty > 0) {
		return nil
	}
	if _, ok := b.profiles[instrument]; !ok {
		return nil
	}
	id := order.NewID()
	b.book.Set(order.Order{
		ID:         id,
		Instrument: instrument,
		Side:       side,
		Quantity:   abs(signedQty),
		Status:     order.StatusNew,
	})
	b.pending = append(b.pending, pendingOrder{id: id, instrument: instrument, qty: signedQty})
	return &engine.OrderHandle{ID: id, Instrument: instrument, Side: string(side), Quantity: abs(signedQty)}
}

// Close queues a flatten of the instrument's position, sized at fill time.
func (b *Broker) Close(instrument string) *engine.OrderHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.profiles[instrument]; !ok {
		return nil
	}
	id := order.NewID()
	side := order.SideSell
	if b.position(instrument).qty < 0 {
		side = order.SideBuy
	}
	b.book.Set(order.Order{
		ID:         id,
		Instrument: instrument,
		Side:       side,
		Quantity:   abs(b.position(instrument).qty),
		Status:     order.StatusNew,
	})
	b.pending = append(b.pending, pendingOrder{id: id, instrument: instrument, isClose: true})
	return &engine.OrderHandle{ID: id, Instrument: instrument, Side: "CLOSE"}
}

// CancelAllPending drops every queued order for the instrument.
func (b *Broker) CancelAllPending(instrument string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.pending[:0]
	for _, po := range b.pending {
		if po.instrument == instrument {
			continue
		}
		kept = append(kept, po)
	}
	b.pending = kept
	b.book.CancelPending(instrument)
}

// Position returns the signed contract count.
func (b *Broker) Position(instrument string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if p, ok := b.pos[instrument]; ok {
		return p.qty
	}
	return 0
}

// TotalValue is cash plus unrealized P&L at the latest marks.
func (b *Broker) TotalValue() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	value := b.cash
	for inst, p := range b.pos {
		if p.qty == 0 {
			continue
		}
		value += b.profiles[inst].PnL(p.avgEntry, b.prices[inst], p.qty)
	}
	return value
}

// Cash returns the realized balance.
func (b *Broker) Cash() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cash
}

// Instruments lists the tradable contracts.
func (b *Broker) Instruments() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.profiles))
	for s := range b.profiles {
		out = append(out, s)
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func sameSign(a, b int) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}
