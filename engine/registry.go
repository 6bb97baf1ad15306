package engine

import "time"

// Registry holds the ordered list of registered handlers. The host invokes
// them in registration order, one bar at a time; there is no implicit
// chaining between handlers and no dependence on type ancestry.
type Registry struct {
	bars   []BarHandler
	trades []TradeHandler
	timers []TimerHandler
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) RegisterBar(h BarHandler) {
	if h != nil {
		r.bars = append(r.bars, h)
	}
}

func (r *Registry) RegisterTrade(h TradeHandler) {
	if h != nil {
		r.trades = append(r.trades, h)
	}
}

func (r *Registry) RegisterTimer(h TimerHandler) {
	if h != nil {
		r.timers = append(r.timers, h)
	}
}

// DispatchBar delivers one bar to every BarHandler in registration order.
func (r *Registry) DispatchBar(snap PortfolioSnapshot, isSessionEnd bool) {
	for _, h := range r.bars {
		h.OnBar(snap, isSessionEnd)
	}
}

// DispatchTrade delivers a closed-trade event in registration order.
func (r *Registry) DispatchTrade(day time.Time, pnl float64) {
	for _, h := range r.trades {
		h.OnTradeClosed(day, pnl)
	}
}

// DispatchTimer delivers a timer fire in registration order.
func (r *Registry) DispatchTimer(id string, at time.Time) {
	for _, h := range r.timers {
		h.OnTimer(id, at)
	}
}

// BarHandlers returns the registered bar handlers (copy).
func (r *Registry) BarHandlers() []BarHandler {
	out := make([]BarHandler, len(r.bars))
	copy(out, r.bars)
	return out
}
