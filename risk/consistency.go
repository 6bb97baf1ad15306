package risk

import (
	"sort"
	"sync"
	"time"

	"propfirm-go/engine"
)

// DefaultMaxDayPct is the usual prop-firm consistency cap: no single day
// may contribute more than this share of total net profit.
const DefaultMaxDayPct = 40.0

// ConsistencyConfig configures a ConsistencyMonitor. A zero MaxDayPct means
// DefaultMaxDayPct.
type ConsistencyConfig struct {
	MaxDayPct float64
}

// DayPnl is one day's realized P&L and its share of net profit.
type DayPnl struct {
	Date time.Time
	Pnl  float64
	Pct  float64
}

// ConsistencyAnalysis is the read-only snapshot returned by Analysis.
type ConsistencyAnalysis struct {
	DailyPnl    map[time.Time]float64
	NetPnl      float64
	TotalProfit float64
	TotalLoss   float64
	MaxDayPct   float64
	BestDay     *DayPnl
	Violations  []DayPnl
	Consistent  bool
}

// ConsistencyMonitor aggregates realized P&L per trading day and flags days
// whose profit exceeds MaxDayPct percent of total net profit. The check is
// only defined for a net-profitable account: at or below break-even the
// account is always reported consistent.
type ConsistencyMonitor struct {
	cfg ConsistencyConfig

	mu       sync.RWMutex
	dailyPnl map[time.Time]float64
}

// NewConsistencyMonitor validates the config and returns a monitor.
func NewConsistencyMonitor(cfg ConsistencyConfig) (*ConsistencyMonitor, error) {
	if cfg.MaxDayPct == 0 {
		cfg.MaxDayPct = DefaultMaxDayPct
	}
	if cfg.MaxDayPct < 0 || cfg.MaxDayPct > 100 {
		return nil, engine.ConfigErrorf("risk.consistency", "maxDayPct", "must be 0 (default) or in (0, 100], got %v", cfg.MaxDayPct)
	}
	return &ConsistencyMonitor{
		cfg:      cfg,
		dailyPnl: make(map[time.Time]float64),
	}, nil
}

// OnTradeClosed accumulates one closed trade's net P&L into its day bucket.
func (m *ConsistencyMonitor) OnTradeClosed(day time.Time, pnl float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dailyPnl[dateOf(day)] += pnl
}

// Analysis computes totals, the best day and any consistency violations.
func (m *ConsistencyMonitor) Analysis() ConsistencyAnalysis {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a := ConsistencyAnalysis{
		DailyPnl:   make(map[time.Time]float64, len(m.dailyPnl)),
		MaxDayPct:  m.cfg.MaxDayPct,
		Consistent: true,
	}
	if len(m.dailyPnl) == 0 {
		return a
	}

	days := make([]time.Time, 0, len(m.dailyPnl))
	for d, pnl := range m.dailyPnl {
		a.DailyPnl[d] = pnl
		a.NetPnl += pnl
		if pnl > 0 {
			a.TotalProfit += pnl
		} else {
			a.TotalLoss += pnl
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	best := days[0]
	for _, d := range days[1:] {
		if m.dailyPnl[d] > m.dailyPnl[best] {
			best = d
		}
	}
	bestPct := 0.0
	if a.NetPnl > 0 {
		bestPct = 100.0 * m.dailyPnl[best] / a.NetPnl
	}
	a.BestDay = &DayPnl{Date: best, Pnl: m.dailyPnl[best], Pct: bestPct}

	// A net-losing account has no defined consistency ratio.
	if a.NetPnl > 0 {
		for _, d := range days {
			pnl := m.dailyPnl[d]
			if pnl <= 0 {
				continue
			}
			pct := 100.0 * pnl / a.NetPnl
			if pct > m.cfg.MaxDayPct {
				a.Violations = append(a.Violations, DayPnl{Date: d, Pnl: pnl, Pct: pct})
			}
		}
		a.Consistent = len(a.Violations) == 0
	}
	return a
}
