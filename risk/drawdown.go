// Package risk implements the prop-firm rule monitors: trailing drawdown,
// daily loss halt and profit-consistency tracking. Monitors own their state
// exclusively and are driven by host callbacks; they never mutate engine
// state except through order intents.
package risk

import (
	"sync"
	"time"

	"propfirm-go/engine"
)

// TrailingMode controls when the high-water mark may advance.
type TrailingMode string

const (
	// TrailIntraday lets the HWM update on every bar.
	TrailIntraday TrailingMode = "intraday"
	// TrailEOD lets the HWM update only on session-end bars.
	TrailEOD TrailingMode = "eod"
)

// DrawdownConfig configures a TrailingDrawdownMonitor. A zero
// TrailStopThreshold disables freezing; a zero StartingBalance means
// auto-detect from the first snapshot.
type DrawdownConfig struct {
	MaxDrawdown        float64
	TrailingMode       TrailingMode
	TrailStopThreshold float64
	StartingBalance    float64
}

// Breach records one new-worst crossing of the drawdown limit.
type Breach struct {
	Timestamp time.Time
	Value     float64
	Drawdown  float64
	Hwm       float64
}

// DrawdownAnalysis is the read-only snapshot returned by Analysis.
type DrawdownAnalysis struct {
	Hwm             float64
	CurrentValue    float64
	CurrentDrawdown float64
	MaxDrawdown     float64
	Breached        bool
	BreachCount     int
	Breaches        []Breach
	TrailingFrozen  bool
	FrozenHwm       float64
}

// TrailingDrawdownMonitor tracks a high-water mark against portfolio value
// and records breaches of the configured trailing drawdown. It is
// observation only: breaching never halts trading.
//
// When a trail-stop threshold is configured, the HWM freezes permanently at
// startingBalance+threshold the first time the portfolio value reaches that
// level. The freeze pins the threshold level, not the actual peak, and in
// eod mode the freeze check still runs on every bar, independent of the
// session-end gating of ordinary HWM updates.
type TrailingDrawdownMonitor struct {
	cfg DrawdownConfig

	mu              sync.RWMutex
	started         bool
	startingBalance float64
	hwm             float64
	frozen          bool
	frozenHwm       float64
	currentValue    float64
	currentDD       float64
	maxSeen         float64
	breached        bool
	breaches        []Breach
}

// NewDrawdownMonitor validates the config and returns a monitor.
func NewDrawdownMonitor(cfg DrawdownConfig) (*TrailingDrawdownMonitor, error) {
	if cfg.MaxDrawdown <= 0 {
		return nil, engine.ConfigErrorf("risk.drawdown", "maxDrawdown", "must be > 0, got %v", cfg.MaxDrawdown)
	}
	if cfg.TrailingMode == "" {
		cfg.TrailingMode = TrailIntraday
	}
	if cfg.TrailingMode != TrailIntraday && cfg.TrailingMode != TrailEOD {
		return nil, engine.ConfigErrorf("risk.drawdown", "trailingMode", "must be intraday or eod, got %q", cfg.TrailingMode)
	}
	if cfg.TrailStopThreshold < 0 {
		return nil, engine.ConfigErrorf("risk.drawdown", "trailStopThreshold", "must be > 0 when set, got %v", cfg.TrailStopThreshold)
	}
	if cfg.StartingBalance < 0 {
		return nil, engine.ConfigErrorf("risk.drawdown", "startingBalance", "must be >= 0, got %v", cfg.StartingBalance)
	}
	return &TrailingDrawdownMonitor{cfg: cfg}, nil
}

// OnBar processes one portfolio snapshot. Bars must arrive in
// chronological order; isSessionEnd marks the last bar of a session.
func (m *TrailingDrawdownMonitor) OnBar(snap engine.PortfolioSnapshot, isSessionEnd bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value := snap.TotalValue
	if !m.started {
		m.started = true
		m.startingBalance = m.cfg.StartingBalance
		if m.startingBalance == 0 {
			m.startingBalance = value
		}
		m.hwm = value
	}

	// Ordinary HWM advance, gated by trailing mode.
	if !m.frozen && (m.cfg.TrailingMode == TrailIntraday || isSessionEnd) {
		if value > m.hwm {
			m.hwm = value
		}
	}

	// Freeze check is level-triggered on every bar, in both modes.
	if !m.frozen && m.cfg.TrailStopThreshold > 0 {
		target := m.startingBalance + m.cfg.TrailStopThreshold
		if value >= target {
			m.frozen = true
			m.frozenHwm = target
			m.hwm = target
		}
	}

	dd := m.effectiveHwm() - value
	if dd < 0 {
		dd = 0
	}
	m.currentValue = value
	m.currentDD = dd
	if dd > m.maxSeen {
		m.maxSeen = dd
	}

	if dd >= m.cfg.MaxDrawdown {
		// Record only the first breach and later new-worst crossings so
		// the breach list stays bounded and countable.
		if !m.breached || dd > m.breaches[len(m.breaches)-1].Drawdown {
			m.breaches = append(m.breaches, Breach{
				Timestamp: snap.Timestamp,
				Value:     value,
				Drawdown:  dd,
				Hwm:       m.effectiveHwm(),
			})
		}
		m.breached = true
	}
}

func (m *TrailingDrawdownMonitor) effectiveHwm() float64 {
	if m.frozen {
		return m.frozenHwm
	}
	return m.hwm
}

// CurrentDrawdown returns the drawdown in dollars from the effective HWM.
func (m *TrailingDrawdownMonitor) CurrentDrawdown() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentDD
}

// IsBreached reports whether the drawdown limit was ever exceeded.
func (m *TrailingDrawdownMonitor) IsBreached() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.breached
}

// TrailingFrozen reports whether the HWM has been pinned.
func (m *TrailingDrawdownMonitor) TrailingFrozen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frozen
}

// Analysis returns a copy of the full monitor state.
func (m *TrailingDrawdownMonitor) Analysis() DrawdownAnalysis {
	m.mu.RLock()
	defer m.mu.RUnlock()

	breaches := make([]Breach, len(m.breaches))
	copy(breaches, m.breaches)
	return DrawdownAnalysis{
		Hwm:             m.effectiveHwm(),
		CurrentValue:    m.currentValue,
		CurrentDrawdown: m.currentDD,
		MaxDrawdown:     m.maxSeen,
		Breached:        m.breached,
		BreachCount:     len(breaches),
		Breaches:        breaches,
		TrailingFrozen:  m.frozen,
		FrozenHwm:       m.frozenHwm,
	}
}

// Finish performs the final session-end HWM update for eod mode. Call once
// after the last bar of a run; intraday mode needs no finalization.
func (m *TrailingDrawdownMonitor) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg.TrailingMode != TrailEOD || !m.started {
		return
	}
	if !m.frozen && m.currentValue > m.hwm {
		m.hwm = m.currentValue
	}
	dd := m.effectiveHwm() - m.currentValue
	if dd < 0 {
		dd = 0
	}
	m.currentDD = dd
	if dd > m.maxSeen {
		m.maxSeen = dd
	}
}
