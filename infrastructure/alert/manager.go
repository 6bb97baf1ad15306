// Package alert fans out rule events (drawdown breaches, daily halts,
// consistency violations) to human-facing channels, with throttling so a
// breach that persists across bars does not flood the output.
package alert

import (
	"fmt"
	"sync"
	"time"
)

// Level of an alert.
const (
	LevelInfo     = "INFO"
	LevelWarning  = "WARNING"
	LevelCritical = "CRITICAL"
)

// Alert is one rule event.
type Alert struct {
	Level     string
	Rule      string // drawdown, daily_loss, consistency, session_close
	Message   string
	Timestamp time.Time
	Fields    map[string]interface{}
}

// Channel delivers alerts somewhere.
type Channel interface {
	Send(alert Alert) error
	Name() string
}

// Clock abstracts time for throttle tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Throttler drops repeats of the same key inside the interval.
type Throttler struct {
	mu       sync.Mutex
	lastSent map[string]time.Time
	interval time.Duration
	clock    Clock
}

func NewThrottler(interval time.Duration) *Throttler {
	return &Throttler{
		lastSent: make(map[string]time.Time),
		interval: interval,
		clock:    realClock{},
	}
}

// WithClock replaces the clock; used by tests.
func (t *Throttler) WithClock(c Clock) *Throttler {
	t.clock = c
	return t
}

// Allow reports whether the key may fire now, recording it if so.
func (t *Throttler) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now()
	if last, ok := t.lastSent[key]; ok && now.Sub(last) < t.interval {
		return false
	}
	t.lastSent[key] = now
	return true
}

// Reset clears the throttle record for a key (e.g. after a day rollover).
func (t *Throttler) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.lastSent, key)
}

// Manager sends alerts to all channels, throttled per rule+level.
type Manager struct {
	mu       sync.RWMutex
	channels []Channel
	throttle *Throttler
}

func NewManager(throttleInterval time.Duration) *Manager {
	return &Manager{throttle: NewThrottler(throttleInterval)}
}

func (m *Manager) AddChannel(c Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels, c)
}

// Fire sends the alert unless its rule+level is throttled. Channel errors
// are collected, never fatal.
func (m *Manager) Fire(a Alert) []error {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	key := a.Rule + "/" + a.Level
	if !m.throttle.Allow(key) {
		return nil
	}

	m.mu.RLock()
	channels := make([]Channel, len(m.channels))
	copy(channels, m.channels)
	m.mu.RUnlock()

	var errs []error
	for _, ch := range channels {
		if err := ch.Send(a); err != nil {
			errs = append(errs, fmt.Errorf("channel %s: %w", ch.Name(), err))
		}
	}
	return errs
}
