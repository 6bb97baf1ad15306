// Package sizer provides position-size decisions for order submission.
// Sizers are stateless per call: they read the current position and return
// a clamped, non-negative contract count.
package sizer

import "propfirm-go/engine"

// Direction of the order being sized.
type Direction string

const (
	Buy  Direction = "buy"
	Sell Direction = "sell"
)

// CappedConfig configures a Capped sizer.
type CappedConfig struct {
	MaxContracts int
	Stake        int
}

// Capped returns Stake contracts per order but never lets the resulting
// position exceed MaxContracts in either direction. Orders that move the
// position toward flat are always permitted up to Stake.
type Capped struct {
	cfg CappedConfig
}

// NewCapped validates the config and returns a sizer.
func NewCapped(cfg CappedConfig) (*Capped, error) {
	if cfg.MaxContracts <= 0 {
		return nil, engine.ConfigErrorf("sizer.capped", "maxContracts", "must be > 0, got %d", cfg.MaxContracts)
	}
	if cfg.Stake <= 0 {
		return nil, engine.ConfigErrorf("sizer.capped", "stake", "must be > 0, got %d", cfg.Stake)
	}
	return &Capped{cfg: cfg}, nil
}

// Size returns the quantity to submit for the given direction and signed
// current position. The result is always in [0, Stake].
func (s *Capped) Size(dir Direction, currentPosition int) int {
	roomFor := func(room int) int {
		if room < 0 {
			room = 0
		}
		if room < s.cfg.Stake {
			return room
		}
		return s.cfg.Stake
	}
	if dir == Buy {
		return roomFor(s.cfg.MaxContracts - currentPosition)
	}
	return roomFor(s.cfg.MaxContracts + currentPosition)
}
