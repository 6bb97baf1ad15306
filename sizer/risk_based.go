package sizer

import (
	"math"

	"propfirm-go/economics"
	"propfirm-go/engine"
)

// RiskBasedConfig configures a RiskBased sizer. TickValue may be left zero
// when a Profile is attached; it is then auto-detected from the contract.
type RiskBasedConfig struct {
	RiskPerTrade float64
	StopTicks    int
	TickValue    float64
	Profile      *economics.Profile
}

// RiskBased sizes positions from a fixed dollar risk per trade:
//
//	size = floor(riskPerTrade / (stopTicks * tickValue))
type RiskBased struct {
	riskPerTrade float64
	stopTicks    int
	tickValue    float64
}

// NewRiskBased validates the config, resolving the tick value from the
// attached economics profile when not set explicitly. A missing tick value
// is a configuration error, never a silent zero.
func NewRiskBased(cfg RiskBasedConfig) (*RiskBased, error) {
	if cfg.RiskPerTrade <= 0 {
		return nil, engine.ConfigErrorf("sizer.riskbased", "riskPerTrade", "must be > 0, got %v", cfg.RiskPerTrade)
	}
	if cfg.StopTicks <= 0 {
		return nil, engine.ConfigErrorf("sizer.riskbased", "stopTicks", "must be > 0, got %d", cfg.StopTicks)
	}
	tickValue := cfg.TickValue
	if tickValue == 0 && cfg.Profile != nil {
		tickValue = cfg.Profile.TickValue()
	}
	if tickValue <= 0 {
		return nil, engine.ConfigErrorf("sizer.riskbased", "tickValue",
			"must be set explicitly or detectable from an attached economics profile")
	}
	return &RiskBased{
		riskPerTrade: cfg.RiskPerTrade,
		stopTicks:    cfg.StopTicks,
		tickValue:    tickValue,
	}, nil
}

// Size returns the contract count for the configured risk budget, clamped
// to be non-negative. Direction and current position do not change the
// risk math.
func (s *RiskBased) Size(Direction, int) int {
	size := int(math.Floor(s.riskPerTrade / (float64(s.stopTicks) * s.tickValue)))
	if size < 0 {
		return 0
	}
	return size
}
