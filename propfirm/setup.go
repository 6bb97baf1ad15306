// Package propfirm wires the standard prop-firm rule kit in one call.
package propfirm

import (
	"propfirm-go/economics"
	"propfirm-go/engine"
	"propfirm-go/risk"
	"propfirm-go/sizer"
)

// SetupConfig is the one-call account configuration.
type SetupConfig struct {
	Instrument         string
	StartingBalance    float64
	MaxDrawdown        float64
	TrailingMode       risk.TrailingMode
	TrailStopThreshold float64
	MaxContracts       int
	Stake              int
}

// Kit holds the components Setup wired together.
type Kit struct {
	Profile  economics.Profile
	Drawdown *risk.TrailingDrawdownMonitor
	Sizer    *sizer.Capped
}

// Setup builds contract economics, the trailing drawdown monitor and the
// capped sizer for one instrument and registers the monitor on the host
// registry. DailyLossBreaker and the session Closer are deliberately not
// wired here: both depend on strategy-level lifecycle (order gating, timer
// registration) and must be composed explicitly.
func Setup(reg *engine.Registry, cfg SetupConfig) (*Kit, error) {
	profile, ok := economics.Lookup(cfg.Instrument)
	if !ok {
		return nil, engine.ConfigErrorf("propfirm", "instrument", "no preset for %q", cfg.Instrument)
	}

	dd, err := risk.NewDrawdownMonitor(risk.DrawdownConfig{
		MaxDrawdown:        cfg.MaxDrawdown,
		TrailingMode:       cfg.TrailingMode,
		TrailStopThreshold: cfg.TrailStopThreshold,
		StartingBalance:    cfg.StartingBalance,
	})
	if err != nil {
		return nil, err
	}

	stake := cfg.Stake
	if stake == 0 {
		stake = 1
	}
	capped, err := sizer.NewCapped(sizer.CappedConfig{
		MaxContracts: cfg.MaxContracts,
		Stake:        stake,
	})
	if err != nil {
		return nil, err
	}

	if reg != nil {
		reg.RegisterBar(dd)
	}
	return &Kit{Profile: profile, Drawdown: dd, Sizer: capped}, nil
}
