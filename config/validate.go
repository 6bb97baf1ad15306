package config

import (
	"fmt"

	"propfirm-go/risk"
)

// ErrInvalid reports a failed config check.
type ErrInvalid string

func (e ErrInvalid) Error() string { return string(e) }

func invalidf(format string, args ...interface{}) ErrInvalid {
	return ErrInvalid(fmt.Sprintf(format, args...))
}

// Validate checks ranges and cross-field requirements.
func Validate(cfg AppConfig) error {
	if cfg.Account.Instrument == "" {
		return ErrInvalid("account.instrument is required")
	}
	if _, err := cfg.Profile(); err != nil {
		return invalidf("account.instrument: %v", err)
	}
	if cfg.Account.StartingBalance <= 0 {
		return invalidf("account.startingBalance must be > 0, got %v", cfg.Account.StartingBalance)
	}

	r := cfg.Rules
	if r.MaxDrawdown <= 0 {
		return invalidf("rules.maxDrawdown must be > 0, got %v", r.MaxDrawdown)
	}
	switch risk.TrailingMode(r.TrailingMode) {
	case risk.TrailIntraday, risk.TrailEOD:
	default:
		return invalidf("rules.trailingMode must be intraday or eod, got %q", r.TrailingMode)
	}
	if r.TrailStopThreshold < 0 {
		return invalidf("rules.trailStopThreshold must be >= 0, got %v", r.TrailStopThreshold)
	}
	if r.DailyLossLimit < 0 {
		return invalidf("rules.dailyLossLimit must be >= 0, got %v", r.DailyLossLimit)
	}
	if r.MaxDayPct <= 0 || r.MaxDayPct > 100 {
		return invalidf("rules.maxDayPct must be in (0, 100], got %v", r.MaxDayPct)
	}
	if r.MaxContracts <= 0 {
		return invalidf("rules.maxContracts must be > 0, got %d", r.MaxContracts)
	}
	if r.Stake <= 0 {
		return invalidf("rules.stake must be > 0, got %d", r.Stake)
	}
	if r.RiskPerTrade < 0 {
		return invalidf("rules.riskPerTrade must be >= 0, got %v", r.RiskPerTrade)
	}
	if r.RiskPerTrade > 0 && r.StopTicks <= 0 {
		return invalidf("rules.stopTicks must be > 0 when riskPerTrade is set, got %d", r.StopTicks)
	}
	if _, _, err := cfg.CloseTime(); err != nil {
		return invalidf("%v", err)
	}

	s := cfg.Strategy
	if s.FastPeriod <= 0 || s.SlowPeriod <= s.FastPeriod {
		return invalidf("strategy periods must satisfy 0 < fast < slow, got fast=%d slow=%d", s.FastPeriod, s.SlowPeriod)
	}

	for sym, ic := range cfg.Instruments {
		if ic.TickSize <= 0 {
			return invalidf("instruments.%s.tickSize must be > 0, got %v", sym, ic.TickSize)
		}
		if ic.TickValue <= 0 {
			return invalidf("instruments.%s.tickValue must be > 0, got %v", sym, ic.TickValue)
		}
		if ic.Commission < 0 {
			return invalidf("instruments.%s.commission must be >= 0, got %v", sym, ic.Commission)
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		return ErrInvalid("metrics.addr is required when metrics are enabled")
	}
	return nil
}
