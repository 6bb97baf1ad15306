// Package config loads and validates the yaml configuration for a run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"propfirm-go/economics"
	"propfirm-go/infrastructure/logger"
	"propfirm-go/risk"
	"propfirm-go/session"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Account     AccountConfig               `yaml:"account"`
	Rules       RulesConfig                 `yaml:"rules"`
	Strategy    StrategyConfig              `yaml:"strategy"`
	Logging     logger.Config               `yaml:"logging"`
	Metrics     MetricsConfig               `yaml:"metrics"`
	Instruments map[string]InstrumentConfig `yaml:"instruments"`
}

type AccountConfig struct {
	Instrument      string  `yaml:"instrument"`
	StartingBalance float64 `yaml:"startingBalance"`
}

// RulesConfig is the prop-firm rule surface. A zero DailyLossLimit disables
// the daily breaker; an empty CloseTime disables the session closer; a zero
// RiskPerTrade selects the capped sizer instead of the risk-based one.
type RulesConfig struct {
	MaxDrawdown        float64 `yaml:"maxDrawdown"`
	TrailingMode       string  `yaml:"trailingMode"`
	TrailStopThreshold float64 `yaml:"trailStopThreshold"`
	DailyLossLimit     float64 `yaml:"dailyLossLimit"`
	CancelOpenOrders   bool    `yaml:"cancelOpenOrders"`
	MaxDayPct          float64 `yaml:"maxDayPct"`
	MaxContracts       int     `yaml:"maxContracts"`
	Stake              int     `yaml:"stake"`
	RiskPerTrade       float64 `yaml:"riskPerTrade"`
	StopTicks          int     `yaml:"stopTicks"`
	CloseTime          string  `yaml:"closeTime"` // "15:55"
}

type StrategyConfig struct {
	FastPeriod int `yaml:"fastPeriod"`
	SlowPeriod int `yaml:"slowPeriod"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// InstrumentConfig overrides or defines a contract preset.
type InstrumentConfig struct {
	TickSize   float64 `yaml:"tickSize"`
	TickValue  float64 `yaml:"tickValue"`
	Margin     float64 `yaml:"margin"`
	Commission float64 `yaml:"commission"`
}

// Default returns the baseline configuration a file is merged over.
func Default() AppConfig {
	return AppConfig{
		Account: AccountConfig{
			Instrument:      "MNQ",
			StartingBalance: 50000,
		},
		Rules: RulesConfig{
			MaxDrawdown:      2000,
			TrailingMode:     string(risk.TrailIntraday),
			CancelOpenOrders: true,
			MaxDayPct:        risk.DefaultMaxDayPct,
			MaxContracts:     3,
			Stake:            1,
			StopTicks:        4,
		},
		Strategy: StrategyConfig{FastPeriod: 10, SlowPeriod: 30},
		Logging:  logger.DefaultConfig(),
		Metrics:  MetricsConfig{Addr: ":9100"},
	}
}

// Load reads yaml from path over the defaults and validates the result.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Profile resolves the configured instrument, preferring an explicit
// instruments entry over the built-in presets.
func (c AppConfig) Profile() (economics.Profile, error) {
	sym := c.Account.Instrument
	if ic, ok := c.Instruments[sym]; ok {
		return economics.NewProfile(sym, ic.TickSize, ic.TickValue, ic.Margin, ic.Commission)
	}
	if p, ok := economics.Lookup(sym); ok {
		return p, nil
	}
	return economics.Profile{}, fmt.Errorf("unknown instrument %q and no instruments entry", sym)
}

// CloseTime parses rules.closeTime; ok is false when unset.
func (c AppConfig) CloseTime() (tod session.TimeOfDay, ok bool, err error) {
	if c.Rules.CloseTime == "" {
		return session.TimeOfDay{}, false, nil
	}
	var h, m int
	if _, err := fmt.Sscanf(c.Rules.CloseTime, "%d:%d", &h, &m); err != nil {
		return session.TimeOfDay{}, false, fmt.Errorf("rules.closeTime %q: want HH:MM", c.Rules.CloseTime)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return session.TimeOfDay{}, false, fmt.Errorf("rules.closeTime %q out of range", c.Rules.CloseTime)
	}
	return session.TimeOfDay{Hour: h, Minute: m}, true, nil
}
