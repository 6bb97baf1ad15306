// Package economics models futures contract dollar economics: tick size,
// tick value and the derived price multiplier used for P&L and sizing math.
package economics

import "propfirm-go/engine"

// Profile describes one futures contract. Mult is always derived as
// TickValue/TickSize and is never set independently. Profiles are immutable;
// the With* overrides return an adjusted copy with Mult recomputed.
type Profile struct {
	symbol     string
	tickSize   float64
	tickValue  float64
	margin     float64
	commission float64
	mult       float64
}

// NewProfile validates the contract inputs and derives the multiplier.
func NewProfile(symbol string, tickSize, tickValue, margin, commission float64) (Profile, error) {
	p := Profile{
		symbol:     symbol,
		tickSize:   tickSize,
		tickValue:  tickValue,
		margin:     margin,
		commission: commission,
	}
	if err := p.validate(); err != nil {
		return Profile{}, err
	}
	p.mult = tickValue / tickSize
	return p, nil
}

func (p Profile) validate() error {
	if p.tickSize <= 0 {
		return engine.ConfigErrorf("economics", "tickSize", "must be > 0, got %v", p.tickSize)
	}
	if p.tickValue <= 0 {
		return engine.ConfigErrorf("economics", "tickValue", "must be > 0, got %v", p.tickValue)
	}
	if p.commission < 0 {
		return engine.ConfigErrorf("economics", "commission", "must be >= 0, got %v", p.commission)
	}
	return nil
}

func (p Profile) Symbol() string      { return p.symbol }
func (p Profile) TickSize() float64   { return p.tickSize }
func (p Profile) TickValue() float64  { return p.tickValue }
func (p Profile) Margin() float64     { return p.margin }
func (p Profile) Commission() float64 { return p.commission }

// Mult is the dollar multiplier per price unit per contract.
func (p Profile) Mult() float64 { return p.mult }

// PointValue is the dollar value of a one-point move per contract. Alias of
// Mult, kept because sample strategies reason in points rather than ticks.
func (p Profile) PointValue() float64 { return p.mult }

// WithTickSize returns a copy with the tick size replaced and Mult rederived.
func (p Profile) WithTickSize(tickSize float64) (Profile, error) {
	return NewProfile(p.symbol, tickSize, p.tickValue, p.margin, p.commission)
}

// WithTickValue returns a copy with the tick value replaced and Mult rederived.
func (p Profile) WithTickValue(tickValue float64) (Profile, error) {
	return NewProfile(p.symbol, p.tickSize, tickValue, p.margin, p.commission)
}

// WithMargin returns a copy with the per-contract margin replaced.
func (p Profile) WithMargin(margin float64) (Profile, error) {
	return NewProfile(p.symbol, p.tickSize, p.tickValue, margin, p.commission)
}

// WithCommission returns a copy with the per-side commission replaced.
func (p Profile) WithCommission(commission float64) (Profile, error) {
	return NewProfile(p.symbol, p.tickSize, p.tickValue, p.margin, commission)
}

// PnL converts a price move into dollars for a signed contract count.
func (p Profile) PnL(entry, exit float64, contracts int) float64 {
	return (exit - entry) * p.mult * float64(contracts)
}

// RoundTripCommission is the commission for opening and closing one lot of
// the given size.
func (p Profile) RoundTripCommission(contracts int) float64 {
	if contracts < 0 {
		contracts = -contracts
	}
	return 2 * p.commission * float64(contracts)
}
