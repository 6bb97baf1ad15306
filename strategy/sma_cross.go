package strategy

import (
	"propfirm-go/market"
	"propfirm-go/sizer"
)

// SMACross is a minimal moving-average crossover strategy used to exercise
// the rule set end to end: long on a golden cross, short on a death cross,
// flat on the opposite signal first.
type SMACross struct {
	FastPeriod int
	SlowPeriod int

	closes []float64
	prev   int // previous cross sign
}

func NewSMACross(fast, slow int) *SMACross {
	if fast <= 0 {
		fast = 10
	}
	if slow <= fast {
		slow = fast * 3
	}
	return &SMACross{FastPeriod: fast, SlowPeriod: slow}
}

func (s *SMACross) OnBar(bar market.Bar, ctx Context) {
	s.closes = append(s.closes, bar.Close)
	if len(s.closes) < s.SlowPeriod {
		return
	}

	cross := sign(sma(s.closes, s.FastPeriod) - sma(s.closes, s.SlowPeriod))
	defer func() { s.prev = cross }()
	if cross == s.prev || cross == 0 {
		return
	}

	pos := ctx.Positions.Position(ctx.Instrument)
	if cross > 0 {
		if pos < 0 {
			ctx.Orders.Close(ctx.Instrument)
			pos = 0
		}
		if qty := ctx.Sizer.Size(sizer.Buy, pos); qty > 0 {
			ctx.Orders.Buy(ctx.Instrument, qty)
		}
		return
	}
	if pos > 0 {
		ctx.Orders.Close(ctx.Instrument)
		pos = 0
	}
	if qty := ctx.Sizer.Size(sizer.Sell, pos); qty > 0 {
		ctx.Orders.Sell(ctx.Instrument, qty)
	}
}

func sma(values []float64, period int) float64 {
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
