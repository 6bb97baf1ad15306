package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"propfirm-go/engine"
	"propfirm-go/market"
	"propfirm-go/sizer"
)

type fakeOrders struct {
	buys, sells, closes int
}

func (f *fakeOrders) Buy(string, int) *engine.OrderHandle {
	f.buys++
	return &engine.OrderHandle{}
}

func (f *fakeOrders) Sell(string, int) *engine.OrderHandle {
	f.sells++
	return &engine.OrderHandle{}
}

func (f *fakeOrders) Close(string) *engine.OrderHandle {
	f.closes++
	return &engine.OrderHandle{}
}

func (f *fakeOrders) CancelAllPending(string) {}

type fakePositions struct{ pos int }

func (f *fakePositions) Position(string) int   { return f.pos }
func (f *fakePositions) TotalValue() float64   { return 0 }
func (f *fakePositions) Instruments() []string { return []string{"MNQ"} }

type fixedSizer struct{ qty int }

func (s fixedSizer) Size(sizer.Direction, int) int { return s.qty }

func feed(s *SMACross, ctx Context, prices []float64) {
	t0 := time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)
	for i, p := range prices {
		s.OnBar(market.Bar{Time: t0.Add(time.Duration(i) * 5 * time.Minute), Close: p}, ctx)
	}
}

func TestSMACrossGoldenCrossBuys(t *testing.T) {
	orders := &fakeOrders{}
	ctx := Context{
		Instrument: "MNQ",
		Orders:     orders,
		Positions:  &fakePositions{},
		Sizer:      fixedSizer{qty: 2},
	}
	s := NewSMACross(2, 4)

	// Downtrend seeds a negative cross, then a rally flips it positive.
	feed(s, ctx, []float64{105, 104, 103, 102, 101, 100, 104, 108, 112})
	assert.Equal(t, 1, orders.buys)
	assert.Equal(t, 0, orders.closes) // was flat, nothing to unwind
}

func TestSMACrossDeathCrossClosesLongFirst(t *testing.T) {
	orders := &fakeOrders{}
	pos := &fakePositions{pos: 2}
	ctx := Context{Instrument: "MNQ", Orders: orders, Positions: pos, Sizer: fixedSizer{qty: 2}}
	s := NewSMACross(2, 4)

	feed(s, ctx, []float64{100, 101, 102, 103, 104, 105, 101, 97, 93})
	assert.Equal(t, 1, orders.closes)
	assert.Equal(t, 1, orders.sells)
}

func TestSMACrossNoSignalNoOrders(t *testing.T) {
	orders := &fakeOrders{}
	ctx := Context{Instrument: "MNQ", Orders: orders, Positions: &fakePositions{}, Sizer: fixedSizer{qty: 1}}
	s := NewSMACross(2, 4)

	feed(s, ctx, []float64{100, 100, 100, 100, 100, 100})
	assert.Zero(t, orders.buys)
	assert.Zero(t, orders.sells)
}
