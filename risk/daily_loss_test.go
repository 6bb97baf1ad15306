package risk_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propfirm-go/engine"
	"propfirm-go/risk"
)

// stubHost records order intents and serves positions.
type stubHost struct {
	positions map[string]int
	value     float64

	buys    []int
	sells   []int
	closes  []string
	cancels []string
}

func newStubHost() *stubHost {
	return &stubHost{positions: map[string]int{}}
}

func (h *stubHost) Buy(inst string, qty int) *engine.OrderHandle {
	h.buys = append(h.buys, qty)
	return &engine.OrderHandle{ID: "b", Instrument: inst, Side: "BUY", Quantity: qty}
}

func (h *stubHost) Sell(inst string, qty int) *engine.OrderHandle {
	h.sells = append(h.sells, qty)
	return &engine.OrderHandle{ID: "s", Instrument: inst, Side: "SELL", Quantity: qty}
}

func (h *stubHost) Close(inst string) *engine.OrderHandle {
	h.closes = append(h.closes, inst)
	h.positions[inst] = 0
	return &engine.OrderHandle{ID: "c", Instrument: inst, Side: "CLOSE"}
}

func (h *stubHost) CancelAllPending(inst string) {
	h.cancels = append(h.cancels, inst)
}

func (h *stubHost) Position(inst string) int { return h.positions[inst] }
func (h *stubHost) TotalValue() float64      { return h.value }

func (h *stubHost) Instruments() []string {
	out := make([]string, 0, len(h.positions))
	for k := range h.positions {
		out = append(out, k)
	}
	return out
}

func dayBar(day, hour int, value float64) engine.PortfolioSnapshot {
	return engine.PortfolioSnapshot{
		Timestamp:  time.Date(2024, 6, day, hour, 30, 0, 0, time.UTC),
		TotalValue: value,
	}
}

func TestDailyLossConfigValidation(t *testing.T) {
	host := newStubHost()
	_, err := risk.NewDailyLossBreaker(risk.DailyLossConfig{DailyLossLimit: 0}, host, host)
	require.Error(t, err)
	_, err = risk.NewDailyLossBreaker(risk.DailyLossConfig{DailyLossLimit: 1000}, nil, host)
	require.Error(t, err)
	_, err = risk.NewDailyLossBreaker(risk.DailyLossConfig{DailyLossLimit: 1000}, host, nil)
	require.Error(t, err)
}

func TestBlocksExactlyAtLimit(t *testing.T) {
	host := newStubHost()
	b, err := risk.NewDailyLossBreaker(risk.DailyLossConfig{DailyLossLimit: 1000}, host, host)
	require.NoError(t, err)

	b.OnBar(dayBar(3, 9, 50000), false)
	assert.Equal(t, 50000.0, b.DayStartValue())
	assert.False(t, b.TradingBlocked())

	b.OnBar(dayBar(3, 10, 49001), false) // loss 999 < limit
	assert.False(t, b.TradingBlocked())

	b.OnBar(dayBar(3, 11, 49000), false) // loss == limit blocks
	assert.True(t, b.TradingBlocked())

	// Recovery within the day never unblocks.
	b.OnBar(dayBar(3, 12, 51000), false)
	assert.True(t, b.TradingBlocked())
}

func TestUnblocksAtDayBoundary(t *testing.T) {
	host := newStubHost()
	b, err := risk.NewDailyLossBreaker(risk.DailyLossConfig{DailyLossLimit: 500}, host, host)
	require.NoError(t, err)

	b.OnBar(dayBar(3, 9, 50000), false)
	b.OnBar(dayBar(3, 15, 49400), true)
	assert.True(t, b.TradingBlocked())

	b.OnBar(dayBar(4, 9, 49400), false)
	assert.False(t, b.TradingBlocked())
	assert.Equal(t, 49400.0, b.DayStartValue())
}

func TestBreachCancelsAndFlattens(t *testing.T) {
	host := newStubHost()
	host.positions["MNQ"] = 3
	host.positions["MES"] = 0

	b, err := risk.NewDailyLossBreaker(risk.DailyLossConfig{
		DailyLossLimit:   1000,
		CancelOpenOrders: true,
	}, host, host)
	require.NoError(t, err)

	b.OnBar(dayBar(3, 9, 50000), false)
	b.OnBar(dayBar(3, 10, 48900), false)

	assert.ElementsMatch(t, []string{"MNQ", "MES"}, host.cancels)
	assert.Equal(t, []string{"MNQ"}, host.closes) // only nonzero positions
}

func TestBreachWithoutCancel(t *testing.T) {
	host := newStubHost()
	host.positions["ES"] = -1

	b, err := risk.NewDailyLossBreaker(risk.DailyLossConfig{DailyLossLimit: 1000}, host, host)
	require.NoError(t, err)

	b.OnBar(dayBar(3, 9, 50000), false)
	b.OnBar(dayBar(3, 10, 49000), false)

	assert.Empty(t, host.cancels)
	assert.Equal(t, []string{"ES"}, host.closes)
}

func TestGatedOrdersSuppressWhileBlocked(t *testing.T) {
	host := newStubHost()
	host.positions["MNQ"] = 1
	b, err := risk.NewDailyLossBreaker(risk.DailyLossConfig{DailyLossLimit: 1000}, host, host)
	require.NoError(t, err)
	gated := b.Orders()

	b.OnBar(dayBar(3, 9, 50000), false)
	require.NotNil(t, gated.Buy("MNQ", 1))
	require.NotNil(t, gated.Sell("MNQ", 1))

	b.OnBar(dayBar(3, 10, 48000), false)
	assert.Nil(t, gated.Buy("MNQ", 1))
	assert.Nil(t, gated.Sell("MNQ", 1))
	// Flatten and cancel still pass through.
	assert.NotNil(t, gated.Close("MNQ"))

	// Next day, submissions flow again.
	b.OnBar(dayBar(4, 9, 48000), false)
	assert.NotNil(t, gated.Buy("MNQ", 1))
}
