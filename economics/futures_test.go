package economics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propfirm-go/engine"
)

func TestNewProfileDerivesMult(t *testing.T) {
	p, err := NewProfile("ES", 0.25, 12.50, 15000, 2.25)
	require.NoError(t, err)
	assert.Equal(t, 50.0, p.Mult())
	assert.Equal(t, 0.25, p.TickSize())
	assert.Equal(t, 12.50, p.TickValue())
	assert.Equal(t, 15000.0, p.Margin())
	assert.Equal(t, 2.25, p.Commission())
}

func TestNewProfileRejectsBadInputs(t *testing.T) {
	cases := []struct {
		name                string
		tickSize, tickValue float64
		commission          float64
	}{
		{"zero tick size", 0, 12.50, 0},
		{"negative tick size", -0.25, 12.50, 0},
		{"zero tick value", 0.25, 0, 0},
		{"negative commission", 0.25, 12.50, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProfile("X", tc.tickSize, tc.tickValue, 0, tc.commission)
			require.Error(t, err)
			var cfgErr *engine.ConfigError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestOverridesRecomputeMult(t *testing.T) {
	base, err := NewProfile("ES", 0.25, 12.50, 15000, 2.25)
	require.NoError(t, err)

	custom, err := base.WithTickValue(25.0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, custom.Mult())
	// base untouched
	assert.Equal(t, 50.0, base.Mult())

	custom, err = base.WithTickSize(0.5)
	require.NoError(t, err)
	assert.Equal(t, 25.0, custom.Mult())

	_, err = base.WithTickSize(0)
	assert.Error(t, err)

	custom, err = base.WithCommission(0.85)
	require.NoError(t, err)
	assert.Equal(t, 0.85, custom.Commission())
	assert.Equal(t, 50.0, custom.Mult())
}

func TestPresetMultDerivation(t *testing.T) {
	expected := map[string]struct {
		tickSize, tickValue, mult, margin, commission float64
	}{
		"ES":  {0.25, 12.50, 50, 15000, 2.25},
		"NQ":  {0.25, 5.00, 20, 20000, 2.25},
		"CL":  {0.01, 10.00, 1000, 5000, 2.25},
		"MES": {0.25, 1.25, 5, 1500, 0.50},
		"MNQ": {0.25, 0.50, 2, 2000, 0.50},
	}
	for sym, want := range expected {
		p, ok := Lookup(sym)
		require.True(t, ok, sym)
		assert.Equal(t, want.tickSize, p.TickSize(), sym)
		assert.Equal(t, want.tickValue, p.TickValue(), sym)
		assert.Equal(t, want.mult, p.Mult(), sym)
		assert.Equal(t, want.margin, p.Margin(), sym)
		assert.Equal(t, want.commission, p.Commission(), sym)
		assert.Equal(t, p.TickValue()/p.TickSize(), p.Mult(), sym)
	}
}

func TestLookupUnknownSymbol(t *testing.T) {
	_, ok := Lookup("ZB")
	assert.False(t, ok)
}

func TestPnL(t *testing.T) {
	es, _ := Lookup("ES")
	// 2 contracts, 4 point move: 2 * 4 * $50
	assert.Equal(t, 400.0, es.PnL(5000.0, 5004.0, 2))
	assert.Equal(t, -400.0, es.PnL(5000.0, 5004.0, -2))
	assert.Equal(t, 9.0, es.RoundTripCommission(2))
	assert.Equal(t, 9.0, es.RoundTripCommission(-2))
}
