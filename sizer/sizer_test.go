package sizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propfirm-go/economics"
)

func TestCappedConfigValidation(t *testing.T) {
	_, err := NewCapped(CappedConfig{MaxContracts: 0, Stake: 1})
	require.Error(t, err)
	_, err = NewCapped(CappedConfig{MaxContracts: 3, Stake: 0})
	require.Error(t, err)
}

func TestCappedBoundaries(t *testing.T) {
	s, err := NewCapped(CappedConfig{MaxContracts: 3, Stake: 1})
	require.NoError(t, err)

	cases := []struct {
		name     string
		dir      Direction
		position int
		want     int
	}{
		{"buy with room", Buy, 2, 1},
		{"buy at cap", Buy, 3, 0},
		{"buy past cap", Buy, 5, 0},
		{"buy from flat", Buy, 0, 1},
		{"buy from short always allowed", Buy, -3, 1},
		{"sell toward flat from long", Sell, 3, 1},
		{"sell from flat", Sell, 0, 1},
		{"sell at short cap", Sell, -3, 0},
		{"sell past short cap", Sell, -4, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Size(tc.dir, tc.position))
		})
	}
}

func TestCappedStakeLimitsRoom(t *testing.T) {
	s, err := NewCapped(CappedConfig{MaxContracts: 10, Stake: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Size(Buy, 0))  // room 10, stake wins
	assert.Equal(t, 1, s.Size(Buy, 9))  // room 1
	assert.Equal(t, 2, s.Size(Sell, 1)) // room 11, stake wins
}

func TestRiskBasedSizing(t *testing.T) {
	s, err := NewRiskBased(RiskBasedConfig{
		RiskPerTrade: 500,
		StopTicks:    4,
		TickValue:    12.50,
	})
	require.NoError(t, err)
	// floor(500 / (4 * 12.5)) = 10
	assert.Equal(t, 10, s.Size(Buy, 0))

	s, err = NewRiskBased(RiskBasedConfig{
		RiskPerTrade: 100,
		StopTicks:    6,
		TickValue:    12.50,
	})
	require.NoError(t, err)
	// floor(100 / 75) = 1
	assert.Equal(t, 1, s.Size(Sell, 2))

	s, err = NewRiskBased(RiskBasedConfig{
		RiskPerTrade: 50,
		StopTicks:    10,
		TickValue:    12.50,
	})
	require.NoError(t, err)
	// budget smaller than one contract's stop risk
	assert.Equal(t, 0, s.Size(Buy, 0))
}

func TestRiskBasedTickValueAutoDetect(t *testing.T) {
	es, ok := economics.Lookup("ES")
	require.True(t, ok)

	s, err := NewRiskBased(RiskBasedConfig{
		RiskPerTrade: 500,
		StopTicks:    4,
		Profile:      &es,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, s.Size(Buy, 0))
}

func TestRiskBasedConfigErrors(t *testing.T) {
	_, err := NewRiskBased(RiskBasedConfig{RiskPerTrade: 0, StopTicks: 4, TickValue: 12.5})
	require.Error(t, err)
	_, err = NewRiskBased(RiskBasedConfig{RiskPerTrade: 500, StopTicks: 0, TickValue: 12.5})
	require.Error(t, err)
	// No tick value and no profile attached.
	_, err = NewRiskBased(RiskBasedConfig{RiskPerTrade: 500, StopTicks: 4})
	require.Error(t, err)
}
