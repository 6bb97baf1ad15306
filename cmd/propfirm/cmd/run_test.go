package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propfirm-go/config"
)

func TestWatchRequiresConfigFlag(t *testing.T) {
	prevWatch, prevConfig := runWatch, runConfigPath
	defer func() { runWatch, runConfigPath = prevWatch, prevConfig }()

	runWatch = true
	runConfigPath = ""
	err := runBacktest(runCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch requires --config")
}

func TestApplyOverrides(t *testing.T) {
	prevInstrument, prevBalance := runInstrument, runBalance
	defer func() { runInstrument, runBalance = prevInstrument, prevBalance }()

	runInstrument = "ES"
	runBalance = 150000

	cfg := applyOverrides(config.Default())
	assert.Equal(t, "ES", cfg.Account.Instrument)
	assert.Equal(t, 150000.0, cfg.Account.StartingBalance)

	runInstrument = ""
	runBalance = 0
	cfg = applyOverrides(config.Default())
	assert.Equal(t, config.Default().Account.Instrument, cfg.Account.Instrument)
}
