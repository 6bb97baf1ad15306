package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "propfirm",
	Short: "Backtest futures strategies under prop-firm account rules",
	Long: `Propfirm replays historical bar data through a simulated futures account
governed by evaluation-style rules:

  - Trailing drawdown with an optional trail-stop freeze
  - Daily loss limit that flattens and halts for the session
  - Consistency check on per-day profit share
  - Contract-capped or risk-based position sizing
  - Forced flatten at a session close time`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
