package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"propfirm-go/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a config file and print the resolved rule set",
	RunE:  runCheck,
}

var checkConfigPath string

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkConfigPath, "config", "c", "", "path to yaml config (required)")
	checkCmd.MarkFlagRequired("config")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(checkConfigPath)
	if err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}
	profile, err := cfg.Profile()
	if err != nil {
		return err
	}
	if _, _, err := cfg.CloseTime(); err != nil {
		return err
	}

	fmt.Printf("config OK: %s\n\n", checkConfigPath)
	fmt.Printf("Account\n")
	fmt.Printf("  Instrument:       %s (tick %.4g = $%.2f, $%.2f/side)\n",
		profile.Symbol(), profile.TickSize(), profile.TickValue(), profile.Commission())
	fmt.Printf("  Starting balance: $%.2f\n", cfg.Account.StartingBalance)

	r := cfg.Rules
	fmt.Printf("\nRules\n")
	fmt.Printf("  Max drawdown:     $%.2f (%s trailing)\n", r.MaxDrawdown, r.TrailingMode)
	if r.TrailStopThreshold > 0 {
		fmt.Printf("  Trail stop:       HWM freezes at +$%.2f\n", r.TrailStopThreshold)
	}
	if r.DailyLossLimit > 0 {
		fmt.Printf("  Daily loss limit: $%.2f (cancel open orders: %v)\n", r.DailyLossLimit, r.CancelOpenOrders)
	} else {
		fmt.Printf("  Daily loss limit: disabled\n")
	}
	fmt.Printf("  Consistency cap:  %.0f%% of net profit per day\n", r.MaxDayPct)
	if r.RiskPerTrade > 0 {
		fmt.Printf("  Sizing:           $%.2f risk over %d ticks\n", r.RiskPerTrade, r.StopTicks)
	} else {
		fmt.Printf("  Sizing:           stake %d, max %d contracts\n", r.Stake, r.MaxContracts)
	}
	if r.CloseTime != "" {
		fmt.Printf("  Session close:    %s\n", r.CloseTime)
	}
	return nil
}
