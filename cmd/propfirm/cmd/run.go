package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"propfirm-go/config"
	"propfirm-go/infrastructure/logger"
	"propfirm-go/market"
	"propfirm-go/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a bar CSV through the rule set and print the verdict",
	Long: `Run loads OHLC bars from a CSV (time,open,high,low,close[,volume]),
builds the account from the config and replays every bar. The report shows
final equity, trailing drawdown state and the consistency breakdown.

With --watch the process stays up after the first replay and re-runs the
same bars whenever the config file changes, so rule parameters can be
tuned against a fixed data set.

Example:
  propfirm run -c configs/eval.yaml -d data/mnq_1min.csv --watch`,
	RunE: runBacktest,
}

var (
	runConfigPath string
	runDataPath   string
	runInstrument string
	runBalance    float64
	runWatch      bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to yaml config (defaults apply when empty)")
	runCmd.Flags().StringVarP(&runDataPath, "data", "d", "", "path to bar CSV (required)")
	runCmd.Flags().StringVarP(&runInstrument, "instrument", "i", "", "override the configured instrument")
	runCmd.Flags().Float64VarP(&runBalance, "balance", "b", 0, "override the starting balance")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "re-run on config file changes")

	runCmd.MarkFlagRequired("data")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	if runWatch && runConfigPath == "" {
		return fmt.Errorf("--watch requires --config")
	}

	cfg, err := loadConfig(runConfigPath)
	if err != nil {
		return err
	}
	cfg = applyOverrides(cfg)

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	bars, err := market.LoadCSV(runDataPath)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	if err := replay(cfg, bars, log, true); err != nil {
		return err
	}
	if !runWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("watching config, edits re-run the backtest",
		zap.String("path", runConfigPath))
	w := config.Watcher{Path: runConfigPath, Logger: log}
	err = w.Start(ctx, func(next config.AppConfig) {
		// Metrics keep the first run's listener; a rebuilt runner only
		// replaces the collectors it writes to.
		if err := replay(applyOverrides(next), bars, log, false); err != nil {
			log.Warn("re-run failed", zap.Error(err))
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func applyOverrides(cfg config.AppConfig) config.AppConfig {
	if runInstrument != "" {
		cfg.Account.Instrument = runInstrument
	}
	if runBalance > 0 {
		cfg.Account.StartingBalance = runBalance
	}
	return cfg
}

func replay(cfg config.AppConfig, bars []market.Bar, log *zap.Logger, serveMetrics bool) error {
	runner, err := sim.Build(cfg, log)
	if err != nil {
		return err
	}
	if m := runner.Metrics(); m != nil && serveMetrics {
		go m.Serve(cfg.Metrics.Addr)
		log.Info("metrics listening", zap.String("addr", cfg.Metrics.Addr))
	}

	log.Info("replaying bars",
		zap.String("instrument", cfg.Account.Instrument),
		zap.String("data", runDataPath),
		zap.Int("bars", len(bars)))

	res, err := runner.Run(bars)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func loadConfig(path string) (config.AppConfig, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func printResult(res sim.Result) {
	fmt.Printf("\nBacktest complete: %d bars\n", res.Bars)
	fmt.Printf("  Starting value:   $%.2f\n", res.StartingValue)
	fmt.Printf("  Final value:      $%.2f\n", res.FinalValue)
	fmt.Printf("  Net P&L:          $%.2f\n", res.NetPnl)
	fmt.Printf("  Orders submitted: %d (blocked: %d)\n", res.OrdersSubmitted, res.OrdersBlocked)
	if res.TradingBlocked {
		fmt.Printf("  Trading halted by the daily loss limit at end of run\n")
	}

	dd := res.Drawdown
	fmt.Printf("\nTrailing drawdown\n")
	fmt.Printf("  High-water mark:  $%.2f", dd.Hwm)
	if dd.TrailingFrozen {
		fmt.Printf(" (frozen)")
	}
	fmt.Println()
	fmt.Printf("  Current drawdown: $%.2f\n", dd.CurrentDrawdown)
	fmt.Printf("  Worst drawdown:   $%.2f\n", dd.MaxDrawdown)
	if dd.Breached {
		fmt.Printf("  BREACHED %d time(s); first at %s ($%.2f down from $%.2f)\n",
			dd.BreachCount,
			dd.Breaches[0].Timestamp.Format("2006-01-02 15:04"),
			dd.Breaches[0].Drawdown, dd.Breaches[0].Hwm)
	} else {
		fmt.Printf("  No breach\n")
	}

	cons := res.Consistency
	if cons.DailyPnl == nil {
		return
	}
	fmt.Printf("\nConsistency (max %.0f%% of net profit per day)\n", cons.MaxDayPct)
	fmt.Printf("  Net P&L: $%.2f  (profit $%.2f, loss $%.2f)\n",
		cons.NetPnl, cons.TotalProfit, cons.TotalLoss)

	days := make([]string, 0, len(cons.DailyPnl))
	byDay := make(map[string]float64, len(cons.DailyPnl))
	for d, pnl := range cons.DailyPnl {
		key := d.Format("2006-01-02")
		days = append(days, key)
		byDay[key] = pnl
	}
	sort.Strings(days)
	for _, d := range days {
		fmt.Printf("    %s  $%10.2f\n", d, byDay[d])
	}

	if cons.Consistent {
		fmt.Printf("  PASS\n")
	} else {
		fmt.Printf("  FAIL: %d day(s) above the cap\n", len(cons.Violations))
		for _, v := range cons.Violations {
			fmt.Printf("    %s  $%.2f = %.1f%% of net profit\n",
				v.Date.Format("2006-01-02"), v.Pnl, v.Pct)
		}
	}
}
