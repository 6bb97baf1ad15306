package sim

import (
	"time"

	"go.uber.org/zap"

	"propfirm-go/config"
	"propfirm-go/engine"
	"propfirm-go/infrastructure/alert"
	"propfirm-go/monitor"
	"propfirm-go/risk"
	"propfirm-go/session"
	"propfirm-go/sizer"
	"propfirm-go/strategy"
)

const alertThrottle = 5 * time.Minute

// Build assembles a Runner from a validated AppConfig. Optional rules map
// to optional components: a zero dailyLossLimit skips the breaker, an empty
// closeTime skips the session closer, a zero riskPerTrade selects the
// capped sizer.
func Build(cfg config.AppConfig, log *zap.Logger) (*Runner, error) {
	if log == nil {
		log = zap.NewNop()
	}
	profile, err := cfg.Profile()
	if err != nil {
		return nil, err
	}

	broker := NewBroker(profile, cfg.Account.StartingBalance, log)
	registry := engine.NewRegistry()

	drawdown, err := risk.NewDrawdownMonitor(risk.DrawdownConfig{
		MaxDrawdown:        cfg.Rules.MaxDrawdown,
		TrailingMode:       risk.TrailingMode(cfg.Rules.TrailingMode),
		TrailStopThreshold: cfg.Rules.TrailStopThreshold,
		StartingBalance:    cfg.Account.StartingBalance,
	})
	if err != nil {
		return nil, err
	}

	var breaker *risk.DailyLossBreaker
	if cfg.Rules.DailyLossLimit > 0 {
		breaker, err = risk.NewDailyLossBreaker(risk.DailyLossConfig{
			DailyLossLimit:   cfg.Rules.DailyLossLimit,
			CancelOpenOrders: cfg.Rules.CancelOpenOrders,
		}, broker, broker)
		if err != nil {
			return nil, err
		}
	}

	consistency, err := risk.NewConsistencyMonitor(risk.ConsistencyConfig{
		MaxDayPct: cfg.Rules.MaxDayPct,
	})
	if err != nil {
		return nil, err
	}

	tod, haveCloseTime, err := cfg.CloseTime()
	if err != nil {
		return nil, err
	}
	var closer *session.Closer
	if haveCloseTime {
		closer, err = session.NewCloser(session.CloseConfig{
			CloseTime:        tod,
			CancelOpenOrders: cfg.Rules.CancelOpenOrders,
		}, broker, broker)
		if err != nil {
			return nil, err
		}
	}

	var szr strategy.Sizer
	if cfg.Rules.RiskPerTrade > 0 {
		szr, err = sizer.NewRiskBased(sizer.RiskBasedConfig{
			RiskPerTrade: cfg.Rules.RiskPerTrade,
			StopTicks:    cfg.Rules.StopTicks,
			Profile:      &profile,
		})
	} else {
		szr, err = sizer.NewCapped(sizer.CappedConfig{
			MaxContracts: cfg.Rules.MaxContracts,
			Stake:        cfg.Rules.Stake,
		})
	}
	if err != nil {
		return nil, err
	}

	var metrics *monitor.Monitor
	if cfg.Metrics.Enabled {
		metrics = monitor.New(monitor.DefaultConfig())
	}

	alerts := alert.NewManager(alertThrottle)
	alerts.AddChannel(alert.NewLogChannel("log", nil))

	return NewRunner(RunnerOptions{
		Instrument:  profile.Symbol(),
		Broker:      broker,
		Registry:    registry,
		Strategy:    strategy.NewSMACross(cfg.Strategy.FastPeriod, cfg.Strategy.SlowPeriod),
		Sizer:       szr,
		Drawdown:    drawdown,
		Breaker:     breaker,
		Consistency: consistency,
		Closer:      closer,
		Metrics:     metrics,
		Alerts:      alerts,
		Logger:      log,
	})
}
