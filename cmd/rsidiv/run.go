package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evdnx/rsidiv/config"
	"github.com/evdnx/rsidiv/exchange"
	"github.com/evdnx/rsidiv/logger"
	"github.com/evdnx/rsidiv/metrics"
	"github.com/evdnx/rsidiv/strategy"
)

var rootCmd = &cobra.Command{
	Use:   "rsidiv",
	Short: "RSI divergence trading engine",
	Long: `rsidiv detects momentum/price divergence patterns in candle data and
turns them into position entries with stop-loss/take-profit risk bounds.

Signals combine RSI threshold checks with bullish/bearish divergence between
price extrema and oscillator extrema. Strong signals always execute; plain
threshold signals need the configured confidence.`,
}

var (
	runConfigPath string
	runOnce       bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run strategy cycles until interrupted",
	Long: `Run the strategy: an immediate first cycle, then one cycle per interval.
SIGINT/SIGTERM lets the current cycle finish, closes all open positions with
reason "shutdown", and reports final statistics.

Example:
  rsidiv run -f config.yaml
  rsidiv run -f config.yaml --once`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to YAML config (defaults apply when omitted)")
	runCmd.Flags().BoolVar(&runOnce, "once", false, "run a single cycle and exit")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if runConfigPath != "" {
		loaded, err := config.Load(runConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		return err
	}
	for _, w := range cfg.Warnings() {
		log.Warn("config_warning", zap.String("warning", w))
	}

	if !cfg.Exchange.Simulate {
		// Live connectivity lives behind the Exchange interface; only the
		// paper venue ships with this binary.
		return errors.New("live trading is not wired in this build; set exchange.simulate: true")
	}
	ex := exchange.NewPaper(cfg.Exchange.InitialBalance, log)

	engine, err := strategy.NewEngine(cfg, ex, log)
	if err != nil {
		return err
	}

	if cfg.App.MetricsAddr != "" {
		srv := metrics.Serve(cfg.App.MetricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info("metrics_listening", zap.String("addr", cfg.App.MetricsAddr))
	}

	interval, err := cfg.CycleInterval()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("engine_starting",
		zap.Strings("pairs", cfg.Trading.Pairs),
		zap.Duration("interval", interval),
		zap.Bool("once", runOnce),
	)

	engine.RunCycle(ctx)
	if !runOnce {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
	loop:
		for {
			select {
			case <-ctx.Done():
				break loop
			case <-ticker.C:
				engine.RunCycle(ctx)
			}
		}
	}

	// Shutdown runs on a fresh context so closing orders are not cut off
	// by the cancellation that triggered it.
	engine.Shutdown(context.Background())
	log.Info("engine_stopped")
	return nil
}
