// moneta-sweep opens each configured account file on a schedule so
// recurring transactions materialize even when nobody opens the
// accounts interactively.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/robfig/cron"
	"golang.org/x/sync/errgroup"

	"moneta/internal/account"
	"moneta/internal/cli"
	"moneta/internal/config"
	"moneta/internal/log"
)

func main() {
	singleRun := flag.Bool("single-run", false, "run one sweep and exit (disable cron)")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("MONETA_LOG_LEVEL")).WithComponent(log.ComponentSweep)
	cfg := cli.LoadAndValidateConfig(logger)

	if len(cfg.SweepAccounts) == 0 {
		logger.Error("No accounts configured", "hint", "set MONETA_SWEEP_ACCOUNTS to a comma-separated list")
		os.Exit(1)
	}

	ctx := cli.GracefulShutdown(logger, 10*time.Second, nil)

	sweep := func() {
		if err := sweepAll(ctx, cfg, logger); err != nil {
			logger.Error("Sweep finished with errors", "error", err)
		}
	}

	sweep()
	if *singleRun {
		return
	}

	c := cron.New()
	if err := c.AddFunc(cfg.SweepSchedule, sweep); err != nil {
		logger.Error("Invalid sweep schedule", "schedule", cfg.SweepSchedule, "error", err)
		os.Exit(1)
	}
	c.Start()
	logger.Info("Sweep worker started",
		"schedule", cfg.SweepSchedule,
		"accounts", len(cfg.SweepAccounts))

	<-ctx.Done()
	c.Stop()
	logger.Info("Sweep worker stopped")
}

// sweepAll opens every configured account once. Opening runs the
// recurrence pass; each account is an independent file, so accounts are
// swept concurrently.
func sweepAll(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range cfg.SweepAccounts {
		path := cfg.AccountPath(name)
		g.Go(func() error {
			start := time.Now()
			a, err := account.Open(ctx, path)
			if err != nil {
				logger.Error("Failed to sweep account", log.FieldAccountPath, path, "error", err)
				return err
			}
			defer a.Close()
			logger.Info("Account swept",
				log.FieldAccountPath, path,
				log.FieldCount, len(a.Transactions()),
				"duration", time.Since(start))
			return nil
		})
	}
	return g.Wait()
}
