package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"quotecollector/internal/collector"
	"quotecollector/internal/config"
)

type flags struct {
	configPath string
	envFile    string
	symbols    string
	output     string
	interval   time.Duration
	poll       time.Duration
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           "collector",
		Short:         "Append stock quote snapshots from Alpha Vantage to a CSV file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json or config.yaml (optional)")
	root.PersistentFlags().StringVar(&f.envFile, "env-file", "", "dotenv file to load (default .env when present)")
	root.PersistentFlags().StringVar(&f.symbols, "symbols", "", "comma-separated ticker symbols")
	root.PersistentFlags().StringVar(&f.output, "output", "", "CSV file to append to")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	once := &cobra.Command{
		Use:   "once",
		Short: "Run a single pass over the symbol list and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd, f)
			if err != nil {
				return err
			}
			app.collector.RunOnce(cmd.Context())
			return nil
		},
	}

	schedule := &cobra.Command{
		Use:   "schedule",
		Short: "Run a pass now and then every interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd, f)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			poller := collector.NewPoller(app.cfg.Interval(), app.cfg.PollInterval(), app.log)
			return app.collector.RunScheduled(ctx, poller)
		},
	}
	schedule.Flags().DurationVar(&f.interval, "interval", 0, "time between passes (default from config, 1h)")
	schedule.Flags().DurationVar(&f.poll, "poll", 0, "scheduler poll granularity (default from config, 1s)")

	root.AddCommand(once, schedule)
	return root
}

func setup(cmd *cobra.Command, f flags) (*app, error) {
	var envFiles []string
	if f.envFile != "" {
		envFiles = append(envFiles, f.envFile)
	}
	cfg, err := config.Load(f.configPath, envFiles...)
	if err != nil {
		return nil, err
	}

	if f.symbols != "" {
		cfg.Symbols = config.SplitCSV(f.symbols)
	}
	if f.output != "" {
		cfg.OutputFile = f.output
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.interval > 0 {
		cfg.Schedule.IntervalSec = max(1, int(f.interval/time.Second))
	}
	if f.poll > 0 {
		cfg.Schedule.PollSec = max(1, int(f.poll/time.Second))
	}

	return newApp(cfg, cmd.ErrOrStderr())
}
