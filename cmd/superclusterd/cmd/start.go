package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"github.com/openalpha/supercluster/api"
	"github.com/openalpha/supercluster/app"
	"github.com/openalpha/supercluster/config"
	"github.com/openalpha/supercluster/metrics"
	"github.com/openalpha/supercluster/recorder"
	"github.com/openalpha/supercluster/scheduler"
)

// StartCmd returns the command that runs the node
func StartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the vault with its API, scheduler and event recorder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString(flagConfig)
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			logger, closer, err := config.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, logger)
		},
	}

	cmd.Flags().String(flagConfig, DefaultConfigPath, "config file; missing means defaults")
	return cmd
}

// run serves until ctx is cancelled, then shuts everything down in reverse order
func run(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	db, err := app.OpenDB(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	a, err := app.New(db, cfg.Genesis, logger)
	if err != nil {
		db.Close()
		return err
	}
	defer a.Close()

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Recorder.SQLitePath != "" {
		sqliteRec, err := recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath, logger)
		if err != nil {
			return err
		}
		a.AddListener(sqliteRec)
		rec = sqliteRec
	}
	defer rec.Close()

	var m *metrics.Collector
	if cfg.Metrics.Enabled {
		m = metrics.GetCollector()
		a.AddListener(m)
	}

	server := api.NewServer(cfg.API, a, api.Options{
		Recorder:    rec,
		Metrics:     m,
		MetricsPath: cfg.Metrics.Path,
	}, logger)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(a, cfg.Scheduler.Keeper, m, logger)
		if err := sched.RegisterAll(cfg.Scheduler.RebaseCron, cfg.Scheduler.ReportCron); err != nil {
			return err
		}
		sched.Start()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Start()
	}()
	logger.Info("node started", "api", cfg.API.Addr(), "height", a.Height())

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-serveErr:
		if err != nil {
			logger.Error("api server failed", "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if stopErr := server.Stop(shutdownCtx); stopErr != nil {
		logger.Error("api shutdown", "err", stopErr)
	}
	logger.Info("node stopped", "height", a.Height())
	return err
}

