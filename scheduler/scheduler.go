// Package scheduler runs the periodic keeper jobs.
package scheduler

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/robfig/cron/v3"

	"github.com/openalpha/supercluster/app"
	"github.com/openalpha/supercluster/metrics"
	superclustertypes "github.com/openalpha/supercluster/x/supercluster/types"
)

// Report is a snapshot of vault and queue state
type Report struct {
	Height          int64
	Vault           *superclustertypes.VaultState
	QueueBalance    math.Int
	Reserved        math.Int
	PendingRequests int
}

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron    *cron.Cron
	app     *app.App
	metrics *metrics.Collector
	keeper  string
	logger  log.Logger
}

// New creates a scheduler acting as keeper. metrics may be nil.
func New(a *app.App, keeper string, m *metrics.Collector, logger log.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		app:     a,
		metrics: m,
		keeper:  keeper,
		logger:  logger.With("module", "scheduler"),
	}
}

// RegisterAll registers the rebase and report jobs. An empty spec skips that job.
func (s *Scheduler) RegisterAll(rebaseCron, reportCron string) error {
	if rebaseCron != "" {
		if _, err := s.cron.AddFunc(rebaseCron, s.rebaseTask); err != nil {
			return fmt.Errorf("register rebase task: %w", err)
		}
	}
	if reportCron != "" {
		if _, err := s.cron.AddFunc(reportCron, s.reportTask); err != nil {
			return fmt.Errorf("register report task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.logger.Info("scheduler stopped")
}

// RunRebase sets managed value to the live figure as the keeper
func (s *Scheduler) RunRebase() (math.Int, error) {
	timer := metrics.NewTimer()
	var value math.Int
	err := s.app.Exec(func(ctx sdk.Context) error {
		var err error
		value, err = s.app.Supercluster.Rebase(ctx, s.keeper)
		return err
	})
	if s.metrics != nil {
		s.metrics.RecordOperation("scheduled_rebase", err, timer.ElapsedMs())
	}
	return value, err
}

// RunReport reads vault and queue state and publishes it to the gauges
func (s *Scheduler) RunReport() (*Report, error) {
	report := &Report{}
	err := s.app.Query(func(ctx sdk.Context) error {
		vault, err := s.app.Supercluster.GetVaultState(ctx)
		if err != nil {
			return err
		}
		report.Height = ctx.BlockHeight()
		report.Vault = vault
		report.QueueBalance = s.app.Withdraw.QueueBalance(ctx)
		report.Reserved = s.app.Withdraw.GetReserved(ctx)
		report.PendingRequests = len(s.app.Withdraw.GetPendingRequests(ctx))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordVaultState(report.Vault)
		s.metrics.RecordQueue(report.QueueBalance, report.Reserved, report.PendingRequests)
	}
	return report, nil
}

func (s *Scheduler) rebaseTask() {
	value, err := s.RunRebase()
	if err != nil {
		s.logger.Error("scheduled rebase failed", "keeper", s.keeper, "error", err)
		return
	}
	s.logger.Info("scheduled rebase", "managed_value", value.String())
}

func (s *Scheduler) reportTask() {
	r, err := s.RunReport()
	if err != nil {
		s.logger.Error("vault report failed", "error", err)
		return
	}
	s.logger.Info("vault report",
		"height", r.Height,
		"managed_value", r.Vault.TotalManagedValue.String(),
		"live_value", r.Vault.LiveValue.String(),
		"total_shares", r.Vault.TotalShares.String(),
		"queue_balance", r.QueueBalance.String(),
		"reserved", r.Reserved.String(),
		"pending_requests", r.PendingRequests,
	)
}
