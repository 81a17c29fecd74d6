package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"TradeFalcon/internal/executor"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the two periodic activities: the screener feed scan and
// the position monitoring pass.
type Scheduler struct {
	Cron     *cron.Cron
	Executor *executor.Executor
	Ctx      context.Context

	// running lets Stop wait for an in-flight task, so ledger mutations
	// complete before shutdown.
	running sync.WaitGroup
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, exec *executor.Executor) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Executor: exec,
		Ctx:      ctx,
	}
}

// RegisterAll registers the scan and monitor tasks.
func (s *Scheduler) RegisterAll(scanCron, monitorCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if _, err := s.Cron.AddFunc(monitorCron, s.monitorTask); err != nil {
		return fmt.Errorf("register monitor task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the scheduler and waits for any in-flight task to finish.
func (s *Scheduler) Stop() {
	ctx := s.Cron.Stop()
	<-ctx.Done()
	s.running.Wait()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the feed scan immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

// RunMonitorNow executes the monitoring pass immediately.
func (s *Scheduler) RunMonitorNow() {
	s.monitorTask()
}

func (s *Scheduler) scanTask() {
	if s.Ctx.Err() != nil {
		return
	}
	s.running.Add(1)
	defer s.running.Done()

	log.Println("[INFO] running screener feed scan")
	s.Executor.ProcessFeed()

	snap := s.Executor.PortfolioSnapshot()
	log.Printf("[INFO] portfolio: cash %.2f, positions %.2f (%d open), total %.2f, unrealized %+.2f",
		snap.Cash, snap.PositionsValue, snap.Positions, snap.TotalValue, snap.UnrealizedPnL)
}

func (s *Scheduler) monitorTask() {
	if s.Ctx.Err() != nil {
		return
	}
	s.running.Add(1)
	defer s.running.Done()

	results := s.Executor.MonitorPositions()
	for _, res := range results {
		if res.Outcome == executor.OutcomeExecuted && res.Order != nil {
			log.Printf("[INFO] exit %s: realized %+.2f", res.Symbol, res.Order.RealizedPnL)
		}
	}
}
