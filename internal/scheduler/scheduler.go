package scheduler

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/robfig/cron/v3"

	"BreakoutScanner/internal/logger"
	"BreakoutScanner/internal/model"
)

// Runner performs one scan pass.
type Runner interface {
	Run(ctx context.Context) (*model.Report, error)
}

// Formatter renders a finished report for output.
type Formatter func(r *model.Report) ([]byte, error)

// Scheduler runs scans on a cron schedule and writes each report to Out.
// Overlapping runs are skipped, not queued.
type Scheduler struct {
	Cron   *cron.Cron
	Runner Runner
	Format Formatter
	Out    io.Writer
	Ctx    context.Context

	// job is scanTask behind the recover and skip-if-running chain. Both
	// cron ticks and RunNow go through it.
	job cron.Job
}

// NewScheduler creates a scheduler evaluating cron expressions (with a
// seconds field) in loc.
func NewScheduler(ctx context.Context, runner Runner, format Formatter, out io.Writer, loc *time.Location) *Scheduler {
	l := logger.CronLogger{}
	s := &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithLogger(l),
		),
		Runner: runner,
		Format: format,
		Out:    out,
		Ctx:    ctx,
	}
	s.job = cron.NewChain(cron.Recover(l), cron.SkipIfStillRunning(l)).Then(cron.FuncJob(s.scanTask))
	return s
}

// Register adds the scan task under a cron expression.
func (s *Scheduler) Register(expr string) error {
	if _, err := s.Cron.AddJob(expr, s.job); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Info("scheduler started")
}

// Stop stops the scheduler and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Info("scheduler stopped")
}

// RunNow executes a scan immediately (RUN_ON_START). It is skipped if a
// scheduled scan is still running.
func (s *Scheduler) RunNow() {
	s.job.Run()
}

func (s *Scheduler) scanTask() {
	logger.Info("running scheduled scan")
	r, err := s.Runner.Run(s.Ctx)
	if err != nil {
		logger.Error("scan failed: %v", err)
		return
	}

	out, err := s.Format(r)
	if err != nil {
		logger.Error("format report: %v", err)
		return
	}
	if _, err := s.Out.Write(out); err != nil {
		logger.Error("write report: %v", err)
	}
}
