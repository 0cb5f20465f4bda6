package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nothotgamer/hostelixpro/internals/features/routines/repository"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
	"github.com/nothotgamer/hostelixpro/internals/metrics"
)

const jobName = "overdue_returns"

// OverdueSweep counts students whose approved exit has passed its expected
// return time and publishes the number as a gauge. It never changes routine
// state; late returns stay for the routine manager to confirm.
type OverdueSweep struct {
	db      *gorm.DB
	clock   dbtime.Clock
	log     *zap.Logger
	timeout time.Duration
}

func NewOverdueSweep(db *gorm.DB, clock dbtime.Clock, log *zap.Logger) *OverdueSweep {
	if clock == nil {
		clock = dbtime.SystemClock{}
	}
	return &OverdueSweep{db: db, clock: clock, log: log.Named("scheduler"), timeout: 30 * time.Second}
}

// Run performs one sweep.
func (s *OverdueSweep) Run(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := repository.CountOverdue(ctx, s.db, s.clock.NowMs())
	metrics.RecordJobRun(jobName, err == nil)
	if err != nil {
		s.log.Error("overdue sweep failed", zap.Error(err))
		return 0, err
	}

	metrics.SetOverdueRoutines(n)
	if n > 0 {
		s.log.Warn("students overdue from exit", zap.Int64("count", n))
	} else {
		s.log.Debug("no overdue exits")
	}
	return n, nil
}

// Start schedules the sweep on a standard 5-field cron expression and runs it once
// right away. Stop the returned cron on shutdown.
func (s *OverdueSweep) Start(schedule string) (*cron.Cron, error) {
	cl := s.cronLogger()
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl)))
	if _, err := c.AddFunc(schedule, func() { _, _ = s.Run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule %s %q: %w", jobName, schedule, err)
	}
	c.Start()
	go func() { _, _ = s.Run(context.Background()) }()

	s.log.Info("overdue sweep scheduled", zap.String("schedule", schedule))
	return c, nil
}

// cronLogger routes cron's own messages (skips, panics) into zap.
func (s *OverdueSweep) cronLogger() cron.Logger {
	return cron.VerbosePrintfLogger(zap.NewStdLog(s.log.Named("cron")))
}
