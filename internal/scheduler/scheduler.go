package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/SameetPathan/cowfarm/internal/config"
	"github.com/SameetPathan/cowfarm/internal/service/reporting"
)

// Scheduler runs the nightly report generation: every owner's summary and
// month-to-date income rollup, archived so dashboards can read a
// precomputed document instead of re-reducing the raw history.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	cfg          config.ReportingConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.ReportingConfig, reportingSvc *reporting.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(location)),
		reportingSvc: reportingSvc,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the nightly job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.generateNightlyReports); err != nil {
		s.logger.Error("failed to schedule nightly reports", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) generateNightlyReports() {
	s.logger.Info("generating nightly reports")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	owners, err := s.reportingSvc.Owners(ctx)
	if err != nil {
		s.logger.Error("failed to list owners", zap.Error(err))
		return
	}

	var generated int
	for _, owner := range owners {
		if _, _, err := s.reportingSvc.GenerateAndArchive(ctx, owner); err != nil {
			s.logger.Error("failed to generate report", zap.String("owner", owner), zap.Error(err))
			continue
		}
		generated++
	}

	s.logger.Info("nightly reports finished", zap.Int("owners", len(owners)), zap.Int("generated", generated))
}
