package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// AuditPruner deletes audit entries older than a cutoff
type AuditPruner interface {
	CleanupOldAuditLogs(ctx context.Context, olderThan time.Duration) (int64, error)
}

// CronService manages scheduled background jobs
type CronService struct {
	cron      *cron.Cron
	pruner    AuditPruner
	retention time.Duration
	logger    *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(pruner AuditPruner, retentionDays int, logger *logrus.Logger) *CronService {
	// seconds precision, matching AUDIT_PRUNE_SCHEDULE
	c := cron.New(cron.WithSeconds())

	return &CronService{
		cron:      c,
		pruner:    pruner,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
	}
}

// Start schedules the audit retention job and starts the scheduler.
// An empty spec leaves the scheduler idle.
func (s *CronService) Start(pruneSpec string) error {
	if pruneSpec == "" {
		s.logger.Info("Audit retention job disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(pruneSpec, s.pruneAuditLogsJob); err != nil {
		return fmt.Errorf("failed to schedule audit retention job: %w", err)
	}

	s.cron.Start()
	s.logger.WithFields(logrus.Fields{
		"schedule":       pruneSpec,
		"retention_days": int(s.retention.Hours() / 24),
	}).Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

func (s *CronService) pruneAuditLogsJob() {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	deleted, err := s.pruner.CleanupOldAuditLogs(ctx, s.retention)
	if err != nil {
		s.logger.WithError(err).Error("Audit retention job failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"deleted":     deleted,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Info("Audit retention job completed")
}
