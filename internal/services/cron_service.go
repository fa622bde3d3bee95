package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/thebell/bellstaff-backend/internal/database"
)

// CronService manages scheduled maintenance jobs
type CronService struct {
	cron          *cron.Cron
	logs          *database.ActivityLogRepository
	retentionDays int
	logger        *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(logs *database.ActivityLogRepository, retentionDays int, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:          cron.New(),
		logs:          logs,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// Start schedules all maintenance jobs
func (s *CronService) Start() error {
	// Prune expired activity logs nightly at 3 AM
	if _, err := s.cron.AddFunc("0 3 * * *", s.pruneActivityLogsJob); err != nil {
		return fmt.Errorf("failed to schedule activity log pruning: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("retention_days", s.retentionDays).Info("Maintenance jobs scheduled")
	return nil
}

// Stop stops all scheduled jobs and waits for running ones
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Maintenance jobs stopped")
}

// RunPruneNow runs the pruning job immediately
func (s *CronService) RunPruneNow() {
	s.pruneActivityLogsJob()
}

func (s *CronService) pruneActivityLogsJob() {
	start := time.Now()
	cutoff := start.AddDate(0, 0, -s.retentionDays)

	pruned, err := s.logs.DeleteOlderThan(cutoff)
	if err != nil {
		s.logger.WithError(err).Error("Activity log pruning failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"pruned":   pruned,
		"cutoff":   cutoff.Format(time.RFC3339),
		"duration": time.Since(start).String(),
	}).Info("Activity log pruning finished")
}
