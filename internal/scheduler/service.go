package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/voxnote/reminders-bot/internal/config"
	"github.com/voxnote/reminders-bot/internal/processing"
)

// Service handles scheduling of digest and sweep tasks
type Service struct {
	config            *config.Config
	processingService *processing.Service
	cron              *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, processingService *processing.Service) *Service {
	return &Service{
		config:            cfg,
		processingService: processingService,
		cron:              cron.New(cron.WithSeconds()),
	}
}

// Start begins the scheduled digest runs
func (s *Service) Start() error {
	var cronExpression string

	switch s.config.DigestSchedule {
	case "daily":
		// Run daily at 9 AM UTC
		cronExpression = "0 0 9 * * *"
	case "weekly":
		// Run weekly on Monday at 9 AM UTC
		cronExpression = "0 0 9 * * MON"
	default:
		// Default to weekly
		cronExpression = "0 0 9 * * MON"
	}

	_, err := s.cron.AddFunc(cronExpression, func() {
		logrus.Info("Starting scheduled digest run")
		if err := s.processingService.RunDigest(); err != nil {
			logrus.Errorf("Scheduled digest run failed: %v", err)
		}
	})

	if err != nil {
		return err
	}

	// Also sweep recent batches for urgent reminders (every 4 hours)
	_, err = s.cron.AddFunc("0 0 */4 * * *", func() {
		logrus.Info("Starting urgent reminder sweep (4-hour frequency)")
		if err := s.processingService.RunUrgentSweep(); err != nil {
			logrus.Errorf("Urgent reminder sweep failed: %v", err)
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule (plus urgent sweeps every 4 hours)", s.config.DigestSchedule)
	return nil
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}
