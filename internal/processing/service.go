// Package processing wires the extraction pipeline to storage and
// notifications: it processes submitted transcripts, persists the extracted
// reminder batches, sends alerts for immediate reminders, and builds the
// periodic digests.
package processing

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/voxnote/reminders-bot/internal/clock"
	"github.com/voxnote/reminders-bot/internal/config"
	"github.com/voxnote/reminders-bot/internal/extraction"
	"github.com/voxnote/reminders-bot/internal/models"
	"github.com/voxnote/reminders-bot/internal/notifications"
	"github.com/voxnote/reminders-bot/internal/storage"
)

const batchPrefix = "reminders-"

// Service handles transcript processing and digest generation
type Service struct {
	config              *config.Config
	storage             storage.StorageInterface
	notificationService notifications.NotificationInterface
	pipeline            *extraction.Pipeline
	clock               clock.Clock
	metrics             *Metrics
	mu                  sync.RWMutex
}

// Metrics holds processing metrics
type Metrics struct {
	TranscriptsProcessed int            `json:"transcripts_processed"`
	TotalReminders       int            `json:"total_reminders"`
	LastRun              time.Time      `json:"last_run"`
	LastRunDuration      string         `json:"last_run_duration"`
	StrategyBreakdown    map[string]int `json:"strategy_breakdown"`
	UrgencyBreakdown     map[string]int `json:"urgency_breakdown"`
	ErrorCount           int            `json:"error_count"`
}

// NewService creates a new processing service
func NewService(cfg *config.Config, store storage.StorageInterface, notificationService notifications.NotificationInterface, pipeline *extraction.Pipeline, clk clock.Clock) *Service {
	return &Service{
		config:              cfg,
		storage:             store,
		notificationService: notificationService,
		pipeline:            pipeline,
		clock:               clk,
		metrics: &Metrics{
			StrategyBreakdown: make(map[string]int),
			UrgencyBreakdown:  make(map[string]int),
		},
	}
}

// ProcessTranscript runs the extraction pipeline over a transcript, persists
// the resulting batch, and alerts on immediate reminders. An empty extraction
// result is not an error and stores nothing.
func (s *Service) ProcessTranscript(text, source string) ([]models.ReminderItem, error) {
	start := s.clock.Now()
	logrus.Infof("Processing transcript from %s (%d bytes)", source, len(text))

	reminders := s.pipeline.ExtractReminders(text)
	if len(reminders) == 0 {
		logrus.Debug("No reminders extracted")
		s.updateMetrics(nil, time.Since(start), 0)
		return nil, nil
	}

	batch := models.NewBatch(source, start, reminders)
	errorCount := 0
	if err := s.storeBatch(batch); err != nil {
		logrus.Errorf("Failed to store reminder batch: %v", err)
		s.updateMetrics(reminders, time.Since(start), 1)
		return nil, err
	}

	for i := range reminders {
		if reminders[i].Urgency != models.UrgencyImmediate {
			continue
		}
		if err := s.sendReminderAlert(&reminders[i]); err != nil {
			logrus.Errorf("Failed to send alert: %v", err)
			errorCount++
		}
	}

	s.updateMetrics(reminders, time.Since(start), errorCount)
	logrus.Infof("Extracted %d reminders from %s transcript", len(reminders), source)
	return reminders, nil
}

// RunDigest aggregates the reminder batches stored inside the schedule window
// and sends them as a digest report.
func (s *Service) RunDigest() error {
	start := s.clock.Now()
	logrus.Info("Starting digest run")

	window := s.digestWindow()
	reminders, err := s.loadReminders(start.Add(-window))
	if err != nil {
		return fmt.Errorf("failed to load stored reminders: %w", err)
	}

	digest := s.buildDigest(reminders)
	if err := s.notificationService.SendDigest(digest); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}

	logrus.Infof("Digest run completed in %v with %d reminders", time.Since(start), digest.TotalReminders)
	return nil
}

// RunUrgentSweep re-scans recently stored batches for immediate reminders and
// alerts on them. It runs every few hours as a safety net for alerts that
// failed at processing time.
func (s *Service) RunUrgentSweep() error {
	start := s.clock.Now()
	logrus.Info("Starting urgent reminder sweep")

	reminders, err := s.loadReminders(start.Add(-4 * time.Hour))
	if err != nil {
		return fmt.Errorf("failed to load stored reminders: %w", err)
	}

	urgent := 0
	for i := range reminders {
		if reminders[i].Urgency != models.UrgencyImmediate {
			continue
		}
		urgent++
		if err := s.sendReminderAlert(&reminders[i]); err != nil {
			logrus.Errorf("Failed to send sweep alert: %v", err)
		}
	}

	if urgent == 0 {
		logrus.Info("No urgent reminders found")
		return nil
	}

	logrus.Infof("Urgent sweep completed in %v, sent %d alerts", time.Since(start), urgent)
	return nil
}

func (s *Service) storeBatch(batch models.Batch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}

	filename := fmt.Sprintf("%s%s.json", batchPrefix, batch.ExtractedAt.Format("2006-01-02-15-04-05.000000000"))
	return s.storage.Store(filename, data)
}

// loadReminders returns all reminders from batches extracted at or after the
// cutoff. Batches that fail to load or decode are skipped, not fatal.
func (s *Service) loadReminders(cutoff time.Time) ([]models.ReminderItem, error) {
	names, err := s.storage.List(batchPrefix)
	if err != nil {
		return nil, err
	}

	var out []models.ReminderItem
	for _, name := range names {
		data, err := s.storage.Retrieve(name)
		if err != nil {
			logrus.Errorf("Failed to retrieve batch %s: %v", name, err)
			continue
		}

		var batch models.Batch
		if err := json.Unmarshal(data, &batch); err != nil {
			logrus.Errorf("Failed to decode batch %s: %v", name, err)
			continue
		}
		if batch.ExtractedAt.Before(cutoff) {
			continue
		}
		out = append(out, batch.Reminders...)
	}

	return out, nil
}

func (s *Service) buildDigest(reminders []models.ReminderItem) *models.Digest {
	digest := &models.Digest{
		GeneratedAt:    s.clock.Now(),
		Period:         s.config.DigestSchedule,
		TotalReminders: len(reminders),
		Reminders:      reminders,
		Summary:        make(map[string]int),
	}

	for _, item := range reminders {
		digest.Summary[item.Urgency.String()]++
	}

	return digest
}

func (s *Service) sendReminderAlert(item *models.ReminderItem) error {
	alert := &models.Alert{
		ID:        uuid.NewString(),
		Title:     "Urgent reminder extracted",
		Message:   fmt.Sprintf("An immediate reminder was found: %s", item.Text),
		Reminder:  item,
		CreatedAt: s.clock.Now(),
	}
	return s.notificationService.SendAlert(alert)
}

func (s *Service) digestWindow() time.Duration {
	switch s.config.DigestSchedule {
	case "daily":
		return 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

func (s *Service) updateMetrics(reminders []models.ReminderItem, duration time.Duration, errorCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TranscriptsProcessed++
	s.metrics.TotalReminders += len(reminders)
	s.metrics.LastRun = s.clock.Now()
	s.metrics.LastRunDuration = duration.String()
	s.metrics.ErrorCount += errorCount

	for _, item := range reminders {
		s.metrics.StrategyBreakdown[item.Strategy]++
		s.metrics.UrgencyBreakdown[item.Urgency.String()]++
	}
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
