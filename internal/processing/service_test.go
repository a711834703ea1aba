package processing

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/voxnote/reminders-bot/internal/clock"
	"github.com/voxnote/reminders-bot/internal/config"
	"github.com/voxnote/reminders-bot/internal/extraction"
	"github.com/voxnote/reminders-bot/internal/models"
	"github.com/voxnote/reminders-bot/internal/segment"
)

var testNow = time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)

// MockStorage is a mock implementation of StorageInterface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Store(filename string, data []byte) error {
	args := m.Called(filename, data)
	return args.Error(0)
}

func (m *MockStorage) Retrieve(filename string) ([]byte, error) {
	args := m.Called(filename)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) List(prefix string) ([]string, error) {
	args := m.Called(prefix)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) Delete(filename string) error {
	args := m.Called(filename)
	return args.Error(0)
}

// MockNotificationService is a mock implementation of NotificationInterface
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendDigest(digest *models.Digest) error {
	args := m.Called(digest)
	return args.Error(0)
}

func (m *MockNotificationService) SendAlert(alert *models.Alert) error {
	args := m.Called(alert)
	return args.Error(0)
}

func newTestService(t *testing.T, store *MockStorage, notifier *MockNotificationService) *Service {
	t.Helper()

	cfg := &config.Config{
		DigestSchedule: "daily",
		MaxReminders:   10,
		MinConfidence:  0.5,
	}

	segmenter, err := segment.NewPunktSegmenter()
	require.NoError(t, err)

	clk := clock.Fixed(testNow)
	pipeline := extraction.NewPipeline(extraction.Config{
		MaxReminders:  cfg.MaxReminders,
		MinConfidence: cfg.MinConfidence,
	}, segmenter, clk)

	return NewService(cfg, store, notifier, pipeline, clk)
}

func TestProcessTranscriptStoresBatch(t *testing.T) {
	store := &MockStorage{}
	notifier := &MockNotificationService{}
	service := newTestService(t, store, notifier)

	store.On("Store", mock.MatchedBy(func(name string) bool {
		return strings.HasPrefix(name, batchPrefix) && strings.HasSuffix(name, ".json")
	}), mock.Anything).Return(nil)

	reminders, err := service.ProcessTranscript("Remind me to call mom tomorrow.", "api")

	assert.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.True(t, strings.HasPrefix(reminders[0].Text, "Call mom"))
	store.AssertExpectations(t)

	// the stored payload must decode back into a batch
	data := store.Calls[0].Arguments.Get(1).([]byte)
	var batch models.Batch
	require.NoError(t, json.Unmarshal(data, &batch))
	assert.Equal(t, "api", batch.Source)
	assert.Equal(t, testNow, batch.ExtractedAt)
	assert.Equal(t, reminders, batch.Reminders)
}

func TestProcessTranscriptAlertsOnImmediate(t *testing.T) {
	store := &MockStorage{}
	notifier := &MockNotificationService{}
	service := newTestService(t, store, notifier)

	store.On("Store", mock.Anything, mock.Anything).Return(nil)
	notifier.On("SendAlert", mock.MatchedBy(func(alert *models.Alert) bool {
		return alert.Reminder != nil && alert.Reminder.Urgency == models.UrgencyImmediate
	})).Return(nil)

	reminders, err := service.ProcessTranscript("Urgent: remind me to call the client right now.", "api")

	assert.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, models.UrgencyImmediate, reminders[0].Urgency)
	notifier.AssertNumberOfCalls(t, "SendAlert", 1)
}

func TestProcessTranscriptEmptyResult(t *testing.T) {
	store := &MockStorage{}
	notifier := &MockNotificationService{}
	service := newTestService(t, store, notifier)

	reminders, err := service.ProcessTranscript("The weather was nice today. We talked about the game.", "api")

	assert.NoError(t, err)
	assert.Empty(t, reminders)
	store.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "SendAlert", mock.Anything)
}

func TestRunDigest(t *testing.T) {
	store := &MockStorage{}
	notifier := &MockNotificationService{}
	service := newTestService(t, store, notifier)

	recent := models.NewBatch("api", testNow.Add(-2*time.Hour), []models.ReminderItem{
		{Text: "Call mom", Urgency: models.UrgencyThisWeek, Confidence: 1.0, Strategy: extraction.StrategyExplicit},
	})
	stale := models.NewBatch("api", testNow.Add(-48*time.Hour), []models.ReminderItem{
		{Text: "Old reminder", Urgency: models.UrgencyLater, Confidence: 0.7, Strategy: extraction.StrategyTimeBased},
	})
	recentData, _ := json.Marshal(recent)
	staleData, _ := json.Marshal(stale)

	store.On("List", batchPrefix).Return([]string{"reminders-a.json", "reminders-b.json"}, nil)
	store.On("Retrieve", "reminders-a.json").Return(recentData, nil)
	store.On("Retrieve", "reminders-b.json").Return(staleData, nil)

	var sent *models.Digest
	notifier.On("SendDigest", mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(0).(*models.Digest)
	}).Return(nil)

	err := service.RunDigest()

	assert.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, "daily", sent.Period)
	assert.Equal(t, 1, sent.TotalReminders)
	assert.Equal(t, map[string]int{"this_week": 1}, sent.Summary)
	assert.Equal(t, testNow, sent.GeneratedAt)
}

func TestRunDigestSkipsCorruptBatches(t *testing.T) {
	store := &MockStorage{}
	notifier := &MockNotificationService{}
	service := newTestService(t, store, notifier)

	store.On("List", batchPrefix).Return([]string{"reminders-bad.json"}, nil)
	store.On("Retrieve", "reminders-bad.json").Return([]byte("not json"), nil)

	var sent *models.Digest
	notifier.On("SendDigest", mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(0).(*models.Digest)
	}).Return(nil)

	err := service.RunDigest()

	assert.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, 0, sent.TotalReminders)
}

func TestRunUrgentSweep(t *testing.T) {
	store := &MockStorage{}
	notifier := &MockNotificationService{}
	service := newTestService(t, store, notifier)

	batch := models.NewBatch("api", testNow.Add(-time.Hour), []models.ReminderItem{
		{Text: "Call the client", Urgency: models.UrgencyImmediate, Confidence: 0.95, Strategy: extraction.StrategyExplicit},
		{Text: "Water the plants", Urgency: models.UrgencyLater, Confidence: 0.7, Strategy: extraction.StrategyRecurring},
	})
	data, _ := json.Marshal(batch)

	store.On("List", batchPrefix).Return([]string{"reminders-a.json"}, nil)
	store.On("Retrieve", "reminders-a.json").Return(data, nil)
	notifier.On("SendAlert", mock.Anything).Return(nil)

	err := service.RunUrgentSweep()

	assert.NoError(t, err)
	notifier.AssertNumberOfCalls(t, "SendAlert", 1)
}

func TestGetMetrics(t *testing.T) {
	store := &MockStorage{}
	notifier := &MockNotificationService{}
	service := newTestService(t, store, notifier)

	store.On("Store", mock.Anything, mock.Anything).Return(nil)

	_, err := service.ProcessTranscript("Remind me to call mom tomorrow.", "api")
	require.NoError(t, err)

	var metrics Metrics
	require.NoError(t, json.Unmarshal([]byte(service.GetMetrics()), &metrics))
	assert.Equal(t, 1, metrics.TranscriptsProcessed)
	assert.Equal(t, 1, metrics.TotalReminders)
	assert.Equal(t, 1, metrics.StrategyBreakdown[extraction.StrategyExplicit])
	assert.Equal(t, 1, metrics.UrgencyBreakdown["this_week"])
	assert.Equal(t, 0, metrics.ErrorCount)
}
