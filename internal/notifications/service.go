package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/voxnote/reminders-bot/internal/config"
	"github.com/voxnote/reminders-bot/internal/models"
)

// Service handles sending notifications via various channels
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message
type TeamsMessage struct {
	Type     string         `json:"@type"`
	Context  string         `json:"@context"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Sections []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle    string      `json:"activityTitle,omitempty"`
	ActivitySubtitle string      `json:"activitySubtitle,omitempty"`
	ActivityText     string      `json:"activityText,omitempty"`
	Facts            []TeamsFact `json:"facts,omitempty"`
	Markdown         bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendDigest sends a reminder digest via configured notification channels
func (s *Service) SendDigest(digest *models.Digest) error {
	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(s.buildDigestMessage(digest)); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Successfully sent digest to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendDigestEmail(digest); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent digest via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// SendAlert sends an immediate notification for an urgent reminder
func (s *Service) SendAlert(alert *models.Alert) error {
	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(s.buildAlertMessage(alert)); err != nil {
			logrus.Errorf("Failed to send Teams alert: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendAlertEmail(alert); err != nil {
			logrus.Errorf("Failed to send alert email: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("alert errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToTeams(message *TeamsMessage) error {
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) buildDigestMessage(digest *models.Digest) *TeamsMessage {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Reminders Digest - %s", capitalize(digest.Period)),
		Text:    fmt.Sprintf("Extracted %d reminders in the last %s period", digest.TotalReminders, digest.Period),
	}

	facts := []TeamsFact{
		{Name: "Total Reminders", Value: fmt.Sprintf("%d", digest.TotalReminders)},
		{Name: "Generated", Value: digest.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
	}
	for _, tier := range []models.Urgency{models.UrgencyImmediate, models.UrgencyToday, models.UrgencyThisWeek, models.UrgencyLater} {
		if count, ok := digest.Summary[tier.String()]; ok {
			facts = append(facts, TeamsFact{
				Name:  capitalize(strings.ReplaceAll(tier.String(), "_", " ")),
				Value: fmt.Sprintf("%d", count),
			})
		}
	}
	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Summary",
		Facts:         facts,
		Markdown:      true,
	})

	if len(digest.Reminders) > 0 {
		var lines []string
		limit := 10
		if len(digest.Reminders) < limit {
			limit = len(digest.Reminders)
		}

		for i := 0; i < limit; i++ {
			item := digest.Reminders[i]
			lines = append(lines, fmt.Sprintf("**%s** - %s (%s, %.0f%%)",
				item.Text, item.TimeReference.OriginalText, item.Urgency, item.Confidence*100))
		}

		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Upcoming Reminders",
			ActivityText:  strings.Join(lines, "\n\n"),
			Markdown:      true,
		})
	}

	return message
}

func (s *Service) buildAlertMessage(alert *models.Alert) *TeamsMessage {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   alert.Title,
		Text:    alert.Message,
	}

	if alert.Reminder != nil {
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: alert.Reminder.Text,
			ActivityText:  fmt.Sprintf("When: %s | Confidence: %.0f%%", alert.Reminder.TimeReference.OriginalText, alert.Reminder.Confidence*100),
			Markdown:      true,
		})
	}

	return message
}

func (s *Service) sendDigestEmail(digest *models.Digest) error {
	subject := fmt.Sprintf("Reminders Digest - %s (%d reminders)",
		capitalize(digest.Period), digest.TotalReminders)

	htmlBody, err := s.buildEmailHTML(digest)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	return s.sendEmail(subject, s.buildEmailText(digest), htmlBody)
}

func (s *Service) sendAlertEmail(alert *models.Alert) error {
	body := alert.Message
	if alert.Reminder != nil {
		body = fmt.Sprintf("%s\n\n%s\nWhen: %s\nConfidence: %.0f%%",
			alert.Message, alert.Reminder.Text, alert.Reminder.TimeReference.OriginalText, alert.Reminder.Confidence*100)
	}
	return s.sendEmail(alert.Title, body, "")
}

func (s *Service) sendEmail(subject, textBody, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *Service) buildEmailHTML(digest *models.Digest) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Reminders Digest</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #0078d4; color: white; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .reminder { border-left: 4px solid #605e5c; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .reminder-text { font-weight: bold; margin-bottom: 5px; }
        .reminder-meta { color: #666; font-size: 0.9em; }
        .immediate { border-left-color: #d13438; }
        .today { border-left-color: #ff8c00; }
        .this_week { border-left-color: #0078d4; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Reminders Digest</h1>
        <p>{{.Period}} digest generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM UTC"}}</p>
    </div>

    <div class="summary">
        <h2>Summary</h2>
        <p><strong>Total Reminders:</strong> {{.TotalReminders}}</p>
        {{range $tier, $count := .Summary}}
            <p><strong>{{$tier | tierName}}:</strong> {{$count}}</p>
        {{end}}
    </div>

    {{if .Reminders}}
    <h2>Reminders</h2>
    {{range $index, $item := .Reminders}}
        {{if lt $index 25}}
        <div class="reminder {{$item.Urgency}}">
            <div class="reminder-text">{{$item.Text}}</div>
            <div class="reminder-meta">
                When: {{$item.TimeReference.OriginalText}}
                {{if $item.TimeReference.RelativeTime}} ({{$item.TimeReference.RelativeTime}}){{end}}
                | Confidence: {{$item.Confidence | percent}}
            </div>
        </div>
        {{end}}
    {{end}}
    {{end}}

    <hr>
    <p><small>This digest was generated automatically by the Reminders Bot.</small></p>
</body>
</html>
`

	t := template.New("email").Funcs(template.FuncMap{
		"tierName": func(s string) string {
			return capitalize(strings.ReplaceAll(s, "_", " "))
		},
		"percent": func(v float64) string {
			return fmt.Sprintf("%.0f%%", v*100)
		},
	})

	t, err := t.Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, digest); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Service) buildEmailText(digest *models.Digest) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("Reminders Digest - %s\n", capitalize(digest.Period)))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", digest.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	text.WriteString("SUMMARY\n")
	text.WriteString("=======\n")
	text.WriteString(fmt.Sprintf("Total Reminders: %d\n", digest.TotalReminders))
	for _, tier := range []models.Urgency{models.UrgencyImmediate, models.UrgencyToday, models.UrgencyThisWeek, models.UrgencyLater} {
		if count, ok := digest.Summary[tier.String()]; ok {
			text.WriteString(fmt.Sprintf("%s: %d\n", capitalize(strings.ReplaceAll(tier.String(), "_", " ")), count))
		}
	}

	if len(digest.Reminders) > 0 {
		text.WriteString("\nREMINDERS\n")
		text.WriteString("=========\n")

		for i, item := range digest.Reminders {
			if i >= 25 {
				break
			}
			text.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, item.Text))
			text.WriteString(fmt.Sprintf("   When: %s", item.TimeReference.OriginalText))
			if item.TimeReference.RelativeTime != "" {
				text.WriteString(fmt.Sprintf(" (%s)", item.TimeReference.RelativeTime))
			}
			text.WriteString(fmt.Sprintf(" | Urgency: %s | Confidence: %.0f%%\n", item.Urgency, item.Confidence*100))
		}
	}

	text.WriteString("\n---\nThis digest was generated automatically by the Reminders Bot.\n")

	return text.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
