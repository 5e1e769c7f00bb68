// Package notify pushes escalation events to a Slack incoming webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mentorled/fellowtrack/internal/domain/model"
	"github.com/mentorled/fellowtrack/pkg/logger"
	"github.com/mentorled/fellowtrack/pkg/metrics"
)

// Kind distinguishes notification triggers.
type Kind string

const (
	KindLevelChanged  Kind = "level_changed"
	KindWarningIssued Kind = "warning_issued"
)

// Event is one notification to deliver.
type Event struct {
	Kind       Kind
	FellowID   uuid.UUID
	FellowName string
	Level      model.RiskLevel
	Score      float64
	Week       int
	Concerns   []string
}

// Notifier delivers events to the escalation channel.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Slack posts events to an incoming webhook. Delivery is best effort:
// failures are logged and counted, never propagated to the caller.
type Slack struct {
	webhookURL string
	http       *http.Client
	log        logger.Logger
}

// NewSlack builds a webhook notifier. An empty URL yields a disabled
// notifier that drops every event.
func NewSlack(webhookURL string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: 10 * time.Second},
		log:        logger.Named("notify"),
	}
}

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks,omitempty"`
}

type slackBlock struct {
	Type string     `json:"type"`
	Text *slackText `json:"text,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

var levelEmoji = map[model.RiskLevel]string{
	model.LevelOnTrack:  ":large_green_circle:",
	model.LevelMonitor:  ":large_yellow_circle:",
	model.LevelAtRisk:   ":large_orange_circle:",
	model.LevelCritical: ":red_circle:",
}

// Notify posts the event. Errors are swallowed after logging so a
// Slack outage never fails an assessment.
func (s *Slack) Notify(ctx context.Context, ev Event) {
	if s.webhookURL == "" {
		return
	}
	metrics.RecordNotifyEvent(string(ev.Kind))

	payload := s.build(ev)
	body, err := json.Marshal(payload)
	if err != nil {
		metrics.RecordNotifyError()
		s.log.Error(ctx, "marshal notification", logger.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		metrics.RecordNotifyError()
		s.log.Error(ctx, "build notification request", logger.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		metrics.RecordNotifyError()
		s.log.Warn(ctx, "deliver notification", logger.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordNotifyError()
		s.log.Warn(ctx, "notification rejected",
			logger.Int("status", resp.StatusCode),
			logger.String("kind", string(ev.Kind)))
	}
}

func (s *Slack) build(ev Event) slackPayload {
	emoji := levelEmoji[ev.Level]
	var headline string
	switch ev.Kind {
	case KindWarningIssued:
		headline = fmt.Sprintf("%s Warning issued to *%s*", emoji, ev.FellowName)
	default:
		headline = fmt.Sprintf("%s *%s* moved to *%s* (score %.2f, week %d)",
			emoji, ev.FellowName, ev.Level, ev.Score, ev.Week)
	}

	blocks := []slackBlock{{
		Type: "section",
		Text: &slackText{Type: "mrkdwn", Text: headline},
	}}
	if len(ev.Concerns) > 0 {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "• " + strings.Join(ev.Concerns, "\n• ")},
		})
	}
	return slackPayload{Text: headline, Blocks: blocks}
}

// Noop drops every event. Used when notifications are disabled.
type Noop struct{}

// Notify does nothing.
func (Noop) Notify(context.Context, Event) {}
