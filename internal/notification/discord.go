package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/mangacat/internal/domain"
)

const (
	colorGreen  = 0x00ff00
	colorOrange = 0xffa500
	colorRed    = 0xff0000

	// discord caps an embed field value at 1024 characters
	maxFieldLen = 1024
)

// DiscordService posts notifications to a Discord webhook
type DiscordService struct {
	log        zerolog.Logger
	webhookURL string
	httpClient *http.Client
}

// NewDiscordService creates a new Discord notification service
func NewDiscordService(log zerolog.Logger, webhookURL string) *DiscordService {
	return &DiscordService{
		log:        log.With().Str("module", "notification").Str("type", "discord").Logger(),
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendRefreshSummary posts the counts of a bulk refresh and lists the
// entries that failed.
func (s *DiscordService) SendRefreshSummary(ctx context.Context, report domain.RefreshReport) error {
	if s.webhookURL == "" {
		return nil
	}

	embed := discordEmbed{
		Title:     "Metadata refresh completed",
		Color:     colorGreen,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []discordField{
			{Name: "Entries", Value: fmt.Sprintf("%d", report.Total), Inline: true},
			{Name: "Updated", Value: fmt.Sprintf("%d", len(report.Updated)), Inline: true},
			{Name: "Failed", Value: fmt.Sprintf("%d", len(report.Failed)), Inline: true},
		},
	}

	if len(report.Failed) > 0 {
		embed.Title = "Metadata refresh completed with failures"
		embed.Color = colorOrange

		lines := make([]string, 0, len(report.Failed))
		for _, f := range report.Failed {
			lines = append(lines, fmt.Sprintf("%d %s: %s", f.MalID, f.Title, f.Error))
		}
		embed.Fields = append(embed.Fields, discordField{
			Name:  "Failures",
			Value: truncate(strings.Join(lines, "\n"), maxFieldLen),
		})
	}

	return s.sendWebhook(ctx, discordWebhook{Embeds: []discordEmbed{embed}})
}

// SendError sends an error notification with error details
func (s *DiscordService) SendError(ctx context.Context, err error) error {
	if s.webhookURL == "" {
		return nil
	}

	embed := discordEmbed{
		Title:       "Metadata refresh failed",
		Description: fmt.Sprintf("Refresh aborted with error:\n```%s```", err.Error()),
		Color:       colorRed,
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	return s.sendWebhook(ctx, discordWebhook{Embeds: []discordEmbed{embed}})
}

func (s *DiscordService) sendWebhook(ctx context.Context, payload discordWebhook) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to marshal webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return errors.Wrap(err, "failed to create webhook request")
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send webhook request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("webhook request failed with status %d", resp.StatusCode)
	}

	s.log.Debug().Msg("Discord notification sent")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n-3], "") + "..."
}

type discordWebhook struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color"`
	Timestamp   string         `json:"timestamp,omitempty"`
	Fields      []discordField `json:"fields,omitempty"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}
