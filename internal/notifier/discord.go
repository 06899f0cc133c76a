package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"VelArchiver/internal/config"
)

const (
	eventStart   = "start"
	eventSuccess = "success"
	eventError   = "error"
)

// DiscordNotifier posts run events to a Discord webhook as embeds.
type DiscordNotifier struct {
	webhookURL string
	hostname   string
	events     map[string]struct{}
	attempts   int
	backoff    time.Duration
	client     *http.Client
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds,omitempty"`
}

type discordEmbed struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
	Fields      []discordField `json:"fields,omitempty"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

func NewDiscordNotifier(cfg *config.DiscordConfig) (*DiscordNotifier, error) {
	if cfg == nil || !cfg.Enabled || cfg.WebhookURL == "" {
		return nil, fmt.Errorf("discord notifier disabled or missing webhook_url")
	}

	n := &DiscordNotifier{
		webhookURL: cfg.WebhookURL,
		hostname:   "unknown",
		events:     map[string]struct{}{},
		attempts:   1,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	if h, err := os.Hostname(); err == nil && h != "" {
		n.hostname = h
	}
	if cfg.TimeoutSeconds > 0 {
		n.client.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.Retry != nil && cfg.Retry.Attempts > 1 {
		n.attempts = cfg.Retry.Attempts
		n.backoff = time.Duration(cfg.Retry.BackoffMs) * time.Millisecond
	}
	for _, e := range cfg.Events {
		n.events[e] = struct{}{}
	}
	return n, nil
}

// wants reports whether the event passes the configured filter. An empty
// filter passes everything.
func (d *DiscordNotifier) wants(event string) bool {
	if len(d.events) == 0 {
		return true
	}
	_, ok := d.events[event]
	return ok
}

func field(name, value string, inline bool) discordField {
	return discordField{Name: name, Value: value, Inline: inline}
}

func (d *DiscordNotifier) embed(title string, color int, fields ...discordField) discordEmbed {
	return discordEmbed{
		Title:     title,
		Color:     color,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Fields:    append([]discordField{field("Host", d.hostname, true)}, fields...),
	}
}

// post performs one webhook delivery attempt.
func (d *DiscordNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}

func (d *DiscordNotifier) send(ctx context.Context, e discordEmbed) error {
	body, err := json.Marshal(discordPayload{Embeds: []discordEmbed{e}})
	if err != nil {
		return err
	}
	var last error
	for i := 0; i < d.attempts; i++ {
		if last = d.post(ctx, body); last == nil {
			return nil
		}
		if i < d.attempts-1 && d.backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d.backoff):
			}
		}
	}
	return fmt.Errorf("discord webhook: giving up after %d attempts: %w", d.attempts, last)
}

func (d *DiscordNotifier) NotifyStart(ctx context.Context, bucket, runID string) error {
	if !d.wants(eventStart) {
		return nil
	}
	return d.send(ctx, d.embed("Archive run started", 0x3498db,
		field("Bucket", bucket, true),
		field("Run", runID, true),
	))
}

func (d *DiscordNotifier) NotifySuccess(ctx context.Context, bucket, archiveKey string, duration time.Duration, size int64, savedPercent float64) error {
	if !d.wants(eventSuccess) {
		return nil
	}
	return d.send(ctx, d.embed("Archive run succeeded", 0x2ecc71,
		field("Bucket", bucket, true),
		field("Archive", archiveKey, false),
		field("Size", fmt.Sprintf("%d bytes", size), true),
		field("Saved", fmt.Sprintf("%.1f%%", savedPercent), true),
		field("Duration", duration.String(), true),
	))
}

func (d *DiscordNotifier) NotifyError(ctx context.Context, bucket, runID string, runErr error) error {
	if !d.wants(eventError) {
		return nil
	}
	e := d.embed("Archive run failed", 0xe74c3c,
		field("Bucket", bucket, true),
		field("Run", runID, true),
	)
	e.Description = runErr.Error()
	return d.send(ctx, e)
}
