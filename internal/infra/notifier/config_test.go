package notifier

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDiscordConfig(t *testing.T) {
	tests := []struct {
		name        string
		enabled     string
		url         string
		wantEnabled bool
		wantLog     string
	}{
		{name: "disabled", enabled: "false", url: "https://discord.com/api/webhooks/1/abc"},
		{name: "valid", enabled: "true", url: "https://discord.com/api/webhooks/1/abc", wantEnabled: true},
		{name: "empty url", enabled: "true", url: "", wantLog: "webhook URL is empty"},
		{name: "plain http", enabled: "true", url: "http://discord.com/api/webhooks/1/abc", wantLog: "must use HTTPS"},
		{name: "wrong host", enabled: "true", url: "https://evil.example.com/api/webhooks/1/abc", wantLog: "webhook host"},
		{name: "wrong path", enabled: "true", url: "https://discord.com/channels/1", wantLog: "webhook path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DISCORD_ENABLED", tt.enabled)
			t.Setenv("DISCORD_WEBHOOK_URL", tt.url)
			var buf bytes.Buffer

			cfg := LoadDiscordConfig(slog.New(slog.NewTextHandler(&buf, nil)))

			assert.Equal(t, tt.wantEnabled, cfg.Enabled)
			if tt.wantEnabled {
				assert.Equal(t, tt.url, cfg.WebhookURL)
				assert.Equal(t, defaultWebhookTimeout, cfg.Timeout)
			}
			if tt.wantLog != "" {
				assert.Contains(t, buf.String(), tt.wantLog)
				assert.NotContains(t, buf.String(), "/1/abc")
			}
		})
	}
}

func TestLoadSlackConfig(t *testing.T) {
	t.Setenv("SLACK_ENABLED", "true")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T000/B000/XXXX")
	t.Setenv("SLACK_TIMEOUT", "5s")

	cfg := LoadSlackConfig(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/workflows/T000")
	cfg = LoadSlackConfig(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	assert.False(t, cfg.Enabled)
}
