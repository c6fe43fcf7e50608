package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
rate_limit:
  interval_ms: 500
  exclude_updates: [" Callback "]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, []string{UpdateCallback}, cfg.RateLimit.ExcludeUpdates)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Empty(t, cfg.Metrics.Listen)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "from-yaml"
metrics:
  listen: ":9000"
`)
	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("METRICS_LISTEN", ":9100")
	t.Setenv("TELEGRAM_ALLOWED_USERS", "1,22")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, ":9100", cfg.Metrics.Listen)
	assert.Equal(t, []int64{1, 22}, cfg.Telegram.AllowedUsers)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
		check   func(t *testing.T, cfg Config)
	}{
		{
			name:    "missing token",
			cfg:     Config{},
			wantErr: "telegram token is required",
		},
		{
			name: "polling alias",
			cfg:  Config{Telegram: TelegramConfig{Token: "t", RunMode: "Polling"}},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
			},
		},
		{
			name:    "webhook without url",
			cfg:     Config{Telegram: TelegramConfig{Token: "t", RunMode: "webhook"}},
			wantErr: "webhook.url is required",
		},
		{
			name: "webhook complete",
			cfg: Config{
				Telegram: TelegramConfig{Token: "t", RunMode: "webhook"},
				Webhook:  WebhookConfig{URL: "https://example.org/hook", Listen: "0.0.0.0", Port: 8443},
			},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, RunModeWebhook, cfg.Telegram.RunMode)
			},
		},
		{
			name:    "unknown run mode",
			cfg:     Config{Telegram: TelegramConfig{Token: "t", RunMode: "carrier-pigeon"}},
			wantErr: "invalid telegram.run_mode",
		},
		{
			name: "unknown exclusion",
			cfg: Config{
				Telegram:  TelegramConfig{Token: "t"},
				RateLimit: RateLimitConfig{ExcludeUpdates: []string{"inline_query"}},
			},
			wantErr: "invalid rate_limit.exclude_updates",
		},
		{
			name: "negative retries",
			cfg: Config{
				Telegram: TelegramConfig{Token: "t"},
				Sender:   SenderConfig{MaxRetries: -1},
			},
			wantErr: "sender.max_retries",
		},
		{
			name: "metrics path gets slash",
			cfg: Config{
				Telegram: TelegramConfig{Token: "t"},
				Metrics:  MetricsConfig{Listen: " :9090 ", Path: "prom"},
			},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, ":9090", cfg.Metrics.Listen)
				assert.Equal(t, "/prom", cfg.Metrics.Path)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := Normalize(&cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestNormalizeNil(t *testing.T) {
	assert.Error(t, Normalize(nil))
}
