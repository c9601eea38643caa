package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{Environment: "development"}
	assert.True(t, cfg.IsDevelopment())

	cfg = &Config{Environment: "production"}
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())

	cfg = &Config{Environment: "staging"}
	assert.False(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadDefaults(t *testing.T) {
	os.Setenv("ENVIRONMENT", "development")
	defer os.Unsetenv("ENVIRONMENT")

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "caseyos", cfg.Database.DBName)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.BrokerURL)

	// safety defaults: drafts only, nothing auto-approved, nothing sent
	assert.False(t, cfg.Sending.AllowRealSends)
	assert.False(t, cfg.Sending.AutoApproveEnabled)
	assert.True(t, cfg.Sending.ModeDraftOnly)

	assert.Equal(t, 2, cfg.Sending.PerRecipientWeek)
	assert.Equal(t, 20, cfg.Sending.GlobalDay)
	assert.Equal(t, time.Second, cfg.Worker.PollInterval)
	assert.Equal(t, 10, cfg.Worker.BatchSize)
	assert.Equal(t, "http", cfg.Connectors.EmailProvider)
}

func TestLoadOverrides(t *testing.T) {
	env := map[string]string{
		"ENVIRONMENT":          "development",
		"SERVER_PORT":          "9000",
		"WORKER_POLL_INTERVAL": "250ms",
		"EMAIL_PROVIDER":       "ses",
		"SES_REGION":           "eu-west-1",
		"CALENDAR_IDS":         "primary, team@example.com",
	}
	for k, v := range env {
		os.Setenv(k, v)
	}
	defer func() {
		for k := range env {
			os.Unsetenv(k)
		}
	}()

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Worker.PollInterval)
	assert.Equal(t, "ses", cfg.Connectors.EmailProvider)
	assert.Equal(t, "eu-west-1", cfg.Connectors.SESRegion)
	assert.Equal(t, []string{"primary", "team@example.com"}, cfg.Connectors.CalendarIDs)
}

func TestProductionRefusesDefaultSecretKey(t *testing.T) {
	os.Setenv("ENVIRONMENT", "production")
	defer os.Unsetenv("ENVIRONMENT")

	_, err := LoadWithOptions(LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")
}

func TestAllowRealSendsGuards(t *testing.T) {
	t.Run("requires non-default secret key", func(t *testing.T) {
		os.Setenv("ENVIRONMENT", "development")
		os.Setenv("ALLOW_REAL_SENDS", "true")
		defer func() {
			os.Unsetenv("ENVIRONMENT")
			os.Unsetenv("ALLOW_REAL_SENDS")
		}()

		_, err := LoadWithOptions(LoadOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SECRET_KEY")
	})

	t.Run("requires admin token", func(t *testing.T) {
		os.Setenv("ENVIRONMENT", "development")
		os.Setenv("ALLOW_REAL_SENDS", "true")
		os.Setenv("SECRET_KEY", "a-real-secret-key")
		defer func() {
			os.Unsetenv("ENVIRONMENT")
			os.Unsetenv("ALLOW_REAL_SENDS")
			os.Unsetenv("SECRET_KEY")
		}()

		_, err := LoadWithOptions(LoadOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ADMIN_TOKEN")
	})

	t.Run("accepts full configuration", func(t *testing.T) {
		os.Setenv("ENVIRONMENT", "development")
		os.Setenv("ALLOW_REAL_SENDS", "true")
		os.Setenv("SECRET_KEY", "a-real-secret-key")
		os.Setenv("ADMIN_TOKEN", "operator-token")
		defer func() {
			os.Unsetenv("ENVIRONMENT")
			os.Unsetenv("ALLOW_REAL_SENDS")
			os.Unsetenv("SECRET_KEY")
			os.Unsetenv("ADMIN_TOKEN")
		}()

		cfg, err := LoadWithOptions(LoadOptions{})
		require.NoError(t, err)
		assert.True(t, cfg.Sending.AllowRealSends)
		assert.Equal(t, "operator-token", cfg.Security.AdminToken)
	})
}

func TestParseWebhookSigningSecrets(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		secrets, err := parseWebhookSigningSecrets("")
		require.NoError(t, err)
		assert.Empty(t, secrets)
	})

	t.Run("json object", func(t *testing.T) {
		secrets, err := parseWebhookSigningSecrets(`{"form":"s1","crm":"s2"}`)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"form": "s1", "crm": "s2"}, secrets)
	})

	t.Run("comma list", func(t *testing.T) {
		secrets, err := parseWebhookSigningSecrets("form:s1, email:s3")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"form": "s1", "email": "s3"}, secrets)
	})

	t.Run("malformed pair", func(t *testing.T) {
		_, err := parseWebhookSigningSecrets("form")
		require.Error(t, err)
	})
}
