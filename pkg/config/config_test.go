package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RECAPTCHA_SECRET_KEY", "secret")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "mailer@example.com")
	t.Setenv("SMTP_PASS", "hunter2")
	t.Setenv("EMAIL_RECIPIENT", "support@example.com")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id.apps.googleusercontent.com")
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("SMTP_SECURE", "true")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("FORM_EXTENDED", "true")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, ":8081", cfg.Addr())
	assert.True(t, cfg.SMTP.Secure)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.True(t, cfg.Form.Extended)
	assert.Equal(t, time.Minute, cfg.HTTP.RateLimitWindow)
	assert.Equal(t, "support@example.com", cfg.SMTP.Recipient)
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.SMTP.Secure)
	assert.Equal(t, "Help Form", cfg.SMTP.FromName)
	assert.Equal(t, DefaultRecaptchaVerifyURL, cfg.Recaptcha.VerifyURL)
	assert.Equal(t, 100, cfg.HTTP.RateLimitMax)
	assert.Equal(t, 15*time.Minute, cfg.HTTP.RateLimitWindow)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_MissingRequiredFailsFast(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SecretKey")
	assert.Contains(t, err.Error(), "Recipient")
	assert.Contains(t, err.Error(), "ClientID")
}

func TestLoadConfig_RejectsInvalidRecipient(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMAIL_RECIPIENT", "not-an-address")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Recipient")
}

func TestLoadConfig_YAMLThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlDoc := `
port: 4000
environment: production
recaptcha:
  secret_key: from-file
smtp:
  host: relay.internal
  user: relay-user
  pass: relay-pass
  recipient: desk@example.com
google:
  client_id: file-client
form:
  extended: true
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))
	t.Setenv("SMTP_HOST", "relay.override")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "from-file", cfg.Recaptcha.SecretKey)
	assert.Equal(t, "relay.override", cfg.SMTP.Host)
	assert.True(t, cfg.Form.Extended)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestHTTPConfig_Origins(t *testing.T) {
	c := HTTPConfig{AllowedOrigins: " https://a.example , https://b.example ,"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.Origins())

	empty := HTTPConfig{}
	assert.Equal(t, []string{"*"}, empty.Origins())
}

func TestHTTPConfig_TrustedProxies(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Nil(t, cfg.HTTP.TrustedProxies())

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.10")
	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.10"}, cfg.HTTP.TrustedProxies())
}
