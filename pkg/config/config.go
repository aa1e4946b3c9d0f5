package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// DefaultRecaptchaVerifyURL is Google's siteverify endpoint.
const DefaultRecaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Config holds all application configuration values
type Config struct {
	Port        int    `yaml:"port" env:"PORT" validate:"required,min=1,max=65535"`
	Environment string `yaml:"environment" env:"APP_ENV" validate:"oneof=development production"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`

	Recaptcha RecaptchaConfig `yaml:"recaptcha"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Google    GoogleConfig    `yaml:"google"`
	Form      FormConfig      `yaml:"form"`
	HTTP      HTTPConfig      `yaml:"http"`
}

// RecaptchaConfig configures the CAPTCHA provider.
type RecaptchaConfig struct {
	SecretKey string `yaml:"secret_key" env:"RECAPTCHA_SECRET_KEY" validate:"required"`
	SiteKey   string `yaml:"site_key" env:"RECAPTCHA_SITE_KEY"`
	VerifyURL string `yaml:"verify_url" env:"RECAPTCHA_VERIFY_URL" validate:"required,url"`
}

// SMTPConfig configures the outbound mail relay.
type SMTPConfig struct {
	Host      string `yaml:"host" env:"SMTP_HOST" validate:"required"`
	Port      int    `yaml:"port" env:"SMTP_PORT" validate:"required,min=1,max=65535"`
	Secure    bool   `yaml:"secure" env:"SMTP_SECURE"`
	User      string `yaml:"user" env:"SMTP_USER" validate:"required"`
	Pass      string `yaml:"pass" env:"SMTP_PASS" validate:"required"`
	Recipient string `yaml:"recipient" env:"EMAIL_RECIPIENT" validate:"required,email"`
	FromName  string `yaml:"from_name" env:"MAIL_FROM_NAME" validate:"required"`
}

// GoogleConfig configures ID token verification.
type GoogleConfig struct {
	ClientID string `yaml:"client_id" env:"GOOGLE_CLIENT_ID" validate:"required"`
}

// FormConfig selects the form variant.
type FormConfig struct {
	Extended bool `yaml:"extended" env:"FORM_EXTENDED"`
}

// HTTPConfig holds inbound and outbound HTTP settings.
type HTTPConfig struct {
	OutboundTimeout time.Duration `yaml:"outbound_timeout" env:"OUTBOUND_TIMEOUT" validate:"gt=0"`
	RateLimitMax    int           `yaml:"rate_limit_max" env:"RATE_LIMIT_MAX" validate:"min=1"`
	RateLimitWindow time.Duration `yaml:"rate_limit_window" env:"RATE_LIMIT_WINDOW" validate:"gt=0"`
	AllowedOrigins  string        `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	// ProxyList names the proxies whose X-Forwarded-For is believed. Empty
	// means the socket address is always the client IP.
	ProxyList string `yaml:"trusted_proxies" env:"TRUSTED_PROXIES"`
}

// Default returns a Config populated with the built-in defaults. Secrets and
// mailboxes have no defaults and must be supplied.
func Default() *Config {
	return &Config{
		Port:        3000,
		Environment: "development",
		LogLevel:    "info",
		Recaptcha: RecaptchaConfig{
			VerifyURL: DefaultRecaptchaVerifyURL,
		},
		SMTP: SMTPConfig{
			Port:     587,
			FromName: "Help Form",
		},
		HTTP: HTTPConfig{
			OutboundTimeout: 10 * time.Second,
			RateLimitMax:    100,
			RateLimitWindow: 15 * time.Minute,
			AllowedOrigins:  "*",
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file and
// the environment, in that order, and validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("error decoding environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or malformed option at once.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Origins splits the configured CORS origins.
func (c *HTTPConfig) Origins() []string {
	out := splitList(c.AllowedOrigins)
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// TrustedProxies splits the configured proxy IPs and CIDRs. The result is nil
// when none are configured.
func (c *HTTPConfig) TrustedProxies() []string {
	return splitList(c.ProxyList)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
