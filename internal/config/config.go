// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type HTTPConfig struct {
	Port            int           `yaml:"port"`
	Prefix          string        `yaml:"prefix"` // versioned API prefix, e.g. /api/v1
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type TelegramConfig struct {
	Token         string        `yaml:"token"`
	APIEndpoint   string        `yaml:"api_endpoint"`    // tgbotapi format string: https://api.telegram.org/bot%s/%s
	PublicBaseURL string        `yaml:"public_base_url"` // base of the URL Telegram calls back, "/webhook" is appended
	Timeout       time.Duration `yaml:"timeout"`
}

type RelayConfig struct {
	Timeout         time.Duration `yaml:"timeout"`
	PropagateStatus bool          `yaml:"propagate_status"` // non-2xx downstream becomes an error envelope
	AllowedHosts    []string      `yaml:"allowed_hosts"`    // empty allows any host
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RateLimitConfig struct {
	Backend   string        `yaml:"backend"`    // none|memory|redis
	PerSecond float64       `yaml:"per_second"` // memory backend
	Burst     int           `yaml:"burst"`      // memory backend
	Limit     int           `yaml:"limit"`      // redis backend, sends per window
	Window    time.Duration `yaml:"window"`     // redis backend
}

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Relay     RelayConfig     `yaml:"relay"`
	Log       LogConfig       `yaml:"log"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`

	Runtime RuntimeConfig `yaml:"-"`
}

// envOverrides are applied on top of the YAML file. Unset variables leave
// the file value alone.
type envOverrides struct {
	BotToken        string         `envconfig:"TELEGRAM_BOT_TOKEN"`
	APIEndpoint     string         `envconfig:"TELEGRAM_API_ENDPOINT"`
	AppURL          string         `envconfig:"APP_URL"`
	TelegramTimeout *time.Duration `envconfig:"TELEGRAM_TIMEOUT"`
	HTTPPort        *int           `envconfig:"HTTP_PORT"`
	HTTPPrefix      string         `envconfig:"HTTP_PREFIX"`
	RelayTimeout    *time.Duration `envconfig:"RELAY_TIMEOUT"`
	RelayPropagate  *bool          `envconfig:"RELAY_PROPAGATE_STATUS"`
	RelayAllowed    []string       `envconfig:"RELAY_ALLOWED_HOSTS"`
	LogLevel        string         `envconfig:"LOG_LEVEL"`
	LogFormat       string         `envconfig:"LOG_FORMAT"`
	RedisURL        string         `envconfig:"REDIS_URL"`
	RedisPassword   string         `envconfig:"REDIS_PASSWORD"`
	RateLimitMode   string         `envconfig:"RATELIMIT_BACKEND"`
}

// LoadConfig reads path (optional when it does not exist), a .env file in the
// working directory, and then the process environment.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// env-only deployments
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	setString(&cfg.Telegram.Token, env.BotToken)
	setString(&cfg.Telegram.APIEndpoint, env.APIEndpoint)
	setString(&cfg.Telegram.PublicBaseURL, env.AppURL)
	setString(&cfg.HTTP.Prefix, env.HTTPPrefix)
	setString(&cfg.Log.Level, env.LogLevel)
	setString(&cfg.Log.Format, env.LogFormat)
	setString(&cfg.Redis.URL, env.RedisURL)
	setString(&cfg.Redis.Password, env.RedisPassword)
	setString(&cfg.RateLimit.Backend, env.RateLimitMode)
	if env.TelegramTimeout != nil {
		cfg.Telegram.Timeout = *env.TelegramTimeout
	}
	if env.HTTPPort != nil {
		cfg.HTTP.Port = *env.HTTPPort
	}
	if env.RelayTimeout != nil {
		cfg.Relay.Timeout = *env.RelayTimeout
	}
	if env.RelayPropagate != nil {
		cfg.Relay.PropagateStatus = *env.RelayPropagate
	}
	if len(env.RelayAllowed) > 0 {
		cfg.Relay.AllowedHosts = env.RelayAllowed
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.Prefix == "" {
		cfg.HTTP.Prefix = "/api/v1"
	}
	cfg.HTTP.Prefix = "/" + strings.Trim(cfg.HTTP.Prefix, "/")
	cfg.HTTP.RequestTimeout = normalizeTimeout(cfg.HTTP.RequestTimeout, 30*time.Second)
	cfg.HTTP.ShutdownTimeout = normalizeTimeout(cfg.HTTP.ShutdownTimeout, 10*time.Second)

	if cfg.Telegram.APIEndpoint == "" {
		cfg.Telegram.APIEndpoint = "https://api.telegram.org/bot%s/%s"
	}
	if cfg.Telegram.PublicBaseURL == "" {
		cfg.Telegram.PublicBaseURL = fmt.Sprintf("http://localhost:%d", cfg.HTTP.Port)
	}
	cfg.Telegram.Timeout = normalizeTimeout(cfg.Telegram.Timeout, 10*time.Second)

	cfg.Relay.Timeout = normalizeTimeout(cfg.Relay.Timeout, 10*time.Second)
	if cfg.Relay.MaxBodyBytes <= 0 {
		cfg.Relay.MaxBodyBytes = 1 << 20
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	cfg.RateLimit.Backend = strings.ToLower(strings.TrimSpace(cfg.RateLimit.Backend))
	if cfg.RateLimit.Backend == "" {
		cfg.RateLimit.Backend = "none"
	}
	if cfg.RateLimit.PerSecond <= 0 {
		cfg.RateLimit.PerSecond = 1
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = 3
	}
	if cfg.RateLimit.Limit <= 0 {
		cfg.RateLimit.Limit = 20
	}
	cfg.RateLimit.Window = normalizeTimeout(cfg.RateLimit.Window, time.Minute)
}

// Validate checks settings that have no sensible default.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return errors.New("telegram.token is required (or TELEGRAM_BOT_TOKEN)")
	}
	if strings.Count(c.Telegram.APIEndpoint, "%s") != 2 {
		return errors.New("telegram.api_endpoint must contain two %s verbs (token, method)")
	}
	switch c.RateLimit.Backend {
	case "none", "memory":
	case "redis":
		if c.Redis.URL == "" {
			return errors.New("redis.url is required when ratelimit.backend is redis")
		}
	default:
		return fmt.Errorf("unknown ratelimit.backend %q", c.RateLimit.Backend)
	}
	return nil
}

func normalizeTimeout(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
