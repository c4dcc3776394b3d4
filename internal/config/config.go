package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort         string
	Env                string
	ServiceName        string
	APIBaseURL         string
	APITimeout         time.Duration
	RedisURL           string
	RedisTTL           time.Duration
	SessionCookie      string
	PageSize           int
	FrontendURL        string
	TrustedProxies     []string
	RateLimitPerMinute int
	RateLimitBurst     int
	SentryDSN          string
	OTLPEndpoint       string
}

var defaults = map[string]interface{}{
	"SERVER_PORT":                 "3020",
	"ENV":                         "dev",
	"SERVICE_NAME":                "kanban-frontend",
	"API_BASE_URL":                "http://localhost:8020/api",
	"API_TIMEOUT":                 "10s",
	"REDIS_URL":                   "redis:6379",
	"REDIS_TTL":                   "30m",
	"SESSION_COOKIE":              "kanban_session",
	"PAGE_SIZE":                   10,
	"FRONTEND_URL":                "",
	"TRUSTED_PROXIES":             "",
	"RATE_LIMIT_PER_MINUTE":       60,
	"RATE_LIMIT_BURST":            20,
	"SENTRY_DSN":                  "",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
}

// LoadConfig reads the process environment, optionally layered over the file
// named by CONFIG_FILE.
func LoadConfig() (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		ServerPort:         v.GetString("SERVER_PORT"),
		Env:                v.GetString("ENV"),
		ServiceName:        v.GetString("SERVICE_NAME"),
		APIBaseURL:         strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		APITimeout:         getDuration(v, "API_TIMEOUT", 10*time.Second),
		RedisURL:           v.GetString("REDIS_URL"),
		RedisTTL:           getDuration(v, "REDIS_TTL", 30*time.Minute),
		SessionCookie:      v.GetString("SESSION_COOKIE"),
		PageSize:           getPositiveInt(v, "PAGE_SIZE", 10),
		FrontendURL:        v.GetString("FRONTEND_URL"),
		TrustedProxies:     splitList(v.GetString("TRUSTED_PROXIES")),
		RateLimitPerMinute: getPositiveInt(v, "RATE_LIMIT_PER_MINUTE", 60),
		RateLimitBurst:     getPositiveInt(v, "RATE_LIMIT_BURST", 20),
		SentryDSN:          v.GetString("SENTRY_DSN"),
		OTLPEndpoint:       v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	if c.SessionCookie == "" {
		return fmt.Errorf("SESSION_COOKIE is required")
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development"
}

// AllowedOrigins splits FRONTEND_URL on commas. Empty means localhost only.
func (c *Config) AllowedOrigins() []string {
	if c.FrontendURL == "" {
		return []string{"http://localhost:" + c.ServerPort, "http://127.0.0.1:" + c.ServerPort}
	}
	return splitList(c.FrontendURL)
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getPositiveInt(v *viper.Viper, key string, fallback int) int {
	n := v.GetInt(key)
	if n <= 0 {
		return fallback
	}
	return n
}
