package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Env           string `envconfig:"APP_ENV" default:"development"`
	Port          int    `envconfig:"APP_PORT" default:"8080"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	DB            DBConfig
	Redis         RedisConfig
	Limiter       RateLimiterConfig
	CORS          CORSConfig
	JWT           JWTConfig
	Session       SessionConfig
	Evaluation    EvaluationConfig
	Webhook       WebhookConfig
}

// database configuration
type DBConfig struct {
	DSN          string        `envconfig:"DATABASE_URL" required:"true"`
	MaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns int           `envconfig:"DB_MAX_IDLE_CONNS" default:"25"`
	MaxIdleTime  time.Duration `envconfig:"DB_MAX_IDLE_TIME" default:"15m"`
}

// redis configuration, backing the evaluation session store
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// rate limiting configuration
type RateLimiterConfig struct {
	RPS     float64 `envconfig:"RATE_LIMIT_RPS" default:"10"`
	Burst   int     `envconfig:"RATE_LIMIT_BURST" default:"20"`
	Enabled bool    `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORS configuration
type CORSConfig struct {
	TrustedOrigins []string `envconfig:"CORS_TRUSTED_ORIGINS" default:"http://localhost:3000,http://localhost:4173,http://localhost:5173"`
}

// JWT configuration
type JWTConfig struct {
	Secret         string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"60m"`
}

// SessionConfig controls the candidate evaluation session.
// TTL bounds how long an abandoned tab keeps its keys in Redis; Timeout is the
// advisory expiry reported by IsSessionExpired, enforced on submit only when
// EnforceExpiry is set.
type SessionConfig struct {
	CookieName    string        `envconfig:"SESSION_COOKIE_NAME" default:"lupa_sid"`
	CookieSecure  bool          `envconfig:"SESSION_COOKIE_SECURE" default:"false"`
	TTL           time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	Timeout       time.Duration `envconfig:"SESSION_TIMEOUT" default:"60m"`
	EnforceExpiry bool          `envconfig:"SESSION_ENFORCE_EXPIRY" default:"false"`
}

// evaluation questionnaire configuration
type EvaluationConfig struct {
	QuestionLimit int `envconfig:"EVALUATION_QUESTION_LIMIT" default:"6"`
}

// workflow-automation webhook configuration (chat widget + contact form)
type WebhookConfig struct {
	ChatURL    string        `envconfig:"WEBHOOK_CHAT_URL"`
	ContactURL string        `envconfig:"WEBHOOK_CONTACT_URL"`
	Username   string        `envconfig:"WEBHOOK_USERNAME"`
	Password   string        `envconfig:"WEBHOOK_PASSWORD"`
	Timeout    time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadDB reads only the database settings, for tools that do not serve HTTP.
func LoadDB() (DBConfig, error) {
	var db DBConfig
	if err := envconfig.Process("", &db); err != nil {
		return db, fmt.Errorf("failed to process config: %w", err)
	}
	if db.MaxOpenConns < 1 {
		return db, fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1")
	}
	return db, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}
	if c.DB.MaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1")
	}
	if c.DB.MaxIdleConns < 1 {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must be at least 1")
	}
	if c.DB.MaxIdleConns > c.DB.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS (%d) cannot exceed DB_MAX_OPEN_CONNS (%d)",
			c.DB.MaxIdleConns, c.DB.MaxOpenConns)
	}
	if c.Limiter.RPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be non-negative")
	}
	if c.Limiter.Burst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if len(c.GetCORSOrigins()) == 0 {
		return fmt.Errorf("at least one trusted origin must be specified")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME must not be empty")
	}
	if c.Session.Timeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	if c.Session.TTL < c.Session.Timeout {
		return fmt.Errorf("SESSION_TTL (%s) cannot be shorter than SESSION_TIMEOUT (%s)", c.Session.TTL, c.Session.Timeout)
	}
	if c.Evaluation.QuestionLimit < 1 {
		return fmt.Errorf("EVALUATION_QUESTION_LIMIT must be at least 1")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// GetCORSOrigins returns the list of trusted CORS origins
func (c *Config) GetCORSOrigins() []string {
	origins := make([]string, 0, len(c.CORS.TrustedOrigins))
	for _, origin := range c.CORS.TrustedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// EvaluationLink is the public entry URL a company shares with candidates.
func (c *Config) EvaluationLink(companyID string) string {
	return strings.TrimRight(c.PublicBaseURL, "/") + "/avaliacao/" + companyID
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Env=%s, Port=%d, DB.MaxOpenConns=%d, DB.MaxIdleConns=%d, "+
		"Limiter.RPS=%.2f, Limiter.Burst=%d, Limiter.Enabled=%t, CORS.Origins=%d, "+
		"JWT.AccessTokenTTL=%s, Session.TTL=%s, Session.Timeout=%s, Session.EnforceExpiry=%t, "+
		"Evaluation.QuestionLimit=%d}",
		c.Env, c.Port, c.DB.MaxOpenConns, c.DB.MaxIdleConns,
		c.Limiter.RPS, c.Limiter.Burst, c.Limiter.Enabled, len(c.CORS.TrustedOrigins),
		c.JWT.AccessTokenTTL, c.Session.TTL, c.Session.Timeout, c.Session.EnforceExpiry,
		c.Evaluation.QuestionLimit)
}
