package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/placora/backend/auth"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	Logger      LoggerConfig
	HTTP        HTTPConfig
	Auth        AuthConfig
	Database    DatabaseConfig
	SMTP        SMTPConfig
	Uploads     UploadsConfig
	Metrics     MetricsConfig
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type HTTPConfig struct {
	Host            string
	Port            string
	ShutdownTimeout time.Duration
}

type AuthConfig struct {
	SigningKey         string
	ContextKey         string
	TokenExpiration    int
	ActivationTokenTTL int
	PasswordResetTTL   int
	AuthScheme         string
	Issuer             string
	Audience           []string
	FrontendURL        string
	PhoneRegion        string
}

type DatabaseConfig struct {
	Driver string
	DSN    string
	Debug  bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type UploadsConfig struct {
	Dir string
}

type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "placora"),
		Environment: getString("APP_ENV", "development"),
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		HTTP: HTTPConfig{
			Host:            getString("SERVER_HOST", "0.0.0.0"),
			Port:            getString("SERVER_PORT", "3000"),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Auth: AuthConfig{
			SigningKey:         os.Getenv("JWT_SECRET"),
			ContextKey:         getString("AUTH_CONTEXT_KEY", "user"),
			TokenExpiration:    getInt("SESSION_TTL_HOURS", 24),
			ActivationTokenTTL: getInt("ACTIVATION_TTL_HOURS", 24),
			PasswordResetTTL:   getInt("PASSWORD_RESET_TTL_HOURS", 1),
			AuthScheme:         getString("AUTH_SCHEME", "Bearer"),
			Issuer:             getString("JWT_ISSUER", "placora"),
			Audience:           getStrings("JWT_AUDIENCE", []string{"placora-api"}),
			FrontendURL:        getString("FRONTEND_URL", "http://localhost:4200"),
			PhoneRegion:        getString("PHONE_REGION", "US"),
		},
		Database: DatabaseConfig{
			Driver: getString("DB_DRIVER", "sqlite"),
			DSN:    getString("DB_DSN", "file:placora.db?cache=shared&mode=rwc"),
			Debug:  getBool("DB_DEBUG", false),
		},
		SMTP: SMTPConfig{
			Host:     getString("SMTP_HOST", "localhost"),
			Port:     getInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getString("SMTP_FROM", "noreply@placora.app"),
		},
		Uploads: UploadsConfig{
			Dir: getString("UPLOADS_DIR", "./uploads"),
		},
		Metrics: MetricsConfig{
			Enabled: getBool("METRICS_ENABLED", true),
		},
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// The auth package consumes its options through this interface.
var _ auth.Config = (*Config)(nil)

func (c *Config) GetSigningKey() string      { return c.Auth.SigningKey }
func (c *Config) GetContextKey() string      { return c.Auth.ContextKey }
func (c *Config) GetTokenExpiration() int    { return c.Auth.TokenExpiration }
func (c *Config) GetActivationTokenTTL() int { return c.Auth.ActivationTokenTTL }
func (c *Config) GetPasswordResetTTL() int   { return c.Auth.PasswordResetTTL }
func (c *Config) GetAuthScheme() string      { return c.Auth.AuthScheme }
func (c *Config) GetIssuer() string          { return c.Auth.Issuer }
func (c *Config) GetAudience() []string      { return c.Auth.Audience }
func (c *Config) GetFrontendURL() string     { return c.Auth.FrontendURL }

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getStrings(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}

	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
