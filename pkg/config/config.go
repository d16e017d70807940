package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	OAuth     OAuthConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Sentry    SentryConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// Database drivers understood by database.Connect.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNone     = "none"
)

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string

	// AllowDegradedReads makes read operations return empty results instead
	// of errors when the store is missing or unreachable. Writes still fail.
	AllowDegradedReads bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type SessionConfig struct {
	Secret      string
	ExpiryHours int
	CookieName  string
}

type OAuthConfig struct {
	ClientID        string
	ClientSecret    string
	AuthURL         string
	TokenURL        string
	UserInfoURL     string
	RedirectURL     string
	Scopes          []string
	OwnerExternalID string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

type SentryConfig struct {
	DSN string
}

type WorkerConfig struct {
	Concurrency int
	OverdueCron string
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (d *DatabaseConfig) Enabled() bool {
	return d.Driver != "" && d.Driver != DriverNone
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (s *SessionConfig) Expiry() time.Duration {
	return time.Duration(s.ExpiryHours) * time.Hour
}

func (o *OAuthConfig) Enabled() bool {
	return o.ClientID != "" && o.AuthURL != "" && o.TokenURL != ""
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "buddy")
	v.SetDefault("DATABASE_PASSWORD", "buddy_secret")
	v.SetDefault("DATABASE_NAME", "buddy_tracker")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_SQLITE_PATH", "buddy-tracker.db")
	v.SetDefault("DATABASE_ALLOW_DEGRADED_READS", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("SESSION_SECRET", "change-me-in-production")
	v.SetDefault("SESSION_EXPIRY_HOURS", 24*365)
	v.SetDefault("SESSION_COOKIE_NAME", "app_session_id")
	v.SetDefault("OAUTH_SCOPES", "openid profile email")
	v.SetDefault("OAUTH_REDIRECT_URL", "http://localhost:8080/api/oauth/callback")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("RATE_LIMIT_REQUESTS", 300)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("WORKER_CONCURRENCY", 5)
	v.SetDefault("WORKER_OVERDUE_CRON", "*/15 * * * *")

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Driver:             strings.ToLower(v.GetString("DATABASE_DRIVER")),
			Host:               v.GetString("DATABASE_HOST"),
			Port:               v.GetInt("DATABASE_PORT"),
			User:               v.GetString("DATABASE_USER"),
			Password:           v.GetString("DATABASE_PASSWORD"),
			Name:               v.GetString("DATABASE_NAME"),
			SSLMode:            v.GetString("DATABASE_SSLMODE"),
			SQLitePath:         v.GetString("DATABASE_SQLITE_PATH"),
			AllowDegradedReads: v.GetBool("DATABASE_ALLOW_DEGRADED_READS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		Session: SessionConfig{
			Secret:      v.GetString("SESSION_SECRET"),
			ExpiryHours: v.GetInt("SESSION_EXPIRY_HOURS"),
			CookieName:  v.GetString("SESSION_COOKIE_NAME"),
		},
		OAuth: OAuthConfig{
			ClientID:        v.GetString("OAUTH_CLIENT_ID"),
			ClientSecret:    v.GetString("OAUTH_CLIENT_SECRET"),
			AuthURL:         v.GetString("OAUTH_AUTH_URL"),
			TokenURL:        v.GetString("OAUTH_TOKEN_URL"),
			UserInfoURL:     v.GetString("OAUTH_USERINFO_URL"),
			RedirectURL:     v.GetString("OAUTH_REDIRECT_URL"),
			Scopes:          splitList(v.GetString("OAUTH_SCOPES"), " "),
			OwnerExternalID: v.GetString("OWNER_EXTERNAL_ID"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS"), ","),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Sentry: SentryConfig{
			DSN: v.GetString("SENTRY_DSN"),
		},
		Worker: WorkerConfig{
			Concurrency: v.GetInt("WORKER_CONCURRENCY"),
			OverdueCron: v.GetString("WORKER_OVERDUE_CRON"),
		},
	}

	return cfg, nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
