// Package config loads service configuration from config.toml and
// SMARTSHOP_ prefixed environment variables, with env taking precedence.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root of the service configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Credit   CreditConfig
	Log      LogConfig
	HTTP     HTTPConfig
}

// AppConfig names the process and selects the environment.
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds Postgres connection and pool settings.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // minutes
	ConnMaxIdleTime int // minutes
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret                 string
	RefreshSecret          string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	MaxRefreshCount        int
}

// AuthConfig holds login protection settings.
type AuthConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// CreditConfig holds credit ledger settings.
type CreditConfig struct {
	DueSoonWindowDays int
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// HTTPConfig holds server timeouts and CORS settings.
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// Load reads config.toml from the working directory or /app, overlays
// SMARTSHOP_ environment variables, fills defaults for unset values,
// and validates the result. A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("SMARTSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: strOr(v, "app.name", "smartshop-backend"),
			Env:  strOr(v, "app.env", "development"),
			Port: strOr(v, "app.port", "8080"),
		},
		Database: DatabaseConfig{
			Host:            strOr(v, "database.host", "localhost"),
			Port:            intOr(v, "database.port", 5432),
			User:            strOr(v, "database.user", "postgres"),
			Password:        v.GetString("database.password"),
			DBName:          strOr(v, "database.dbname", "smartshop"),
			SSLMode:         strOr(v, "database.sslmode", "disable"),
			MaxOpenConns:    intOr(v, "database.max_open_conns", 25),
			MaxIdleConns:    intOr(v, "database.max_idle_conns", 5),
			ConnMaxLifetime: intOr(v, "database.conn_max_lifetime", 60),
			ConnMaxIdleTime: intOr(v, "database.conn_max_idle_time", 30),
		},
		Redis: RedisConfig{
			Host:     strOr(v, "redis.host", "localhost"),
			Port:     intOr(v, "redis.port", 6379),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			AccessTokenExpiration:  durOr(v, "jwt.access_token_expiration", 15*time.Minute),
			RefreshTokenExpiration: durOr(v, "jwt.refresh_token_expiration", 168*time.Hour),
			Issuer:                 strOr(v, "jwt.issuer", "smartshop-backend"),
			MaxRefreshCount:        intOr(v, "jwt.max_refresh_count", 10),
		},
		Auth: AuthConfig{
			MaxLoginAttempts: intOr(v, "auth.max_login_attempts", 5),
			LockDuration:     durOr(v, "auth.lock_duration", 15*time.Minute),
		},
		Credit: CreditConfig{
			DueSoonWindowDays: intOr(v, "credit.due_soon_window_days", 7),
		},
		Log: LogConfig{
			Level:  strOr(v, "log.level", "info"),
			Format: strOr(v, "log.format", "console"),
			Output: strOr(v, "log.output", "stdout"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    durOr(v, "http.read_timeout", 15*time.Second),
			WriteTimeout:   durOr(v, "http.write_timeout", 15*time.Second),
			IdleTimeout:    durOr(v, "http.idle_timeout", 60*time.Second),
			MaxHeaderBytes: intOr(v, "http.max_header_bytes", 1<<20),
			// CORS origins get no fallback. An empty list blocks all
			// cross-origin requests until explicitly configured.
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: sliceOr(v, "http.cors_allow_methods",
				[]string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}),
			CORSAllowHeaders: sliceOr(v, "http.cors_allow_headers",
				[]string{"Content-Type", "Authorization", "X-Request-ID"}),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Zero values mean "not set" so an explicit 0 in the environment falls
// back to the default rather than disabling the setting.

func strOr(v *viper.Viper, key, def string) string {
	if s := v.GetString(key); s != "" {
		return s
	}
	return def
}

func intOr(v *viper.Viper, key string, def int) int {
	if n := v.GetInt(key); n != 0 {
		return n
	}
	return def
}

func durOr(v *viper.Viper, key string, def time.Duration) time.Duration {
	if d := v.GetDuration(key); d != 0 {
		return d
	}
	return def
}

func sliceOr(v *viper.Viper, key string, def []string) []string {
	if s := v.GetStringSlice(key); len(s) > 0 {
		return s
	}
	return def
}

func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Credit.DueSoonWindowDays < 0 {
		return fmt.Errorf("credit.due_soon_window_days cannot be negative")
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// DSN returns the Postgres connection URL with escaped credentials.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the Redis address in host:port form.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
