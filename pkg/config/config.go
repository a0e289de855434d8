// Package config loads application configuration via Viper from environment
// variables and an optional config file next to the binary.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application configuration.
type Config struct {
	App    AppConfig
	DB     DBConfig
	HTTP   HTTPConfig
	Auth   AuthConfig
	Ledger LedgerConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env      string // development, production
	Name     string
	LogLevel string
}

// DBConfig holds PostgreSQL settings. If DatabaseURL is set it is used as the
// full connection string, otherwise the DSN is built from the parts.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString returns the DSN to use.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// HTTPConfig holds the local IPC surface settings. The server binds to
// loopback by default; the desktop shell is the only expected client.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig holds operator session settings.
type AuthConfig struct {
	// JWTSecret signs desktop session tokens.
	JWTSecret string
	// SessionTTL is how long an operator session stays valid.
	SessionTTL time.Duration
	// OperatorPINHash is the bcrypt hash of the operator PIN.
	OperatorPINHash string
}

// LedgerConfig holds stock ledger policy settings.
type LedgerConfig struct {
	// AllowNegativeStock preserves the lenient legacy behavior where
	// transfers and sale deductions may drive a location below zero.
	// Default is strict: such operations are rejected.
	AllowNegativeStock bool
}

// Load reads configuration from environment variables and optionally from a
// config file (config.env in the working directory). Env vars win.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // file is optional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			Name:     v.GetString("APP_NAME"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
		},
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		Auth: AuthConfig{
			JWTSecret:       v.GetString("JWT_SECRET"),
			SessionTTL:      v.GetDuration("SESSION_TTL"),
			OperatorPINHash: v.GetString("OPERATOR_PIN_HASH"),
		},
		Ledger: LedgerConfig{
			AllowNegativeStock: v.GetBool("ALLOW_NEGATIVE_STOCK"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "barkeep")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "barkeep")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("HTTP_HOST", "127.0.0.1")
	v.SetDefault("HTTP_PORT", 8090)

	v.SetDefault("SESSION_TTL", 12*time.Hour)

	v.SetDefault("ALLOW_NEGATIVE_STOCK", false)
}
