package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SPEAKTRACK"

// Config holds all configuration for our application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	App      AppConfig      `mapstructure:"app"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	HTTPPort    int      `mapstructure:"http_port" validate:"min=1,max=65535"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig selects the key/value backend.
type DatabaseConfig struct {
	Driver    string `mapstructure:"driver" validate:"oneof=memory sqlite sqlite3 postgres pgx redis"`
	DSN       string `mapstructure:"dsn"`
	LogSQL    bool   `mapstructure:"log_sql"`
	MaxConns  int32  `mapstructure:"max_conns" validate:"min=1"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// AppConfig holds learner-facing defaults.
type AppConfig struct {
	Timezone    string `mapstructure:"timezone"`
	Locale      string `mapstructure:"locale" validate:"oneof=en vi"`
	DefaultUser string `mapstructure:"default_user"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	if file := viper.GetString("config"); file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName("speaktrack")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		if dir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(filepath.Join(dir, "speaktrack"))
		}
	}

	// Set default values
	setDefaults()

	// Enable reading from environment variables
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read configuration file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the struct tags and the values that need parsing.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.http_port", 8080)
	viper.SetDefault("server.cors_origins", []string{"*"})

	// Database defaults
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.log_sql", false)
	viper.SetDefault("database.max_conns", 10)
	viper.SetDefault("database.key_prefix", "speaktrack:")

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// App defaults
	viper.SetDefault("app.timezone", "Local")
	viper.SetDefault("app.locale", "en")
	viper.SetDefault("app.default_user", "")
}

// Location resolves the timezone used for calendar weeks.
func (c *Config) Location() (*time.Location, error) {
	switch strings.TrimSpace(c.App.Timezone) {
	case "", "Local":
		return time.Local, nil
	default:
		loc, err := time.LoadLocation(c.App.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", c.App.Timezone, err)
		}
		return loc, nil
	}
}

// DatabaseDriver returns the normalised backend name.
func (c *Config) DatabaseDriver() string {
	return strings.ToLower(strings.TrimSpace(c.Database.Driver))
}

// DatabaseURL returns the DSN, deriving a default data file for SQLite.
func (c *Config) DatabaseURL() (string, error) {
	if dsn := strings.TrimSpace(c.Database.DSN); dsn != "" {
		return dsn, nil
	}
	switch c.DatabaseDriver() {
	case "sqlite", "sqlite3":
		return DefaultDBPath()
	case "redis":
		return "redis://localhost:6379/0", nil
	case "memory":
		return "", nil
	default:
		return "", fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver)
	}
}

// DefaultDBPath resolves the database file path in priority order:
// 1. $XDG_DATA_HOME/speaktrack/speaktrack.db
// 2. ~/.local/share/speaktrack/speaktrack.db
func DefaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "speaktrack", "speaktrack.db")
	return p, os.MkdirAll(filepath.Dir(p), 0o755)
}
