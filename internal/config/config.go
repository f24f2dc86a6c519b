package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the flight search tool
type Config struct {
	DB      DBConfig
	Dataset DatasetConfig
	Search  SearchConfig
	Log     LogConfig
}

// DBConfig selects and configures the flight store
type DBConfig struct {
	Driver   string // sqlite3 or postgres
	Path     string // SQLite database file
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the PostgreSQL connection URL with every component escaped
func (d DBConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, d.Password)
	} else if d.User != "" {
		u.User = url.User(d.User)
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// DatasetConfig lists the CSV files used to seed an empty flights table
type DatasetConfig struct {
	Paths     []string
	BatchSize int
}

// SearchConfig holds search defaults
type SearchConfig struct {
	DefaultLimit int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Load loads configuration from config file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "flights.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "flights")
	v.SetDefault("db.ssl_mode", "disable")
	v.SetDefault("dataset.paths", []string{})
	v.SetDefault("dataset.batch_size", 5000)
	v.SetDefault("search.default_limit", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/flight_search")
	v.AddConfigPath(".")

	if configPath := os.Getenv("FLIGHT_SEARCH_CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}

	// A missing config file is fine, defaults and env vars still apply
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("FLIGHT_SEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		DB: DBConfig{
			Driver:   v.GetString("db.driver"),
			Path:     v.GetString("db.path"),
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Name:     v.GetString("db.name"),
			SSLMode:  v.GetString("db.ssl_mode"),
		},
		Dataset: DatasetConfig{
			Paths:     v.GetStringSlice("dataset.paths"),
			BatchSize: v.GetInt("dataset.batch_size"),
		},
		Search: SearchConfig{
			DefaultLimit: v.GetInt("search.default_limit"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate validates the configuration values
func validate(cfg *Config) error {
	switch cfg.DB.Driver {
	case DriverSQLite:
		if cfg.DB.Path == "" {
			return fmt.Errorf("db.path is required for the %s driver", DriverSQLite)
		}
	case DriverPostgres:
		if cfg.DB.Host == "" {
			return fmt.Errorf("db.host is required for the %s driver", DriverPostgres)
		}
		if cfg.DB.Name == "" {
			return fmt.Errorf("db.name is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("invalid db driver: %s (must be %s or %s)", cfg.DB.Driver, DriverSQLite, DriverPostgres)
	}

	if cfg.Dataset.BatchSize <= 0 {
		return fmt.Errorf("dataset.batch_size must be greater than 0")
	}

	if cfg.Search.DefaultLimit <= 0 {
		return fmt.Errorf("search.default_limit must be greater than 0")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	return nil
}
