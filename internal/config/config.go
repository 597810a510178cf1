package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/patientdesk/patientdesk/internal/platform/db"
)

type Config struct {
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogFile     string `mapstructure:"LOG_FILE"`
	ExportPath  string `mapstructure:"EXPORT_PATH"`
	ExportSheet string `mapstructure:"EXPORT_SHEET"`
	ListenAddr  string `mapstructure:"LISTEN_ADDR"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("DATABASE_URL", "patients.db")
	v.SetDefault("DB_MAX_CONNS", 4)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("EXPORT_PATH", "patients.xlsx")
	v.SetDefault("EXPORT_SHEET", "Patients")
	v.SetDefault("LISTEN_ADDR", "127.0.0.1:8000")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS", "LOG_LEVEL",
		"LOG_FILE", "EXPORT_PATH", "EXPORT_SHEET", "LISTEN_ADDR",
	} {
		_ = v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL must not be empty")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when running with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Driver returns the storage driver selected by DATABASE_URL.
func (c *Config) Driver() string {
	return db.DriverFor(c.DatabaseURL)
}

// Validate checks settings that Load cannot default away.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.LogLevel)
	}

	switch strings.ToLower(filepath.Ext(c.ExportPath)) {
	case ".xlsx", ".csv":
	default:
		return fmt.Errorf("EXPORT_PATH must end in .xlsx or .csv, got %q", c.ExportPath)
	}

	if c.ExportSheet == "" {
		return fmt.Errorf("EXPORT_SHEET must not be empty")
	}

	if c.DBMaxConns < 1 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) and DB_MAX_CONNS (%d) are inconsistent", c.DBMinConns, c.DBMaxConns)
	}

	return nil
}

// ValidateListen checks LISTEN_ADDR. Only serve listens, so other commands
// skip it. Outside production the host must be loopback.
func (c *Config) ValidateListen() error {
	host, _, err := net.SplitHostPort(c.ListenAddr)
	if err != nil {
		return fmt.Errorf("LISTEN_ADDR %q: %w", c.ListenAddr, err)
	}
	if !c.IsProduction() && !isLoopback(host) {
		return fmt.Errorf("LISTEN_ADDR %q is not a loopback address; set ENV=production to listen elsewhere", c.ListenAddr)
	}

	return nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
