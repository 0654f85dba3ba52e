package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		CORSOrigins  []string      `yaml:"cors_origins"`
	} `yaml:"server"`
	Dataset struct {
		CSVPath    string `yaml:"csv_path"`
		SubsetSize int    `yaml:"subset_size"`
		Seed       int64  `yaml:"seed"`
	} `yaml:"dataset"`
	Oracle struct {
		Mode    string        `yaml:"mode"`
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"oracle"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Autopilot struct {
		Enabled    bool    `yaml:"enabled"`
		Cron       string  `yaml:"cron"`
		PanicLevel float64 `yaml:"panic_level"`
	} `yaml:"autopilot"`
	LogLevel string `yaml:"log_level"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DATASET_CSV_PATH"); v != "" {
		cfg.Dataset.CSVPath = v
	}
	if v := os.Getenv("ORACLE_BASE_URL"); v != "" {
		cfg.Oracle.BaseURL = v
	}
	if v := os.Getenv("ORACLE_API_KEY"); v != "" {
		cfg.Oracle.APIKey = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("AUTOPILOT_CRON"); v != "" {
		cfg.Autopilot.Cron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	// Defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Dataset.SubsetSize == 0 {
		cfg.Dataset.SubsetSize = 15
	}
	if cfg.Oracle.Mode == "" {
		if cfg.Oracle.BaseURL != "" {
			cfg.Oracle.Mode = "http"
		} else {
			cfg.Oracle.Mode = "heuristic"
		}
	}
	if cfg.Oracle.Timeout == 0 {
		cfg.Oracle.Timeout = 2 * time.Second
	}
	if cfg.Autopilot.Cron == "" {
		cfg.Autopilot.Cron = "*/5 * * * * *"
	}
	if cfg.Autopilot.PanicLevel == 0 {
		cfg.Autopilot.PanicLevel = 0.2
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Dataset.SubsetSize < 0 {
		return fmt.Errorf("dataset.subset_size must not be negative")
	}
	switch c.Oracle.Mode {
	case "heuristic", "off":
	case "http":
		if c.Oracle.BaseURL == "" {
			return fmt.Errorf("oracle.base_url is required when oracle.mode is http")
		}
	default:
		return fmt.Errorf("oracle.mode must be heuristic, http or off")
	}
	if c.Oracle.Timeout <= 0 {
		return fmt.Errorf("oracle.timeout must be positive")
	}
	if c.Autopilot.PanicLevel < 0 || c.Autopilot.PanicLevel > 1 {
		return fmt.Errorf("autopilot.panic_level must be between 0 and 1")
	}
	return nil
}
