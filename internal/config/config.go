package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"mariiahub/internal/models"
)

type Config struct {
	App          AppConfig          `yaml:"app"`
	Logging      LoggingConfig      `yaml:"logging"`
	Storage      StorageConfig      `yaml:"storage"`
	Connectivity ConnectivityConfig `yaml:"connectivity"`
	Sync         SyncConfig         `yaml:"sync"`
	Notify       NotifyConfig       `yaml:"notify"`
	Monitoring   MonitoringConfig   `yaml:"monitoring"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type StorageConfig struct {
	Backend          string      `yaml:"backend"` // file, sqlite, redis
	FilePath         string      `yaml:"file_path"`
	SQLitePath       string      `yaml:"sqlite_path"`
	Redis            RedisConfig `yaml:"redis"`
	FailoverToMemory bool        `yaml:"failover_to_memory"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type ConnectivityConfig struct {
	ProbeURL            string `yaml:"probe_url"`
	IntervalSeconds     int    `yaml:"interval_seconds"`
	SettleSeconds       int    `yaml:"settle_seconds"`
	ProbeTimeoutSeconds int    `yaml:"probe_timeout_seconds"`
}

type SyncConfig struct {
	Endpoint             string  `yaml:"endpoint"`
	APIKey               string  `yaml:"api_key"`
	SubmitTimeoutSeconds int     `yaml:"submit_timeout_seconds"`
	RetentionSeconds     int     `yaml:"retention_seconds"`
	RateRPS              float64 `yaml:"rate_rps"`
	RateBurst            int     `yaml:"rate_burst"`
	MaxAttempts          int     `yaml:"max_attempts"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; environment wins either way.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Expand ${VAR} references before parsing.
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Sync.Endpoint == "" {
		return errors.New("sync endpoint is required")
	}

	switch c.Storage.Backend {
	case "file", "sqlite", "redis":
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}

	if c.Storage.Backend == "redis" && c.Storage.Redis.Address == "" {
		return errors.New("storage.redis.address is required for the redis backend")
	}

	if c.Notify.Telegram.Enabled {
		if c.Notify.Telegram.BotToken == "" || c.Notify.Telegram.ChatID == 0 {
			return errors.New("telegram notifier requires bot_token and chat_id")
		}
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "mariiahub-sync"
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = "file"
	}
	if c.Storage.FilePath == "" {
		c.Storage.FilePath = "data/offline_bookings.json"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "data/offline_bookings.db"
	}

	if c.Connectivity.IntervalSeconds == 0 {
		c.Connectivity.IntervalSeconds = models.DefaultProbeIntervalSeconds
	}
	if c.Connectivity.SettleSeconds == 0 {
		c.Connectivity.SettleSeconds = models.DefaultSettleSeconds
	}
	if c.Connectivity.ProbeTimeoutSeconds == 0 {
		c.Connectivity.ProbeTimeoutSeconds = 3
	}
	if c.Connectivity.ProbeURL == "" {
		c.Connectivity.ProbeURL = c.Sync.Endpoint
	}

	if c.Sync.SubmitTimeoutSeconds == 0 {
		c.Sync.SubmitTimeoutSeconds = models.DefaultSubmitTimeoutSeconds
	}
	if c.Sync.RetentionSeconds == 0 {
		c.Sync.RetentionSeconds = models.DefaultRetentionSeconds
	}
	if c.Sync.MaxAttempts == 0 {
		c.Sync.MaxAttempts = 1
	}

	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
}
