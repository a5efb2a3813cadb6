package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Data struct {
		Dir    string `yaml:"dir"`
		Start  string `yaml:"start"`
		End    string `yaml:"end"`
		Source string `yaml:"source"` // csv | yahoo
	} `yaml:"data"`
	Yahoo struct {
		BaseURL           string  `yaml:"base_url"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"yahoo"`
	Selector struct {
		Workers      int    `yaml:"workers"`
		FetchTimeout string `yaml:"fetch_timeout"`
	} `yaml:"selector"`
	Web struct {
		Addr       string `yaml:"addr"`
		SessionTTL string `yaml:"session_ttl"`
	} `yaml:"web"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		PruneCron   string `yaml:"prune_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file (a missing file is fine), loads .env,
// then applies environment variable overrides and defaults.
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

	// .env never overrides variables already set in the environment
	_ = godotenv.Load()

	// Environment variable overrides
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		cfg.Data.Source = v
	}
	if v := os.Getenv("WEB_ADDR"); v != "" {
		cfg.Web.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}

	// Defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data"
	}
	if cfg.Data.Start == "" {
		cfg.Data.Start = "2010-01-01"
	}
	if cfg.Data.Source == "" {
		cfg.Data.Source = "csv"
	}
	cfg.Data.Source = strings.ToLower(cfg.Data.Source)
	if cfg.Yahoo.RequestsPerSecond == 0 {
		cfg.Yahoo.RequestsPerSecond = 2
	}
	if cfg.Selector.Workers == 0 {
		cfg.Selector.Workers = 3
	}
	if cfg.Selector.FetchTimeout == "" {
		cfg.Selector.FetchTimeout = "15s"
	}
	if cfg.Web.Addr == "" {
		cfg.Web.Addr = ":8080"
	}
	if cfg.Web.SessionTTL == "" {
		cfg.Web.SessionTTL = "30m"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 30 22 * * 1-5"
	}
	if cfg.Schedule.PruneCron == "" {
		cfg.Schedule.PruneCron = "0 */5 * * * *"
	}
	// "-" disables history explicitly; empty means the default file.
	switch cfg.Database.SQLitePath {
	case "":
		cfg.Database.SQLitePath = "data/advisor.db"
	case "-":
		cfg.Database.SQLitePath = ""
	}

	return cfg, nil
}

// Validate checks that all values parse.
func (c *Config) Validate() error {
	if c.Data.Source != "csv" && c.Data.Source != "yahoo" {
		return fmt.Errorf("data.source must be csv or yahoo, got %q", c.Data.Source)
	}
	if _, err := c.StartDate(); err != nil {
		return err
	}
	if _, err := c.EndDate(); err != nil {
		return err
	}
	if c.Selector.Workers < 0 {
		return fmt.Errorf("selector.workers must not be negative")
	}
	if _, err := c.FetchTimeout(); err != nil {
		return err
	}
	if _, err := c.SessionTTL(); err != nil {
		return err
	}
	if c.Yahoo.RequestsPerSecond < 0 {
		return fmt.Errorf("yahoo.requests_per_second must not be negative")
	}
	return nil
}

// StartDate parses data.start.
func (c *Config) StartDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.Data.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("data.start: %w", err)
	}
	return t, nil
}

// EndDate parses data.end; an empty value yields the zero time (today).
func (c *Config) EndDate() (time.Time, error) {
	if c.Data.End == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", c.Data.End)
	if err != nil {
		return time.Time{}, fmt.Errorf("data.end: %w", err)
	}
	return t, nil
}

// FetchTimeout parses selector.fetch_timeout.
func (c *Config) FetchTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Selector.FetchTimeout)
	if err != nil {
		return 0, fmt.Errorf("selector.fetch_timeout: %w", err)
	}
	return d, nil
}

// SessionTTL parses web.session_ttl.
func (c *Config) SessionTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Web.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("web.session_ttl: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("web.session_ttl must be positive")
	}
	return d, nil
}
