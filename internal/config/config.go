package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Lookback window bounds in calendar days.
const (
	MinLookbackDays = 365
	MaxLookbackDays = 1095
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DataSource struct {
		BaseURL      string `yaml:"base_url"` // non-empty selects the REST fetcher over Yahoo
		APIKey       string `yaml:"api_key"`
		Benchmark    string `yaml:"benchmark"`
		LookbackDays int    `yaml:"lookback_days"`
	} `yaml:"data_source"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Watch struct {
		Enabled bool   `yaml:"enabled"`
		Cron    string `yaml:"cron"`
		Ticker  string `yaml:"ticker"`
		Days    int    `yaml:"days"`
	} `yaml:"watch"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; defaults apply.
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
	if v := os.Getenv("MARKETLOGIC_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MARKETLOGIC_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("MARKETLOGIC_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("MARKETLOGIC_BENCHMARK"); v != "" {
		cfg.DataSource.Benchmark = v
	}
	if v := os.Getenv("MARKETLOGIC_LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.LookbackDays = n
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("MARKETLOGIC_WATCH_CRON"); v != "" {
		cfg.Watch.Cron = v
	}
	if v := os.Getenv("MARKETLOGIC_WATCH_TICKER"); v != "" {
		cfg.Watch.Ticker = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.DataSource.Benchmark == "" {
		cfg.DataSource.Benchmark = "SPY"
	}
	if cfg.DataSource.LookbackDays == 0 {
		cfg.DataSource.LookbackDays = 730
	}
	if cfg.Watch.Cron == "" {
		cfg.Watch.Cron = "0 30 21 * * 1-5" // weekday evenings, after US close
	}
	if cfg.Watch.Days == 0 {
		cfg.Watch.Days = cfg.DataSource.LookbackDays
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.DataSource.LookbackDays < MinLookbackDays || c.DataSource.LookbackDays > MaxLookbackDays {
		return fmt.Errorf("data_source.lookback_days must be between %d and %d", MinLookbackDays, MaxLookbackDays)
	}
	if c.Watch.Enabled {
		if c.Watch.Ticker == "" {
			return fmt.Errorf("watch.ticker is required when watch is enabled")
		}
		if c.Watch.Days < MinLookbackDays || c.Watch.Days > MaxLookbackDays {
			return fmt.Errorf("watch.days must be between %d and %d", MinLookbackDays, MaxLookbackDays)
		}
		if c.Telegram.BotToken == "" || c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.bot_token and telegram.chat_id are required when watch is enabled")
		}
	}
	return nil
}
