package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsOnMissingFile(t *testing.T) {
	cfg, err := Load("does-not-exist.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.DataSource.Benchmark != "SPY" {
		t.Errorf("expected default benchmark SPY, got %q", cfg.DataSource.Benchmark)
	}
	if cfg.DataSource.LookbackDays != 730 {
		t.Errorf("expected default lookback 730, got %d", cfg.DataSource.LookbackDays)
	}
	if cfg.Watch.Cron == "" {
		t.Error("expected a default watch cron")
	}
	if cfg.Watch.Days != 730 {
		t.Errorf("expected watch days to inherit the lookback, got %d", cfg.Watch.Days)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9090"
data_source:
  base_url: "https://bars.internal"
  api_key: "secret"
  benchmark: "QQQ"
  lookback_days: 1000
watch:
  enabled: true
  ticker: "AAPL"
telegram:
  bot_token: "123:abc"
  chat_id: "42"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected :9090, got %q", cfg.Server.Addr)
	}
	if cfg.DataSource.BaseURL != "https://bars.internal" {
		t.Errorf("unexpected base url %q", cfg.DataSource.BaseURL)
	}
	if cfg.DataSource.Benchmark != "QQQ" {
		t.Errorf("expected QQQ, got %q", cfg.DataSource.Benchmark)
	}
	if cfg.Watch.Days != 1000 {
		t.Errorf("expected watch days 1000, got %d", cfg.Watch.Days)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MARKETLOGIC_ADDR", ":7070")
	t.Setenv("MARKETLOGIC_BENCHMARK", "IWM")
	t.Setenv("MARKETLOGIC_LOOKBACK_DAYS", "900")
	t.Setenv("TELEGRAM_BOT_TOKEN", "999:xyz")

	cfg, err := Load("does-not-exist.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("expected :7070, got %q", cfg.Server.Addr)
	}
	if cfg.DataSource.Benchmark != "IWM" {
		t.Errorf("expected IWM, got %q", cfg.DataSource.Benchmark)
	}
	if cfg.DataSource.LookbackDays != 900 {
		t.Errorf("expected 900, got %d", cfg.DataSource.LookbackDays)
	}
	if cfg.Telegram.BotToken != "999:xyz" {
		t.Errorf("expected env bot token, got %q", cfg.Telegram.BotToken)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"lookback too short", func(c *Config) { c.DataSource.LookbackDays = 100 }, true},
		{"lookback too long", func(c *Config) { c.DataSource.LookbackDays = 2000 }, true},
		{"watch without ticker", func(c *Config) {
			c.Watch.Enabled = true
			c.Telegram.BotToken = "t"
			c.Telegram.ChatID = "c"
		}, true},
		{"watch without telegram", func(c *Config) {
			c.Watch.Enabled = true
			c.Watch.Ticker = "AAPL"
		}, true},
		{"watch complete", func(c *Config) {
			c.Watch.Enabled = true
			c.Watch.Ticker = "AAPL"
			c.Telegram.BotToken = "t"
			c.Telegram.ChatID = "c"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("does-not-exist.yaml")
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
