package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"trend_bot/internal/models"
)

func setRequired(t *testing.T) {
	t.Helper()
	// отдельный несуществующий файл, чтобы не подхватить локальный конфиг
	t.Setenv(configFilePathENV, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("TINKOFF_TOKEN", "t.secret")
	t.Setenv("ACCOUNT_ID", "2000000001")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("CHAT_ID", "-100500")
}

func TestNewConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Tinkoff.FIGI != "BBG004730N88" {
		t.Fatalf("figi default: %q", cfg.Tinkoff.FIGI)
	}
	if cfg.Telegram.ChatID != -100500 {
		t.Fatalf("chat id: %d", cfg.Telegram.ChatID)
	}
	if cfg.Trading.PollInterval != 60*time.Second {
		t.Fatalf("poll interval: %s", cfg.Trading.PollInterval)
	}
	if cfg.Strategy.FastWindow != 5 || cfg.Strategy.SlowWindow != 20 || cfg.Strategy.RSIWindow != 14 {
		t.Fatalf("windows: %+v", cfg.Strategy)
	}
	limits := cfg.RiskLimits()
	if limits.TradeLots != 1 || limits.MaxNotionalRub != 10000 || limits.StopLossPct != 0.5 || limits.TakeProfitPct != 1.0 {
		t.Fatalf("risk limits: %+v", limits)
	}
	if limits.SizingMode != models.SizingFixed {
		t.Fatalf("sizing mode: %q", limits.SizingMode)
	}
}

func TestNewConfigEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("TRADE_LOTS", "2")
	t.Setenv("TRADE_RUB_LIMIT", "25000")
	t.Setenv("RSI_OVERBOUGHT", "55")
	t.Setenv("RSI_OVERSOLD", "45")
	t.Setenv("POLL_INTERVAL", "5m")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Trading.TradeLots != 2 || cfg.Trading.MaxNotionalRub != 25000 {
		t.Fatalf("trading overrides not applied: %+v", cfg.Trading)
	}
	if cfg.Strategy.Overbought != 55 || cfg.Strategy.Oversold != 45 {
		t.Fatalf("threshold overrides not applied: %+v", cfg.Strategy)
	}
	if cfg.Trading.PollInterval != 5*time.Minute {
		t.Fatalf("poll interval: %s", cfg.Trading.PollInterval)
	}
}

func TestNewConfigReadsYAMLFile(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "values.yaml")
	body := "trading:\n  take_profit_pct: 2.5\n  lot_size: 1\nstrategy:\n  window_cap: 120\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(configFilePathENV, path)

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Trading.TakeProfitPct != 2.5 || cfg.Trading.LotSize != 1 || cfg.Strategy.WindowCap != 120 {
		t.Fatalf("file values not applied: %+v %+v", cfg.Trading, cfg.Strategy)
	}
}

func TestNewConfigMissingCredentials(t *testing.T) {
	t.Setenv(configFilePathENV, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("TINKOFF_TOKEN", "")
	t.Setenv("ACCOUNT_ID", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("CHAT_ID", "")

	_, err := NewConfig()
	if err == nil {
		t.Fatalf("expected error without credentials")
	}
	for _, want := range []string{"TINKOFF_TOKEN", "ACCOUNT_ID", "TELEGRAM_TOKEN", "CHAT_ID"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidateRejectsInvertedWindows(t *testing.T) {
	setRequired(t)
	t.Setenv("EMA_FAST", "30")

	if _, err := NewConfig(); err == nil || !strings.Contains(err.Error(), "EMA_FAST") {
		t.Fatalf("expected window error, got %v", err)
	}
}

func TestDumpRedactsSecrets(t *testing.T) {
	setRequired(t)
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	out, err := cfg.Dump()
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if strings.Contains(out, "t.secret") || strings.Contains(out, "123:abc") {
		t.Fatalf("secrets leaked:\n%s", out)
	}
	if !strings.Contains(out, "poll_interval: 1m0s") {
		t.Fatalf("duration not rendered:\n%s", out)
	}
	if cfg.Tinkoff.Token != "t.secret" {
		t.Fatalf("Dump must not mutate config")
	}
}

func TestJournalDSNDefaultsPerDriver(t *testing.T) {
	cases := []struct {
		driver, want string
	}{
		{"file", "data/trades.jsonl"},
		{"sqlite", "data/trades.db"},
		{"none", ""},
	}
	for _, c := range cases {
		setRequired(t)
		t.Setenv("JOURNAL_DRIVER", c.driver)
		t.Setenv("JOURNAL_DSN", "")

		cfg, err := NewConfig()
		if err != nil {
			t.Fatalf("%s: NewConfig: %v", c.driver, err)
		}
		if cfg.Journal.DSN != c.want {
			t.Fatalf("%s: dsn %q want %q", c.driver, cfg.Journal.DSN, c.want)
		}
	}

	setRequired(t)
	t.Setenv("JOURNAL_DRIVER", "sqlite")
	t.Setenv("JOURNAL_DSN", "/var/lib/bot/journal.db")
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Journal.DSN != "/var/lib/bot/journal.db" {
		t.Fatalf("explicit dsn overridden: %q", cfg.Journal.DSN)
	}
}

func TestPostgresJournalNeedsDSN(t *testing.T) {
	setRequired(t)
	t.Setenv("JOURNAL_DRIVER", "postgres")
	t.Setenv("JOURNAL_DSN", "")

	if _, err := NewConfig(); err == nil || !strings.Contains(err.Error(), "JOURNAL_DSN") {
		t.Fatalf("expected dsn error, got %v", err)
	}
}
