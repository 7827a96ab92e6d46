package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"trend_bot/internal/models"
)

const (
	configFilePathENV = "CONFIG_FILE"
	defaultConfigFile = "configs/values_local.yaml"
	redacted          = "***"
)

// Config ...
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	Tinkoff struct {
		Token     string  `mapstructure:"token" yaml:"token"`
		AccountID string  `mapstructure:"account_id" yaml:"account_id"`
		FIGI      string  `mapstructure:"figi" yaml:"figi"`
		Ticker    string  `mapstructure:"ticker" yaml:"ticker"`
		BaseURL   string  `mapstructure:"base_url" yaml:"base_url"`
		PriceStep float64 `mapstructure:"price_step" yaml:"price_step"`
	} `mapstructure:"tinkoff" yaml:"tinkoff"`

	Telegram struct {
		Token  string `mapstructure:"token" yaml:"token"`
		ChatID int64  `mapstructure:"chat_id" yaml:"chat_id"`
	} `mapstructure:"telegram" yaml:"telegram"`

	// Журнал сделок: postgres | sqlite | file | none
	Journal struct {
		Driver string `mapstructure:"driver" yaml:"driver"`
		DSN    string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"journal" yaml:"journal"`

	Service struct {
		Host      string `mapstructure:"host" yaml:"host"`
		AdminPort int    `mapstructure:"admin_port" yaml:"admin_port"`
	} `mapstructure:"service" yaml:"service"`

	Tracing struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Host    string `mapstructure:"host" yaml:"host"`
		Port    int    `mapstructure:"port" yaml:"port"`
	} `mapstructure:"tracing" yaml:"tracing"`

	Strategy struct {
		WindowCap  int     `mapstructure:"window_cap" yaml:"window_cap"`
		FastWindow int     `mapstructure:"fast_window" yaml:"fast_window"`
		SlowWindow int     `mapstructure:"slow_window" yaml:"slow_window"`
		RSIWindow  int     `mapstructure:"rsi_window" yaml:"rsi_window"`
		Overbought float64 `mapstructure:"overbought" yaml:"overbought"`
		Oversold   float64 `mapstructure:"oversold" yaml:"oversold"`
	} `mapstructure:"strategy" yaml:"strategy"`

	Trading struct {
		PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
		CallTimeout  time.Duration `mapstructure:"call_timeout" yaml:"call_timeout"`
		Lookback     time.Duration `mapstructure:"lookback" yaml:"lookback"`

		SizingMode          string  `mapstructure:"sizing_mode" yaml:"sizing_mode"`
		TradeLots           int64   `mapstructure:"trade_lots" yaml:"trade_lots"`
		MaxLots             int64   `mapstructure:"max_lots" yaml:"max_lots"`
		LotSize             int64   `mapstructure:"lot_size" yaml:"lot_size"`
		MaxNotionalRub      float64 `mapstructure:"max_notional_rub" yaml:"max_notional_rub"`
		MinHoldingThreshold float64 `mapstructure:"min_holding_threshold" yaml:"min_holding_threshold"`
		TakeProfitPct       float64 `mapstructure:"take_profit_pct" yaml:"take_profit_pct"`
		StopLossPct         float64 `mapstructure:"stop_loss_pct" yaml:"stop_loss_pct"`
		FeeRate             float64 `mapstructure:"fee_rate" yaml:"fee_rate"`
		BracketOrders       bool    `mapstructure:"bracket_orders" yaml:"bracket_orders"`

		ChartDir string `mapstructure:"chart_dir" yaml:"chart_dir"`
		Timezone string `mapstructure:"timezone" yaml:"timezone"`
	} `mapstructure:"trading" yaml:"trading"`
}

type setting struct {
	key string
	env string
	def any
}

// Имена переменных окружения совпадают с теми, что уже лежат в деплое.
var settings = []setting{
	{"log_level", "LOG_LEVEL", "info"},

	{"tinkoff.token", "TINKOFF_TOKEN", ""},
	{"tinkoff.account_id", "ACCOUNT_ID", ""},
	{"tinkoff.figi", "TINKOFF_FIGI", "BBG004730N88"},
	{"tinkoff.ticker", "TINKOFF_TICKER", "SBER"},
	{"tinkoff.base_url", "TINKOFF_BASE_URL", "https://invest-public-api.tinkoff.ru/rest"},
	{"tinkoff.price_step", "PRICE_STEP", 0.01},

	{"telegram.token", "TELEGRAM_TOKEN", ""},
	{"telegram.chat_id", "CHAT_ID", 0},

	{"journal.driver", "JOURNAL_DRIVER", "file"},
	{"journal.dsn", "JOURNAL_DSN", ""}, // пусто: см. journalDSN

	{"service.host", "SERVICE_HOST", ""},
	{"service.admin_port", "ADMIN_PORT", 8080},

	{"tracing.enabled", "TRACING_ENABLED", false},
	{"tracing.host", "JAEGER_AGENT_HOST", "localhost"},
	{"tracing.port", "JAEGER_AGENT_PORT", 6831},

	{"strategy.window_cap", "WINDOW_CAP", 60},
	{"strategy.fast_window", "EMA_FAST", 5},
	{"strategy.slow_window", "EMA_SLOW", 20},
	{"strategy.rsi_window", "RSI_PERIOD", 14},
	{"strategy.overbought", "RSI_OVERBOUGHT", 70.0},
	{"strategy.oversold", "RSI_OVERSOLD", 30.0},

	{"trading.poll_interval", "POLL_INTERVAL", "60s"},
	{"trading.call_timeout", "CALL_TIMEOUT", "15s"},
	{"trading.lookback", "LOOKBACK", "1h"},
	{"trading.sizing_mode", "SIZING_MODE", string(models.SizingFixed)},
	{"trading.trade_lots", "TRADE_LOTS", 1},
	{"trading.max_lots", "MAX_LOTS", 3},
	{"trading.lot_size", "LOT_SIZE", 10},
	{"trading.max_notional_rub", "TRADE_RUB_LIMIT", 10000.0},
	{"trading.min_holding_threshold", "MIN_POSITION_THRESHOLD", 0.5},
	{"trading.take_profit_pct", "TAKE_PROFIT_PCT", 1.0},
	{"trading.stop_loss_pct", "STOP_LOSS_PCT", 0.5},
	{"trading.fee_rate", "FEE_RATE", 0.0005},
	{"trading.bracket_orders", "BRACKET_ORDERS", false},
	{"trading.chart_dir", "CHART_DIR", ""},
	{"trading.timezone", "TIMEZONE", "Europe/Moscow"},
}

// у каждого драйвера свой файл по умолчанию, postgres без DSN не стартует
var journalDSN = map[string]string{
	"file":   "data/trades.jsonl",
	"sqlite": "data/trades.db",
}

// NewConfig: .env -> дефолты -> yaml-файл (если есть) -> переменные окружения.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	v, err := newViper()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Journal.DSN == "" {
		cfg.Journal.DSN = journalDSN[cfg.Journal.Driver]
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	for _, s := range settings {
		v.SetDefault(s.key, s.def)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", s.env, err)
		}
	}

	path := os.Getenv(configFilePathENV)
	if path == "" {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat config file %s: %w", path, err)
	}
	return v, nil
}

// Validate: без кредов брокера и чата бот не стартует.
func (c *Config) Validate() error {
	var problems []string
	if c.Tinkoff.Token == "" {
		problems = append(problems, "TINKOFF_TOKEN is required")
	}
	if c.Tinkoff.AccountID == "" {
		problems = append(problems, "ACCOUNT_ID is required")
	}
	if c.Tinkoff.FIGI == "" {
		problems = append(problems, "TINKOFF_FIGI is required")
	}
	if c.Telegram.Token == "" {
		problems = append(problems, "TELEGRAM_TOKEN is required")
	}
	if c.Telegram.ChatID == 0 {
		problems = append(problems, "CHAT_ID is required")
	}

	s := c.Strategy
	if s.FastWindow <= 0 || s.SlowWindow <= 0 || s.RSIWindow <= 1 {
		problems = append(problems, "indicator windows must be positive (RSI_PERIOD > 1)")
	}
	if s.FastWindow >= s.SlowWindow {
		problems = append(problems, "EMA_FAST must be < EMA_SLOW")
	}
	if s.WindowCap < s.SlowWindow {
		problems = append(problems, "WINDOW_CAP must be >= EMA_SLOW")
	}
	if s.Oversold >= s.Overbought || s.Oversold < 0 || s.Overbought > 100 {
		problems = append(problems, "need 0 <= RSI_OVERSOLD < RSI_OVERBOUGHT <= 100")
	}

	t := c.Trading
	if t.PollInterval <= 0 {
		problems = append(problems, "POLL_INTERVAL must be > 0")
	}
	if t.CallTimeout <= 0 {
		problems = append(problems, "CALL_TIMEOUT must be > 0")
	}
	if t.LotSize < 1 || t.TradeLots < 1 || t.MaxLots < 1 {
		problems = append(problems, "LOT_SIZE, TRADE_LOTS and MAX_LOTS must be >= 1")
	}
	if t.MaxNotionalRub <= 0 {
		problems = append(problems, "TRADE_RUB_LIMIT must be > 0")
	}
	if t.TakeProfitPct < 0 || t.StopLossPct < 0 || t.FeeRate < 0 {
		problems = append(problems, "TAKE_PROFIT_PCT, STOP_LOSS_PCT and FEE_RATE must be >= 0")
	}
	switch models.SizingMode(t.SizingMode) {
	case models.SizingFixed, models.SizingCapital:
	default:
		problems = append(problems, fmt.Sprintf("unknown SIZING_MODE %q", t.SizingMode))
	}
	switch c.Journal.Driver {
	case "postgres":
		if c.Journal.DSN == "" {
			problems = append(problems, "JOURNAL_DSN is required for postgres")
		}
	case "sqlite", "file", "none":
	default:
		problems = append(problems, fmt.Sprintf("unknown JOURNAL_DRIVER %q", c.Journal.Driver))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) RiskLimits() models.RiskLimits {
	t := c.Trading
	return models.RiskLimits{
		SizingMode:          models.SizingMode(t.SizingMode),
		TradeLots:           t.TradeLots,
		MaxLots:             t.MaxLots,
		LotSize:             t.LotSize,
		MaxNotionalRub:      t.MaxNotionalRub,
		MinHoldingThreshold: t.MinHoldingThreshold,
		TakeProfitPct:       t.TakeProfitPct,
		StopLossPct:         t.StopLossPct,
		FeeRate:             t.FeeRate,
	}
}

// Location: часовой пояс для уведомлений, UTC если зона не нашлась.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Trading.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Dump печатает эффективный конфиг в yaml без секретов.
func (c *Config) Dump() (string, error) {
	cp := *c
	if cp.Tinkoff.Token != "" {
		cp.Tinkoff.Token = redacted
	}
	if cp.Telegram.Token != "" {
		cp.Telegram.Token = redacted
	}
	if cp.Journal.Driver == "postgres" && cp.Journal.DSN != "" {
		cp.Journal.DSN = redacted
	}
	bs, err := yaml.Marshal(&cp)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(bs), nil
}
