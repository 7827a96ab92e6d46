package runner

import (
	"context"
	"sync"
	"time"

	"trend_bot/internal/models"
	"trend_bot/internal/modules/config"
	metrics "trend_bot/internal/modules/metrics/service"
	strategy "trend_bot/internal/modules/strategy/service"
	"trend_bot/pkg/logger"
)

type MarketData interface {
	GetCandles(ctx context.Context, figi string, from, to time.Time, interval string) ([]models.Candle, error)
	LastPrice(ctx context.Context, figi string) (float64, bool, error)
}

type Broker interface {
	GetAccount(ctx context.Context, accountID, figi string) (models.Account, error)
	PostMarketOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error)
	PostStopOrder(ctx context.Context, req models.StopOrderRequest) (string, error)
	CancelStopOrder(ctx context.Context, accountID, stopOrderID string) error
}

type Notifier interface {
	SendText(ctx context.Context, msg string) error
	SendImage(ctx context.Context, png []byte, caption string) error
}

type ChartRenderer interface {
	Render(prices, fast, slow []float64, marker models.Side) ([]byte, error)
}

// Journal: аудит сделок, только дозапись.
type Journal interface {
	Record(ctx context.Context, rec models.TradeRecord) error
}

// Strategy: сигнал по окну цен.
type Strategy interface {
	Evaluate(prices []float64) models.Signal
	Warmup() int
	Name() string
	Dump(sig models.Signal) string
}

// StatusSink получает снимок после каждого тика.
type StatusSink interface {
	Publish(st models.Status)
	SetReady(v bool)
}

// Settings: всё, что циклу нужно из конфига.
type Settings struct {
	FIGI      string
	Ticker    string
	AccountID string

	PollInterval time.Duration
	CallTimeout  time.Duration
	Lookback     time.Duration
	WindowCap    int

	Limits        models.RiskLimits
	PriceStep     float64
	BracketOrders bool
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		FIGI:          cfg.Tinkoff.FIGI,
		Ticker:        cfg.Tinkoff.Ticker,
		AccountID:     cfg.Tinkoff.AccountID,
		PollInterval:  cfg.Trading.PollInterval,
		CallTimeout:   cfg.Trading.CallTimeout,
		Lookback:      cfg.Trading.Lookback,
		WindowCap:     cfg.Strategy.WindowCap,
		Limits:        cfg.RiskLimits(),
		PriceStep:     cfg.Tinkoff.PriceStep,
		BracketOrders: cfg.Trading.BracketOrders,
	}
}

type Deps struct {
	Market   MarketData
	Broker   Broker
	Notifier Notifier
	Chart    ChartRenderer // nil: без графика
	Journal  Journal       // nil: без журнала
	Status   StatusSink    // nil: никуда не публикуем
	Metrics  *metrics.Metrics
}

// Runner: торговый цикл по одному инструменту.
type Runner struct {
	cfg    Settings
	engine Strategy

	market  MarketData
	broker  Broker
	notify  Notifier
	chart   ChartRenderer
	journal Journal
	sink    StatusSink
	m       *metrics.Metrics

	// состояние трогает только горутина цикла
	window  *strategy.PriceWindow
	pos     Position
	started bool
	pnl     float64
	ticks   int64
	now     func() time.Time

	mu     sync.RWMutex
	status models.Status
}

func New(cfg Settings, engine Strategy, d Deps) *Runner {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Minute
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 15 * time.Second
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	return &Runner{
		cfg:     cfg,
		engine:  engine,
		market:  d.Market,
		broker:  d.Broker,
		notify:  d.Notifier,
		chart:   d.Chart,
		journal: d.Journal,
		sink:    d.Status,
		m:       d.Metrics,
		window:  strategy.NewPriceWindow(cfg.WindowCap, nil),
		now:     time.Now,
	}
}

// Run засевает окно и крутит тики до отмены ctx.
func (r *Runner) Run(ctx context.Context) {
	r.Seed(ctx)
	if r.sink != nil {
		r.sink.SetReady(true)
	}
	logger.Info("[RUNNER] ▶️ старт %s (%s), стратегия %s, окно %d/%d, опрос раз в %s",
		r.cfg.Ticker, r.cfg.FIGI, r.engine.Name(), r.window.Len(), r.window.Cap(), r.cfg.PollInterval)

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("[RUNNER] ⏹ остановлен")
			return
		case <-timer.C:
		}
		r.safeTick(ctx)
		timer.Reset(r.cfg.PollInterval)
	}
}

// Seed заполняет окно минутными свечами за Lookback. Ошибка не фатальна.
func (r *Runner) Seed(ctx context.Context) {
	if r.cfg.Lookback <= 0 {
		return
	}
	cctx, cancel := r.callCtx(ctx)
	defer cancel()

	now := r.now()
	candles, err := r.market.GetCandles(cctx, r.cfg.FIGI, now.Add(-r.cfg.Lookback), now, "")
	if err != nil {
		logger.Warn("[RUNNER] история свечей недоступна: %v", err)
		return
	}
	r.window = strategy.NewPriceWindow(r.cfg.WindowCap, models.Closes(candles))
	logger.Info("[RUNNER] окно засеяно: %d цен", r.window.Len())
}

// Status: последний опубликованный снимок.
func (r *Runner) Status() models.Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Position: копия текущей позиции. Без блокировки, звать только из горутины
// цикла (или когда цикл не запущен); снаружи читать Status.
func (r *Runner) Position() Position {
	return r.pos
}

func (r *Runner) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.cfg.CallTimeout)
}

func (r *Runner) publish(sig models.Signal) {
	st := models.Status{
		Time:        r.now(),
		FIGI:        r.cfg.FIGI,
		Ticker:      r.cfg.Ticker,
		Price:       sig.Price(),
		FastEMA:     sig.Indicators.FastEMA,
		SlowEMA:     sig.Indicators.SlowEMA,
		RSI:         sig.Indicators.RSI,
		Side:        sig.Side,
		Reason:      sig.Reason,
		Window:      r.window.Len(),
		Long:        r.pos.Long,
		EntryPrice:  r.pos.Entry,
		TakeProfit:  r.pos.TakeProfit,
		StopLoss:    r.pos.StopLoss,
		Lots:        r.pos.Lots,
		RealizedPnL: r.pnl,
		Ticks:       r.ticks,
	}
	r.mu.Lock()
	r.status = st
	r.mu.Unlock()

	r.m.SetLong(r.pos.Long)
	r.m.RealizedPnL.Set(r.pnl)
	if r.sink != nil {
		r.sink.Publish(st)
	}
}
