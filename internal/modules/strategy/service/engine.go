package service

import (
	"fmt"

	"trend_bot/internal/models"
)

// Engine связывает индикаторы и классификатор с настройками бота.
type Engine struct {
	cfg IndicatorConfig
	th  Thresholds
}

func NewEngine(cfg IndicatorConfig, th Thresholds) *Engine {
	return &Engine{cfg: cfg, th: th}
}

func (e *Engine) Evaluate(prices []float64) models.Signal {
	return Classify(Calculate(prices, e.cfg), e.th)
}

// Warmup: сколько точек нужно, чтобы медленная EMA определилась.
func (e *Engine) Warmup() int {
	return e.cfg.SlowWindow
}

func (e *Engine) Name() string {
	return fmt.Sprintf("EMA(%d)/EMA(%d)/RSI(%d)", e.cfg.FastWindow, e.cfg.SlowWindow, e.cfg.RSIWindow)
}

func (e *Engine) Dump(sig models.Signal) string {
	ind := sig.Indicators
	return fmt.Sprintf("EMA(%d): %.2f | EMA(%d): %.2f | RSI: %.2f",
		e.cfg.FastWindow, ind.FastEMA, e.cfg.SlowWindow, ind.SlowEMA, ind.RSI)
}
