package service

import (
	"math"

	"trend_bot/internal/models"
)

// IndicatorConfig: окна индикаторов в точках окна цен.
type IndicatorConfig struct {
	FastWindow int
	SlowWindow int
	RSIWindow  int
}

func DefaultIndicatorConfig() IndicatorConfig {
	return IndicatorConfig{FastWindow: 5, SlowWindow: 20, RSIWindow: 14}
}

// Calculate пересчитывает индикаторы по всему окну с нуля.
// Функция чистая: одно и то же окно даёт один и тот же снимок.
func Calculate(prices []float64, cfg IndicatorConfig) models.Indicators {
	out := models.Indicators{
		Price:      math.NaN(),
		FastEMA:    math.NaN(),
		SlowEMA:    math.NaN(),
		RSI:        math.NaN(),
		FastSeries: make([]float64, len(prices)),
		SlowSeries: make([]float64, len(prices)),
	}
	if len(prices) == 0 {
		return out
	}

	fast := newEMA(cfg.FastWindow)
	slow := newEMA(cfg.SlowWindow)
	rsi := newRSI(cfg.RSIWindow)
	for i, p := range prices {
		fast.Update(p)
		slow.Update(p)
		rsi.Update(p)
		out.FastSeries[i] = fast.Value()
		out.SlowSeries[i] = slow.Value()
	}

	out.Price = prices[len(prices)-1]
	out.FastEMA = fast.Value()
	out.SlowEMA = slow.Value()
	out.RSI = rsi.Value()
	return out
}
