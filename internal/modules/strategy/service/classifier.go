package service

import (
	"trend_bot/internal/models"
)

// Thresholds: границы RSI. Строгий режим: 55/45.
type Thresholds struct {
	Overbought float64
	Oversold   float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Overbought: 70, Oversold: 30}
}

// Classify: таблица решений, первое совпадение выигрывает.
func Classify(ind models.Indicators, th Thresholds) models.Signal {
	sig := models.Signal{Indicators: ind}

	switch {
	case !ind.Ready():
		sig.Side, sig.Reason = models.SideHold, models.ReasonInsufficientData
	case ind.FastEMA > ind.SlowEMA && ind.RSI < th.Overbought:
		sig.Side, sig.Reason = models.SideBuy, models.ReasonUptrend
	case ind.FastEMA < ind.SlowEMA && ind.RSI > th.Oversold:
		sig.Side, sig.Reason = models.SideSell, models.ReasonDowntrend
	default:
		sig.Side, sig.Reason = models.SideHold, models.ReasonNoTrend
	}
	return sig
}
