package models

import "math"

// Side: направление сигнала.
type Side string

const (
	SideHold Side = "HOLD"
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Причины сигнала, попадают в уведомления и журнал.
const (
	ReasonInsufficientData = "insufficient data"
	ReasonUptrend          = "uptrend"
	ReasonDowntrend        = "downtrend"
	ReasonNoTrend          = "no clear trend"
)

// Indicators: снимок индикаторов на текущем тике.
// Неопределённые значения хранятся как NaN.
type Indicators struct {
	Price   float64
	FastEMA float64
	SlowEMA float64
	RSI     float64

	// полные ряды для графика, NaN пока не прогрелись
	FastSeries []float64
	SlowSeries []float64
}

// Ready: все три индикатора определены.
func (i Indicators) Ready() bool {
	return !math.IsNaN(i.FastEMA) && !math.IsNaN(i.SlowEMA) && !math.IsNaN(i.RSI)
}

// Signal: ответ классификатора.
type Signal struct {
	Side       Side
	Reason     string
	Indicators Indicators
}

func (s Signal) Price() float64 { return s.Indicators.Price }
