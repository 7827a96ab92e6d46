package runner

import (
	"time"

	"trend_bot/internal/models"
)

// Причины закрытия.
const (
	ExitTakeProfit = "take profit hit"
	ExitStopLoss   = "stop loss hit"
	ExitReversal   = "trend reversed"
)

// Position: что бот думает о своей позиции. Шорта нет.
type Position struct {
	Long       bool
	Entry      float64
	TakeProfit float64
	StopLoss   float64
	Lots       int64
	Shares     int64
	OpenedAt   time.Time

	// id брекет-заявок у брокера
	StopOrderIDs []string
}

// Targets: комиссия берётся с обеих сторон сделки.
func Targets(entry float64, lim models.RiskLimits) (tp, sl float64) {
	fees := 2 * lim.FeeRate
	tp = entry * (1 + lim.TakeProfitPct/100 + fees)
	sl = entry * (1 - lim.StopLossPct/100 - fees)
	return tp, sl
}

func (p *Position) Open(entry float64, lots, shares int64, lim models.RiskLimits, at time.Time) {
	tp, sl := Targets(entry, lim)
	*p = Position{
		Long:       true,
		Entry:      entry,
		TakeProfit: tp,
		StopLoss:   sl,
		Lots:       lots,
		Shares:     shares,
		OpenedAt:   at,
	}
}

func (p *Position) Close() {
	*p = Position{}
}

// CheckExit: сначала тейк, потом стоп.
func (p Position) CheckExit(price float64) (string, bool) {
	if !p.Long {
		return "", false
	}
	if price >= p.TakeProfit {
		return ExitTakeProfit, true
	}
	if price <= p.StopLoss {
		return ExitStopLoss, true
	}
	return "", false
}

// RealizedPnL: оценка результата сделки в рублях за вычетом комиссии с обеих сторон.
func RealizedPnL(entry, exit float64, shares int64, feeRate float64) float64 {
	n := float64(shares)
	return (exit-entry)*n - feeRate*(entry+exit)*n
}
