package runner

import (
	"math"

	"github.com/shopspring/decimal"

	"trend_bot/internal/models"
)

// Refusal: причина, по которой ордер не отправлен. Пустая строка: можно.
type Refusal string

const (
	RefusePositionOpen      Refusal = "position already open"
	RefuseInsufficientFunds Refusal = "insufficient funds"
	RefuseNotionalLimit     Refusal = "exceeds per-trade rub limit"
	RefuseNoPosition        Refusal = "no position to sell"
	RefuseBadPrice          Refusal = "invalid price"
)

// OrderSize: одобренный объём.
type OrderSize struct {
	Lots     int64
	Shares   int64
	Notional decimal.Decimal
}

// SizeBuy проверяет лимиты и считает объём покупки в лотах.
// Позиция открыта, если на счету есть хотя бы один целый лот:
// остаток меньше лота продать нельзя, он докупку не блокирует.
func SizeBuy(acc models.Account, price float64, lim models.RiskLimits) (OrderSize, Refusal) {
	lotSize := lim.LotSize
	if lotSize <= 0 {
		lotSize = 1
	}
	if acc.Holding >= math.Max(lim.MinHoldingThreshold, float64(lotSize)) {
		return OrderSize{}, RefusePositionOpen
	}
	if price <= 0 {
		return OrderSize{}, RefuseBadPrice
	}

	px := decimal.NewFromFloat(price)
	perLot := px.Mul(decimal.NewFromInt(lotSize))
	limit := decimal.NewFromFloat(lim.MaxNotionalRub)
	cash := decimal.NewFromFloat(acc.Cash)

	lots := lim.TradeLots
	if lim.SizingMode == models.SizingCapital {
		lots = limit.Div(perLot).Floor().IntPart()
		if byCash := cash.Div(perLot).Floor().IntPart(); byCash < lots {
			lots = byCash
		}
		if lim.MaxLots > 0 && lim.MaxLots < lots {
			lots = lim.MaxLots
		}
		if lots < 1 {
			return OrderSize{}, RefuseInsufficientFunds
		}
	}
	if lots < 1 {
		lots = 1
	}

	notional := perLot.Mul(decimal.NewFromInt(lots))
	if notional.GreaterThan(limit) {
		return OrderSize{}, RefuseNotionalLimit
	}
	if notional.GreaterThan(cash) {
		return OrderSize{}, RefuseInsufficientFunds
	}
	return OrderSize{Lots: lots, Shares: lots * lotSize, Notional: notional}, ""
}

// SizeSell: продаём все целые лоты, что есть. Шорт не открываем.
func SizeSell(acc models.Account, lim models.RiskLimits) (OrderSize, Refusal) {
	if acc.Holding < lim.MinHoldingThreshold {
		return OrderSize{}, RefuseNoPosition
	}
	lotSize := lim.LotSize
	if lotSize <= 0 {
		lotSize = 1
	}
	lots := int64(acc.Holding) / lotSize
	if lots < 1 {
		return OrderSize{}, RefuseNoPosition
	}
	return OrderSize{Lots: lots, Shares: lots * lotSize}, ""
}
