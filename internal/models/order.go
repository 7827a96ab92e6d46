package models

import (
	"errors"
	"time"
)

var (
	// ErrOrderRejected: брокер не исполнил ордер. Причина в обёртке.
	ErrOrderRejected = errors.New("order rejected")
	// ErrPriceUnavailable: нет свежей цены, тик пропускается.
	ErrPriceUnavailable = errors.New("price unavailable")
)

type OrderStatus string

const (
	OrderFilled   OrderStatus = "filled"
	OrderRejected OrderStatus = "rejected"
	OrderError    OrderStatus = "error"
)

type StopOrderKind string

const (
	StopTakeProfit StopOrderKind = "take_profit"
	StopStopLoss   StopOrderKind = "stop_loss"
)

// OrderRequest: рыночный ордер. Quantity в лотах.
type OrderRequest struct {
	FIGI           string
	AccountID      string
	Direction      Side
	Lots           int64
	IdempotencyKey string
}

type OrderResult struct {
	OrderID      string
	Status       OrderStatus
	LotsExecuted int64
	// средняя цена исполнения за бумагу, 0 если брокер не вернул
	ExecutedPrice float64
	Detail        string
}

// StopOrderRequest: брекет-заявка брокера на закрытие длинной позиции.
type StopOrderRequest struct {
	FIGI      string
	AccountID string
	Kind      StopOrderKind
	Lots      int64
	StopPrice float64
}

// TradeRecord: строка аудита сделок.
type TradeRecord struct {
	Time        time.Time `json:"time"`
	FIGI        string    `json:"figi"`
	Action      Side      `json:"action"`
	Price       float64   `json:"price"`
	Lots        int64     `json:"lots"`
	Shares      int64     `json:"shares"`
	Reason      string    `json:"reason"`
	OrderID     string    `json:"order_id"`
	RealizedPnL float64   `json:"realized_pnl"`
}
