package service

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Quotation: число в формате API: целая часть строкой плюс nano (1e-9).
type Quotation struct {
	Units string `json:"units"`
	Nano  int32  `json:"nano"`
}

// MoneyValue: Quotation с валютой.
type MoneyValue struct {
	Currency string `json:"currency"`
	Units    string `json:"units"`
	Nano     int32  `json:"nano"`
}

func (q Quotation) Decimal() decimal.Decimal {
	units, _ := strconv.ParseInt(q.Units, 10, 64)
	return decimal.New(units, 0).Add(decimal.New(int64(q.Nano), -9))
}

func (q Quotation) Float() float64 {
	return q.Decimal().InexactFloat64()
}

func (m MoneyValue) Float() float64 {
	return Quotation{Units: m.Units, Nano: m.Nano}.Float()
}

// NewQuotation раскладывает цену на units/nano, nano того же знака, что и units.
func NewQuotation(v decimal.Decimal) Quotation {
	units := v.Truncate(0)
	nano := v.Sub(units).Shift(9).Truncate(0)
	return Quotation{Units: units.String(), Nano: int32(nano.IntPart())}
}

// APIError: ошибка REST-шлюза: {"code":3,"message":"...","description":"30079"}.
type APIError struct {
	HTTPStatus  int    `json:"-"`
	Code        int    `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	return "tinkoff api error: http " + strconv.Itoa(e.HTTPStatus) +
		" code=" + strconv.Itoa(e.Code) + " message=" + e.Message + " description=" + e.Description
}

type getCandlesRequest struct {
	FIGI     string `json:"figi"`
	From     string `json:"from"`
	To       string `json:"to"`
	Interval string `json:"interval"`
}

type historicCandle struct {
	Open       Quotation `json:"open"`
	High       Quotation `json:"high"`
	Low        Quotation `json:"low"`
	Close      Quotation `json:"close"`
	Volume     string    `json:"volume"`
	Time       string    `json:"time"`
	IsComplete bool      `json:"isComplete"`
}

type getCandlesResponse struct {
	Candles []historicCandle `json:"candles"`
}

type portfolioRequest struct {
	AccountID string `json:"accountId"`
	Currency  string `json:"currency,omitempty"`
}

type portfolioPosition struct {
	FIGI           string    `json:"figi"`
	InstrumentType string    `json:"instrumentType"`
	Quantity       Quotation `json:"quantity"`
}

type portfolioResponse struct {
	Positions []portfolioPosition `json:"positions"`
}

type postOrderRequest struct {
	FIGI      string `json:"figi"`
	Quantity  string `json:"quantity"`
	Direction string `json:"direction"`
	AccountID string `json:"accountId"`
	OrderType string `json:"orderType"`
	OrderID   string `json:"orderId"`
}

type postOrderResponse struct {
	OrderID               string     `json:"orderId"`
	ExecutionReportStatus string     `json:"executionReportStatus"`
	LotsRequested         string     `json:"lotsRequested"`
	LotsExecuted          string     `json:"lotsExecuted"`
	ExecutedOrderPrice    MoneyValue `json:"executedOrderPrice"` // средняя цена одной бумаги
	Message               string     `json:"message"`
}

type postStopOrderRequest struct {
	FIGI           string    `json:"figi"`
	Quantity       string    `json:"quantity"`
	Price          Quotation `json:"price"`
	StopPrice      Quotation `json:"stopPrice"`
	Direction      string    `json:"direction"`
	AccountID      string    `json:"accountId"`
	ExpirationType string    `json:"expirationType"`
	StopOrderType  string    `json:"stopOrderType"`
}

type postStopOrderResponse struct {
	StopOrderID string `json:"stopOrderId"`
}

type cancelStopOrderRequest struct {
	AccountID   string `json:"accountId"`
	StopOrderID string `json:"stopOrderId"`
}
