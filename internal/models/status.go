package models

import "time"

// Status: снимок состояния цикла после тика. Отдаётся в /status, /healthz и /ws.
type Status struct {
	Time   time.Time `json:"time"`
	FIGI   string    `json:"figi"`
	Ticker string    `json:"ticker"`

	Price   float64 `json:"price"`
	FastEMA float64 `json:"fast_ema"`
	SlowEMA float64 `json:"slow_ema"`
	RSI     float64 `json:"rsi"`
	Side    Side    `json:"side"`
	Reason  string  `json:"reason"`
	Window  int     `json:"window"`

	Long        bool    `json:"long"`
	EntryPrice  float64 `json:"entry_price,omitempty"`
	TakeProfit  float64 `json:"take_profit,omitempty"`
	StopLoss    float64 `json:"stop_loss,omitempty"`
	Lots        int64   `json:"lots,omitempty"`
	RealizedPnL float64 `json:"realized_pnl"`
	Ticks       int64   `json:"ticks"`
}
