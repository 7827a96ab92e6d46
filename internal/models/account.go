package models

// Account: рублёвый баланс и количество бумаг (в штуках) на момент запроса.
type Account struct {
	Cash    float64
	Holding float64
}

type SizingMode string

const (
	// SizingFixed: всегда TradeLots лотов.
	SizingFixed SizingMode = "fixed"
	// SizingCapital: min(MaxLots, лимит в рублях, свободные деньги).
	SizingCapital SizingMode = "capital"
)

// RiskLimits: ограничения на сделку, приходят из конфига.
type RiskLimits struct {
	SizingMode          SizingMode
	TradeLots           int64
	MaxLots             int64
	LotSize             int64
	MaxNotionalRub      float64
	MinHoldingThreshold float64

	TakeProfitPct float64 // 1.0 => 1%
	StopLossPct   float64 // 0.5 => 0.5%
	FeeRate       float64 // комиссия за одну сторону, 0.0005 => 0.05%
}
