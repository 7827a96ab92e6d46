package models

import "time"

// Candle: свеча брокера, цены уже переведены в float64.
type Candle struct {
	Time       time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     int64
	IsComplete bool
}

// Closes вытаскивает цены закрытия в порядке свечей.
func Closes(candles []Candle) []float64 {
	out := make([]float64, 0, len(candles))
	for _, c := range candles {
		out = append(out, c.Close)
	}
	return out
}
