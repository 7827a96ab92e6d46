package helper

import "math"

func RoundDownToTick(px, tick float64) float64 {
	if tick <= 0 {
		return px
	}
	steps := math.Floor(px/tick + 1e-9)
	return roundTo(steps*tick, tick)
}

func RoundUpToTick(px, tick float64) float64 {
	if tick <= 0 {
		return px
	}
	steps := math.Ceil(px/tick - 1e-9)
	return roundTo(steps*tick, tick)
}

// roundTo убирает хвост float после умножения на шаг: 252.76000000000002 -> 252.76.
func roundTo(v, tick float64) float64 {
	digits := 0
	for t := tick; t < 1 && digits < 9; t *= 10 {
		digits++
	}
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
