package service

import "math"

// rsiState: RSI со сглаживанием Уайлдера (alpha = 1/period).
// Первое изменение считается нулевым, значение определено с period-й точки.
type rsiState struct {
	period  int
	alpha   float64
	prev    float64
	avgGain float64
	avgLoss float64
	samples int
}

func newRSI(period int) rsiState {
	if period <= 1 {
		period = 2
	}
	return rsiState{
		period: period,
		alpha:  1.0 / float64(period),
	}
}

func (r *rsiState) Update(price float64) {
	if r.samples == 0 {
		r.prev = price
		r.samples = 1
		return
	}

	change := price - r.prev
	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}
	r.avgGain = (1-r.alpha)*r.avgGain + r.alpha*gain
	r.avgLoss = (1-r.alpha)*r.avgLoss + r.alpha*loss
	r.prev = price
	r.samples++
}

func (r *rsiState) Ready() bool { return r.samples >= r.period }

func (r *rsiState) Value() float64 {
	if !r.Ready() {
		return math.NaN()
	}
	if r.avgLoss == 0 {
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs)
}
