package service

// PriceWindow: последние цены, старые впереди. Длина не больше cap.
type PriceWindow struct {
	cap    int
	prices []float64
}

func NewPriceWindow(capacity int, seed []float64) *PriceWindow {
	if capacity <= 0 {
		capacity = 60
	}
	w := &PriceWindow{
		cap:    capacity,
		prices: make([]float64, 0, capacity+1),
	}
	for _, p := range seed {
		w.Push(p)
	}
	return w
}

// Push добавляет цену и выкидывает самую старую при переполнении.
func (w *PriceWindow) Push(price float64) {
	w.prices = append(w.prices, price)
	if len(w.prices) > w.cap {
		n := copy(w.prices, w.prices[len(w.prices)-w.cap:])
		w.prices = w.prices[:n]
	}
}

func (w *PriceWindow) Len() int { return len(w.prices) }
func (w *PriceWindow) Cap() int { return w.cap }

// Prices: копия окна, снаружи её можно менять.
func (w *PriceWindow) Prices() []float64 {
	out := make([]float64, len(w.prices))
	copy(out, w.prices)
	return out
}
