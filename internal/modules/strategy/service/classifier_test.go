package service

import (
	"math"
	"testing"

	"trend_bot/internal/models"
)

func TestClassifyTable(t *testing.T) {
	th := DefaultThresholds()
	nan := math.NaN()

	cases := []struct {
		name       string
		fast, slow float64
		rsi        float64
		side       models.Side
		reason     string
	}{
		{"uptrend", 101, 100, 50, models.SideBuy, models.ReasonUptrend},
		{"uptrend overbought", 101, 100, 70, models.SideHold, models.ReasonNoTrend},
		{"downtrend", 99, 100, 50, models.SideSell, models.ReasonDowntrend},
		{"downtrend oversold", 99, 100, 30, models.SideHold, models.ReasonNoTrend},
		{"flat", 100, 100, 50, models.SideHold, models.ReasonNoTrend},
		{"slow undefined", 101, nan, 50, models.SideHold, models.ReasonInsufficientData},
		{"fast undefined", nan, 100, 50, models.SideHold, models.ReasonInsufficientData},
		{"rsi undefined", 101, 100, nan, models.SideHold, models.ReasonInsufficientData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig := Classify(models.Indicators{FastEMA: tc.fast, SlowEMA: tc.slow, RSI: tc.rsi}, th)
			if sig.Side != tc.side || sig.Reason != tc.reason {
				t.Fatalf("got %s/%q, want %s/%q", sig.Side, sig.Reason, tc.side, tc.reason)
			}
		})
	}
}

func TestClassifyStrictBands(t *testing.T) {
	strict := Thresholds{Overbought: 55, Oversold: 45}
	ind := models.Indicators{FastEMA: 101, SlowEMA: 100, RSI: 60}

	if sig := Classify(ind, DefaultThresholds()); sig.Side != models.SideBuy {
		t.Fatalf("default bands: %s", sig.Side)
	}
	if sig := Classify(ind, strict); sig.Side != models.SideHold {
		t.Fatalf("strict bands: %s", sig.Side)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	ind := models.Indicators{FastEMA: 99.5, SlowEMA: 100, RSI: 41}
	a := Classify(ind, DefaultThresholds())
	b := Classify(ind, DefaultThresholds())
	if a.Side != b.Side || a.Reason != b.Reason {
		t.Fatalf("%s/%s vs %s/%s", a.Side, a.Reason, b.Side, b.Reason)
	}
}

// [100]x19 + [101]: медленная EMA определяется ровно на 20-й точке,
// но падений не было, RSI = 100 и сигнал остаётся HOLD.
func TestEvaluateFlatThenUptick(t *testing.T) {
	prices := append(repeat(100, 19), 101)
	e := NewEngine(DefaultIndicatorConfig(), DefaultThresholds())

	sig := e.Evaluate(prices)
	if sig.Side != models.SideHold {
		t.Fatalf("expected HOLD, got %s (%s)", sig.Side, sig.Reason)
	}
	if sig.Indicators.RSI != 100 {
		t.Fatalf("RSI %v", sig.Indicators.RSI)
	}

	if sig := e.Evaluate(prices[1:]); sig.Reason != models.ReasonInsufficientData {
		t.Fatalf("19 points: %s", sig.Reason)
	}
}

// 25 растущих цен 100..124: EMA(5) > EMA(20), но RSI = 100 >= 70 -> HOLD.
func TestEvaluateMonotonicRise(t *testing.T) {
	prices := make([]float64, 25)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	e := NewEngine(DefaultIndicatorConfig(), DefaultThresholds())

	sig := e.Evaluate(prices)
	ind := sig.Indicators
	if !(ind.FastEMA > ind.SlowEMA) {
		t.Fatalf("fast %v <= slow %v", ind.FastEMA, ind.SlowEMA)
	}
	want := models.SideHold
	if ind.RSI < 70 {
		want = models.SideBuy
	}
	if ind.RSI != 100 {
		t.Fatalf("reference RSI for monotonic rise is 100, got %v", ind.RSI)
	}
	if sig.Side != want {
		t.Fatalf("expected %s, got %s", want, sig.Side)
	}
}

func TestEvaluatePullbackInUptrendBuys(t *testing.T) {
	prices := make([]float64, 0, 30)
	for i := 0; i < 25; i++ {
		prices = append(prices, 100+float64(i))
	}
	// откат гасит RSI ниже 70, тренд по EMA сохраняется
	prices = append(prices, 121, 119, 118)

	sig := NewEngine(DefaultIndicatorConfig(), DefaultThresholds()).Evaluate(prices)
	ind := sig.Indicators
	if ind.FastEMA <= ind.SlowEMA {
		t.Fatalf("expected uptrend, fast=%v slow=%v", ind.FastEMA, ind.SlowEMA)
	}
	if ind.RSI >= 70 {
		t.Fatalf("expected RSI < 70, got %v", ind.RSI)
	}
	if sig.Side != models.SideBuy || sig.Reason != models.ReasonUptrend {
		t.Fatalf("expected BUY/uptrend, got %s/%s", sig.Side, sig.Reason)
	}
}

func TestEngineNameAndWarmup(t *testing.T) {
	e := NewEngine(DefaultIndicatorConfig(), DefaultThresholds())
	if e.Name() != "EMA(5)/EMA(20)/RSI(14)" || e.Warmup() != 20 {
		t.Fatalf("name=%q warmup=%d", e.Name(), e.Warmup())
	}
}
