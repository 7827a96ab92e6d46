package runner

import (
	"math"
	"testing"
	"time"

	"trend_bot/internal/models"
)

func testLimits() models.RiskLimits {
	return models.RiskLimits{
		SizingMode:          models.SizingFixed,
		TradeLots:           1,
		MaxLots:             3,
		LotSize:             10,
		MaxNotionalRub:      10000,
		MinHoldingThreshold: 0.5,
		TakeProfitPct:       1.0,
		StopLossPct:         0.5,
		FeeRate:             0.0005,
	}
}

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTargetsIncludeRoundTripFees(t *testing.T) {
	tp, sl := Targets(250, testLimits())
	if !almost(tp, 252.75) || !almost(sl, 248.5) {
		t.Fatalf("tp=%v sl=%v", tp, sl)
	}
	if !(tp > 250 && 250 > sl) {
		t.Fatalf("expected tp > entry > sl")
	}

	noFee := testLimits()
	noFee.FeeRate = 0
	tp, sl = Targets(250, noFee)
	if !almost(tp, 252.5) || !almost(sl, 248.75) {
		t.Fatalf("no fee: tp=%v sl=%v", tp, sl)
	}
}

func TestPositionOpenClose(t *testing.T) {
	var p Position
	p.Open(250, 1, 10, testLimits(), time.Unix(0, 0))
	if !p.Long || p.Entry != 250 || p.Shares != 10 {
		t.Fatalf("open: %+v", p)
	}
	p.StopOrderIDs = []string{"s-1"}
	p.Close()
	if p.Long || p.Entry != 0 || p.StopOrderIDs != nil {
		t.Fatalf("close must reset everything: %+v", p)
	}
}

func TestCheckExit(t *testing.T) {
	var p Position
	p.Open(250, 1, 10, testLimits(), time.Now())

	cases := []struct {
		price  float64
		reason string
		hit    bool
	}{
		{251, "", false},
		{252.75, ExitTakeProfit, true},
		{260, ExitTakeProfit, true},
		{248.5, ExitStopLoss, true},
		{200, ExitStopLoss, true},
		{249, "", false},
	}
	for _, c := range cases {
		reason, hit := p.CheckExit(c.price)
		if hit != c.hit || reason != c.reason {
			t.Fatalf("price %v: got (%q,%v) want (%q,%v)", c.price, reason, hit, c.reason, c.hit)
		}
	}

	var flat Position
	if _, hit := flat.CheckExit(1e9); hit {
		t.Fatalf("flat position never exits")
	}
}

func TestCheckExitTakeProfitWins(t *testing.T) {
	p := Position{Long: true, Entry: 100, TakeProfit: 100, StopLoss: 100}
	if reason, _ := p.CheckExit(100); reason != ExitTakeProfit {
		t.Fatalf("tie must resolve to take profit, got %q", reason)
	}
}

func TestRealizedPnL(t *testing.T) {
	// (253-250)*10 - 0.0005*(250+253)*10 = 30 - 2.515
	if got := RealizedPnL(250, 253, 10, 0.0005); !almost(got, 27.485) {
		t.Fatalf("pnl: %v", got)
	}
	if got := RealizedPnL(250, 250, 10, 0.0005); got >= 0 {
		t.Fatalf("flat trade must lose the fees, got %v", got)
	}
}
