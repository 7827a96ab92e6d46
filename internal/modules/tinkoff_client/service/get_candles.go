package service

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"trend_bot/internal/models"
)

const Interval1Min = "CANDLE_INTERVAL_1_MIN"

// GetCandles: исторические свечи [from, to). Пустой ответ не ошибка.
func (c *Client) GetCandles(ctx context.Context, figi string, from, to time.Time, interval string) ([]models.Candle, error) {
	if interval == "" {
		interval = Interval1Min
	}
	var resp getCandlesResponse
	err := c.call(ctx, marketDataService, "GetCandles", getCandlesRequest{
		FIGI:     figi,
		From:     from.UTC().Format(time.RFC3339),
		To:       to.UTC().Format(time.RFC3339),
		Interval: interval,
	}, &resp)
	if err != nil {
		return nil, err
	}

	out := make([]models.Candle, 0, len(resp.Candles))
	for _, hc := range resp.Candles {
		ts, err := time.Parse(time.RFC3339Nano, hc.Time)
		if err != nil {
			return nil, errors.Wrapf(err, "GetCandles parse time %q", hc.Time)
		}
		vol, _ := strconv.ParseInt(hc.Volume, 10, 64)
		out = append(out, models.Candle{
			Time:       ts,
			Open:       hc.Open.Float(),
			High:       hc.High.Float(),
			Low:        hc.Low.Float(),
			Close:      hc.Close.Float(),
			Volume:     vol,
			IsComplete: hc.IsComplete,
		})
	}
	return out, nil
}

// LastPrice: закрытие последней минутной свечи за 5 минут.
// ok=false когда свечей нет (рынок закрыт, пауза торгов).
func (c *Client) LastPrice(ctx context.Context, figi string) (float64, bool, error) {
	now := time.Now()
	candles, err := c.GetCandles(ctx, figi, now.Add(-5*time.Minute), now, Interval1Min)
	if err != nil {
		return 0, false, err
	}
	if len(candles) == 0 {
		return 0, false, nil
	}
	return candles[len(candles)-1].Close, true, nil
}
