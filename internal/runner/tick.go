package runner

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/opentracing/opentracing-go"

	"trend_bot/internal/models"
	"trend_bot/pkg/logger"
)

// safeTick: граница тика: паника и ошибка логируются, уходят в телеграм, цикл живёт дальше.
func (r *Runner) safeTick(ctx context.Context) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("[RUNNER] panic в тике: %v\n%s", p, debug.Stack())
			r.m.ObserveTickError("panic")
			r.sendText(ctx, fmt.Sprintf("[%s] ⚠️ Сбой в цикле: %v", r.cfg.Ticker, p))
		}
	}()
	if err := r.Tick(ctx); err != nil && ctx.Err() == nil {
		logger.Error("[RUNNER] тик: %v", err)
		r.sendText(ctx, fmt.Sprintf("[%s] ⚠️ Ошибка в цикле: %v", r.cfg.Ticker, err))
	}
}

// Tick: одна итерация: цена, сигнал, выходы, вход.
func (r *Runner) Tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	span, ctx := opentracing.StartSpanFromContext(ctx, "runner.tick")
	defer span.Finish()

	started := time.Now()
	defer func() { r.m.TickSeconds.Observe(time.Since(started).Seconds()) }()

	price, ok, err := r.lastPrice(ctx)
	if err != nil {
		logger.Warn("[TICK] %s: цена недоступна, пропуск: %v", r.cfg.Ticker, err)
		r.m.ObserveTickError("price")
		return nil
	}
	if !ok {
		// рынок закрыт, свечей нет
		logger.Debug("[TICK] %s: цены нет, пропуск", r.cfg.Ticker)
		return nil
	}
	r.ticks++
	r.m.Ticks.Inc()
	r.m.LastPrice.Set(price)

	r.window.Push(price)
	prices := r.window.Prices()
	sig := r.engine.Evaluate(prices)
	r.m.ObserveSignal(sig.Side)
	span.SetTag("side", string(sig.Side))
	logger.Info("[TICK] %s %.2f → %s (%s) | %s", r.cfg.Ticker, price, sig.Side, sig.Reason, r.engine.Dump(sig))

	png := r.renderChart(prices, sig)

	if !r.started {
		r.started = true
		r.sendSignal(ctx, png, "🚀 Стартовый сигнал "+string(sig.Side), sig, "")
	}

	defer r.publish(sig)

	if reason, hit := r.pos.CheckExit(price); hit {
		return r.closeLong(ctx, sig, reason, png)
	}

	switch {
	case sig.Side == models.SideBuy && !r.pos.Long:
		return r.openLong(ctx, sig, png)
	case sig.Side == models.SideSell && r.pos.Long:
		return r.closeLong(ctx, sig, ExitReversal, png)
	}
	return nil
}

func (r *Runner) lastPrice(ctx context.Context) (float64, bool, error) {
	cctx, cancel := r.callCtx(ctx)
	defer cancel()
	price, ok, err := r.market.LastPrice(cctx, r.cfg.FIGI)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", models.ErrPriceUnavailable, err)
	}
	return price, ok && price > 0, nil
}

// renderChart: пока медленная EMA не прогрелась, графика нет.
func (r *Runner) renderChart(prices []float64, sig models.Signal) []byte {
	if r.chart == nil || len(prices) < r.engine.Warmup() {
		return nil
	}
	png, err := r.chart.Render(prices, sig.Indicators.FastSeries, sig.Indicators.SlowSeries, sig.Side)
	if err != nil {
		logger.Warn("[CHART] %v", err)
		return nil
	}
	return png
}

func (r *Runner) caption(title string, sig models.Signal, extra string) string {
	msg := fmt.Sprintf("[%s] %s @ %.2f\nПричина: %s\n%s", r.cfg.Ticker, title, sig.Price(), sig.Reason, r.engine.Dump(sig))
	if extra != "" {
		msg += "\n" + extra
	}
	return msg
}

// sendSignal шлёт картинку с подписью, без картинки: текст.
func (r *Runner) sendSignal(ctx context.Context, png []byte, title string, sig models.Signal, extra string) {
	text := r.caption(title, sig, extra)
	if png == nil {
		r.sendText(ctx, text)
		return
	}
	cctx, cancel := r.callCtx(ctx)
	defer cancel()
	if err := r.notify.SendImage(cctx, png, text); err != nil {
		logger.Error("[NOTIFY] image: %v", err)
	}
}

func (r *Runner) sendText(ctx context.Context, text string) {
	cctx, cancel := r.callCtx(ctx)
	defer cancel()
	if err := r.notify.SendText(cctx, text); err != nil {
		logger.Error("[NOTIFY] text: %v", err)
	}
}
