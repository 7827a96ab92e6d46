package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"trend_bot/internal/helper"
	"trend_bot/internal/models"
	"trend_bot/pkg/logger"
)

func (r *Runner) account(ctx context.Context) (models.Account, error) {
	cctx, cancel := r.callCtx(ctx)
	defer cancel()
	acc, err := r.broker.GetAccount(cctx, r.cfg.AccountID, r.cfg.FIGI)
	if err != nil {
		r.m.ObserveTickError("account")
		return models.Account{}, fmt.Errorf("get account: %w", err)
	}
	return acc, nil
}

// placeOrder: отказ брокера уходит в телеграм и возвращается как ErrOrderRejected.
func (r *Runner) placeOrder(ctx context.Context, side models.Side, lots int64) (models.OrderResult, error) {
	cctx, cancel := r.callCtx(ctx)
	defer cancel()
	res, err := r.broker.PostMarketOrder(cctx, models.OrderRequest{
		FIGI:           r.cfg.FIGI,
		AccountID:      r.cfg.AccountID,
		Direction:      side,
		Lots:           lots,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		if res.Status == "" {
			res.Status = models.OrderError
		}
		r.m.ObserveOrder(side, res.Status)
		logger.Warn("[ORDER] %s %d лот(ов) отклонён: %v", side, lots, err)
		r.sendText(ctx, fmt.Sprintf("[%s] ⚠️ Ордер отклонён!\nПричина: %v", r.cfg.Ticker, err))
		if !errors.Is(err, models.ErrOrderRejected) {
			err = fmt.Errorf("%w: %v", models.ErrOrderRejected, err)
		}
		return res, err
	}
	r.m.ObserveOrder(side, models.OrderFilled)
	logger.Info("[ORDER] %s %d лот(ов) исполнен, id=%s", side, lots, res.OrderID)
	return res, nil
}

func (r *Runner) refuse(side models.Side, why Refusal) {
	logger.Info("[RISK] %s не отправлен: %s", side, why)
	r.m.ObserveRefusal(string(why))
}

func (r *Runner) openLong(ctx context.Context, sig models.Signal, png []byte) error {
	acc, err := r.account(ctx)
	if err != nil {
		return err
	}
	price := sig.Price()
	size, why := SizeBuy(acc, price, r.cfg.Limits)
	if why != "" {
		r.refuse(models.SideBuy, why)
		return nil
	}
	// дальше ордер: остановка приложения его уже не прерывает
	ctx = context.WithoutCancel(ctx)

	res, err := r.placeOrder(ctx, models.SideBuy, size.Lots)
	if err != nil {
		return nil
	}
	entry := res.ExecutedPrice
	if entry <= 0 {
		entry = price
	}
	r.pos.Open(entry, size.Lots, size.Shares, r.cfg.Limits, r.now())
	if r.cfg.BracketOrders {
		r.placeBrackets(ctx)
	}

	r.sendSignal(ctx, png, "🟢 Открыта BUY", sig,
		fmt.Sprintf("Вход: %.2f | %d лот(ов)\nTP: %.2f | SL: %.2f", entry, size.Lots, r.pos.TakeProfit, r.pos.StopLoss))
	r.record(ctx, models.TradeRecord{
		Time:    r.now(),
		FIGI:    r.cfg.FIGI,
		Action:  models.SideBuy,
		Price:   entry,
		Lots:    size.Lots,
		Shares:  size.Shares,
		Reason:  sig.Reason,
		OrderID: res.OrderID,
	})
	return nil
}

func (r *Runner) closeLong(ctx context.Context, sig models.Signal, reason string, png []byte) error {
	acc, err := r.account(ctx)
	if err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)
	size, why := SizeSell(acc, r.cfg.Limits)
	if why == RefuseNoPosition {
		// целого лота у брокера уже нет: сработала стоп-заявка или закрыли руками
		r.cancelBrackets(ctx)
		logger.Warn("[RUNNER] позиция уже закрыта у брокера (%s, остаток %v шт.), сбрасываем", reason, acc.Holding)
		r.pos.Close()
		msg := fmt.Sprintf("[%s] ℹ️ Позиции у брокера нет, состояние сброшено\nПричина выхода: %s", r.cfg.Ticker, reason)
		if acc.Holding > 0 {
			msg = fmt.Sprintf("[%s] ℹ️ У брокера остаток %v шт., меньше лота: продать нельзя, состояние сброшено\nПричина выхода: %s",
				r.cfg.Ticker, acc.Holding, reason)
		}
		r.sendText(ctx, msg)
		return nil
	}
	if why != "" {
		r.refuse(models.SideSell, why)
		return nil
	}

	res, err := r.placeOrder(ctx, models.SideSell, size.Lots)
	if err != nil {
		return nil
	}
	r.cancelBrackets(ctx)

	exit := res.ExecutedPrice
	if exit <= 0 {
		exit = sig.Price()
	}
	pnl := RealizedPnL(r.pos.Entry, exit, size.Shares, r.cfg.Limits.FeeRate)
	r.pnl += pnl
	entry := r.pos.Entry
	r.pos.Close()

	r.sendSignal(ctx, png, "🔴 Закрыта: "+reason, sig,
		fmt.Sprintf("Вход: %.2f | Выход: %.2f | PnL: %.2f ₽", entry, exit, pnl))
	r.record(ctx, models.TradeRecord{
		Time:        r.now(),
		FIGI:        r.cfg.FIGI,
		Action:      models.SideSell,
		Price:       exit,
		Lots:        size.Lots,
		Shares:      size.Shares,
		Reason:      reason,
		OrderID:     res.OrderID,
		RealizedPnL: pnl,
	})
	return nil
}

// placeBrackets ставит TP вверх и SL вниз по шагу цены.
func (r *Runner) placeBrackets(ctx context.Context) {
	stops := []struct {
		kind  models.StopOrderKind
		price float64
	}{
		{models.StopTakeProfit, helper.RoundUpToTick(r.pos.TakeProfit, r.cfg.PriceStep)},
		{models.StopStopLoss, helper.RoundDownToTick(r.pos.StopLoss, r.cfg.PriceStep)},
	}
	for _, s := range stops {
		cctx, cancel := r.callCtx(ctx)
		id, err := r.broker.PostStopOrder(cctx, models.StopOrderRequest{
			FIGI:      r.cfg.FIGI,
			AccountID: r.cfg.AccountID,
			Kind:      s.kind,
			Lots:      r.pos.Lots,
			StopPrice: s.price,
		})
		cancel()
		if err != nil {
			logger.Warn("[BRACKET] %s @ %.2f: %v", s.kind, s.price, err)
			r.sendText(ctx, fmt.Sprintf("[%s] ⚠️ Стоп-заявка %s не выставлена: %v", r.cfg.Ticker, s.kind, err))
			continue
		}
		r.pos.StopOrderIDs = append(r.pos.StopOrderIDs, id)
		logger.Info("[BRACKET] %s @ %.2f id=%s", s.kind, s.price, id)
	}
}

func (r *Runner) cancelBrackets(ctx context.Context) {
	for _, id := range r.pos.StopOrderIDs {
		cctx, cancel := r.callCtx(ctx)
		if err := r.broker.CancelStopOrder(cctx, r.cfg.AccountID, id); err != nil {
			// исполненную заявку отменить нельзя, это нормально
			logger.Debug("[BRACKET] cancel %s: %v", id, err)
		}
		cancel()
	}
	r.pos.StopOrderIDs = nil
}

func (r *Runner) record(ctx context.Context, rec models.TradeRecord) {
	if r.journal == nil {
		return
	}
	cctx, cancel := r.callCtx(ctx)
	defer cancel()
	if err := r.journal.Record(cctx, rec); err != nil {
		logger.Error("[JOURNAL] %v", err)
	}
}
