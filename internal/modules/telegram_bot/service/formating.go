package service

import (
	"fmt"
	"strings"

	"trend_bot/internal/models"
	"trend_bot/internal/modules/config"
)

func f2(v float64) string { // для красивого вывода
	return fmt.Sprintf("%.2f", v)
}

func formatStatus(st models.Status, cfg *config.Config) string {
	if st.Time.IsZero() {
		return "⏳ Бот запущен, первого тика ещё не было."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s (%s)\n", cfg.Tinkoff.Ticker, cfg.Tinkoff.FIGI)
	fmt.Fprintf(&b, "Время: %s\n", st.Time.In(cfg.Location()).Format("02.01 15:04:05"))
	fmt.Fprintf(&b, "Цена: %s\n", f2(st.Price))
	fmt.Fprintf(&b, "EMA(%d): %s | EMA(%d): %s | RSI(%d): %s\n",
		cfg.Strategy.FastWindow, f2(st.FastEMA),
		cfg.Strategy.SlowWindow, f2(st.SlowEMA),
		cfg.Strategy.RSIWindow, f2(st.RSI))
	fmt.Fprintf(&b, "Сигнал: %s (%s)\n", st.Side, st.Reason)
	fmt.Fprintf(&b, "Пороги RSI: %.0f / %.0f\n", cfg.Strategy.Overbought, cfg.Strategy.Oversold)
	fmt.Fprintf(&b, "Окно: %d/%d\n", st.Window, cfg.Strategy.WindowCap)

	if st.Long {
		fmt.Fprintf(&b, "\n🟢 Позиция: %d лот(а) по %s\nTP: %s | SL: %s\n",
			st.Lots, f2(st.EntryPrice), f2(st.TakeProfit), f2(st.StopLoss))
	} else {
		b.WriteString("\n⚪️ Позиции нет\n")
	}
	fmt.Fprintf(&b, "PnL за сессию: %s ₽", f2(st.RealizedPnL))
	return b.String()
}

func formatHelp(cfg *config.Config) string {
	return fmt.Sprintf(
		"🤖 Трендовый бот %s\n\n"+
			"Покупка: EMA(%d) выше EMA(%d) и RSI < %.0f\n"+
			"Продажа: EMA(%d) ниже EMA(%d) и RSI > %.0f\n"+
			"TP: %s%% | SL: %s%% | лотов: %d\n\n"+
			"/status — текущее состояние\n"+
			"/trades — последние сделки\n"+
			"/help — эта справка",
		cfg.Tinkoff.Ticker,
		cfg.Strategy.FastWindow, cfg.Strategy.SlowWindow, cfg.Strategy.Overbought,
		cfg.Strategy.FastWindow, cfg.Strategy.SlowWindow, cfg.Strategy.Oversold,
		f2(cfg.Trading.TakeProfitPct), f2(cfg.Trading.StopLossPct), cfg.Trading.TradeLots,
	)
}

func formatTrades(recs []models.TradeRecord, cfg *config.Config) string {
	if len(recs) == 0 {
		return "📒 Сделок пока нет"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📒 Последние сделки %s:\n", cfg.Tinkoff.Ticker)
	for _, r := range recs {
		fmt.Fprintf(&b, "\n%s %s %d лот(ов) @ %s (%s)",
			r.Time.In(cfg.Location()).Format("02.01 15:04"), r.Action, r.Lots, f2(r.Price), r.Reason)
		if r.Action == models.SideSell {
			fmt.Fprintf(&b, " PnL: %s ₽", f2(r.RealizedPnL))
		}
	}
	return b.String()
}
