package service

import (
	"context"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"trend_bot/pkg/logger"
)

func (t *Telegram) handleUpdate(ctx context.Context, update tgbot.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	// чужие чаты игнорируем
	if msg.Chat.ID != t.chatID {
		logger.Warn("telegram: message from unknown chat %d", msg.Chat.ID)
		return
	}
	if !msg.IsCommand() {
		return
	}

	switch msg.Command() {
	case "status":
		t.reply(ctx, formatStatus(t.status.Status(), t.cfg))
	case "trades":
		t.reply(ctx, t.recentTrades(ctx))
	case "start", "help":
		t.reply(ctx, formatHelp(t.cfg))
	default:
		t.reply(ctx, "🤷 Неизвестная команда. /help")
	}
}

const tradesLimit = 10

func (t *Telegram) recentTrades(ctx context.Context) string {
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	recs, err := t.trades.Recent(cctx, tradesLimit)
	if err != nil {
		logger.Error("telegram: journal recent: %v", err)
		return "⚠️ Журнал сделок недоступен"
	}
	return formatTrades(recs, t.cfg)
}
