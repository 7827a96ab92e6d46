package service

import (
	"context"
	"fmt"
	"sync"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"trend_bot/internal/models"
	"trend_bot/internal/modules/config"
	"trend_bot/pkg/logger"
)

// botAPI: то, что нужно от *tgbot.BotAPI.
type botAPI interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
	GetUpdatesChan(config tgbot.UpdateConfig) tgbot.UpdatesChannel
	StopReceivingUpdates()
}

// StatusSource отдаёт последний снимок цикла.
type StatusSource interface {
	Status() models.Status
}

// TradeSource: последние сделки из журнала, новые первыми.
type TradeSource interface {
	Recent(ctx context.Context, limit int) ([]models.TradeRecord, error)
}

// Telegram: уведомления в один чат и команды /status, /trades, /help.
type Telegram struct {
	bot    botAPI
	cfg    *config.Config
	chatID int64
	status StatusSource
	trades TradeSource

	wg   sync.WaitGroup
	stop chan struct{}
	once sync.Once
}

func NewTelegram(cfg *config.Config, status StatusSource, trades TradeSource) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return newTelegram(b, cfg, status, trades), nil
}

func newTelegram(b botAPI, cfg *config.Config, status StatusSource, trades TradeSource) *Telegram {
	return &Telegram{
		bot:    b,
		cfg:    cfg,
		chatID: cfg.Telegram.ChatID,
		status: status,
		trades: trades,
		stop:   make(chan struct{}),
	}
}

func (t *Telegram) SendText(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		return fmt.Errorf("telegram send text: %w", err)
	}
	return nil
}

// SendImage шлёт PNG с подписью.
func (t *Telegram) SendImage(ctx context.Context, png []byte, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	photo := tgbot.NewPhoto(t.chatID, tgbot.FileBytes{Name: "chart.png", Bytes: png})
	photo.Caption = caption
	if _, err := t.bot.Send(photo); err != nil {
		return fmt.Errorf("telegram send image: %w", err)
	}
	return nil
}

// Start запускает long polling в отдельной горутине.
func (t *Telegram) Start(ctx context.Context) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for {
			select {
			case <-t.stop:
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				t.handleUpdate(ctx, update)
			}
		}
	}()
}

func (t *Telegram) Stop() {
	t.once.Do(func() {
		close(t.stop)
		t.bot.StopReceivingUpdates()
	})
	t.wg.Wait()
}

func (t *Telegram) reply(ctx context.Context, text string) {
	if err := t.SendText(ctx, text); err != nil {
		logger.Error("telegram reply: %v", err)
	}
}
