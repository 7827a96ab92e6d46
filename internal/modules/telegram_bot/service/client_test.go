package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"trend_bot/internal/models"
	"trend_bot/internal/modules/config"
)

type fakeBot struct {
	mu      sync.Mutex
	sent    []tgbot.Chattable
	updates chan tgbot.Update
	stopped bool
}

func newFakeBot() *fakeBot {
	return &fakeBot{updates: make(chan tgbot.Update, 4)}
}

func (f *fakeBot) Send(c tgbot.Chattable) (tgbot.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbot.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeBot) GetUpdatesChan(tgbot.UpdateConfig) tgbot.UpdatesChannel { return f.updates }

func (f *fakeBot) StopReceivingUpdates() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
}

func (f *fakeBot) messages() []tgbot.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbot.Chattable(nil), f.sent...)
}

type staticStatus models.Status

func (s staticStatus) Status() models.Status { return models.Status(s) }

type staticTrades struct {
	recs []models.TradeRecord
	err  error
}

func (s staticTrades) Recent(_ context.Context, limit int) ([]models.TradeRecord, error) {
	if len(s.recs) > limit {
		return s.recs[:limit], s.err
	}
	return s.recs, s.err
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Telegram.ChatID = 42
	cfg.Tinkoff.Ticker = "SBER"
	cfg.Tinkoff.FIGI = "BBG004730N88"
	cfg.Strategy.FastWindow, cfg.Strategy.SlowWindow, cfg.Strategy.RSIWindow = 5, 20, 14
	cfg.Strategy.Overbought, cfg.Strategy.Oversold = 70, 30
	cfg.Strategy.WindowCap = 60
	cfg.Trading.TradeLots = 1
	cfg.Trading.Timezone = "UTC"
	return cfg
}

func command(chatID int64, text string) tgbot.Update {
	return tgbot.Update{Message: &tgbot.Message{
		Chat:     &tgbot.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbot.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func TestSendTextAndImage(t *testing.T) {
	bot := newFakeBot()
	tg := newTelegram(bot, testConfig(), staticStatus{}, staticTrades{})

	if err := tg.SendText(context.Background(), "hello"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if err := tg.SendImage(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "caption"); err != nil {
		t.Fatalf("SendImage: %v", err)
	}

	sent := bot.messages()
	if len(sent) != 2 {
		t.Fatalf("sent %d messages", len(sent))
	}
	msg, ok := sent[0].(tgbot.MessageConfig)
	if !ok || msg.Text != "hello" || msg.ChatID != 42 {
		t.Fatalf("text message: %#v", sent[0])
	}
	photo, ok := sent[1].(tgbot.PhotoConfig)
	if !ok || photo.Caption != "caption" || photo.ChatID != 42 {
		t.Fatalf("photo message: %#v", sent[1])
	}
}

func TestSendTextCancelledContext(t *testing.T) {
	bot := newFakeBot()
	tg := newTelegram(bot, testConfig(), staticStatus{}, staticTrades{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := tg.SendText(ctx, "late"); err == nil {
		t.Fatalf("expected context error")
	}
	if len(bot.messages()) != 0 {
		t.Fatalf("nothing should be sent")
	}
}

func TestStatusCommand(t *testing.T) {
	bot := newFakeBot()
	st := staticStatus{
		Time: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), Price: 250.5,
		Side: models.SideBuy, Reason: models.ReasonUptrend,
		Long: true, EntryPrice: 250, TakeProfit: 252.75, StopLoss: 248.5, Lots: 1,
	}
	tg := newTelegram(bot, testConfig(), st, staticTrades{})
	tg.Start(context.Background())

	bot.updates <- command(7, "/status") // чужой чат
	bot.updates <- command(42, "/status")

	deadline := time.Now().Add(2 * time.Second)
	for len(bot.messages()) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("no reply")
		}
		time.Sleep(10 * time.Millisecond)
	}
	tg.Stop()

	sent := bot.messages()
	if len(sent) != 1 {
		t.Fatalf("expected exactly one reply, got %d", len(sent))
	}
	text := sent[0].(tgbot.MessageConfig).Text
	for _, want := range []string{"SBER", "250.50", "BUY (uptrend)", "TP: 252.75", "70 / 30"} {
		if !strings.Contains(text, want) {
			t.Fatalf("status %q missing %q", text, want)
		}
	}
}

func TestFormatStatusBeforeFirstTick(t *testing.T) {
	if got := formatStatus(models.Status{}, testConfig()); !strings.Contains(got, "первого тика") {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestFormatHelpMentionsCommands(t *testing.T) {
	got := formatHelp(testConfig())
	if !strings.Contains(got, "/status") || !strings.Contains(got, "/trades") || !strings.Contains(got, "EMA(5)") {
		t.Fatalf("help: %q", got)
	}
}

func lastText(t *testing.T, bot *fakeBot) string {
	t.Helper()
	sent := bot.messages()
	if len(sent) == 0 {
		t.Fatalf("no reply")
	}
	return sent[len(sent)-1].(tgbot.MessageConfig).Text
}

func TestTradesCommand(t *testing.T) {
	bot := newFakeBot()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	trades := staticTrades{recs: []models.TradeRecord{
		{Time: at.Add(time.Hour), Action: models.SideSell, Price: 252.75, Lots: 1, Reason: "take profit", RealizedPnL: 27.49},
		{Time: at, Action: models.SideBuy, Price: 250, Lots: 1, Reason: "uptrend"},
	}}
	tg := newTelegram(bot, testConfig(), staticStatus{}, trades)

	tg.handleUpdate(context.Background(), command(42, "/trades"))
	text := lastText(t, bot)
	for _, want := range []string{"SBER", "01.05 11:00 SELL 1 лот(ов) @ 252.75 (take profit) PnL: 27.49", "01.05 10:00 BUY 1 лот(ов) @ 250.00 (uptrend)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("trades %q missing %q", text, want)
		}
	}
	if strings.Count(text, "PnL") != 1 {
		t.Fatalf("PnL only on sells: %q", text)
	}
}

func TestTradesCommandEmptyAndFailing(t *testing.T) {
	bot := newFakeBot()
	tg := newTelegram(bot, testConfig(), staticStatus{}, staticTrades{})
	tg.handleUpdate(context.Background(), command(42, "/trades"))
	if got := lastText(t, bot); !strings.Contains(got, "Сделок пока нет") {
		t.Fatalf("empty: %q", got)
	}

	tg = newTelegram(bot, testConfig(), staticStatus{}, staticTrades{err: errors.New("disk full")})
	tg.handleUpdate(context.Background(), command(42, "/trades"))
	if got := lastText(t, bot); !strings.Contains(got, "Журнал сделок недоступен") {
		t.Fatalf("failing journal: %q", got)
	}
}
