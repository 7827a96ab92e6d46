package telegram

import (
	"context"

	"go.uber.org/fx"

	health "trend_bot/internal/modules/health/service"
	"trend_bot/internal/modules/journal"
	"trend_bot/internal/modules/telegram_bot/service"
	"trend_bot/internal/runner"
)

func Module() fx.Option {
	return fx.Module("telegram",
		// 1. Снимок состояния берём из health
		fx.Provide(
			func(s *health.State) service.StatusSource {
				return s
			},
			// /trades читает журнал
			func(s journal.Store) service.TradeSource {
				return s
			},
		),

		// 2. Сервис Telegram как *service.Telegram
		fx.Provide(
			service.NewTelegram, // func(*config.Config, service.StatusSource, service.TradeSource) (*service.Telegram, error)
		),

		// 3. Адаптер: *service.Telegram -> runner.Notifier
		fx.Provide(
			func(t *service.Telegram) runner.Notifier {
				return t
			},
		),

		// Запуск long polling через Lifecycle
		fx.Invoke(
			func(lc fx.Lifecycle, t *service.Telegram) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						// ctx OnStart живёт только на время старта
						t.Start(context.Background())
						return nil
					},
					OnStop: func(ctx context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
