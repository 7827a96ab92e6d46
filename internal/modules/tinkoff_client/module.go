package tinkoff_client

import (
	"context"

	"go.uber.org/fx"

	"trend_bot/internal/modules/config"
	"trend_bot/internal/modules/tinkoff_client/service"
)

func newClient(lc fx.Lifecycle, cfg *config.Config) *service.Client {
	c := service.NewClient(cfg)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			c.Close()
			return nil
		},
	})
	return c
}

func Module() fx.Option {
	return fx.Module("tinkoff_client",
		fx.Provide(
			newClient, // *service.Client
		),
	)
}
