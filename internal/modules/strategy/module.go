package strategy

import (
	"go.uber.org/fx"

	"trend_bot/internal/modules/config"
	"trend_bot/internal/modules/strategy/service"
)

func newEngine(cfg *config.Config) *service.Engine {
	return service.NewEngine(
		service.IndicatorConfig{
			FastWindow: cfg.Strategy.FastWindow,
			SlowWindow: cfg.Strategy.SlowWindow,
			RSIWindow:  cfg.Strategy.RSIWindow,
		},
		service.Thresholds{
			Overbought: cfg.Strategy.Overbought,
			Oversold:   cfg.Strategy.Oversold,
		},
	)
}

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			newEngine, // *service.Engine
		),
	)
}
