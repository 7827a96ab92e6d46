package chart

import (
	"go.uber.org/fx"

	"trend_bot/internal/modules/chart/service"
	"trend_bot/internal/modules/config"
	"trend_bot/internal/runner"
)

func newRenderer(cfg *config.Config) *service.Renderer {
	title := cfg.Tinkoff.Ticker
	if title == "" {
		title = cfg.Tinkoff.FIGI
	}
	return service.NewRenderer(title, cfg.Strategy.FastWindow, cfg.Strategy.SlowWindow, cfg.Trading.ChartDir)
}

func Module() fx.Option {
	return fx.Module("chart",
		fx.Provide(
			newRenderer, // *service.Renderer
			func(r *service.Renderer) runner.ChartRenderer { return r },
		),
	)
}
