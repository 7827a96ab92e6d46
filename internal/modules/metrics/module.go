package metrics

import (
	"go.uber.org/fx"

	"trend_bot/internal/modules/metrics/service"
)

func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(
			service.New, // *service.Metrics
		),
	)
}
