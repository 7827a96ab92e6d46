package main

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"trend_bot/internal/modules/chart"
	"trend_bot/internal/modules/config"
	"trend_bot/internal/modules/health"
	"trend_bot/internal/modules/journal"
	"trend_bot/internal/modules/metrics"
	"trend_bot/internal/modules/strategy"
	telegram "trend_bot/internal/modules/telegram_bot"
	"trend_bot/internal/modules/tinkoff_client"
	"trend_bot/internal/runner"
	"trend_bot/pkg/logger"
	"trend_bot/pkg/tracing"
)

const serviceName = "trend_bot"

func newFxLogger(cfg *config.Config) fxevent.Logger {
	l, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return fxevent.NopLogger
	}
	return &fxevent.ZapLogger{Logger: l}
}

func initTracing(lc fx.Lifecycle, cfg *config.Config) error {
	_, closeFn, err := tracing.InitTracer(tracing.Config{
		Enabled: cfg.Tracing.Enabled,
		Host:    cfg.Tracing.Host,
		Port:    cfg.Tracing.Port,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closeFn()
			return nil
		},
	})
	return nil
}

func main() {
	logger.SetServiceName(serviceName)
	tracing.SetServiceName(serviceName)
	defer logger.Sync()

	app := fx.New(
		fx.WithLogger(newFxLogger),
		config.Module(),
		fx.Module("observability",
			fx.Invoke(initTracing),
		),
		metrics.Module(),
		health.Module(),
		strategy.Module(),
		tinkoff_client.Module(),
		chart.Module(),
		journal.Module(),
		telegram.Module(),
		runner.Module(),
	)
	app.Run()
}
