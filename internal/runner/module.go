package runner

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"trend_bot/internal/modules/config"
	health "trend_bot/internal/modules/health/service"
	metrics "trend_bot/internal/modules/metrics/service"
	strategy "trend_bot/internal/modules/strategy/service"
	tinkoff "trend_bot/internal/modules/tinkoff_client/service"
)

type params struct {
	fx.In

	Cfg     *config.Config
	Engine  *strategy.Engine
	Client  *tinkoff.Client
	Notify  Notifier
	Chart   ChartRenderer
	Journal Journal
	State   *health.State
	Metrics *metrics.Metrics
}

func newRunner(p params) *Runner {
	return New(SettingsFromConfig(p.Cfg), p.Engine, Deps{
		Market:   p.Client,
		Broker:   p.Client,
		Notifier: p.Notify,
		Chart:    p.Chart,
		Journal:  p.Journal,
		Status:   p.State,
		Metrics:  p.Metrics,
	})
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			newRunner, // *Runner
		),
		fx.Invoke(func(lc fx.Lifecycle, r *Runner) {
			var (
				cancel context.CancelFunc
				wg     sync.WaitGroup
			)
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					var ctx context.Context
					ctx, cancel = context.WithCancel(context.Background())
					wg.Add(1)
					go func() {
						defer wg.Done()
						r.Run(ctx)
					}()
					return nil
				},
				OnStop: func(ctx context.Context) error {
					if cancel != nil {
						cancel()
					}
					// ждём, пока цикл доделает текущий тик
					done := make(chan struct{})
					go func() {
						wg.Wait()
						close(done)
					}()
					select {
					case <-done:
						return nil
					case <-ctx.Done():
						return ctx.Err()
					}
				},
			})
		}),
	)
}
