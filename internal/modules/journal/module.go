package journal

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"trend_bot/internal/models"
	"trend_bot/internal/modules/config"
	"trend_bot/internal/modules/journal/service"
	"trend_bot/internal/runner"
	"trend_bot/pkg/db"
	"trend_bot/pkg/logger"
)

// Store: журнал с чтением, общий для всех бэкендов.
type Store interface {
	Record(ctx context.Context, rec models.TradeRecord) error
	Recent(ctx context.Context, limit int) ([]models.TradeRecord, error)
	Close() error
}

func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Journal.Driver {
	case "postgres":
		pool, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.Journal.DSN, MaxConns: 4})
		if err != nil {
			return nil, fmt.Errorf("failed to create poolMaster: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return service.NewPG(ctx, db.NewPgTxManager(pool))
	case "sqlite":
		return service.NewSQLite(ctx, cfg.Journal.DSN)
	case "file":
		return service.NewFile(cfg.Journal.DSN), nil
	case "none", "":
		return service.Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown journal driver %q", cfg.Journal.Driver)
	}
}

func newStore(lc fx.Lifecycle, cfg *config.Config) (Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Trading.CallTimeout)
	defer cancel()

	s, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("trade journal: %s", cfg.Journal.Driver)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.Close()
		},
	})
	return s, nil
}

func Module() fx.Option {
	return fx.Module("journal",
		fx.Provide(
			newStore, // Store
			func(s Store) runner.Journal { return s },
		),
	)
}
