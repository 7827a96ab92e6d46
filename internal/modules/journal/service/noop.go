package service

import (
	"context"

	"trend_bot/internal/models"
)

// Noop: журнал выключен.
type Noop struct{}

func (Noop) Record(context.Context, models.TradeRecord) error { return nil }

func (Noop) Recent(context.Context, int) ([]models.TradeRecord, error) { return nil, nil }

func (Noop) Close() error { return nil }
