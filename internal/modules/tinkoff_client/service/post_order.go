package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"trend_bot/internal/models"
)

const statusFill = "EXECUTION_REPORT_STATUS_FILL"

func orderDirection(side models.Side) (string, error) {
	switch side {
	case models.SideBuy:
		return "ORDER_DIRECTION_BUY", nil
	case models.SideSell:
		return "ORDER_DIRECTION_SELL", nil
	default:
		return "", fmt.Errorf("unsupported direction %q", side)
	}
}

// PostMarketOrder выставляет рыночную заявку. Ошибка транспорта и любой статус,
// кроме FILL, возвращаются как models.ErrOrderRejected с причиной от брокера.
func (c *Client) PostMarketOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error) {
	dir, err := orderDirection(req.Direction)
	if err != nil {
		return models.OrderResult{Status: models.OrderError, Detail: err.Error()}, err
	}
	if req.Lots <= 0 {
		return models.OrderResult{Status: models.OrderError}, fmt.Errorf("PostMarketOrder: lots <= 0")
	}
	key := req.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	var resp postOrderResponse
	err = c.call(ctx, ordersService, "PostOrder", postOrderRequest{
		FIGI:      req.FIGI,
		Quantity:  strconv.FormatInt(req.Lots, 10),
		Direction: dir,
		AccountID: req.AccountID,
		OrderType: "ORDER_TYPE_MARKET",
		OrderID:   key,
	}, &resp)
	if err != nil {
		return models.OrderResult{Status: models.OrderError, Detail: err.Error()},
			errors.Wrap(fmt.Errorf("%w: %s", models.ErrOrderRejected, err.Error()), "PostOrder")
	}

	lots, _ := strconv.ParseInt(resp.LotsExecuted, 10, 64)
	res := models.OrderResult{
		OrderID:       resp.OrderID,
		LotsExecuted:  lots,
		ExecutedPrice: resp.ExecutedOrderPrice.Float(),
		Detail:        resp.Message,
	}
	if resp.ExecutionReportStatus != statusFill {
		res.Status = models.OrderRejected
		reason := resp.Message
		if reason == "" {
			reason = resp.ExecutionReportStatus
		}
		res.Detail = reason
		return res, fmt.Errorf("%w: %s", models.ErrOrderRejected, reason)
	}

	res.Status = models.OrderFilled
	return res, nil
}
