package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"trend_bot/internal/models"
)

func stopOrderType(kind models.StopOrderKind) (string, error) {
	switch kind {
	case models.StopTakeProfit:
		return "STOP_ORDER_TYPE_TAKE_PROFIT", nil
	case models.StopStopLoss:
		return "STOP_ORDER_TYPE_STOP_LOSS", nil
	default:
		return "", fmt.Errorf("unknown stop order kind %q", kind)
	}
}

// PostStopOrder ставит GTC стоп-заявку на продажу всей позиции. Возвращает stopOrderId.
func (c *Client) PostStopOrder(ctx context.Context, req models.StopOrderRequest) (string, error) {
	typ, err := stopOrderType(req.Kind)
	if err != nil {
		return "", err
	}
	if req.Lots <= 0 || req.StopPrice <= 0 {
		return "", fmt.Errorf("PostStopOrder: bad lots=%d stop=%f", req.Lots, req.StopPrice)
	}
	px := NewQuotation(decimal.NewFromFloat(req.StopPrice))

	var resp postStopOrderResponse
	if err := c.call(ctx, stopOrdersService, "PostStopOrder", postStopOrderRequest{
		FIGI:           req.FIGI,
		Quantity:       strconv.FormatInt(req.Lots, 10),
		Price:          px,
		StopPrice:      px,
		Direction:      "STOP_ORDER_DIRECTION_SELL",
		AccountID:      req.AccountID,
		ExpirationType: "STOP_ORDER_EXPIRATION_TYPE_GOOD_TILL_CANCEL",
		StopOrderType:  typ,
	}, &resp); err != nil {
		return "", err
	}
	if resp.StopOrderID == "" {
		return "", fmt.Errorf("PostStopOrder: empty stopOrderId")
	}
	return resp.StopOrderID, nil
}

func (c *Client) CancelStopOrder(ctx context.Context, accountID, stopOrderID string) error {
	return c.call(ctx, stopOrdersService, "CancelStopOrder", cancelStopOrderRequest{
		AccountID:   accountID,
		StopOrderID: stopOrderID,
	}, nil)
}
