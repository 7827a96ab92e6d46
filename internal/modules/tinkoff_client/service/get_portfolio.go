package service

import (
	"context"

	"trend_bot/internal/models"
)

// RubFIGI: позиция рублей в портфеле.
const RubFIGI = "FG0000000000"

// GetAccount: рубли и количество бумаг figi (в штуках).
func (c *Client) GetAccount(ctx context.Context, accountID, figi string) (models.Account, error) {
	var resp portfolioResponse
	if err := c.call(ctx, operationsService, "GetPortfolio", portfolioRequest{
		AccountID: accountID,
		Currency:  "RUB",
	}, &resp); err != nil {
		return models.Account{}, err
	}

	var acc models.Account
	for _, pos := range resp.Positions {
		switch {
		case pos.InstrumentType == "currency" && pos.FIGI == RubFIGI:
			acc.Cash = pos.Quantity.Float()
		case pos.FIGI == figi:
			acc.Holding = pos.Quantity.Float()
		}
	}
	return acc, nil
}
