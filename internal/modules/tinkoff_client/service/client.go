package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"trend_bot/internal/modules/config"
)

const (
	marketDataService = "tinkoff.public.invest.api.contract.v1.MarketDataService"
	operationsService = "tinkoff.public.invest.api.contract.v1.OperationsService"
	ordersService     = "tinkoff.public.invest.api.contract.v1.OrdersService"
	stopOrdersService = "tinkoff.public.invest.api.contract.v1.StopOrdersService"
)

// Client: один долгоживущий клиент REST-шлюза Tinkoff Invest на весь процесс.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

func NewClient(cfg *config.Config) *Client {
	return newClient(cfg.Tinkoff.BaseURL, cfg.Tinkoff.Token, &http.Client{Timeout: cfg.Trading.CallTimeout})
}

func newClient(baseURL, token string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// Close отпускает соединения пула.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// call: POST {base}/{service}/{method} с json-телом.
func (c *Client) call(ctx context.Context, service, method string, in, out any) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "tinkoff."+method)
	defer span.Finish()

	payload, err := sonic.Marshal(in)
	if err != nil {
		return errors.Wrap(err, method+" marshal")
	}

	url := c.baseURL + "/" + service + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, method+" new request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetTag("error", true)
		return errors.Wrap(err, method+" do")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, method+" read body")
	}

	if resp.StatusCode/100 != 2 {
		span.SetTag("error", true)
		apiErr := &APIError{HTTPStatus: resp.StatusCode}
		if uErr := sonic.Unmarshal(data, apiErr); uErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "%s decode; body=%s", method, string(data))
	}
	return nil
}
