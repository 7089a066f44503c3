package api

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// The typed operations below each build one documented subscribe
// payload and block for the answer. They return the raw JSON payload;
// callers pick out the fields they need.

func (c *Client) Portfolio(ctx context.Context) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "portfolio"})
}

func (c *Client) CompactPortfolio(ctx context.Context) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "compactPortfolio"})
}

func (c *Client) PortfolioStatus(ctx context.Context) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "portfolioStatus"})
}

func (c *Client) Cash(ctx context.Context) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "cash"})
}

func (c *Client) AvailableCash(ctx context.Context) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "availableCash"})
}

func (c *Client) Watchlist(ctx context.Context) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "watchlist"})
}

func (c *Client) SavingsPlans(ctx context.Context) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "savingsPlans"})
}

func (c *Client) Settings(ctx context.Context) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "settings"})
}

func (c *Client) InstrumentDetails(ctx context.Context, isin string) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "instrument", "id": isin})
}

func (c *Client) StockDetails(ctx context.Context, isin string) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "stockDetails", "id": isin})
}

// Ticker fetches the current quote; exchange is an exchange id like
// "LSX".
func (c *Client) Ticker(ctx context.Context, isin, exchange string) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "ticker", "id": isin + "." + exchange})
}

func (c *Client) Performance(ctx context.Context, isin, exchange string) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "performance", "id": isin + "." + exchange})
}

func (c *Client) News(ctx context.Context, isin string) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "neonNews", "isin": isin})
}

// Timeline pages the legacy timeline; pass the cursor from the
// previous page or "" for the first one.
func (c *Client) Timeline(ctx context.Context, after string) (json.RawMessage, error) {
	payload := map[string]interface{}{"type": "timeline"}
	if after != "" {
		payload["after"] = after
	}
	return c.RunBlocking(ctx, payload)
}

func (c *Client) TimelineTransactions(ctx context.Context, after string) (json.RawMessage, error) {
	payload := map[string]interface{}{"type": "timelineTransactions"}
	if after != "" {
		payload["after"] = after
	}
	return c.RunBlocking(ctx, payload)
}

func (c *Client) TimelineActivityLog(ctx context.Context, after string) (json.RawMessage, error) {
	payload := map[string]interface{}{"type": "timelineActivityLog"}
	if after != "" {
		payload["after"] = after
	}
	return c.RunBlocking(ctx, payload)
}

func (c *Client) TimelineDetail(ctx context.Context, id string) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "timelineDetailV2", "id": id})
}

func (c *Client) Search(ctx context.Context, query, assetType string) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{
		"type": "neonSearch",
		"data": map[string]interface{}{
			"q":        query,
			"page":     1,
			"pageSize": 20,
			"filter": []map[string]interface{}{
				{"key": "type", "value": assetType},
			},
		},
	})
}

func (c *Client) SearchSuggestedTags(ctx context.Context, query string) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{
		"type": "neonSearchSuggestedTags",
		"data": map[string]interface{}{"q": query},
	})
}

func (c *Client) Orders(ctx context.Context) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "orders"})
}

func (c *Client) PriceForOrder(ctx context.Context, isin, exchange, side string) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{
		"type": "priceForOrder",
		"parameters": map[string]interface{}{
			"exchangeId":   exchange,
			"instrumentId": isin,
			"type":         side,
		},
	})
}

func (c *Client) CancelOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "cancelOrder", "orderId": orderID})
}

// OrderParams describe a simpleCreateOrder request. Side is "buy" or
// "sell"; Expiry is "gfd", "gtc" or "gtd" (with ExpiryDate set to
// YYYY-MM-DD). Exactly one of Limit or Stop is used, depending on the
// method placing the order.
type OrderParams struct {
	ISIN          string
	Exchange      string
	Side          string
	Size          float64
	Limit         float64
	Stop          float64
	Expiry        string
	ExpiryDate    string
	WarningsShown []string
}

func (c *Client) LimitOrder(ctx context.Context, p OrderParams) (json.RawMessage, error) {
	params := p.parameters()
	params["mode"] = "limit"
	params["limit"] = p.Limit
	return c.createOrder(ctx, p, params)
}

func (c *Client) StopMarketOrder(ctx context.Context, p OrderParams) (json.RawMessage, error) {
	params := p.parameters()
	params["mode"] = "stopMarket"
	params["stop"] = p.Stop
	return c.createOrder(ctx, p, params)
}

func (p OrderParams) parameters() map[string]interface{} {
	expiry := map[string]interface{}{"type": p.Expiry}
	if p.ExpiryDate != "" {
		expiry["value"] = p.ExpiryDate
	}
	return map[string]interface{}{
		"instrumentId": p.ISIN,
		"exchangeId":   p.Exchange,
		"type":         p.Side,
		"size":         p.Size,
		"expiry":       expiry,
	}
}

func (c *Client) createOrder(ctx context.Context, p OrderParams, params map[string]interface{}) (json.RawMessage, error) {
	warnings := p.WarningsShown
	if warnings == nil {
		warnings = []string{}
	}
	return c.RunBlocking(ctx, map[string]interface{}{
		"type":            "simpleCreateOrder",
		"clientProcessId": uuid.NewString(),
		"warningsShown":   warnings,
		"parameters":      params,
	})
}

func (c *Client) PriceAlarms(ctx context.Context) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "priceAlarms"})
}

func (c *Client) CreatePriceAlarm(ctx context.Context, isin string, target float64) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{
		"type":         "createPriceAlarm",
		"instrumentId": isin,
		"targetPrice":  target,
	})
}

func (c *Client) CancelPriceAlarm(ctx context.Context, id string) (json.RawMessage, error) {
	return c.RunBlocking(ctx, map[string]interface{}{"type": "cancelPriceAlarm", "id": id})
}
