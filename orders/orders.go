// Package orders covers the order overview, order placement helpers
// and the stop-loss updater.
package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/SoerenFox/pytr-Modified/utils"
	"github.com/buger/jsonparser"
)

// Order is one entry of the order overview.
type Order struct {
	ID         string  `json:"id"`
	ISIN       string  `json:"instrumentId"`
	Name       string  `json:"instrumentName"`
	Exchange   string  `json:"exchangeId"`
	Mode       string  `json:"mode"`
	Side       string  `json:"type"`
	Status     string  `json:"status"`
	Size       float64 `json:"size"`
	Stop       float64 `json:"stop,omitempty"`
	Limit      float64 `json:"limit,omitempty"`
	ExpiryType string  `json:"expiryType,omitempty"`
	ExpiryDate string  `json:"expiryDate,omitempty"`
}

// API is the order subset of the client.
type API interface {
	Orders(ctx context.Context) (json.RawMessage, error)
	CancelOrder(ctx context.Context, orderID string) (json.RawMessage, error)
}

// List fetches and parses the order overview.
func List(ctx context.Context, api API) ([]Order, error) {
	resp, err := api.Orders(ctx)
	if err != nil {
		return nil, err
	}
	var orders []Order
	_, err = jsonparser.ArrayEach(resp, func(item []byte, _ jsonparser.ValueType, _ int, _ error) {
		orders = append(orders, Order{
			ID:         utils.JSONString(item, "id"),
			ISIN:       utils.JSONString(item, "instrumentId"),
			Name:       utils.JSONString(item, "instrumentName"),
			Exchange:   utils.JSONString(item, "exchangeId"),
			Mode:       utils.JSONString(item, "mode"),
			Side:       utils.JSONString(item, "type"),
			Status:     utils.JSONString(item, "status"),
			Size:       utils.JSONFloat(item, "size"),
			Stop:       utils.JSONFloat(item, "stop"),
			Limit:      utils.JSONFloat(item, "limit"),
			ExpiryType: utils.JSONString(item, "expiry", "type"),
			ExpiryDate: utils.JSONString(item, "expiry", "value"),
		})
	}, "orders")
	if err != nil {
		return nil, fmt.Errorf("parse order overview: %w", err)
	}
	return orders, nil
}

// PrintOverview prints the active orders the way the app lists them.
func PrintOverview(w io.Writer, orders []Order) {
	for _, o := range orders {
		if o.Status != "active" {
			continue
		}
		fmt.Fprintf(w, "ID:\t\t%s\n", o.ID)
		fmt.Fprintf(w, "ISIN:\t\t%s\n", o.ISIN)
		fmt.Fprintf(w, "Name:\t\t%s\n", o.Name)
		fmt.Fprintf(w, "Expiry:\n- Type:\t\t%s\n", o.ExpiryType)
		if o.ExpiryDate != "" {
			fmt.Fprintf(w, "- Date:\t\t%s\n", o.ExpiryDate)
		}
		fmt.Fprintf(w, "Exchange ID:\t%s\n", o.Exchange)
		fmt.Fprintf(w, "Mode:\t\t%s\n", o.Mode)
		fmt.Fprintf(w, "Type:\t\t%s\n", o.Side)
		fmt.Fprintf(w, "Size:\t\t%g\n", o.Size)
		switch o.Mode {
		case "stopMarket":
			fmt.Fprintf(w, "Stop:\t\t%g\n", o.Stop)
		case "limit":
			fmt.Fprintf(w, "Limit:\t\t%g\n", o.Limit)
		}
		fmt.Fprintln(w)
	}
}
