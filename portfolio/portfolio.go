// Package portfolio assembles the current depot positions from the
// compact portfolio, instrument details and live tickers.
package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/SoerenFox/pytr-Modified/utils"
	"github.com/SoerenFox/pytr-Modified/utils/log"
	"github.com/buger/jsonparser"
	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
)

const defaultExchange = "LSX"

// API is the subset of the client needed to build the portfolio.
type API interface {
	CompactPortfolio(ctx context.Context) (json.RawMessage, error)
	Cash(ctx context.Context) (json.RawMessage, error)
	InstrumentDetails(ctx context.Context, isin string) (json.RawMessage, error)
	Ticker(ctx context.Context, isin, exchange string) (json.RawMessage, error)
}

// Position is one depot position with its current valuation.
type Position struct {
	Name        string   `json:"name" csv:"name"`
	ISIN        string   `json:"instrumentId" csv:"isin"`
	NetSize     float64  `json:"netSize" csv:"net_size"`
	AvgBuyIn    float64  `json:"averageBuyIn" csv:"avg_buy_in"`
	Price       float64  `json:"price" csv:"price"`
	NetValue    float64  `json:"netValue" csv:"net_value"`
	ExchangeIDs []string `json:"exchangeIds" csv:"-"`
}

// CashBalance is one currency account balance.
type CashBalance struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currencyId"`
}

// Overview is the assembled portfolio.
type Overview struct {
	Positions []Position    `json:"positions"`
	Cash      []CashBalance `json:"cash"`
}

// Positions fetches the depot positions, enriched with the instrument
// name, its exchanges and a valuation at the current bid price.
func Positions(ctx context.Context, api API) ([]Position, error) {
	compact, err := api.CompactPortfolio(ctx)
	if err != nil {
		return nil, err
	}

	var positions []Position
	_, err = jsonparser.ArrayEach(compact, func(item []byte, _ jsonparser.ValueType, _ int, _ error) {
		positions = append(positions, Position{
			ISIN:     utils.JSONString(item, "instrumentId"),
			NetSize:  utils.JSONFloat(item, "netSize"),
			AvgBuyIn: utils.JSONFloat(item, "averageBuyIn"),
		})
	}, "positions")
	if err != nil {
		return nil, fmt.Errorf("parse compact portfolio: %w", err)
	}

	for i := range positions {
		p := &positions[i]
		if err := enrich(ctx, api, p); err != nil {
			// A single delisted instrument should not sink the whole
			// overview.
			log.Warn("cannot price %s: %v", p.ISIN, err)
		}
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].NetValue > positions[j].NetValue
	})
	return positions, nil
}

func enrich(ctx context.Context, api API, p *Position) error {
	details, err := api.InstrumentDetails(ctx, p.ISIN)
	if err != nil {
		return err
	}
	p.Name = utils.JSONString(details, "shortName")
	if p.Name == "" {
		p.Name = utils.JSONString(details, "name")
	}
	_, _ = jsonparser.ArrayEach(details, func(v []byte, t jsonparser.ValueType, _ int, _ error) {
		if t == jsonparser.String {
			p.ExchangeIDs = append(p.ExchangeIDs, string(v))
		}
	}, "exchangeIds")

	exchange := defaultExchange
	if len(p.ExchangeIDs) > 0 {
		exchange = p.ExchangeIDs[0]
	}
	ticker, err := api.Ticker(ctx, p.ISIN, exchange)
	if err != nil {
		return err
	}
	p.Price = utils.JSONFloat(ticker, "bid", "price")
	p.NetValue = p.Price * p.NetSize
	return nil
}

// Fetch assembles the full overview including cash balances.
func Fetch(ctx context.Context, api API) (*Overview, error) {
	positions, err := Positions(ctx, api)
	if err != nil {
		return nil, err
	}
	o := &Overview{Positions: positions}

	cash, err := api.Cash(ctx)
	if err != nil {
		return nil, err
	}
	_, _ = jsonparser.ArrayEach(cash, func(item []byte, _ jsonparser.ValueType, _ int, _ error) {
		o.Cash = append(o.Cash, CashBalance{
			Amount:   utils.JSONFloat(item, "amount"),
			Currency: utils.JSONString(item, "currencyId"),
		})
	})
	return o, nil
}

// TotalValue sums the position valuations.
func (o *Overview) TotalValue() float64 {
	values := make([]float64, len(o.Positions))
	for i, p := range o.Positions {
		values[i] = p.NetValue
	}
	return floats.Sum(values)
}

// Print renders the overview as a table with totals and allocation
// percentages.
func (o *Overview) Print(w io.Writer) {
	total := o.TotalValue()
	fmt.Fprintf(w, "%-30s %12s %10s %12s %12s %6s\n",
		"Name", "ISIN", "shares", "avg buy-in", "net value", "alloc")
	for _, p := range o.Positions {
		alloc := 0.0
		if total > 0 {
			alloc = p.NetValue / total * 100
		}
		name := p.Name
		if len(name) > 30 {
			name = name[:30]
		}
		fmt.Fprintf(w, "%-30s %12s %10.2f %12.2f %12.2f %5.1f%%\n",
			name, p.ISIN, p.NetSize, p.AvgBuyIn, p.NetValue, alloc)
	}
	fmt.Fprintf(w, "%-30s %12s %10s %12s %12.2f\n", "positions total", "", "", "", total)
	for _, c := range o.Cash {
		fmt.Fprintf(w, "%-30s %12s %10s %12s %12.2f\n", "cash "+c.Currency, "", "", "", c.Amount)
		total += c.Amount
	}
	fmt.Fprintf(w, "%-30s %12s %10s %12s %12.2f\n", "total", "", "", "", total)
}

// WriteCSV exports the positions.
func WriteCSV(positions []Position, w io.Writer) error {
	return gocsv.Marshal(&positions, w)
}
