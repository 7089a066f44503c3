// Package details prints instrument information and news.
package details

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/SoerenFox/pytr-Modified/utils"
	"github.com/buger/jsonparser"
)

// API is the instrument subset of the client.
type API interface {
	InstrumentDetails(ctx context.Context, isin string) (json.RawMessage, error)
	StockDetails(ctx context.Context, isin string) (json.RawMessage, error)
	News(ctx context.Context, isin string) (json.RawMessage, error)
}

// Show prints the instrument master data and, for stocks, a handful of
// company facts.
func Show(ctx context.Context, api API, isin string, w io.Writer) error {
	instrument, err := api.InstrumentDetails(ctx, isin)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Name:\t\t%s\n", utils.JSONString(instrument, "name"))
	fmt.Fprintf(w, "Short name:\t%s\n", utils.JSONString(instrument, "shortName"))
	fmt.Fprintf(w, "ISIN:\t\t%s\n", isin)
	fmt.Fprintf(w, "Type:\t\t%s\n", utils.JSONString(instrument, "typeId"))

	fmt.Fprint(w, "Exchanges:\t")
	first := true
	_, _ = jsonparser.ArrayEach(instrument, func(v []byte, t jsonparser.ValueType, _ int, _ error) {
		if t != jsonparser.String {
			return
		}
		if !first {
			fmt.Fprint(w, ", ")
		}
		fmt.Fprint(w, string(v))
		first = false
	}, "exchangeIds")
	fmt.Fprintln(w)

	if utils.JSONString(instrument, "typeId") != "stock" {
		return nil
	}
	stock, err := api.StockDetails(ctx, isin)
	if err != nil {
		return err
	}
	if desc := utils.JSONString(stock, "company", "description"); desc != "" {
		fmt.Fprintf(w, "\n%s\n", desc)
	}
	if v := utils.JSONFloat(stock, "company", "marketCapSnapshot"); v != 0 {
		fmt.Fprintf(w, "Market cap:\t%.0f\n", v)
	}
	if v := utils.JSONFloat(stock, "company", "peRatioSnapshot"); v != 0 {
		fmt.Fprintf(w, "P/E ratio:\t%.2f\n", v)
	}
	return nil
}

// PrintNews prints recent articles for an ISIN.
func PrintNews(ctx context.Context, api API, isin string, w io.Writer) error {
	news, err := api.News(ctx, isin)
	if err != nil {
		return err
	}
	_, err = jsonparser.ArrayEach(news, func(article []byte, _ jsonparser.ValueType, _ int, _ error) {
		created := int64(utils.JSONFloat(article, "createdAt"))
		fmt.Fprintf(w, "Headline:\t%s\n", utils.JSONString(article, "headline"))
		fmt.Fprintf(w, "Publication:\t%s\n",
			time.UnixMilli(created).Format("Monday, 02. January 2006"))
		fmt.Fprintf(w, "URL:\t\t%s\n", utils.JSONString(article, "url"))
		fmt.Fprintf(w, "ID:\t\t%s\n\n", utils.JSONString(article, "id"))
	})
	return err
}
