package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	compact string
	cash    string
	details map[string]string
	tickers map[string]string
}

func (f *fakeAPI) CompactPortfolio(context.Context) (json.RawMessage, error) {
	return json.RawMessage(f.compact), nil
}

func (f *fakeAPI) Cash(context.Context) (json.RawMessage, error) {
	return json.RawMessage(f.cash), nil
}

func (f *fakeAPI) InstrumentDetails(_ context.Context, isin string) (json.RawMessage, error) {
	d, ok := f.details[isin]
	if !ok {
		return nil, fmt.Errorf("unknown instrument %s", isin)
	}
	return json.RawMessage(d), nil
}

func (f *fakeAPI) Ticker(_ context.Context, isin, exchange string) (json.RawMessage, error) {
	tk, ok := f.tickers[isin+"."+exchange]
	if !ok {
		return nil, fmt.Errorf("no quote for %s on %s", isin, exchange)
	}
	return json.RawMessage(tk), nil
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		compact: `{"positions":[
			{"instrumentId":"US0378331005","netSize":"2","averageBuyIn":"150.00"},
			{"instrumentId":"IE00B4L5Y983","netSize":"10.5","averageBuyIn":"70.00"}
		]}`,
		cash: `[{"amount":123.45,"currencyId":"EUR"}]`,
		details: map[string]string{
			"US0378331005": `{"shortName":"Apple","name":"Apple Inc.","exchangeIds":["LSX","TDG"]}`,
			"IE00B4L5Y983": `{"name":"iShares Core MSCI World","exchangeIds":["LSX"]}`,
		},
		tickers: map[string]string{
			"US0378331005.LSX": `{"bid":{"price":170.00},"ask":{"price":170.10}}`,
			"IE00B4L5Y983.LSX": `{"bid":{"price":80.00},"ask":{"price":80.04}}`,
		},
	}
}

func TestPositions(t *testing.T) {
	positions, err := Positions(context.Background(), newFakeAPI())
	require.NoError(t, err)
	require.Len(t, positions, 2)

	// Sorted by net value, largest first.
	assert.Equal(t, "IE00B4L5Y983", positions[0].ISIN)
	assert.Equal(t, "iShares Core MSCI World", positions[0].Name)
	assert.InDelta(t, 840.0, positions[0].NetValue, 1e-9)

	assert.Equal(t, "Apple", positions[1].Name)
	assert.Equal(t, []string{"LSX", "TDG"}, positions[1].ExchangeIDs)
	assert.InDelta(t, 170.0, positions[1].Price, 1e-9)
	assert.InDelta(t, 340.0, positions[1].NetValue, 1e-9)
}

func TestPositionsSurvivesUnpriceableInstrument(t *testing.T) {
	api := newFakeAPI()
	delete(api.tickers, "US0378331005.LSX")

	positions, err := Positions(context.Background(), api)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	// The unpriceable position stays, just without a valuation.
	assert.Equal(t, 0.0, positions[1].NetValue)
}

func TestFetchAndTotals(t *testing.T) {
	overview, err := Fetch(context.Background(), newFakeAPI())
	require.NoError(t, err)
	require.Len(t, overview.Cash, 1)
	assert.InDelta(t, 1180.0, overview.TotalValue(), 1e-9)

	var buf bytes.Buffer
	overview.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "Apple")
	assert.Contains(t, out, "positions total")
	assert.Contains(t, out, "cash EUR")
	assert.Contains(t, out, "1303.45")
}

func TestWriteCSV(t *testing.T) {
	positions := []Position{
		{Name: "Apple", ISIN: "US0378331005", NetSize: 2, AvgBuyIn: 150, Price: 170, NetValue: 340},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(positions, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "name,isin,net_size,avg_buy_in,price,net_value", lines[0])
	assert.Contains(t, lines[1], "US0378331005")
}
