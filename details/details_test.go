package details

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	instrument string
	stock      string
	news       string
}

func (f *fakeAPI) InstrumentDetails(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(f.instrument), nil
}

func (f *fakeAPI) StockDetails(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(f.stock), nil
}

func (f *fakeAPI) News(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(f.news), nil
}

func TestShowStock(t *testing.T) {
	api := &fakeAPI{
		instrument: `{"name":"Apple Inc.","shortName":"Apple","typeId":"stock","exchangeIds":["LSX","TDG"]}`,
		stock:      `{"company":{"description":"Designs consumer electronics.","marketCapSnapshot":2800000000000,"peRatioSnapshot":28.5}}`,
	}
	var buf bytes.Buffer
	require.NoError(t, Show(context.Background(), api, "US0378331005", &buf))
	out := buf.String()
	assert.Contains(t, out, "Apple Inc.")
	assert.Contains(t, out, "US0378331005")
	assert.Contains(t, out, "LSX, TDG")
	assert.Contains(t, out, "Designs consumer electronics.")
	assert.Contains(t, out, "P/E ratio:\t28.50")
}

func TestShowNonStockSkipsCompanyFacts(t *testing.T) {
	api := &fakeAPI{
		instrument: `{"name":"iShares Core MSCI World","typeId":"fund","exchangeIds":["LSX"]}`,
	}
	var buf bytes.Buffer
	require.NoError(t, Show(context.Background(), api, "IE00B4L5Y983", &buf))
	assert.NotContains(t, buf.String(), "Market cap")
}

func TestPrintNews(t *testing.T) {
	api := &fakeAPI{
		news: `[{"id":"n1","headline":"Apple releases results","createdAt":1709370000000,"url":"https://news.example/n1"}]`,
	}
	var buf bytes.Buffer
	require.NoError(t, PrintNews(context.Background(), api, "US0378331005", &buf))
	out := buf.String()
	assert.Contains(t, out, "Apple releases results")
	assert.Contains(t, out, "https://news.example/n1")
	assert.Contains(t, out, "2024")
}
