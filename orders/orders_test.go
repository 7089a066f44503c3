package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderAPI struct {
	orders    string
	cancelled []string
}

func (f *fakeOrderAPI) Orders(context.Context) (json.RawMessage, error) {
	return json.RawMessage(f.orders), nil
}

func (f *fakeOrderAPI) CancelOrder(_ context.Context, orderID string) (json.RawMessage, error) {
	f.cancelled = append(f.cancelled, orderID)
	return json.RawMessage(`{}`), nil
}

const orderOverview = `{"orders":[
	{"id":"o1","instrumentId":"US0378331005","instrumentName":"Apple","exchangeId":"LSX",
	 "mode":"stopMarket","type":"sell","status":"active","size":2,"stop":150.00,
	 "expiry":{"type":"gtc"}},
	{"id":"o2","instrumentId":"IE00B4L5Y983","instrumentName":"iShares Core MSCI World","exchangeId":"LSX",
	 "mode":"limit","type":"buy","status":"active","size":5,"limit":78.50,
	 "expiry":{"type":"gtd","value":"2024-12-31"}},
	{"id":"o3","instrumentId":"US0378331005","instrumentName":"Apple","exchangeId":"LSX",
	 "mode":"limit","type":"buy","status":"executed","size":1,"limit":160.00,
	 "expiry":{"type":"gfd"}}
]}`

func TestList(t *testing.T) {
	api := &fakeOrderAPI{orders: orderOverview}
	orders, err := List(context.Background(), api)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, "o1", orders[0].ID)
	assert.Equal(t, "stopMarket", orders[0].Mode)
	assert.Equal(t, "sell", orders[0].Side)
	assert.Equal(t, 150.0, orders[0].Stop)
	assert.Equal(t, "gtc", orders[0].ExpiryType)

	assert.Equal(t, 78.5, orders[1].Limit)
	assert.Equal(t, "2024-12-31", orders[1].ExpiryDate)
}

func TestPrintOverviewSkipsInactive(t *testing.T) {
	api := &fakeOrderAPI{orders: orderOverview}
	orders, err := List(context.Background(), api)
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintOverview(&buf, orders)
	out := buf.String()
	assert.Contains(t, out, "o1")
	assert.Contains(t, out, "Stop:\t\t150")
	assert.Contains(t, out, "Limit:\t\t78.5")
	assert.NotContains(t, out, "o3")
}
