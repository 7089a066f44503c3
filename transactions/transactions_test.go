package transactions

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoerenFox/pytr-Modified/timeline"
)

func ts(s string) time.Time {
	t, _ := time.Parse("2006-01-02 15:04:05", s)
	return t
}

func sampleEvents() []timeline.Event {
	return []timeline.Event{
		{
			ID: "e1", EventType: "ORDER_EXECUTED", Timestamp: ts("2024-03-02 10:30:00"),
			Title: "Apple", Subtitle: "Buy order", Amount: -512.40, ISIN: "US0378331005",
			Raw: json.RawMessage(`{"shares": 3}`),
		},
		{
			ID: "e2", EventType: "PAYMENT_INBOUND", Timestamp: ts("2024-03-01 09:00:00"),
			Title: "Deposit", Amount: 1000,
		},
		{
			ID: "e3", EventType: "INTEREST_PAYOUT", Timestamp: ts("2024-02-01 00:00:00"),
			Title: "Interest", Amount: 12.34,
		},
		{
			ID: "e4", EventType: "SAVINGS_PLAN_EXECUTED", Timestamp: ts("2024-02-15 07:00:00"),
			Title: "World ETF", Amount: -50, ISIN: "IE00B4L5Y983",
			Raw: json.RawMessage(`{"shares": 0.625}`),
		},
		{
			ID: "e5", EventType: "card_successful_transaction", Timestamp: ts("2024-02-20 12:00:00"),
			Title: "Coffee", Amount: -3.50,
		},
	}
}

func TestClassify(t *testing.T) {
	events := sampleEvents()
	assert.Equal(t, KindBuy, Classify(events[0]))
	assert.Equal(t, KindDeposit, Classify(events[1]))
	assert.Equal(t, KindInterest, Classify(events[2]))
	assert.Equal(t, KindBuy, Classify(events[3]))
	assert.Empty(t, Classify(events[4]))

	sell := timeline.Event{EventType: "ORDER_EXECUTED", Amount: 99}
	assert.Equal(t, KindSell, Classify(sell))
}

func TestRowsDropUnclassified(t *testing.T) {
	e := Exporter{}
	rows := e.Rows(sampleEvents())
	require.Len(t, rows, 4)
	assert.Equal(t, "Buy", rows[0].Type)
	assert.Equal(t, "Apple Buy order", rows[0].Note)
	assert.Equal(t, "3", rows[0].Shares)
	assert.Equal(t, "2024-03-02", rows[0].Date)
}

func TestRowsSorted(t *testing.T) {
	e := Exporter{Sort: true}
	rows := e.Rows(sampleEvents())
	require.Len(t, rows, 4)
	assert.Equal(t, "2024-02-01", rows[0].Date)
	assert.Equal(t, "2024-03-02", rows[3].Date)
}

func TestExportCSVGerman(t *testing.T) {
	e := Exporter{Lang: "de", DecimalLocalization: true}
	var buf bytes.Buffer
	require.NoError(t, e.Export(&buf, sampleEvents(), "csv"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Datum;Typ;Wert;Notiz;ISIN;Anteile", lines[0])
	assert.Contains(t, lines[1], "Kauf")
	assert.Contains(t, lines[1], "-512,40")
	assert.Contains(t, lines[2], "Einlage")
	assert.Contains(t, lines[4], "0,625")
}

func TestExportJSON(t *testing.T) {
	e := Exporter{DateWithTime: true}
	var buf bytes.Buffer
	require.NoError(t, e.Export(&buf, sampleEvents(), "json"))

	var rows []Row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 4)
	assert.Equal(t, "2024-03-02 10:30:00", rows[0].Date)
	assert.Equal(t, "US0378331005", rows[0].ISIN)
}

func TestExportUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Exporter{}.Export(&buf, nil, "xml")
	assert.Error(t, err)
}

func TestSupportedLanguages(t *testing.T) {
	assert.ElementsMatch(t, []string{"de", "en"}, SupportedLanguages())
}
