package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	item := []byte(`{
		"id": "ev-42",
		"timestamp": "2024-03-02T10:30:00.000+0100",
		"title": "Apple",
		"subtitle": "Buy order",
		"eventType": "ORDER_EXECUTED",
		"icon": "logos/US0378331005/v2",
		"amount": {"value": -512.40, "currency": "EUR"}
	}`)

	ev, err := ParseEvent(item)
	require.NoError(t, err)
	assert.Equal(t, "ev-42", ev.ID)
	assert.Equal(t, "Apple", ev.Title)
	assert.Equal(t, "Buy order", ev.Subtitle)
	assert.Equal(t, "ORDER_EXECUTED", ev.EventType)
	assert.Equal(t, "US0378331005", ev.ISIN)
	assert.Equal(t, -512.40, ev.Amount)
	assert.Equal(t, "EUR", ev.Currency)
	assert.Equal(t, 2024, ev.Timestamp.Year())
	assert.Equal(t, time.March, ev.Timestamp.Month())
	assert.JSONEq(t, string(item), string(ev.Raw))
}

func TestParseEventRFC3339(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"id":"x","timestamp":"2024-03-02T09:30:00Z"}`))
	require.NoError(t, err)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestIsinFromIcon(t *testing.T) {
	assert.Equal(t, "US0378331005", isinFromIcon("logos/US0378331005/v2"))
	assert.Empty(t, isinFromIcon("logos/timeline_plus_circle/v2"))
	assert.Empty(t, isinFromIcon("something/US0378331005/v2"))
	assert.Empty(t, isinFromIcon(""))
}

func TestParseDocumentsIgnoresOtherSections(t *testing.T) {
	detail := []byte(`{"sections":[
		{"type":"table","data":[{"id":"not-a-doc"}]},
		{"type":"documents","data":[
			{"id":"d1","title":"Cost report","action":{"payload":"https://docs.example/d1"}},
			{"id":"d2","title":"Invoice","action":{"payload":"https://docs.example/d2"}}
		]}
	]}`)
	docs := parseDocuments(detail)
	require.Len(t, docs, 2)
	assert.Equal(t, "d1", docs[0].ID)
	assert.Equal(t, "https://docs.example/d2", docs[1].URL)
}
