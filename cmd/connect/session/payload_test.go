package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayloadBareWord(t *testing.T) {
	payload, err := parsePayload("portfolio")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"type": "portfolio"}, payload)
}

func TestParsePayloadWordWithFields(t *testing.T) {
	payload, err := parsePayload(`ticker {"id": "US0378331005.LSX"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"type": "ticker",
		"id":   "US0378331005.LSX",
	}, payload)
}

func TestParsePayloadFullObject(t *testing.T) {
	payload, err := parsePayload(`{"type": "timelineTransactions", "after": "c1"}`)
	require.NoError(t, err)
	assert.Equal(t, "timelineTransactions", payload["type"])
	assert.Equal(t, "c1", payload["after"])
}

func TestParsePayloadBadJSON(t *testing.T) {
	_, err := parsePayload(`{"type":`)
	assert.Error(t, err)

	_, err = parsePayload(`ticker {broken`)
	assert.Error(t, err)
}
