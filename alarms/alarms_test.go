package alarms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	alarms    string
	cancelled []string
	created   []string
}

func (f *fakeAPI) PriceAlarms(context.Context) (json.RawMessage, error) {
	return json.RawMessage(f.alarms), nil
}

func (f *fakeAPI) CreatePriceAlarm(_ context.Context, isin string, target float64) (json.RawMessage, error) {
	f.created = append(f.created, fmt.Sprintf("%s@%g", isin, target))
	return json.RawMessage(`{}`), nil
}

func (f *fakeAPI) CancelPriceAlarm(_ context.Context, id string) (json.RawMessage, error) {
	f.cancelled = append(f.cancelled, id)
	return json.RawMessage(`{}`), nil
}

func (f *fakeAPI) InstrumentDetails(_ context.Context, isin string) (json.RawMessage, error) {
	return json.RawMessage(fmt.Sprintf(`{"shortName":"Name of %s"}`, isin)), nil
}

const alarmList = `[
	{"id":"a1","instrumentId":"US0378331005","targetPrice":150,"status":"active","createdAt":"2024-01-01T00:00:00Z"},
	{"id":"a2","instrumentId":"IE00B4L5Y983","targetPrice":70,"status":"active"}
]`

func TestListResolvesNames(t *testing.T) {
	api := &fakeAPI{alarms: alarmList}
	alarms, err := List(context.Background(), api, nil)
	require.NoError(t, err)
	require.Len(t, alarms, 2)
	assert.Equal(t, "Name of US0378331005", alarms[0].Name)
	assert.Equal(t, 150.0, alarms[0].Target)
}

func TestListFiltersByISIN(t *testing.T) {
	api := &fakeAPI{alarms: alarmList}
	alarms, err := List(context.Background(), api, []string{"ie00b4l5y983"})
	require.NoError(t, err)
	require.Len(t, alarms, 1)
	assert.Equal(t, "a2", alarms[0].ID)
}

func TestParseLine(t *testing.T) {
	line, err := ParseLine("us0378331005 150 180,50")
	require.NoError(t, err)
	assert.Equal(t, "US0378331005", line.ISIN)
	assert.Equal(t, []float64{150, 180.5}, line.Targets)

	_, err = ParseLine("US0378331005")
	assert.Error(t, err)

	_, err = ParseLine("TOOSHORT 100")
	assert.Error(t, err)

	_, err = ParseLine("US0378331005 abc")
	assert.Error(t, err)
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, []Alarm{{ID: "a1", ISIN: "US0378331005", Target: 150}}))

	var decoded []Alarm
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, 150.0, decoded[0].Target)
}

func TestSetReplacesTouchedInstruments(t *testing.T) {
	api := &fakeAPI{alarms: alarmList}
	lines := []Line{{ISIN: "US0378331005", Targets: []float64{160, 200}}}

	require.NoError(t, Set(context.Background(), api, lines, true))

	// Only the alarm of the touched instrument is cancelled.
	assert.Equal(t, []string{"a1"}, api.cancelled)
	assert.Equal(t, []string{"US0378331005@160", "US0378331005@200"}, api.created)
}

func TestSetKeepsExistingWithoutRemove(t *testing.T) {
	api := &fakeAPI{alarms: alarmList}
	lines := []Line{{ISIN: "US0378331005", Targets: []float64{160}}}

	require.NoError(t, Set(context.Background(), api, lines, false))
	assert.Empty(t, api.cancelled)
	assert.Equal(t, []string{"US0378331005@160"}, api.created)
}
