// Package timeline fetches and models the account timeline: executed
// transactions, activity log entries and their attached documents.
package timeline

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/SoerenFox/pytr-Modified/utils"
	"github.com/buger/jsonparser"
)

// Document is a PDF attached to a timeline event.
type Document struct {
	ID string `json:"id"`
	// Title is the document kind as shown in the app.
	Title string `json:"title"`
	// Detail is usually the date printed on the document.
	Detail string `json:"detail"`
	URL    string `json:"url"`
}

// Event is one timeline entry. Raw preserves the original item for the
// JSON dumps written by the docs command.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Title     string          `json:"title"`
	Subtitle  string          `json:"subtitle"`
	EventType string          `json:"eventType"`
	Amount    float64         `json:"amount"`
	Currency  string          `json:"currency"`
	ISIN      string          `json:"isin,omitempty"`
	Documents []Document      `json:"documents,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// Timestamp formats observed on the wire.
var timeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
}

// ParseEvent builds an Event from a timeline item.
func ParseEvent(item []byte) (Event, error) {
	ev := Event{
		ID:        utils.JSONString(item, "id"),
		Title:     utils.JSONString(item, "title"),
		Subtitle:  utils.JSONString(item, "subtitle"),
		EventType: utils.JSONString(item, "eventType"),
		Amount:    utils.JSONFloat(item, "amount", "value"),
		Currency:  utils.JSONString(item, "amount", "currency"),
		ISIN:      isinFromIcon(utils.JSONString(item, "icon")),
		Raw:       append(json.RawMessage(nil), item...),
	}
	ts := utils.JSONString(item, "timestamp")
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, ts); err == nil {
			ev.Timestamp = t
			break
		}
	}
	return ev, nil
}

// isinFromIcon extracts the instrument id from icon references of the
// form "logos/<isin>/v2".
func isinFromIcon(icon string) string {
	parts := strings.Split(icon, "/")
	if len(parts) < 2 || parts[0] != "logos" {
		return ""
	}
	if isin := parts[1]; len(isin) == 12 {
		return isin
	}
	return ""
}

// parseDocuments walks a timelineDetailV2 answer and collects its
// document sections.
func parseDocuments(detail []byte) []Document {
	var docs []Document
	_, _ = jsonparser.ArrayEach(detail, func(section []byte, _ jsonparser.ValueType, _ int, _ error) {
		if utils.JSONString(section, "type") != "documents" {
			return
		}
		_, _ = jsonparser.ArrayEach(section, func(d []byte, _ jsonparser.ValueType, _ int, _ error) {
			docs = append(docs, Document{
				ID:     utils.JSONString(d, "id"),
				Title:  utils.JSONString(d, "title"),
				Detail: utils.JSONString(d, "detail"),
				URL:    utils.JSONString(d, "action", "payload"),
			})
		}, "data")
	}, "sections")
	return docs
}
