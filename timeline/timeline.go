package timeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/SoerenFox/pytr-Modified/utils"
	"github.com/SoerenFox/pytr-Modified/utils/log"
	"github.com/buger/jsonparser"
)

// API is the subset of the client the collector needs.
type API interface {
	TimelineTransactions(ctx context.Context, after string) (json.RawMessage, error)
	TimelineActivityLog(ctx context.Context, after string) (json.RawMessage, error)
	TimelineDetail(ctx context.Context, id string) (json.RawMessage, error)
}

// Result holds the collected timeline, newest first.
type Result struct {
	Transactions []Event
	Activity     []Event
}

// Events returns transactions and activity log entries combined.
func (r *Result) Events() []Event {
	out := make([]Event, 0, len(r.Transactions)+len(r.Activity))
	out = append(out, r.Transactions...)
	return append(out, r.Activity...)
}

// Collect pages through the transaction and activity timelines until
// they are exhausted or older than since. A zero since collects
// everything.
func Collect(ctx context.Context, api API, since time.Time) (*Result, error) {
	tx, err := collect(ctx, api.TimelineTransactions, since)
	if err != nil {
		return nil, err
	}
	activity, err := collect(ctx, api.TimelineActivityLog, since)
	if err != nil {
		return nil, err
	}
	log.Info("collected %d transactions and %d activity log entries", len(tx), len(activity))
	return &Result{Transactions: tx, Activity: activity}, nil
}

func collect(ctx context.Context, page func(context.Context, string) (json.RawMessage, error),
	since time.Time) ([]Event, error) {
	var (
		events []Event
		after  string
	)
	for {
		resp, err := page(ctx, after)
		if err != nil {
			return nil, err
		}

		count := 0
		reachedSince := false
		_, err = jsonparser.ArrayEach(resp, func(item []byte, _ jsonparser.ValueType, _ int, _ error) {
			ev, _ := ParseEvent(item)
			if !since.IsZero() && !ev.Timestamp.IsZero() && ev.Timestamp.Before(since) {
				reachedSince = true
				return
			}
			events = append(events, ev)
			count++
		}, "items")
		if err != nil {
			return nil, err
		}
		log.Debug("timeline page with %d items", count)

		after = utils.JSONString(resp, "cursors", "after")
		if after == "" || reachedSince || count == 0 {
			return events, nil
		}
	}
}

// FetchDocuments loads the detail view of ev and fills in its
// documents.
func FetchDocuments(ctx context.Context, api API, ev *Event) error {
	detail, err := api.TimelineDetail(ctx, ev.ID)
	if err != nil {
		return err
	}
	ev.Documents = parseDocuments(detail)
	return nil
}
