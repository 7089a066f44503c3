package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/SoerenFox/pytr-Modified/utils/log"
	"github.com/buger/jsonparser"
	"github.com/eapache/channels"
)

// Frame codes of the subscription protocol.
const (
	codeAnswer   = "A"
	codeDelta    = "D"
	codeComplete = "C"
	codeError    = "E"
)

// ErrCompleted indicates the backend closed the subscription.
var ErrCompleted = errors.New("subscription completed")

// RemoteError is an E frame answered on a subscription.
type RemoteError struct {
	Payload json.RawMessage
}

func (e *RemoteError) Error() string {
	if code, err := jsonparser.GetString(e.Payload, "errors", "[0]", "errorCode"); err == nil {
		return "backend error: " + code
	}
	return "backend error: " + string(e.Payload)
}

// Message is one resolved frame delivered to a subscriber. Delta
// frames arrive already applied.
type Message struct {
	Payload json.RawMessage
	Err     error
}

// Subscription is a live "sub" on the websocket. Messages are buffered
// without bound so a slow consumer never stalls the reader.
type Subscription struct {
	// ID is the protocol-level subscription id.
	ID int

	c   *Client
	ch  *channels.InfiniteChannel
	out <-chan interface{}
}

// Subscribe sends a sub frame with the given payload. Web sessions get
// the session token injected into the payload.
func (c *Client) Subscribe(ctx context.Context, payload map[string]interface{}) (*Subscription, error) {
	if err := c.ensureConn(ctx); err != nil {
		return nil, err
	}

	msg := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		msg[k] = v
	}
	if c.cfg.Web && c.sessionToken != "" {
		msg["token"] = c.sessionToken
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	ch, out := newInfiniteChannel()
	sub := &Subscription{c: c, ch: ch, out: out}

	c.subMu.Lock()
	sub.ID = c.nextID
	c.nextID++
	c.subs[sub.ID] = sub
	c.subMu.Unlock()

	log.Debug("sub %d %s", sub.ID, data)
	if err := c.writeText(fmt.Sprintf("sub %d %s", sub.ID, data)); err != nil {
		c.forget(sub.ID)
		return nil, err
	}
	return sub, nil
}

// Next blocks until the next resolved message, the subscription ends,
// or ctx is done.
func (s *Subscription) Next(ctx context.Context) (json.RawMessage, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case v, ok := <-s.out:
		if !ok {
			return nil, ErrCompleted
		}
		m := v.(Message)
		return m.Payload, m.Err
	}
}

// Unsubscribe sends the unsub frame and releases the subscription.
// Safe to call after the connection already failed.
func (s *Subscription) Unsubscribe() error {
	if !s.c.forget(s.ID) {
		return nil
	}
	err := s.c.writeText(fmt.Sprintf("unsub %d", s.ID))
	if errors.Is(err, ErrClosed) {
		return nil
	}
	return err
}

func (s *Subscription) deliver(m Message) {
	s.ch.In() <- m
}

func (s *Subscription) fail(err error) {
	s.deliver(Message{Err: err})
	s.ch.Close()
}

// forget removes the subscription from the client tables. It reports
// whether the id was still registered.
func (c *Client) forget(id int) bool {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	sub, ok := c.subs[id]
	if ok {
		delete(c.subs, id)
		delete(c.prev, id)
		sub.ch.Close()
	}
	return ok
}

// dispatch parses an incoming "<id> <code> [payload]" frame and routes
// it to its subscription.
func (c *Client) dispatch(raw []byte) {
	idPart, rest := splitFrame(raw)
	id, err := strconv.Atoi(string(idPart))
	if err != nil {
		log.Warn("unparseable frame: %q", raw)
		return
	}
	codePart, payload := splitFrame(rest)
	code := string(codePart)

	c.subMu.Lock()
	sub, ok := c.subs[id]
	if !ok {
		c.subMu.Unlock()
		log.Debug("frame for unknown subscription %d", id)
		return
	}

	// Delivery happens under subMu: the channel is unbounded, so the
	// send cannot block, and Unsubscribe cannot close it concurrently.
	switch code {
	case codeAnswer:
		c.prev[id] = string(payload)
		sub.deliver(Message{Payload: append([]byte(nil), payload...)})
	case codeDelta:
		full, err := applyDelta(c.prev[id], string(payload))
		if err != nil {
			sub.deliver(Message{Err: fmt.Errorf("subscription %d: %w", id, err)})
		} else {
			c.prev[id] = full
			sub.deliver(Message{Payload: json.RawMessage(full)})
		}
	case codeComplete:
		delete(c.subs, id)
		delete(c.prev, id)
		sub.ch.Close()
	case codeError:
		delete(c.subs, id)
		delete(c.prev, id)
		sub.fail(&RemoteError{Payload: append([]byte(nil), payload...)})
	default:
		log.Warn("unknown frame code %q for subscription %d", code, id)
	}
	c.subMu.Unlock()
}

// RunBlocking subscribes, waits for the first resolved answer,
// unsubscribes and returns the payload. This is the one-shot request
// helper behind every typed operation.
func (c *Client) RunBlocking(ctx context.Context, payload map[string]interface{}) (json.RawMessage, error) {
	sub, err := c.Subscribe(ctx, payload)
	if err != nil {
		return nil, err
	}
	defer sub.Unsubscribe()
	return sub.Next(ctx)
}

func splitFrame(raw []byte) (head, tail []byte) {
	if i := bytes.IndexByte(raw, ' '); i >= 0 {
		return raw[:i], raw[i+1:]
	}
	return raw, nil
}
