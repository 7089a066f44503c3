package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SoerenFox/pytr-Modified/utils/log"
	"github.com/gorilla/websocket"
)

const (
	wsHandshakeTimeout = 5 * time.Second
	wsWriteTimeout     = 10 * time.Second
	wsPingPeriod       = 30 * time.Second
	wsMaxMessageSize   = 1 << 22

	connectMsgIDWeb = 31
	connectMsgIDApp = 21
)

// ensureConn dials the websocket and performs the connect handshake if
// no connection is up yet.
func (c *Client) ensureConn(ctx context.Context) error {
	c.wsMu.Lock()
	defer c.wsMu.Unlock()
	if c.ws != nil {
		return nil
	}

	dialer := websocket.Dialer{HandshakeTimeout: wsHandshakeTimeout}
	header := http.Header{}
	if !c.cfg.Web && c.sessionToken != "" {
		header.Set("Authorization", "Bearer "+c.sessionToken)
	}
	conn, resp, err := dialer.DialContext(ctx, c.cfg.WSURL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket dial %s: %w (status %d)", c.cfg.WSURL, err, resp.StatusCode)
		}
		return fmt.Errorf("websocket dial %s: %w", c.cfg.WSURL, err)
	}

	if err := c.handshake(conn); err != nil {
		conn.Close()
		return err
	}

	conn.SetReadLimit(wsMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(2 * wsPingPeriod))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * wsPingPeriod))
	})

	done := make(chan struct{})
	c.ws = conn
	c.wsDone = done
	go c.readLoop(conn)
	go c.pingLoop(conn, done)
	return nil
}

// handshake sends the connect frame and expects the literal answer
// "connected".
func (c *Client) handshake(conn *websocket.Conn) error {
	msgID := connectMsgIDApp
	connectMsg := map[string]interface{}{"locale": c.cfg.Locale}
	if c.cfg.Web {
		msgID = connectMsgIDWeb
		connectMsg["platformId"] = "webtrading"
		connectMsg["platformVersion"] = "safari - 18.3.0"
		connectMsg["clientId"] = "app.traderepublic.com"
		connectMsg["clientVersion"] = "3.151.3"
	}
	payload, err := json.Marshal(connectMsg)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(fmt.Sprintf("connect %d %s", msgID, payload))); err != nil {
		return fmt.Errorf("send connect: %w", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(wsHandshakeTimeout))
	_, answer, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("read connect answer: %w", err)
	}
	if !bytes.HasPrefix(answer, []byte("connected")) {
		return fmt.Errorf("connect rejected: %s", answer)
	}
	log.Debug("websocket connected to %s", c.cfg.WSURL)
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		tt, msg, err := conn.ReadMessage()
		if err != nil {
			c.teardown(err)
			return
		}
		if tt != websocket.TextMessage {
			log.Warn("ignoring non-text websocket message")
			continue
		}
		c.dispatch(msg)
	}
}

func (c *Client) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second))
			if err != nil {
				log.Debug("websocket ping failed: %v", err)
				return
			}
		}
	}
}

// teardown closes the connection and fails every open subscription
// with err.
func (c *Client) teardown(err error) {
	c.wsMu.Lock()
	if c.ws != nil {
		c.ws.Close()
		c.ws = nil
		close(c.wsDone)
	}
	c.wsMu.Unlock()

	c.subMu.Lock()
	subs := c.subs
	c.subs = map[int]*Subscription{}
	c.prev = map[int]string{}
	c.subMu.Unlock()

	for _, sub := range subs {
		sub.fail(err)
	}
}

func (c *Client) writeText(msg string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.wsMu.Lock()
	conn := c.ws
	c.wsMu.Unlock()
	if conn == nil {
		return ErrClosed
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, []byte(msg))
}
