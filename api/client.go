// Package api implements the Trade Republic REST authentication flows
// and the websocket subscription protocol used by every pytr command.
package api

import (
	"crypto/ecdsa"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/eapache/channels"
	"github.com/gorilla/websocket"
)

const (
	// DefaultBaseURL is the REST endpoint of the brokerage backend.
	DefaultBaseURL = "https://api.traderepublic.com"
	// DefaultWSURL is the websocket endpoint of the brokerage backend.
	DefaultWSURL = "wss://api.traderepublic.com"

	defaultLocale = "en"
)

// Config holds the client settings. The zero value is completed with
// defaults by NewClient.
type Config struct {
	// PhoneNo is the account phone number in international format.
	PhoneNo string
	// PIN is the account pin.
	PIN string
	// Locale is the two letter language code sent on connect.
	Locale string
	// Web selects the web login (session cookie) over the app login
	// (paired device key).
	Web bool
	// Dir is the directory holding cookies and the device key.
	Dir string
	// BaseURL and WSURL override the backend endpoints, used in tests.
	BaseURL string
	WSURL   string
}

// Client talks to the brokerage backend. It is safe for concurrent use
// once logged in.
type Client struct {
	cfg Config
	hc  *http.Client

	key          *ecdsa.PrivateKey
	processID    string
	sessionToken string
	refreshToken string

	wsMu   sync.Mutex
	ws     *websocket.Conn
	wsDone chan struct{}

	writeMu sync.Mutex

	subMu  sync.Mutex
	subs   map[int]*Subscription
	prev   map[int]string
	nextID int
}

// NewClient creates a client from cfg. It performs no network calls;
// call one of the login methods before subscribing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Locale == "" {
		cfg.Locale = defaultLocale
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.WSURL == "" {
		cfg.WSURL = DefaultWSURL
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg: cfg,
		hc: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		subs:   map[int]*Subscription{},
		prev:   map[int]string{},
		nextID: 1,
	}, nil
}

// Web reports whether the client uses the web login.
func (c *Client) Web() bool { return c.cfg.Web }

// SessionToken returns the current session token, empty before login.
func (c *Client) SessionToken() string { return c.sessionToken }

// Close tears down the websocket connection, failing any open
// subscriptions.
func (c *Client) Close() error {
	c.teardown(ErrClosed)
	return nil
}

func newInfiniteChannel() (*channels.InfiniteChannel, <-chan interface{}) {
	ch := channels.NewInfiniteChannel()
	return ch, ch.Out()
}
