package api

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/SoerenFox/pytr-Modified/utils"
	"github.com/SoerenFox/pytr-Modified/utils/log"
	"github.com/buger/jsonparser"
	"gopkg.in/matryer/try.v1"
)

const (
	webLoginPath    = "/api/v1/auth/web/login"
	webSessionPath  = "/api/v1/auth/web/session"
	appLoginPath    = "/api/v1/auth/login"
	appSessionPath  = "/api/v1/auth/session"
	deviceResetPath = "/api/v1/auth/account/reset/device"

	sessionCookie = "tr_session"
	retryCount    = 3
)

var (
	// ErrNoSession indicates that no stored session could be resumed.
	ErrNoSession = errors.New("no resumable session")
	// ErrNoProcess indicates a 2FA completion without an initiation.
	ErrNoProcess = errors.New("no login process pending")
	// ErrClosed indicates the client connection was closed.
	ErrClosed = errors.New("client closed")
)

// APIError is a non-2xx answer from the REST backend.
type APIError struct {
	StatusCode int
	Code       string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend answered %d: %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("backend answered %d: %s", e.StatusCode, e.Body)
}

// InitiateLogin starts the 2FA login for the configured mode. It
// returns the SMS countdown in seconds; pass the received code to
// CompleteLogin.
func (c *Client) InitiateLogin(ctx context.Context) (int, error) {
	body := map[string]string{"phoneNumber": c.cfg.PhoneNo, "pin": c.cfg.PIN}
	path := webLoginPath
	if !c.cfg.Web {
		// The app flow pairs a fresh device key, invalidating the one
		// on the phone.
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return 0, fmt.Errorf("generate device key: %w", err)
		}
		c.key = key
		path = deviceResetPath
	}
	resp, err := c.post(ctx, path, body, false)
	if err != nil {
		return 0, err
	}
	processID, err := jsonparser.GetString(resp, "processId")
	if err != nil {
		return 0, fmt.Errorf("login answer without processId: %w", err)
	}
	c.processID = processID
	countdown, _ := jsonparser.GetInt(resp, "countdownInSeconds")
	return int(countdown), nil
}

// CompleteLogin finishes the 2FA login with the SMS code and persists
// the session material (cookies or device key) under the config dir.
func (c *Client) CompleteLogin(ctx context.Context, code string) error {
	if c.processID == "" {
		return ErrNoProcess
	}
	if c.cfg.Web {
		if _, err := c.post(ctx, webLoginPath+"/"+c.processID+"/"+code, struct{}{}, false); err != nil {
			return err
		}
		c.processID = ""
		if err := c.adoptSessionCookie(); err != nil {
			return err
		}
		return c.saveCookies()
	}

	pub, err := x509.MarshalPKIXPublicKey(&c.key.PublicKey)
	if err != nil {
		return fmt.Errorf("encode device key: %w", err)
	}
	body := map[string]string{
		"code":      code,
		"deviceKey": base64.StdEncoding.EncodeToString(pub),
	}
	if _, err := c.post(ctx, deviceResetPath+"/"+c.processID+"/key", body, false); err != nil {
		return err
	}
	c.processID = ""
	if err := c.saveKey(); err != nil {
		return err
	}
	return c.loginWithKey(ctx)
}

// ResumeSession restores a previous session from disk: the cookie jar
// for web logins, the paired device key for app logins. ErrNoSession
// is returned when nothing usable is stored or the backend rejects it.
func (c *Client) ResumeSession(ctx context.Context) error {
	if c.cfg.Web {
		if err := c.loadCookies(); err != nil {
			return ErrNoSession
		}
		resp, err := c.request(ctx, http.MethodGet, webSessionPath, nil, false)
		if err != nil {
			log.Debug("stored web session rejected: %v", err)
			return ErrNoSession
		}
		_ = resp
		if err := c.adoptSessionCookie(); err != nil {
			return ErrNoSession
		}
		// The backend may have rotated the cookie.
		return c.saveCookies()
	}

	if err := c.loadKey(); err != nil {
		return ErrNoSession
	}
	if err := c.loginWithKey(ctx); err != nil {
		log.Debug("stored device key rejected: %v", err)
		return ErrNoSession
	}
	return nil
}

// RefreshSession renews the app session token from the refresh token.
func (c *Client) RefreshSession(ctx context.Context) error {
	if c.cfg.Web {
		_, err := c.request(ctx, http.MethodGet, webSessionPath, nil, false)
		if err != nil {
			return err
		}
		return c.adoptSessionCookie()
	}
	if c.refreshToken == "" {
		return ErrNoSession
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+appSessionPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.refreshToken)
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	token, err := jsonparser.GetString(resp, "sessionToken")
	if err != nil {
		return fmt.Errorf("session answer without sessionToken: %w", err)
	}
	c.sessionToken = token
	return nil
}

func (c *Client) loginWithKey(ctx context.Context) error {
	body := map[string]string{"phoneNumber": c.cfg.PhoneNo, "pin": c.cfg.PIN}
	resp, err := c.post(ctx, appLoginPath, body, true)
	if err != nil {
		return err
	}
	session, err := jsonparser.GetString(resp, "sessionToken")
	if err != nil {
		return fmt.Errorf("login answer without sessionToken: %w", err)
	}
	refresh, _ := jsonparser.GetString(resp, "refreshToken")
	c.sessionToken = session
	c.refreshToken = refresh
	return nil
}

func (c *Client) adoptSessionCookie() error {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return err
	}
	for _, ck := range c.hc.Jar.Cookies(u) {
		if ck.Name == sessionCookie {
			c.sessionToken = ck.Value
			return nil
		}
	}
	return fmt.Errorf("backend did not set the %s cookie", sessionCookie)
}

// post sends a JSON body and returns the raw answer. Transport errors
// are retried; HTTP errors are not.
func (c *Client) post(ctx context.Context, path string, body interface{}, signed bool) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return c.request(ctx, http.MethodPost, path, payload, signed)
}

func (c *Client) request(ctx context.Context, method, path string, payload []byte, signed bool) ([]byte, error) {
	var resp []byte
	err := try.Do(func(attempt int) (bool, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return false, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if signed {
			if err := c.signRequest(req, payload); err != nil {
				return false, err
			}
		}
		resp, err = c.do(req)
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return false, err
		}
		return attempt < retryCount, err
	})
	return resp, err
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", "pytr/"+utils.Tag)
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: body}
		if code, err := jsonparser.GetString(body, "errors", "[0]", "errorCode"); err == nil {
			apiErr.Code = code
		}
		return nil, apiErr
	}
	return body, nil
}

// signRequest adds the device key signature headers used by the app
// login: a millisecond timestamp and an ECDSA-SHA512 signature over
// "<timestamp>.<body>".
func (c *Client) signRequest(req *http.Request, payload []byte) error {
	if c.key == nil {
		return errors.New("no device key loaded")
	}
	ts := time.Now().UnixMilli()
	digest := sha512.Sum512([]byte(fmt.Sprintf("%d.%s", ts, payload)))
	sig, err := ecdsa.SignASN1(rand.Reader, c.key, digest[:])
	if err != nil {
		return fmt.Errorf("sign request: %w", err)
	}
	req.Header.Set("X-Zeta-Timestamp", fmt.Sprintf("%d", ts))
	req.Header.Set("X-Zeta-Signature", base64.StdEncoding.EncodeToString(sig))
	return nil
}

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (c *Client) saveCookies() error {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return err
	}
	var stored []storedCookie
	for _, ck := range c.hc.Jar.Cookies(u) {
		stored = append(stored, storedCookie{Name: ck.Name, Value: ck.Value})
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.cfg.Dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(utils.CookiesPath(c.cfg.Dir), data, 0o600)
}

func (c *Client) loadCookies() error {
	data, err := os.ReadFile(utils.CookiesPath(c.cfg.Dir))
	if err != nil {
		return err
	}
	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}
	if len(stored) == 0 {
		return ErrNoSession
	}
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return err
	}
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, sc := range stored {
		cookies = append(cookies, &http.Cookie{Name: sc.Name, Value: sc.Value})
	}
	c.hc.Jar.SetCookies(u, cookies)
	return nil
}

func (c *Client) saveKey() error {
	der, err := x509.MarshalECPrivateKey(c.key)
	if err != nil {
		return err
	}
	block := &pem.Block{Type: "EC PRIVATE KEY", Bytes: der}
	if err := os.MkdirAll(c.cfg.Dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(utils.KeyPath(c.cfg.Dir), pem.EncodeToMemory(block), 0o600)
}

func (c *Client) loadKey() error {
	if c.key != nil {
		return nil
	}
	data, err := os.ReadFile(utils.KeyPath(c.cfg.Dir))
	if err != nil {
		return err
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return errors.New("device key file is not PEM")
	}
	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return fmt.Errorf("parse device key: %w", err)
	}
	c.key = key
	return nil
}
