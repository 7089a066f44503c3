package api

import (
	"context"
	"crypto/ecdsa"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoerenFox/pytr-Modified/utils"
)

func TestWebLoginFlow(t *testing.T) {
	var codePosted bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/web/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "+491234567890", body["phoneNumber"])
			assert.Equal(t, "1337", body["pin"])
			fmt.Fprint(w, `{"processId":"proc-1","countdownInSeconds":30}`)
		case "/api/v1/auth/web/login/proc-1/5555":
			codePosted = true
			http.SetCookie(w, &http.Cookie{Name: "tr_session", Value: "session-token", Path: "/"})
			fmt.Fprint(w, `{}`)
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	client, err := NewClient(Config{
		PhoneNo: "+491234567890",
		PIN:     "1337",
		Web:     true,
		Dir:     dir,
		BaseURL: srv.URL,
	})
	require.NoError(t, err)

	ctx := context.Background()
	countdown, err := client.InitiateLogin(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, countdown)

	require.NoError(t, client.CompleteLogin(ctx, "5555"))
	assert.True(t, codePosted)
	assert.Equal(t, "session-token", client.SessionToken())

	// The session cookie must survive for the next run.
	data, err := os.ReadFile(utils.CookiesPath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "session-token")
}

func TestWebResumeSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/web/session", r.URL.Path)
		ck, err := r.Cookie("tr_session")
		require.NoError(t, err)
		assert.Equal(t, "stored-token", ck.Value)
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cookies, err := json.Marshal([]storedCookie{{Name: "tr_session", Value: "stored-token"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(utils.CookiesPath(dir), cookies, 0o600))

	client, err := NewClient(Config{Web: true, Dir: dir, BaseURL: srv.URL})
	require.NoError(t, err)
	require.NoError(t, client.ResumeSession(context.Background()))
	assert.Equal(t, "stored-token", client.SessionToken())
}

func TestWebResumeSessionNothingStored(t *testing.T) {
	client, err := NewClient(Config{Web: true, Dir: t.TempDir(), BaseURL: "http://127.0.0.1:0"})
	require.NoError(t, err)
	err = client.ResumeSession(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestAppLoginFlow(t *testing.T) {
	var devicePub *ecdsa.PublicKey
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/account/reset/device":
			fmt.Fprint(w, `{"processId":"reset-1"}`)
		case "/api/v1/auth/account/reset/device/reset-1/key":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "9999", body["code"])
			der, err := base64.StdEncoding.DecodeString(body["deviceKey"])
			require.NoError(t, err)
			pub, err := x509.ParsePKIXPublicKey(der)
			require.NoError(t, err)
			devicePub = pub.(*ecdsa.PublicKey)
			fmt.Fprint(w, `{}`)
		case "/api/v1/auth/login":
			require.NotNil(t, devicePub, "login before key upload")
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)

			ts, err := strconv.ParseInt(r.Header.Get("X-Zeta-Timestamp"), 10, 64)
			require.NoError(t, err)
			sig, err := base64.StdEncoding.DecodeString(r.Header.Get("X-Zeta-Signature"))
			require.NoError(t, err)
			digest := sha512.Sum512([]byte(fmt.Sprintf("%d.%s", ts, body)))
			assert.True(t, ecdsa.VerifyASN1(devicePub, digest[:], sig), "bad request signature")

			fmt.Fprint(w, `{"sessionToken":"app-session","refreshToken":"app-refresh"}`)
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	client, err := NewClient(Config{
		PhoneNo: "+491234567890",
		PIN:     "1337",
		Dir:     dir,
		BaseURL: srv.URL,
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = client.InitiateLogin(ctx)
	require.NoError(t, err)
	require.NoError(t, client.CompleteLogin(ctx, "9999"))
	assert.Equal(t, "app-session", client.SessionToken())

	// The device key is persisted; a fresh client resumes with it.
	_, err = os.Stat(utils.KeyPath(dir))
	require.NoError(t, err)

	resumed, err := NewClient(Config{PhoneNo: "+491234567890", PIN: "1337", Dir: dir, BaseURL: srv.URL})
	require.NoError(t, err)
	require.NoError(t, resumed.ResumeSession(ctx))
	assert.Equal(t, "app-session", resumed.SessionToken())
}

func TestCompleteLoginWithoutProcess(t *testing.T) {
	client, err := NewClient(Config{Web: true, Dir: t.TempDir()})
	require.NoError(t, err)
	err = client.CompleteLogin(context.Background(), "1234")
	assert.ErrorIs(t, err, ErrNoProcess)
}

func TestAPIErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errors":[{"errorCode":"TOO_MANY_REQUESTS"}]}`)
	}))
	defer srv.Close()

	client, err := NewClient(Config{Web: true, Dir: t.TempDir(), BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = client.InitiateLogin(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "TOO_MANY_REQUESTS", apiErr.Code)
}
