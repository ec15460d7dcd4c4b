//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-session-auth/internal/app"
	"go-session-auth/internal/config"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newServer(t *testing.T, accessTTL time.Duration) *httptest.Server {
	t.Helper()

	application, err := app.New(&config.Config{
		ServerPort:            "0",
		RequestTimeout:        5 * time.Second,
		Environment:           "test",
		JWTAccessSecret:       "integration-access-key",
		JWTRefreshSecret:      "integration-refresh-key",
		JWTAccessTTL:          accessTTL,
		JWTRefreshTTL:         time.Hour,
		BcryptCost:            bcrypt.MinCost,
		RegisterVerboseErrors: true,
	})
	require.NoError(t, err)

	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)
	return server
}

// newClient returns a client that keeps cookies like a browser would.
func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

func postJSON(t *testing.T, client *http.Client, url string, body any) (*http.Response, apiResponse) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	return doRequest(t, client, req)
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, apiResponse) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	return doRequest(t, client, req)
}

func doRequest(t *testing.T, client *http.Client, req *http.Request) (*http.Response, apiResponse) {
	t.Helper()

	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}
