package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/config"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/tracking"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// fakeStore answers the handful of backend endpoints the commands touch.
type fakeStore struct {
	mu         sync.Mutex
	subscribed []string
	authHeader string
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.URL.Path {
	case "/api/auth/register":
		io.WriteString(w, `{"success": true, "token": "tok-new", "email": "new@example.com", "profile_complete": false}`)
	case "/api/user/orders":
		f.authHeader = r.Header.Get("Authorization")
		io.WriteString(w, `{"orders": [{"Order_ID": "ORD-1", "Tracking_Stage": "Delivered"}]}`)
	case "/api/subscribe":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.subscribed = append(f.subscribed, body["email"])
		io.WriteString(w, `{"success": true}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail": "Not Found"}`)
	}
}

func setupCLI(t *testing.T) (string, *fakeStore) {
	t.Helper()
	store := &fakeStore{}
	server := httptest.NewServer(store)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	path := filepath.Join(dir, "storefront.yaml")
	yaml := fmt.Sprintf(`api:
  base_url: %s/api
storage:
  driver: sqlite
  sqlite_path: %s
logging:
  level: error
`, server.URL, filepath.Join(dir, "storefront.db"))
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path, store
}

func TestNormalizeCommand(t *testing.T) {
	out, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "normalize", "White")
	require.NoError(t, err)

	var res map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "sesame", res["key"])
	assert.Equal(t, "sesame", res["slug"])
	assert.Equal(t, true, res["known"])
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "storefront.yaml")

	_, err := runCLI(t, "--config", path, "config", "init", "--force=false")
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Checkout.WhatsAppNumber, cfg.Checkout.WhatsAppNumber)

	_, err = runCLI(t, "--config", path, "config", "init", "--force=false")
	assert.ErrorContains(t, err, "already exists")

	_, err = runCLI(t, "--config", path, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestSignupThenOrders(t *testing.T) {
	path, store := setupCLI(t)

	out, err := runCLI(t, "--config", path, "signup", "new@example.com", "--password", "secret1")
	require.NoError(t, err)
	var res map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, true, res["signed_in"])

	out, err = runCLI(t, "--config", path, "orders")
	require.NoError(t, err)
	var rows []tracking.OrderSummary
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "ORD-1", rows[0].Order.ID)
	assert.True(t, rows[0].Status.Final)
	assert.Equal(t, "Bearer tok-new", store.authHeader)
}

func TestOrdersRequiresSession(t *testing.T) {
	path, _ := setupCLI(t)

	_, err := runCLI(t, "--config", path, "orders")
	assert.ErrorIs(t, err, tracking.ErrNotAuthenticated)
}

func TestSubscribeCommand(t *testing.T) {
	path, store := setupCLI(t)

	out, err := runCLI(t, "--config", path, "subscribe", "asha@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "subscribed asha@example.com")
	assert.Equal(t, []string{"asha@example.com"}, store.subscribed)
}
