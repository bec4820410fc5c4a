// Package testutils builds an API backed by an in-memory ledger for tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/debtfree/infra/database"
	infra_mirror "github.com/amirasaad/debtfree/infra/mirror"
	infrarepo "github.com/amirasaad/debtfree/infra/repository"
	"github.com/amirasaad/debtfree/pkg/app"
	"github.com/amirasaad/debtfree/pkg/config"
	"github.com/amirasaad/debtfree/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestApp bundles the API with the pieces tests poke at directly.
type TestApp struct {
	Fiber  *fiber.App
	App    *app.App
	Mirror *infra_mirror.Memory
}

// NewTestApp builds an API on a fresh in-memory database and mirror. Each
// option may adjust the configuration before the app is built.
func NewTestApp(t testing.TB, opts ...func(*config.App)) *TestApp {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.App{
		Env:       "test",
		DB:        &config.DB{Url: "file:" + uuid.NewString() + "?mode=memory&cache=shared"},
		Sync:      &config.Sync{DeviceID: "device-test"},
		Ledger:    &config.Ledger{Currency: "INR"},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	db, err := database.Open(cfg.DB, cfg.Env)
	require.NoError(t, err)

	mirror := infra_mirror.NewMemory(cfg.Sync.DeviceID, logger)
	deps := &app.Deps{
		Uow:       infrarepo.NewUoW(db),
		Mirror:    mirror,
		Logger:    logger,
		AccessLog: io.Discard,
		Closers:   []func() error{mirror.Close, func() error { return database.Close(db) }},
	}
	a := app.New(deps, cfg)
	t.Cleanup(func() { _ = a.Close() })
	return &TestApp{Fiber: webapi.SetupApp(a), App: a, Mirror: mirror}
}

// MakeRequest sends a JSON request through the app without a network.
func (ta *TestApp) MakeRequest(t testing.TB, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := ta.Fiber.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Envelope is the decoded success body with Data left raw.
type Envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Warning string          `json:"warning"`
}

// Decode reads a success body and, when out is non-nil, its data.
func Decode(t testing.TB, resp *http.Response, out any) Envelope {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var env Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}
