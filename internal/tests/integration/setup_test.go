package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pratik-mahalle/ytgate/internal/api/handlers"
	"github.com/pratik-mahalle/ytgate/internal/api/router"
	"github.com/pratik-mahalle/ytgate/internal/auth"
	"github.com/pratik-mahalle/ytgate/internal/config"
	"github.com/pratik-mahalle/ytgate/internal/domain/paywall"
	"github.com/pratik-mahalle/ytgate/internal/pkg/logger"
	"github.com/pratik-mahalle/ytgate/internal/pkg/validator"
	"github.com/pratik-mahalle/ytgate/internal/repository/postgres"
	"github.com/pratik-mahalle/ytgate/internal/services"
	"github.com/pratik-mahalle/ytgate/internal/testutil"
	"github.com/pratik-mahalle/ytgate/internal/youtube"
)

const (
	testSecret   = "integration-secret"
	goodKey      = "AIzaGood"
	upstreamBody = `{"kind":"youtube#videoListResponse","items":[{"id":"dQw4w9WgXcQ","snippet":{"title":"t"}}]}`
	deniedBody   = `{"error":{"code":403,"message":"API key not valid. Please pass a valid API key.","errors":[{"reason":"badRequest"}]}}`
)

type stack struct {
	server   *httptest.Server
	upstream *httptest.Server
	repo     *postgres.AccountRepository
	tokens   *auth.TokenIssuer
	calls    *int32
}

// newStack wires the production router against sqlite and a fake YouTube API
func newStack(t *testing.T) *stack {
	t.Helper()

	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		if r.URL.Query().Get("key") != goodKey {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, deniedBody)
			return
		}
		_, _ = io.WriteString(w, upstreamBody)
	}))
	t.Cleanup(upstream.Close)

	db := testutil.NewTestDB(t)
	log := logger.Nop()
	val := validator.New()

	cfg := &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"*"}},
		Auth:   config.AuthConfig{JWTSecret: testSecret, TokenTTL: 7 * 24 * time.Hour, BCryptCost: 4},
		Quota:  config.QuotaConfig{FreeLimit: 3},
	}

	repo := postgres.NewAccountRepository(db)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	accounts := services.NewAccountService(repo, tokens, cfg.Auth.BCryptCost, log)
	gate := services.NewEntitlementGate(repo, cfg.Quota.FreeLimit, log)
	fetcher := youtube.NewHTTPFetcher(youtube.Options{
		BaseURL: upstream.URL + "/youtube/v3",
		Timeout: 2 * time.Second,
	})
	pw := paywall.NewPayload("https://example.com/checkout")

	h := &router.Handlers{
		Health:  handlers.NewHealthHandler(db, handlers.GateInfo{FreeLimit: cfg.Quota.FreeLimit, YouTubeMode: "http"}, log),
		Auth:    handlers.NewAuthHandler(accounts, log, val),
		Video:   handlers.NewVideoHandler(gate, fetcher, pw, log, val),
		Account: handlers.NewAccountHandler(accounts, cfg.Quota.FreeLimit, log),
		Paywall: handlers.NewPaywallHandler(pw),
	}

	server := httptest.NewServer(router.New(cfg, log, h, router.Deps{Verifier: accounts}))
	t.Cleanup(server.Close)

	return &stack{server: server, upstream: upstream, repo: repo, tokens: tokens, calls: &calls}
}

func (s *stack) upstreamCalls() int {
	return int(atomic.LoadInt32(s.calls))
}

func (s *stack) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://app.example.com")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, raw []byte) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode envelope %q: %v", raw, err)
	}
	return env
}

// registerAndLogin returns a session token for a fresh account
func (s *stack) registerAndLogin(t *testing.T, email, password string) string {
	t.Helper()
	creds := map[string]string{"email": email, "password": password}

	resp, raw := s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d body %s", resp.StatusCode, raw)
	}

	resp, raw = s.do(t, http.MethodPost, "/api/auth/login", "", creds)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d body %s", resp.StatusCode, raw)
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, raw).Data, &data); err != nil || data.Token == "" {
		t.Fatalf("login token missing: %s", raw)
	}
	return data.Token
}
