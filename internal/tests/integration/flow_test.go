package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/pratik-mahalle/ytgate/pkg/client"
)

const videoPath = "/api/youtube/getVideoInfo"

func videoBody(key string) map[string]string {
	return map[string]string{"youtubeUrl": "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "userApiKey": key}
}

func TestFlow_FreeTierThenPaywall(t *testing.T) {
	s := newStack(t)
	token := s.registerAndLogin(t, "flow@example.com", "secret123")

	for i := 1; i <= 3; i++ {
		resp, raw := s.do(t, http.MethodPost, videoPath, token, videoBody(goodKey))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("lookup %d: status %d body %s", i, resp.StatusCode, raw)
		}
		if string(raw) != upstreamBody {
			t.Fatalf("lookup %d: body not passed through verbatim: %s", i, raw)
		}
	}

	resp, raw := s.do(t, http.MethodPost, videoPath, token, videoBody(goodKey))
	if resp.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("fourth lookup: status %d body %s", resp.StatusCode, raw)
	}
	env := decodeEnvelope(t, raw)
	if env.Error.Code != "LIMIT_REACHED" {
		t.Errorf("code = %q", env.Error.Code)
	}
	var details struct {
		Limit int `json:"limit"`
		Used  int `json:"used"`
		Plans []struct {
			ID string `json:"id"`
		} `json:"plans"`
	}
	if err := json.Unmarshal(env.Error.Details, &details); err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.Limit != 3 || details.Used != 3 || len(details.Plans) == 0 {
		t.Errorf("details = %+v", details)
	}

	if got := s.upstreamCalls(); got != 3 {
		t.Errorf("upstream calls = %d, want 3", got)
	}

	resp, raw = s.do(t, http.MethodGet, "/api/account", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("account: status %d body %s", resp.StatusCode, raw)
	}
	var acct struct {
		UsageCount int `json:"usage_count"`
		Remaining  int `json:"remaining"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, raw).Data, &acct); err != nil {
		t.Fatalf("account data: %v", err)
	}
	if acct.UsageCount != 3 || acct.Remaining != 0 {
		t.Errorf("account = %+v", acct)
	}
}

func TestFlow_RegisterLoginQuotaScenario(t *testing.T) {
	s := newStack(t)
	creds := map[string]string{"email": "a@x.com", "password": "pw123"}

	resp, raw := s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d body %s", resp.StatusCode, raw)
	}

	resp, raw = s.do(t, http.MethodPost, "/api/auth/login", "", creds)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d body %s", resp.StatusCode, raw)
	}
	var session struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, raw).Data, &session); err != nil || session.Token == "" {
		t.Fatalf("login token missing: %s", raw)
	}

	wantStatus := []int{http.StatusOK, http.StatusOK, http.StatusOK, http.StatusPaymentRequired}
	for i, want := range wantStatus {
		resp, raw = s.do(t, http.MethodPost, videoPath, session.Token, videoBody(goodKey))
		if resp.StatusCode != want {
			t.Fatalf("lookup %d: status %d want %d body %s", i+1, resp.StatusCode, want, raw)
		}
	}

	resp, raw = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.com", "password": "wrong"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("wrong password login: status %d body %s", resp.StatusCode, raw)
	}
	if code := decodeEnvelope(t, raw).Error.Code; code != "INVALID_CREDENTIALS" {
		t.Errorf("code = %q", code)
	}
}

func TestFlow_UpstreamFailureIsNotCounted(t *testing.T) {
	s := newStack(t)
	token := s.registerAndLogin(t, "upstream@example.com", "secret123")

	resp, raw := s.do(t, http.MethodPost, videoPath, token, videoBody("bad-key"))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status %d body %s", resp.StatusCode, raw)
	}
	if string(raw) != deniedBody {
		t.Errorf("upstream error body not passed through: %s", raw)
	}

	resp, raw = s.do(t, http.MethodPost, videoPath, token, map[string]string{"youtubeUrl": "https://vimeo.com/1", "userApiKey": goodKey})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid url: status %d body %s", resp.StatusCode, raw)
	}

	a, err := s.repo.GetByEmail(context.Background(), "upstream@example.com")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if a.UsageCount != 0 {
		t.Errorf("usage = %d, want 0", a.UsageCount)
	}
}

func TestFlow_AuthFailures(t *testing.T) {
	s := newStack(t)
	s.registerAndLogin(t, "auth@example.com", "secret123")

	a, err := s.repo.GetByEmail(context.Background(), "auth@example.com")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	expired, _, err := s.tokens.WithClock(func() time.Time {
		return time.Now().Add(-8 * 24 * time.Hour)
	}).Issue(a.ID, a.Email)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tests := []struct {
		name           string
		method         string
		path           string
		token          string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "wrong password",
			method:         http.MethodPost,
			path:           "/api/auth/login",
			body:           map[string]string{"email": "auth@example.com", "password": "nope-nope"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown email",
			method:         http.MethodPost,
			path:           "/api/auth/login",
			body:           map[string]string{"email": "ghost@example.com", "password": "secret123"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "no token",
			method:         http.MethodPost,
			path:           videoPath,
			body:           videoBody(goodKey),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed token",
			method:         http.MethodPost,
			path:           videoPath,
			token:          "not-a-jwt",
			body:           videoBody(goodKey),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			method:         http.MethodPost,
			path:           videoPath,
			token:          expired,
			body:           videoBody(goodKey),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "duplicate registration",
			method:         http.MethodPost,
			path:           "/api/auth/register",
			body:           map[string]string{"email": "auth@example.com", "password": "secret123"},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := s.do(t, tt.method, tt.path, tt.token, tt.body)
			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %d, want %d, body %s", resp.StatusCode, tt.expectedStatus, raw)
			}
			if decodeEnvelope(t, raw).Success {
				t.Error("expected success=false")
			}
		})
	}

	if got := s.upstreamCalls(); got != 0 {
		t.Errorf("upstream calls = %d, want 0", got)
	}
	after, err := s.repo.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if after.UsageCount != 0 {
		t.Errorf("usage = %d, want 0", after.UsageCount)
	}
}

func TestFlow_CORSAndRouting(t *testing.T) {
	s := newStack(t)

	req, _ := http.NewRequest(http.MethodOptions, s.server.URL+videoPath, nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d", resp.StatusCode)
	}

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"preflight headers on unknown path", http.MethodOptions, "/anything", http.StatusNoContent},
		{"unknown route", http.MethodGet, "/api/nope", http.StatusNotFound},
		{"wrong method", http.MethodGet, videoPath, http.StatusNotFound},
		{"health", http.MethodGet, "/healthz", http.StatusOK},
		{"plans", http.MethodGet, "/api/paywall/plans", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := s.do(t, tt.method, tt.path, "", nil)
			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %d, want %d, body %s", resp.StatusCode, tt.expectedStatus, raw)
			}
			if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
				t.Errorf("Access-Control-Allow-Origin = %q", got)
			}
			if got := resp.Header.Get("Access-Control-Allow-Headers"); got != "Content-Type, Authorization" {
				t.Errorf("Access-Control-Allow-Headers = %q", got)
			}
		})
	}
}

func TestFlow_Client(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	c := client.NewClient(client.Config{BaseURL: s.server.URL})

	if _, ok := c.FetchVideoInfo(ctx, "https://youtu.be/dQw4w9WgXcQ", goodKey).(client.NeedsAuth); !ok {
		t.Fatal("expected NeedsAuth without a session")
	}
	if got := s.upstreamCalls(); got != 0 {
		t.Fatalf("upstream calls = %d", got)
	}

	if _, err := c.Register(ctx, "client@example.com", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := c.Login(ctx, "client@example.com", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	f, ok := c.FetchVideoInfo(ctx, "https://youtu.be/dQw4w9WgXcQ", "bad-key").(client.Failed)
	if !ok || f.Kind != client.KindUpstream || f.StatusCode != http.StatusForbidden {
		t.Fatalf("bad key result = %#v", f)
	}

	for i := 0; i < 3; i++ {
		res := c.FetchVideoInfo(ctx, "https://youtu.be/dQw4w9WgXcQ", goodKey)
		okRes, ok := res.(client.Ok)
		if !ok {
			t.Fatalf("lookup %d: %#v", i+1, res)
		}
		if string(okRes.Payload) != upstreamBody {
			t.Errorf("payload = %s", okRes.Payload)
		}
	}

	q, ok := c.FetchVideoInfo(ctx, "https://youtu.be/dQw4w9WgXcQ", goodKey).(client.QuotaExceeded)
	if !ok {
		t.Fatal("expected QuotaExceeded")
	}
	if q.Limit != 3 || q.Used != 3 || len(q.Plans) == 0 {
		t.Errorf("quota = %+v", q)
	}

	acct, err := c.Account(ctx)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if acct.Remaining != 0 || acct.Paid {
		t.Errorf("account = %+v", acct)
	}

	c.SetToken("garbage")
	if _, ok := c.FetchVideoInfo(ctx, "https://youtu.be/dQw4w9WgXcQ", goodKey).(client.NeedsAuth); !ok {
		t.Error("expected NeedsAuth for a rejected token")
	}
}
