package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pratik-mahalle/ytgate/internal/pkg/logger"
)

type fakePinger struct {
	err    error
	called bool
}

func (p *fakePinger) PingContext(ctx context.Context) error {
	p.called = true
	if _, ok := ctx.Deadline(); !ok {
		return stderrors.New("ping without deadline")
	}
	return p.err
}

func TestHealthHandler_Healthz(t *testing.T) {
	db := &fakePinger{err: stderrors.New("down")}
	h := NewHealthHandler(db, GateInfo{FreeLimit: 3, YouTubeMode: "http"}, logger.Nop())

	rr := httptest.NewRecorder()
	h.Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if db.called {
		t.Error("liveness touched the database")
	}
}

func TestHealthHandler_Readyz(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		expectedStatus int
		expectedCode   string
	}{
		{name: "store reachable", expectedStatus: http.StatusOK},
		{name: "store down", pingErr: stderrors.New("connection refused"), expectedStatus: http.StatusServiceUnavailable, expectedCode: "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(&fakePinger{err: tt.pingErr}, GateInfo{FreeLimit: 3, YouTubeMode: "sdk"}, logger.Nop())

			rr := httptest.NewRecorder()
			h.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			var env envelope
			if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if env.Error.Code != tt.expectedCode {
				t.Errorf("error code = %q, want %q", env.Error.Code, tt.expectedCode)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var got readiness
			if err := json.Unmarshal(env.Data, &got); err != nil {
				t.Fatalf("failed to decode data: %v", err)
			}
			want := readiness{Status: "ready", Accounts: "reachable", Gate: GateInfo{FreeLimit: 3, YouTubeMode: "sdk"}}
			if got != want {
				t.Errorf("readiness = %+v, want %+v", got, want)
			}
		})
	}
}
