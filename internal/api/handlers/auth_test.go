package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pratik-mahalle/ytgate/internal/auth"
	"github.com/pratik-mahalle/ytgate/internal/pkg/logger"
	"github.com/pratik-mahalle/ytgate/internal/pkg/validator"
	"github.com/pratik-mahalle/ytgate/internal/services"
	"github.com/pratik-mahalle/ytgate/internal/testutil"
)

func newAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	repo := testutil.NewMockAccountRepository()
	tokens := auth.NewTokenIssuer("handler-test-secret-0123456789abcdef", 7*24*time.Hour)
	svc := services.NewAccountService(repo, tokens, 4, logger.Nop())
	return NewAuthHandler(svc, logger.Nop(), validator.New())
}

func post(h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestAuthHandler_Register(t *testing.T) {
	handler := newAuthHandler(t)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{name: "valid", body: `{"email":"a@x.io","password":"secret1"}`, expectedStatus: http.StatusCreated},
		{name: "duplicate", body: `{"email":"a@x.io","password":"secret1"}`, expectedStatus: http.StatusInternalServerError, expectedCode: "ALREADY_EXISTS"},
		{name: "missing password", body: `{"email":"b@x.io"}`, expectedStatus: http.StatusBadRequest, expectedCode: "VALIDATION_ERROR"},
		{name: "bad email", body: `{"email":"nope","password":"secret1"}`, expectedStatus: http.StatusBadRequest, expectedCode: "VALIDATION_ERROR"},
		{name: "not json", body: `email=a`, expectedStatus: http.StatusBadRequest, expectedCode: "BAD_REQUEST"},
		{name: "short password", body: `{"email":"c@x.io","password":"pw123"}`, expectedStatus: http.StatusCreated},
		{name: "password over 72 chars", body: `{"email":"d@x.io","password":"` + strings.Repeat("a", 73) + `"}`, expectedStatus: http.StatusBadRequest, expectedCode: "VALIDATION_ERROR"},
		{name: "multibyte password over 72 bytes", body: `{"email":"e@x.io","password":"` + strings.Repeat("é", 40) + `"}`, expectedStatus: http.StatusBadRequest, expectedCode: "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(handler.Register, "/api/auth/register", tt.body)
			if rr.Code != tt.expectedStatus {
				t.Fatalf("handler returned wrong status code: got %v want %v (%s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			var env envelope
			if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if env.Error.Code != tt.expectedCode {
				t.Errorf("error code = %q, want %q", env.Error.Code, tt.expectedCode)
			}
			if bytes.Contains(rr.Body.Bytes(), []byte("secret1")) {
				t.Error("response echoes the password")
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	handler := newAuthHandler(t)
	if rr := post(handler.Register, "/api/auth/register", `{"email":"a@x.io","password":"secret1"}`); rr.Code != http.StatusCreated {
		t.Fatalf("register status = %d", rr.Code)
	}

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{name: "valid credentials", body: `{"email":"a@x.io","password":"secret1"}`, expectedStatus: http.StatusOK},
		{name: "wrong password", body: `{"email":"a@x.io","password":"wrong!"}`, expectedStatus: http.StatusBadRequest, expectedCode: "INVALID_CREDENTIALS"},
		{name: "unknown email", body: `{"email":"z@x.io","password":"secret1"}`, expectedStatus: http.StatusBadRequest, expectedCode: "INVALID_CREDENTIALS"},
		{name: "missing fields", body: `{}`, expectedStatus: http.StatusBadRequest, expectedCode: "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(handler.Login, "/api/auth/login", tt.body)
			if rr.Code != tt.expectedStatus {
				t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			var env envelope
			if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if env.Error.Code != tt.expectedCode {
				t.Errorf("error code = %q, want %q", env.Error.Code, tt.expectedCode)
			}
			if tt.expectedStatus == http.StatusOK {
				var data struct {
					Token string `json:"token"`
				}
				_ = json.Unmarshal(env.Data, &data)
				if data.Token == "" {
					t.Error("login returned no token")
				}
			}
		})
	}
}

func TestAuthHandler_CredentialErrorsIndistinguishable(t *testing.T) {
	handler := newAuthHandler(t)
	post(handler.Register, "/api/auth/register", `{"email":"a@x.io","password":"secret1"}`)

	wrongPw := post(handler.Login, "/api/auth/login", `{"email":"a@x.io","password":"nope!!"}`)
	unknown := post(handler.Login, "/api/auth/login", `{"email":"q@x.io","password":"nope!!"}`)

	if wrongPw.Code != unknown.Code || wrongPw.Body.String() != unknown.Body.String() {
		t.Errorf("responses differ:\n%s\n%s", wrongPw.Body.String(), unknown.Body.String())
	}
}
