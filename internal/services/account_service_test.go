package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pratik-mahalle/ytgate/internal/auth"
	"github.com/pratik-mahalle/ytgate/internal/pkg/errors"
	"github.com/pratik-mahalle/ytgate/internal/pkg/logger"
	"github.com/pratik-mahalle/ytgate/internal/testutil"
)

const testSecret = "test-secret-with-enough-length-123456"

func newTestAccountService(t *testing.T) (*AccountService, *testutil.MockAccountRepository) {
	t.Helper()
	repo := testutil.NewMockAccountRepository()
	tokens := auth.NewTokenIssuer(testSecret, 7*24*time.Hour)
	svc := NewAccountService(repo, tokens, 4, logger.Nop()).(*AccountService)
	return svc, repo
}

func TestAccountService_Register(t *testing.T) {
	svc, repo := newTestAccountService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "taken@example.com", "secret1"); err != nil {
		t.Fatalf("seed Register() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "new account", email: "new@example.com", password: "secret1"},
		{name: "duplicate email", email: "taken@example.com", password: "other", wantErr: errors.ErrAlreadyExists},
		{name: "empty password", email: "x@example.com", password: "", wantErr: errors.ErrInvalidInput},
		{name: "empty email", email: "", password: "secret1", wantErr: errors.ErrInvalidInput},
		{name: "short password", email: "short@example.com", password: "pw123"},
		{name: "72 byte password", email: "edge@example.com", password: strings.Repeat("a", 72)},
		{name: "73 byte password", email: "long@example.com", password: strings.Repeat("a", 73), wantErr: auth.ErrPasswordTooLong},
		{name: "multibyte password over 72 bytes", email: "utf@example.com", password: strings.Repeat("é", 40), wantErr: errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := svc.Register(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Register() unexpected error = %v", err)
			}
			if a.ID <= 0 {
				t.Errorf("Register() id = %d, want positive", a.ID)
			}
			if a.UsageCount != 0 {
				t.Errorf("Register() usage = %d, want 0", a.UsageCount)
			}
			stored, _ := repo.GetByEmail(ctx, tt.email)
			if stored.PasswordHash == tt.password {
				t.Error("Register() stored the plaintext password")
			}
			if !auth.ComparePassword(stored.PasswordHash, tt.password) {
				t.Error("Register() stored hash does not verify")
			}
		})
	}
}

func TestAccountService_Login(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "a@x.io", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "a@x.io", password: "secret1"},
		{name: "wrong password", email: "a@x.io", password: "wrong", wantErr: errors.ErrInvalidCredentials},
		{name: "unknown email", email: "nobody@x.io", password: "secret1", wantErr: errors.ErrInvalidCredentials},
		{name: "missing password", email: "a@x.io", password: "", wantErr: errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := svc.Login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Login() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() unexpected error = %v", err)
			}
			ref, err := svc.Verify(sess.Token)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if ref.ID != registered.ID || ref.Email != "a@x.io" {
				t.Errorf("Verify() = %+v, want id %d", ref, registered.ID)
			}
			ttl := time.Until(sess.ExpiresAt)
			if ttl < 7*24*time.Hour-time.Minute || ttl > 7*24*time.Hour+time.Minute {
				t.Errorf("Login() ttl = %v, want about 7 days", ttl)
			}
		})
	}
}

func TestAccountService_VerifyRejectsGarbage(t *testing.T) {
	svc, _ := newTestAccountService(t)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, errors.ErrUnauthenticated) {
			t.Errorf("Verify(%q) error = %v, want ErrUnauthenticated", token, err)
		}
	}
}
