package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pratik-mahalle/ytgate/internal/domain/account"
	"github.com/pratik-mahalle/ytgate/internal/pkg/errors"
	"github.com/pratik-mahalle/ytgate/internal/testutil"
)

func TestAccountRepository_Create(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	tests := []struct {
		name      string
		account   *account.Account
		wantErr   bool
		duplicate bool
	}{
		{
			name:    "create account successfully",
			account: &account.Account{Email: "test@example.com", PasswordHash: "hash"},
		},
		{
			name:    "create another account",
			account: &account.Account{Email: "another@example.com", PasswordHash: "hash"},
		},
		{
			name:      "duplicate email",
			account:   &account.Account{Email: "test@example.com", PasswordHash: "hash"},
			wantErr:   true,
			duplicate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.account)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.duplicate && !errors.Is(err, errors.ErrAlreadyExists) {
				t.Errorf("Create() error = %v, want ErrAlreadyExists", err)
			}
			if tt.wantErr {
				return
			}

			if tt.account.ID == 0 {
				t.Error("Create() did not set account ID")
			}
			if tt.account.SubscriptionStatus != account.StatusFree {
				t.Errorf("SubscriptionStatus = %q, want free", tt.account.SubscriptionStatus)
			}
		})
	}
}

func TestAccountRepository_Get(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	a := &account.Account{Email: "get@example.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	byID, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if byID.Email != a.Email || byID.PasswordHash != "hash" || byID.UsageCount != 0 {
		t.Errorf("GetByID() = %+v", byID)
	}
	if byID.SubscriptionEndsAt != nil {
		t.Errorf("SubscriptionEndsAt = %v, want nil", byID.SubscriptionEndsAt)
	}

	byEmail, err := repo.GetByEmail(ctx, "get@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if byEmail.ID != a.ID {
		t.Errorf("GetByEmail() ID = %d, want %d", byEmail.ID, a.ID)
	}

	if _, err := repo.GetByID(ctx, 99999); !errors.Is(err, errors.ErrAccountNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrAccountNotFound", err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, errors.ErrAccountNotFound) {
		t.Errorf("GetByEmail(missing) error = %v, want ErrAccountNotFound", err)
	}
}

func TestAccountRepository_IncrementUsageIfBelow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	a := &account.Account{Email: "count@example.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for i := 1; i <= 3; i++ {
		ok, err := repo.IncrementUsageIfBelow(ctx, a.ID, 3)
		if err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("increment %d rejected", i)
		}
	}

	ok, err := repo.IncrementUsageIfBelow(ctx, a.ID, 3)
	if err != nil {
		t.Fatalf("increment past limit: %v", err)
	}
	if ok {
		t.Error("increment past limit succeeded")
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.UsageCount != 3 {
		t.Errorf("UsageCount = %d, want 3", got.UsageCount)
	}

	ok, err = repo.IncrementUsageIfBelow(ctx, 99999, 3)
	if err != nil || ok {
		t.Errorf("increment missing account = %v, %v", ok, err)
	}
}

func TestAccountRepository_IncrementUsageIfBelow_Concurrent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	a := &account.Account{Email: "race@example.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	const workers = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.IncrementUsageIfBelow(ctx, a.ID, 3)
			if err != nil {
				t.Errorf("increment: %v", err)
				return
			}
			if ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != 3 {
		t.Errorf("granted = %d, want 3", granted)
	}
}

func TestAccountRepository_UpdateSubscription(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	a := &account.Account{Email: "paid@example.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ends := time.Now().Add(30 * 24 * time.Hour).Truncate(time.Second)
	if err := repo.UpdateSubscription(ctx, a.ID, account.StatusActivePaid, &ends); err != nil {
		t.Fatalf("UpdateSubscription() error = %v", err)
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.SubscriptionStatus != account.StatusActivePaid {
		t.Errorf("SubscriptionStatus = %q", got.SubscriptionStatus)
	}
	if got.SubscriptionEndsAt == nil || !got.SubscriptionEndsAt.Equal(ends) {
		t.Errorf("SubscriptionEndsAt = %v, want %v", got.SubscriptionEndsAt, ends)
	}
	if !got.IsPaid(time.Now()) {
		t.Error("IsPaid() = false")
	}

	if err := repo.UpdateSubscription(ctx, 99999, account.StatusFree, nil); !errors.Is(err, errors.ErrAccountNotFound) {
		t.Errorf("UpdateSubscription(missing) error = %v", err)
	}
}

func TestAccountRepository_CountByStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if err := repo.Create(ctx, &account.Account{Email: email, PasswordHash: "hash"}); err != nil {
			t.Fatalf("Create(%s) error = %v", email, err)
		}
	}
	paid, _ := repo.GetByEmail(ctx, "c@example.com")
	ends := time.Now().Add(time.Hour)
	if err := repo.UpdateSubscription(ctx, paid.ID, account.StatusActivePaid, &ends); err != nil {
		t.Fatalf("UpdateSubscription() error = %v", err)
	}

	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus() error = %v", err)
	}
	if counts[account.StatusFree] != 2 || counts[account.StatusActivePaid] != 1 {
		t.Errorf("CountByStatus() = %v", counts)
	}
}
