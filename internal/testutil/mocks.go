package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pratik-mahalle/ytgate/internal/domain/account"
	"github.com/pratik-mahalle/ytgate/internal/pkg/errors"
	"github.com/pratik-mahalle/ytgate/internal/youtube"
)

// MockAccountRepository is an in-memory account.Repository.
// It is safe for concurrent use so gate races can be exercised against it.
type MockAccountRepository struct {
	mu          sync.Mutex
	Accounts    map[int64]*account.Account
	EmailIndex  map[string]*account.Account
	NextID      int64
	CreateError error
	GetError    error
	UpdateError error
	Increments  int
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts:   make(map[int64]*account.Account),
		EmailIndex: make(map[string]*account.Account),
		NextID:     1,
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, a *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.EmailIndex[a.Email]; exists {
		return fmt.Errorf("create %s: %w", a.Email, errors.ErrAlreadyExists)
	}
	if a.SubscriptionStatus == "" {
		a.SubscriptionStatus = account.StatusFree
	}
	a.ID = m.NextID
	m.NextID++
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt

	stored := *a
	m.Accounts[a.ID] = &stored
	m.EmailIndex[a.Email] = &stored
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	a, ok := m.Accounts[id]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	a, ok := m.EmailIndex[email]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MockAccountRepository) IncrementUsageIfBelow(ctx context.Context, id int64, limit int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return false, m.UpdateError
	}
	a, ok := m.Accounts[id]
	if !ok || a.UsageCount >= limit {
		return false, nil
	}
	a.UsageCount++
	m.Increments++
	return true, nil
}

func (m *MockAccountRepository) UpdateSubscription(ctx context.Context, id int64, status string, endsAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return m.UpdateError
	}
	a, ok := m.Accounts[id]
	if !ok {
		return errors.ErrAccountNotFound
	}
	a.SubscriptionStatus = status
	a.SubscriptionEndsAt = endsAt
	return nil
}

func (m *MockAccountRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[string]int64)
	for _, a := range m.Accounts {
		counts[a.SubscriptionStatus]++
	}
	return counts, nil
}

// SetUsage forces the usage counter of an account
func (m *MockAccountRepository) SetUsage(id int64, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.Accounts[id]; ok {
		a.UsageCount = n
	}
}

// Usage returns the usage counter of an account
func (m *MockAccountRepository) Usage(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.Accounts[id]; ok {
		return a.UsageCount
	}
	return -1
}

// MockFetcher is a youtube.Fetcher returning canned results
type MockFetcher struct {
	mu      sync.Mutex
	Payload *youtube.Payload
	Err     error
	// Hook runs before returning; tests use it to line up concurrent calls.
	Hook  func()
	Calls []string
}

func (m *MockFetcher) FetchMetadata(ctx context.Context, videoID, apiKey string) (*youtube.Payload, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, videoID)
	hook := m.Hook
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Payload != nil {
		return m.Payload, nil
	}
	return &youtube.Payload{
		StatusCode:  200,
		ContentType: "application/json",
		Body:        []byte(fmt.Sprintf(`{"kind":"youtube#videoListResponse","items":[{"id":%q}]}`, videoID)),
	}, nil
}

// CallCount returns how many fetches were made
func (m *MockFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
