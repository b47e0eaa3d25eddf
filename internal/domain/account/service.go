package account

import (
	"context"
	"time"
)

// Ref identifies the account behind a verified session token
type Ref struct {
	ID    int64
	Email string
}

// Session is the result of a successful login
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   *Account
}

// Service defines registration, login and token verification
type Service interface {
	// Register creates an account with a hashed password
	Register(ctx context.Context, email, password string) (*Account, error)

	// Login checks credentials and issues a session token
	Login(ctx context.Context, email, password string) (*Session, error)

	// Verify checks a session token without consulting the store
	Verify(token string) (Ref, error)

	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id int64) (*Account, error)
}
