package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pratik-mahalle/ytgate/internal/auth"
	"github.com/pratik-mahalle/ytgate/internal/domain/account"
	"github.com/pratik-mahalle/ytgate/internal/pkg/errors"
	"github.com/pratik-mahalle/ytgate/internal/pkg/logger"
)

// AccountService implements account.Service
type AccountService struct {
	repo       account.Repository
	tokens     *auth.TokenIssuer
	bcryptCost int
	logger     *logger.Logger
}

// NewAccountService creates a new account service
func NewAccountService(repo account.Repository, tokens *auth.TokenIssuer, bcryptCost int, log *logger.Logger) account.Service {
	return &AccountService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     log,
	}
}

// Register creates a free account with a hashed password
func (s *AccountService) Register(ctx context.Context, email, password string) (*account.Account, error) {
	if email == "" || password == "" {
		return nil, errors.ErrInvalidInput
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidInput, auth.ErrPasswordTooLong)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidInput, err)
	}
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to hash password")
		return nil, err
	}

	a := &account.Account{
		Email:              email,
		PasswordHash:       hash,
		SubscriptionStatus: account.StatusFree,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, errors.ErrAlreadyExists) {
			s.logger.WithFields(map[string]interface{}{
				"email": email,
			}).Info("Registration rejected: email taken")
			return nil, err
		}
		s.logger.ErrorWithErr(err, "Failed to create account")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"account_id": a.ID,
		"email":      a.Email,
	}).Info("Account registered")

	return a, nil
}

// Login verifies credentials and issues a session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (*account.Session, error) {
	if email == "" || password == "" {
		return nil, errors.ErrInvalidInput
	}

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errors.ErrAccountNotFound) {
			auth.BurnCompare(password)
			return nil, errors.ErrInvalidCredentials
		}
		s.logger.ErrorWithErr(err, "Failed to load account for login")
		return nil, err
	}

	if !auth.ComparePassword(a.PasswordHash, password) {
		s.logger.WithFields(map[string]interface{}{
			"account_id": a.ID,
		}).Debug("Login rejected: wrong password")
		return nil, errors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(a.ID, a.Email)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to sign session token")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"account_id": a.ID,
		"expires_at": expiresAt.Format(time.RFC3339),
	}).Info("Session issued")

	return &account.Session{Token: token, ExpiresAt: expiresAt, Account: a}, nil
}

// Verify checks a session token. It does not touch the store.
func (s *AccountService) Verify(token string) (account.Ref, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return account.Ref{}, errors.ErrUnauthenticated
	}
	return account.Ref{ID: claims.AccountID, Email: claims.Email}, nil
}

// GetByID retrieves an account by ID
func (s *AccountService) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	return s.repo.GetByID(ctx, id)
}
