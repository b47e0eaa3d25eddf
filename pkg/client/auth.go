package client

import (
	"context"
	"time"
)

// Credentials is the body of register and login requests
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse represents a registration response
type RegisterResponse struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register creates a new account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password string) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.doRequest(ctx, "POST", "/api/auth/register", Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.doRequest(ctx, "POST", "/api/auth/login", Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}

	// Automatically set the token for future requests
	if resp.Token != "" {
		c.SetToken(resp.Token)
	}

	return &resp, nil
}

// Logout forgets the token. Sessions are stateless, so nothing is sent.
func (c *Client) Logout() {
	c.SetToken("")
}
