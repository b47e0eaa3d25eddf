package client

import "context"

// Account retrieves the authenticated account and its remaining free lookups
func (c *Client) Account(ctx context.Context) (*Account, error) {
	var a Account
	if err := c.doRequest(ctx, "GET", "/api/account", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Plans retrieves the paywall payload
func (c *Client) Plans(ctx context.Context) (*Paywall, error) {
	var p Paywall
	if err := c.doRequest(ctx, "GET", "/api/paywall/plans", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
