package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iklobato/LightAPI/models"
)

// Register creates a new account and stores the returned bearer token for
// subsequent requests.
func (c *Client) Register(ctx context.Context, login, password string) (string, error) {
	return c.obtainToken(ctx, "/auth/register", login, password)
}

// Login authenticates an existing account and stores the returned bearer
// token for subsequent requests.
func (c *Client) Login(ctx context.Context, login, password string) (string, error) {
	return c.obtainToken(ctx, "/auth/token", login, password)
}

func (c *Client) obtainToken(ctx context.Context, path, login, password string) (string, error) {
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.User{Login: login, Password: password}).
		Post(path)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var tokenResponse models.TokenResponse
	if err = json.Unmarshal(resp.Body(), &tokenResponse); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	c.SetToken(tokenResponse.Token)
	return tokenResponse.Token, nil
}

// Revoke invalidates the client's current token server-side and forgets it
// locally. Revoking when no token is held is a no-op.
func (c *Client) Revoke(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}

	resp, err := c.request(ctx).Delete("/auth/token")
	if err != nil {
		return fmt.Errorf("revoke request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	c.SetToken("")
	return nil
}
