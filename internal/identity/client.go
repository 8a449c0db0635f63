package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"escalas-server/internal/apperrors"

	"go.uber.org/zap"
)

// Client talks to the hosted identity provider's REST API (GoTrue-style).
// Admin operations authenticate with the service key; user operations carry
// the caller's own access token.
type Client struct {
	client      *http.Client
	baseURL     string
	serviceKey  string
	redirectURL string
	logger      *zap.Logger
}

// User is the provider's identity record.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the result of exchanging a one-time code.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

// NewClient creates an identity provider client.
func NewClient(baseURL, serviceKey, redirectURL string, logger *zap.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     baseURL,
		serviceKey:  serviceKey,
		redirectURL: redirectURL,
		logger:      logger,
	}
}

// InviteUserByEmail asks the provider to create an identity and email the
// user a credential-setup link pointing back at the configured redirect URL.
func (c *Client) InviteUserByEmail(ctx context.Context, email, fullName string) (*User, error) {
	body := map[string]interface{}{
		"email": email,
		"data": map[string]string{
			"full_name": fullName,
		},
	}

	endpoint := fmt.Sprintf("%s/auth/v1/invite?redirect_to=%s", c.baseURL, url.QueryEscape(c.redirectURL))
	var user User
	if err := c.do(ctx, http.MethodPost, endpoint, c.serviceKey, body, &user); err != nil {
		c.logger.Warn("identity invite failed",
			zap.String("email", email),
			zap.Error(err))
		return nil, err
	}

	c.logger.Info("identity invitation sent",
		zap.String("email", email),
		zap.String("identity_id", user.ID))
	return &user, nil
}

// ExchangeCode trades the one-time code from the emailed link for a session.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Session, error) {
	body := map[string]string{
		"auth_code": code,
	}

	endpoint := fmt.Sprintf("%s/auth/v1/token?grant_type=pkce", c.baseURL)
	var session Session
	if err := c.do(ctx, http.MethodPost, endpoint, c.serviceKey, body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdatePassword sets the password of the account the access token belongs to.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, password string) error {
	body := map[string]string{
		"password": password,
	}

	endpoint := fmt.Sprintf("%s/auth/v1/user", c.baseURL)
	return c.do(ctx, http.MethodPut, endpoint, accessToken, body, nil)
}

// DeleteUser removes the identity record. Used when an admin deletes a user,
// so no login is left behind without a profile.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	endpoint := fmt.Sprintf("%s/auth/v1/admin/users/%s", c.baseURL, userID)
	return c.do(ctx, http.MethodDelete, endpoint, c.serviceKey, nil, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return apperrors.NewUpstream("failed to create identity request", 0, err)
	}

	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.NewUpstream("identity provider unreachable", 0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewUpstream("failed to read identity response", 0, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Surface the provider's own message and status verbatim.
		return apperrors.NewUpstream(providerMessage(respBody), resp.StatusCode, nil)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return apperrors.NewUpstream("failed to decode identity response", 0, err)
		}
	}
	return nil
}

// providerMessage extracts the human-readable message from a GoTrue error
// payload, falling back to the raw body.
func providerMessage(body []byte) string {
	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Msg != "":
			return payload.Msg
		case payload.Message != "":
			return payload.Message
		case payload.ErrorDescription != "":
			return payload.ErrorDescription
		}
	}
	return string(body)
}
