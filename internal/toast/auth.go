package toast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	userAccessType = "TOAST_MACHINE_CLIENT"

	// expiryMargin is taken off the vendor-declared token lifetime. A token
	// declared to live 60s or less is treated as already expired.
	expiryMargin = 60 * time.Second
)

type loginRequest struct {
	ClientID       string `json:"clientId"`
	ClientSecret   string `json:"clientSecret"`
	UserAccessType string `json:"userAccessType"`
}

type loginResponse struct {
	Token struct {
		AccessToken string `json:"accessToken"`
		ExpiresIn   int64  `json:"expiresIn"`
	} `json:"token"`
}

// Authenticate returns a valid access token, logging in only when the cached
// token is absent or expired. A non-200 login response yields an
// *AuthenticationError; the cached token is left untouched on any failure.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	if c.token != "" && c.now().Before(c.expiresAt) {
		return c.token, nil
	}

	payload, err := json.Marshal(loginRequest{
		ClientID:       c.creds.ClientID,
		ClientSecret:   c.creds.ClientSecret,
		UserAccessType: userAccessType,
	})
	if err != nil {
		return "", fmt.Errorf("encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathLogin, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req, "login")
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}
	if status != http.StatusOK {
		return "", &AuthenticationError{StatusCode: status, Body: string(body)}
	}

	var res loginResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if res.Token.AccessToken == "" {
		return "", errMissingAccessToken
	}

	c.token = res.Token.AccessToken
	c.expiresAt = c.now().Add(time.Duration(res.Token.ExpiresIn)*time.Second - expiryMargin)
	tokenRefreshes.Inc()
	c.log.Debug().Time("expires_at", c.expiresAt).Msg("toast token refreshed")

	return c.token, nil
}
