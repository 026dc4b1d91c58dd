package crmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// LoginFallbackMessage is shown when a failed login carries no readable message.
const LoginFallbackMessage = "Login failed"

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a session token. It bypasses Request on
// purpose: no token is attached, whatever the session holds.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	start := time.Now()
	status, token, err := c.login(ctx, creds)
	observe(http.MethodPost, status, time.Since(start))
	return token, err
}

func (c *Client) login(ctx context.Context, creds Credentials) (int, string, error) {
	data, err := json.Marshal(creds)
	if err != nil {
		return 0, "", newError(fmt.Sprintf("marshal credentials: %v", err), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+BasePath+"/login", bytes.NewReader(data))
	if err != nil {
		return 0, "", newError(fmt.Sprintf("create request: %v", err), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("CRM API login request failed")
		return 0, "", newError(err.Error(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", newError(fmt.Sprintf("read response body: %v", err), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, "", newError(errorMessage(body, LoginFallbackMessage), nil)
	}

	var out loginResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return resp.StatusCode, "", newError(fmt.Sprintf("decode login response: %v", err), err)
	}
	if out.Token == "" {
		return resp.StatusCode, "", newError("login response did not include a token", nil)
	}
	return resp.StatusCode, out.Token, nil
}
