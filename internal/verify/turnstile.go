package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTurnstileURL is Cloudflare's siteverify endpoint.
const DefaultTurnstileURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// ErrMissingSecret is returned when no Turnstile secret is configured.
var ErrMissingSecret = errors.New("turnstile secret not configured")

// Turnstile verifies tokens against Cloudflare Turnstile.
type Turnstile struct {
	Secret    string
	VerifyURL string
	Client    *http.Client
}

// NewTurnstile builds a client with an explicit request timeout.
func NewTurnstile(secret, verifyURL string, timeout time.Duration) *Turnstile {
	if verifyURL == "" {
		verifyURL = DefaultTurnstileURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Turnstile{
		Secret:    secret,
		VerifyURL: verifyURL,
		Client:    &http.Client{Timeout: timeout},
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify implements Verifier.
func (t *Turnstile) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if t.Secret == "" {
		return false, ErrMissingSecret
	}
	if strings.TrimSpace(token) == "" {
		return false, nil
	}

	form := url.Values{}
	form.Set("secret", t.Secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("turnstile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, fmt.Errorf("turnstile status %d", resp.StatusCode)
	}

	var out siteverifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&out); err != nil {
		return false, fmt.Errorf("turnstile decode: %w", err)
	}
	return out.Success, nil
}
