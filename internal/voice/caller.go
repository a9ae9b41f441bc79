// Package voice delivers one-time codes over a telephony gateway.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Caller places an automated call that reads a one-time code to the user.
type Caller interface {
	Call(ctx context.Context, phone, code string) error
}

type GatewayConfig struct {
	BaseURL  string
	APIKey   string
	CallerID string
	Timeout  time.Duration
}

// GatewayCaller posts call requests to an HTTP telephony gateway.
type GatewayCaller struct {
	baseURL  string
	apiKey   string
	callerID string
	client   *http.Client
}

func NewGatewayCaller(cfg GatewayConfig) (*GatewayCaller, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GatewayCaller{
		baseURL:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:   strings.TrimSpace(cfg.APIKey),
		callerID: strings.TrimSpace(cfg.CallerID),
		client:   &http.Client{Timeout: timeout},
	}, nil
}

func (g *GatewayCaller) Call(ctx context.Context, phone, code string) error {
	payload := map[string]string{
		"to":      phone,
		"from":    g.callerID,
		"message": spellOutCode(code),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal call payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/calls", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build call request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("request voice call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("voice call failed status=%d body=%s", resp.StatusCode, string(raw))
	}
	return nil
}

// spellOutCode spaces the digits so the text-to-speech engine reads them
// one at a time, then repeats the code once.
func spellOutCode(code string) string {
	digits := strings.Join(strings.Split(code, ""), " ")
	return fmt.Sprintf("Your verification code is %s. Again, your code is %s.", digits, digits)
}
