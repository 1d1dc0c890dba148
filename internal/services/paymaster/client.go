// Package paymaster is the client for the external fee sponsor. The
// sponsorship protocol itself (fee estimation, durable nonce handling,
// relayer policy) is the sponsor's problem; this client only submits a
// signed transaction and reads back the result.
package paymaster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ticket-pass/internal/status"
)

type Config struct {
	BaseURL string `json:"baseUrl" mapstructure:"base_url"`
	APIKey  string `json:"apiKey" mapstructure:"api_key"`
}

type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func New(cfg *Config) (*Client, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, fmt.Errorf("paymaster base url is required")
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// SponsorAndSend submits a base64 signed transaction for gasless
// execution and returns the sponsor's view of the submission.
func (c *Client) SponsorAndSend(ctx context.Context, signedTxBase64 string) (*status.Transaction, error) {
	if signedTxBase64 == "" {
		return nil, fmt.Errorf("empty signed transaction")
	}

	payload, err := json.Marshal(map[string]string{"transaction": signedTxBase64})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/sponsor", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paymaster request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var sponsorErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &sponsorErr) == nil && sponsorErr.Error != "" {
			return nil, fmt.Errorf("paymaster: %s", sponsorErr.Error)
		}
		return nil, fmt.Errorf("paymaster returned status %d", resp.StatusCode)
	}

	var tx status.Transaction
	if err := json.Unmarshal(body, &tx); err != nil {
		return nil, fmt.Errorf("malformed paymaster response: %w", err)
	}
	if tx.Signature == "" {
		return nil, fmt.Errorf("paymaster response missing signature")
	}
	if tx.SubmittedAt.IsZero() {
		tx.SubmittedAt = time.Now()
	}

	return &tx, nil
}
