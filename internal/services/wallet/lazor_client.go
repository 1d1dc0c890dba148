package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ticket-pass/models"
)

// LazorConfig configures the passkey portal client.
type LazorConfig struct {
	BaseURL string `json:"baseUrl" mapstructure:"base_url"`
	APIKey  string `json:"apiKey" mapstructure:"api_key"`
}

// portalClient is the HTTP client for the passkey wallet portal. One
// endpoint per request kind; responses are the typed WalletResponse.
type portalClient struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func newPortalClient(cfg *LazorConfig) *portalClient {
	return &portalClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var kindPaths = map[string]string{
	models.WalletRequestConnect:     "/v1/wallet/connect",
	models.WalletRequestSignMessage: "/v1/wallet/sign-message",
	models.WalletRequestSignAndSend: "/v1/wallet/sign-and-send",
}

func (c *portalClient) do(ctx context.Context, credentialID string, req *models.WalletRequest) (*models.WalletResponse, error) {
	path, ok := kindPaths[req.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown wallet request kind %q", req.Kind)
	}

	body := struct {
		CredentialID string `json:"credential_id"`
		*models.WalletRequest
	}{CredentialID: credentialID, WalletRequest: req}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("wallet portal request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var portalErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &portalErr) == nil && portalErr.Error != "" {
			return nil, fmt.Errorf("wallet portal: %s", portalErr.Error)
		}
		return nil, fmt.Errorf("wallet portal returned status %d", resp.StatusCode)
	}

	var out models.WalletResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("malformed wallet portal response: %w", err)
	}
	return &out, nil
}
