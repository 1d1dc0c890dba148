package wallet

import (
	"context"
	"fmt"

	"ticket-pass/models"
)

// LazorAdapter adapts the portal HTTP client to the WalletProvider
// interface, validating request variants at the boundary.
type LazorAdapter struct {
	client *portalClient
}

func NewLazorAdapter(_ context.Context, cfg *LazorConfig) (*LazorAdapter, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, fmt.Errorf("lazor portal base url is required")
	}
	return &LazorAdapter{client: newPortalClient(cfg)}, nil
}

func (a *LazorAdapter) GetProvider() Provider {
	return ProviderLazor
}

func (a *LazorAdapter) Connect(ctx context.Context, credentialID string) (*models.WalletResponse, error) {
	if credentialID == "" {
		return nil, fmt.Errorf("credential id is required")
	}
	return a.client.do(ctx, credentialID, &models.WalletRequest{Kind: models.WalletRequestConnect})
}

func (a *LazorAdapter) SignMessage(ctx context.Context, credentialID string, req *models.WalletRequest) (*models.WalletResponse, error) {
	if err := validateRequest(credentialID, req, models.WalletRequestSignMessage); err != nil {
		return nil, err
	}
	if len(req.Message) == 0 {
		return nil, fmt.Errorf("sign_message request has no message")
	}
	return a.client.do(ctx, credentialID, req)
}

func (a *LazorAdapter) SignAndSend(ctx context.Context, credentialID string, req *models.WalletRequest) (*models.WalletResponse, error) {
	if err := validateRequest(credentialID, req, models.WalletRequestSignAndSend); err != nil {
		return nil, err
	}
	if len(req.Instructions) == 0 {
		return nil, fmt.Errorf("sign_and_send request has no instructions")
	}
	return a.client.do(ctx, credentialID, req)
}

func (a *LazorAdapter) Close(_ context.Context) error {
	return nil
}

func validateRequest(credentialID string, req *models.WalletRequest, wantKind string) error {
	if credentialID == "" {
		return fmt.Errorf("credential id is required")
	}
	if req == nil {
		return fmt.Errorf("nil wallet request")
	}
	if req.Kind != wantKind {
		return fmt.Errorf("wallet request kind %q, want %q", req.Kind, wantKind)
	}
	return nil
}
