// Package wallet is the boundary with external passkey wallet
// infrastructure. The provider owns key custody, biometric prompts and
// transaction packing; this package only defines the narrow typed
// contract the rest of the service is allowed to depend on.
package wallet

import (
	"context"
	"fmt"

	"ticket-pass/models"
)

// Provider identifies a wallet infrastructure vendor.
type Provider string

const (
	// ProviderLazor is the passkey portal provider.
	ProviderLazor Provider = "lazor"
)

// WalletProvider is the common interface for wallet backends. Requests
// and responses are the tagged variants from models; the service never
// sees an untyped SDK payload.
type WalletProvider interface {
	// GetProvider returns the provider type.
	GetProvider() Provider

	// Connect resolves the user's wallet address for a passkey credential.
	Connect(ctx context.Context, credentialID string) (*models.WalletResponse, error)

	// SignMessage asks the wallet to sign raw message bytes.
	SignMessage(ctx context.Context, credentialID string, req *models.WalletRequest) (*models.WalletResponse, error)

	// SignAndSend asks the wallet to pack, sign and hand off the
	// instructions. The returned response carries the signed transaction
	// for sponsorship, or the final signature when the provider submits
	// itself.
	SignAndSend(ctx context.Context, credentialID string, req *models.WalletRequest) (*models.WalletResponse, error)

	// Close gracefully closes any connections.
	Close(ctx context.Context) error
}

// Factory creates provider instances from configuration.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) CreateProvider(ctx context.Context, provider Provider, config any) (WalletProvider, error) {
	switch provider {
	case ProviderLazor:
		cfg, ok := config.(*LazorConfig)
		if !ok {
			return nil, fmt.Errorf("invalid lazor config type, expected *LazorConfig")
		}
		return NewLazorAdapter(ctx, cfg)

	default:
		return nil, fmt.Errorf("unsupported wallet provider: %s", provider)
	}
}

func (f *Factory) GetSupportedProviders() []Provider {
	return []Provider{ProviderLazor}
}
