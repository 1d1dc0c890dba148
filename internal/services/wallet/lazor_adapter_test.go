package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-pass/models"
	"ticket-pass/solana"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *LazorAdapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	adapter, err := NewLazorAdapter(context.Background(), &LazorConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
	})
	require.NoError(t, err)
	return adapter
}

func TestLazorAdapter_Connect(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/wallet/connect", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			CredentialID string `json:"credential_id"`
			Kind         string `json:"kind"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cred-1", body.CredentialID)
		assert.Equal(t, models.WalletRequestConnect, body.Kind)

		json.NewEncoder(w).Encode(models.WalletResponse{
			WalletAddress: "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		})
	})

	resp, err := adapter.Connect(context.Background(), "cred-1")
	require.NoError(t, err)
	assert.Equal(t, "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", resp.WalletAddress)
}

func TestLazorAdapter_SignAndSend(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/wallet/sign-and-send", r.URL.Path)
		json.NewEncoder(w).Encode(models.WalletResponse{SignedTx: "c2lnbmVk"})
	})

	ix := solana.NewTokenTransferInstruction(
		solana.MustParsePublicKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"),
		solana.MustParsePublicKey("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"),
		solana.MustParsePublicKey("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"),
		1_000_000,
	)

	resp, err := adapter.SignAndSend(context.Background(), "cred-1", &models.WalletRequest{
		Kind:         models.WalletRequestSignAndSend,
		Instructions: []solana.Instruction{ix},
	})
	require.NoError(t, err)
	assert.Equal(t, "c2lnbmVk", resp.SignedTx)
}

func TestLazorAdapter_PortalError(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "credential not registered"})
	})

	_, err := adapter.Connect(context.Background(), "cred-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credential not registered")
}

func TestLazorAdapter_RequestValidation(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("portal must not be called for invalid requests")
	})
	ctx := context.Background()

	_, err := adapter.Connect(ctx, "")
	assert.Error(t, err)

	_, err = adapter.SignMessage(ctx, "cred-1", &models.WalletRequest{Kind: models.WalletRequestSignMessage})
	assert.Error(t, err)

	_, err = adapter.SignAndSend(ctx, "cred-1", &models.WalletRequest{Kind: models.WalletRequestConnect})
	assert.Error(t, err)

	_, err = adapter.SignAndSend(ctx, "cred-1", &models.WalletRequest{Kind: models.WalletRequestSignAndSend})
	assert.Error(t, err)
}

func TestFactory_CreateProvider(t *testing.T) {
	factory := NewFactory()
	ctx := context.Background()

	provider, err := factory.CreateProvider(ctx, ProviderLazor, &LazorConfig{BaseURL: "http://localhost:1"})
	require.NoError(t, err)
	assert.Equal(t, ProviderLazor, provider.GetProvider())

	_, err = factory.CreateProvider(ctx, ProviderLazor, "not a config")
	assert.Error(t, err)

	_, err = factory.CreateProvider(ctx, Provider("unknown"), nil)
	assert.Error(t, err)

	assert.Equal(t, []Provider{ProviderLazor}, factory.GetSupportedProviders())
}
