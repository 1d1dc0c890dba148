package models

import "ticket-pass/solana"

// Wallet request kinds. The wallet SDK boundary is a tagged variant per
// operation so nothing downstream depends on an untyped payload blob.
const (
	WalletRequestConnect     = "connect"
	WalletRequestSignMessage = "sign_message"
	WalletRequestSignAndSend = "sign_and_send"
)

// WalletRequest is the narrow request contract with the wallet provider.
// Kind selects the variant; only the matching field is populated.
type WalletRequest struct {
	Kind string `json:"kind"`

	// SignMessage: raw message bytes to sign.
	Message []byte `json:"message,omitempty"`

	// SignAndSend: instructions to pack, sign and submit.
	Instructions []solana.Instruction `json:"instructions,omitempty"`
	FeePayer     string               `json:"fee_payer,omitempty"`
}

// WalletResponse is the provider's answer. Only the fields relevant to
// the request kind are set.
type WalletResponse struct {
	WalletAddress string `json:"wallet_address,omitempty"` // connect
	SignedMessage []byte `json:"signed_message,omitempty"` // sign_message
	SignedTx      string `json:"signed_tx,omitempty"`      // sign_and_send, base64
	Signature     string `json:"signature,omitempty"`      // sign_and_send
}
