package security

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
)

// GatePass is the payload sealed into an entry token after successful
// verification. Gate hardware shows it to staff; it proves which ticket
// was redeemed and when without another round trip.
type GatePass struct {
	EventID  string    `json:"event_id"`
	Wallet   string    `json:"wallet"`
	IssuedAt time.Time `json:"issued_at"`
}

// Sealer seals and opens gate passes with an AEAD keyed from config.
type Sealer struct {
	key []byte
}

// NewSealer expects a 64-hex-char (32 byte) key.
func NewSealer(hexKey string) (*Sealer, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("gate pass key is not valid hex: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("gate pass key is %d bytes, want %d", len(key), chacha20poly1305.KeySize)
	}
	return &Sealer{key: key}, nil
}

// Seal returns base64(nonce || ciphertext) over the JSON pass.
func (s *Sealer) Seal(pass *GatePass) (string, error) {
	if pass == nil {
		return "", fmt.Errorf("nil gate pass")
	}

	plaintext, err := json.Marshal(pass)
	if err != nil {
		return "", err
	}

	aead, err := chacha20poly1305.New(s.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Open is the inverse of Seal. Any tampering fails authentication.
func (s *Sealer) Open(token string) (*GatePass, error) {
	sealed, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed gate pass token: %w", err)
	}
	if len(sealed) < chacha20poly1305.NonceSize {
		return nil, fmt.Errorf("malformed gate pass token: too short")
	}

	aead, err := chacha20poly1305.New(s.key)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext := sealed[:chacha20poly1305.NonceSize], sealed[chacha20poly1305.NonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("gate pass token failed authentication")
	}

	var pass GatePass
	if err := json.Unmarshal(plaintext, &pass); err != nil {
		return nil, fmt.Errorf("corrupt gate pass payload: %w", err)
	}
	return &pass, nil
}
