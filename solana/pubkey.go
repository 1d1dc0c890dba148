package solana

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// PublicKeyLength is the raw byte length of a Solana public key.
const PublicKeyLength = 32

// PublicKey is a 32-byte account address.
type PublicKey [PublicKeyLength]byte

// Well-known program addresses used by the ticket flows.
var (
	SystemProgramID          = MustParsePublicKey("11111111111111111111111111111111")
	TokenProgramID           = MustParsePublicKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	AssociatedTokenProgramID = MustParsePublicKey("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	SysvarRentID             = MustParsePublicKey("SysvarRent111111111111111111111111111111111")
)

// ParsePublicKey decodes a base58 string into a PublicKey. The decoded
// value must be exactly 32 bytes; anything else is an invalid-input error.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey

	if s == "" {
		return pk, fmt.Errorf("empty public key")
	}

	decoded, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("invalid base58 public key %q: %w", s, err)
	}

	if len(decoded) != PublicKeyLength {
		return pk, fmt.Errorf("invalid public key %q: decoded to %d bytes, want %d", s, len(decoded), PublicKeyLength)
	}

	copy(pk[:], decoded)
	return pk, nil
}

// MustParsePublicKey is ParsePublicKey for compile-time constants.
func MustParsePublicKey(s string) PublicKey {
	pk, err := ParsePublicKey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// PublicKeyFromBytes copies a 32-byte slice into a PublicKey.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PublicKeyLength {
		return pk, fmt.Errorf("invalid public key: %d bytes, want %d", len(b), PublicKeyLength)
	}
	copy(pk[:], b)
	return pk, nil
}

// String returns the base58 text form.
func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

// Bytes returns a copy of the raw key bytes.
func (pk PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeyLength)
	copy(b, pk[:])
	return b
}

// IsZero reports whether the key is the all-zero value.
func (pk PublicKey) IsZero() bool {
	return pk == PublicKey{}
}

// Equals reports byte equality with another key.
func (pk PublicKey) Equals(other PublicKey) bool {
	return pk == other
}

// MarshalText implements encoding.TextMarshaler so keys serialize as base58
// strings inside JSON records.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}
