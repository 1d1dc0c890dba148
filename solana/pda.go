package solana

import (
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"
)

const (
	// MaxSeedLength is the protocol limit for a single PDA seed.
	MaxSeedLength = 32

	// MaxSeeds is the protocol limit on the number of seeds, including the
	// bump seed appended during the search.
	MaxSeeds = 16
)

// pdaMarker is the domain separator the runtime appends before hashing.
var pdaMarker = []byte("ProgramDerivedAddress")

// IsOnCurve reports whether the 32 bytes decompress to a valid ed25519
// point. Program-derived addresses must NOT lie on the curve so no
// private key can ever sign for them.
func IsOnCurve(b []byte) bool {
	if len(b) != PublicKeyLength {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// CreateProgramAddress hashes the seeds with the program id and the PDA
// marker. It fails if the result lands on the curve, in which case the
// caller should retry with a different bump seed.
func CreateProgramAddress(seeds [][]byte, programID PublicKey) (PublicKey, error) {
	if err := validateSeeds(seeds); err != nil {
		return PublicKey{}, err
	}

	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write(pdaMarker)
	sum := h.Sum(nil)

	if IsOnCurve(sum) {
		return PublicKey{}, fmt.Errorf("invalid seeds: derived address is on the curve")
	}

	return PublicKeyFromBytes(sum)
}

// FindProgramAddress searches bump seeds from 255 down to 0 for the first
// off-curve address. Derivation is pure: identical inputs always produce
// the identical (address, bump) pair.
func FindProgramAddress(seeds [][]byte, programID PublicKey) (PublicKey, uint8, error) {
	if err := validateSeeds(seeds); err != nil {
		return PublicKey{}, 0, err
	}
	if len(seeds) >= MaxSeeds {
		return PublicKey{}, 0, fmt.Errorf("too many seeds: %d, bump seed needs a free slot (max %d)", len(seeds), MaxSeeds-1)
	}

	for bump := 255; bump >= 0; bump-- {
		candidate := append(append([][]byte{}, seeds...), []byte{byte(bump)})
		addr, err := CreateProgramAddress(candidate, programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
	}

	return PublicKey{}, 0, fmt.Errorf("no viable bump seed found")
}

// FindAssociatedTokenAddress derives the canonical associated token
// account for (owner, mint).
func FindAssociatedTokenAddress(owner, mint PublicKey) (PublicKey, uint8, error) {
	return FindProgramAddress(
		[][]byte{owner[:], TokenProgramID[:], mint[:]},
		AssociatedTokenProgramID,
	)
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return fmt.Errorf("too many seeds: %d, max %d", len(seeds), MaxSeeds)
	}
	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return fmt.Errorf("seed %d is %d bytes, max %d", i, len(seed), MaxSeedLength)
		}
	}
	return nil
}
