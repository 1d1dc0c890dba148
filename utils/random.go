package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// GenerateReference returns an uppercase hex reference code of n random
// bytes, used to tag purchase receipts.
func GenerateReference(n int) (string, error) {
	byt := make([]byte, n)

	if _, err := rand.Read(byt); err != nil {
		return "", err
	}

	return strings.ToUpper(hex.EncodeToString(byt)), nil
}
