package service

import (
	"crypto/rand"
	"fmt"
)

// claimCodeAlphabet omits 0/O and 1/I so codes survive being read
// aloud at a pickup counter. 32 symbols divides 256 evenly, so the
// byte modulo below introduces no bias.
const claimCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const claimCodeLength = 8

// generateClaimCode returns an 8-character random token. Codes are
// practically unique (32^8 possibilities); uniqueness is not re-checked
// against the store, the orders table UNIQUE constraint is the backstop.
func generateClaimCode() (string, error) {
	b := make([]byte, claimCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate claim code: %w", err)
	}
	for i := range b {
		b[i] = claimCodeAlphabet[int(b[i])%len(claimCodeAlphabet)]
	}
	return string(b), nil
}
