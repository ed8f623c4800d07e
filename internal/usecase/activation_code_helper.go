package usecase

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
)

// HashCode is the one-way transform from a raw activation code to its
// storable lookup key: a sha-256 hex digest. Deterministic and unkeyed;
// the store can never recover the raw code from it.
func HashCode(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// generateActivationCode creates a secure, random, human-readable code.
// Format: XXXXXXXX-XXXXXXXX-XXXXXXXX-XXXXXXXX
func generateActivationCode() (string, error) {
	// A character set that avoids ambiguous characters like O/0, I/1, l.
	// 32 symbols at 32 positions gives 160 bits of entropy.
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const codeLength = 32

	buffer := make([]byte, codeLength)
	if _, err := io.ReadFull(rand.Reader, buffer); err != nil {
		return "", err
	}

	for i := 0; i < codeLength; i++ {
		buffer[i] = chars[int(buffer[i])%len(chars)]
	}

	groups := make([]string, 0, 4)
	for i := 0; i < codeLength; i += 8 {
		groups = append(groups, string(buffer[i:i+8]))
	}
	return strings.Join(groups, "-"), nil
}
