package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const inviteCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateInviteCode generates a random invite code in the format
// XXXX-XXXX-XXXX. The alphabet skips easily confused characters (0/O, 1/I/L)
// since codes are shared by hand.
func GenerateInviteCode() (string, error) {
	raw := make([]byte, 12)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	var b strings.Builder
	for i, r := range raw {
		if i > 0 && i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(inviteCodeAlphabet[int(r)%len(inviteCodeAlphabet)])
	}
	return b.String(), nil
}
