package sqlite

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	inviteAlphabet   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	inviteCodeLength = 6
)

// newInviteCode returns a random code of upper-case letters and digits. Characters that
// are easy to misread (0/O, 1/I) are left out.
func newInviteCode() (string, error) {
	code := make([]byte, inviteCodeLength)
	for i := range code {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(inviteAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}
		code[i] = inviteAlphabet[idx.Int64()]
	}
	return string(code), nil
}
