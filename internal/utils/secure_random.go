package utils

import (
	"crypto/rand"
	"fmt"
)

// GenerateSecureToken generates a cryptographically secure random string of
// length n drawn from the given alphabet. Bytes outside the largest multiple of
// the alphabet size are discarded to keep the distribution uniform.
func GenerateSecureToken(n int, alphabet string) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token length must be positive")
	}
	if len(alphabet) == 0 || len(alphabet) > 256 {
		return "", fmt.Errorf("alphabet size must be between 1 and 256")
	}

	limit := 256 - (256 % len(alphabet))
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
