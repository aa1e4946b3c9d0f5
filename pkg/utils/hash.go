package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint returns a short, stable SHA-256 digest of s for correlating
// log lines without recording the value itself. Case and surrounding
// whitespace are ignored so the same mailbox always maps to the same digest.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(s))))
	return hex.EncodeToString(sum[:])[:12]
}
