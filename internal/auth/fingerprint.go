// ABOUTME: SHA3-256 fingerprinting of personal token text
// ABOUTME: The store only ever sees fingerprints, never plaintext tokens

package auth

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Fingerprint returns the hex SHA3-256 digest of the token text. This
// is the only form in which a personal token is ever persisted or
// looked up.
func Fingerprint(tokenText string) string {
	sum := sha3.Sum256([]byte(tokenText))
	return hex.EncodeToString(sum[:])
}
