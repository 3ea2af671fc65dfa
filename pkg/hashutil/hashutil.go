package hashutil

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Fingerprint returns the first n hex characters of the BLAKE3 digest of secret.
// It identifies a secret in durable keys without revealing it.
// n is clamped to the full digest length.
func Fingerprint(secret string, n int) string {
	hash := blake3.Sum256([]byte(secret))
	digest := hex.EncodeToString(hash[:])
	if n <= 0 || n > len(digest) {
		return digest
	}
	return digest[:n]
}
