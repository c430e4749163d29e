package helper

import (
	"crypto/sha256"
	"encoding/hex"
)

// DeriveID returns the hex SHA-256 of the link. The link is hashed exactly as
// extracted, so the same URL always maps to the same article id.
func DeriveID(link string) string {
	sum := sha256.Sum256([]byte(link))
	return hex.EncodeToString(sum[:])
}
