package service

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// newUnsubscribeToken derives an opaque token from the email and the
// subscription instant.
func newUnsubscribeToken(email string, at time.Time) string {
	sum := sha256.Sum256([]byte(email + at.UTC().Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:])
}
