package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/google/uuid"
)

var hashSalt string

// InitHashSalt loads the log hash salt from the environment. In production,
// set LOG_HASH_SALT.
func InitHashSalt() {
	hashSalt = os.Getenv("LOG_HASH_SALT")
	if hashSalt == "" {
		hashSalt = "default-salt-change-in-production"
	}
}

// InitHashSaltForTesting overrides the salt with a fixed value.
func InitHashSaltForTesting(salt string) {
	hashSalt = salt
}

// HashOwnerID creates a privacy-preserving hash of an owner ID so goal
// activity can be traced in logs without exposing who owns the goal.
func HashOwnerID(ownerID uuid.UUID) string {
	data := fmt.Sprintf("%s:%s", ownerID, hashSalt)
	hash := sha256.Sum256([]byte(data))
	// First 8 characters are enough to correlate log lines.
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeName redacts a user-provided goal name while preserving length
// information for debugging.
func SanitizeName(name string) string {
	if name == "" {
		return "<empty>"
	}
	return fmt.Sprintf("<redacted: %d chars>", len(name))
}
