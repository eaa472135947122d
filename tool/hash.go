package tool

import (
	"strings"

	"github.com/google/uuid"
)

func GenerateRandomUUID() string {
	return uuid.New().String()
}

// NewLinkToken returns a 32-char hex token for shareable deep links.
// Dashes are stripped so the token survives Telegram's /start payload rules.
func NewLinkToken() string {
	return strings.ReplaceAll(GenerateRandomUUID(), "-", "")
}
