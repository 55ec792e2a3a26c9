package orders

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const orderCodePrefix = "VS-"

// NewOrderCode mints a customer-facing order code like "VS-9F3A1C".
func NewOrderCode() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating order code: %w", err)
	}
	return orderCodePrefix + strings.ToUpper(hex.EncodeToString(buf)), nil
}

// NormalizeOrderCode maps user input onto the canonical code form so
// lookups tolerate lowercase and a missing prefix.
func NormalizeOrderCode(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return code
	}
	if !strings.HasPrefix(code, orderCodePrefix) {
		code = orderCodePrefix + code
	}
	return code
}
