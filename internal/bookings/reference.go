package bookings

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// Booking references are the customer-facing wire contract: two uppercase
// letters followed by eleven digits, e.g. BX25090112345.
const referencePrefix = "BX"

var referencePattern = regexp.MustCompile(`^[A-Z]{2}\d{11}$`)

// GenerateReference produces a new booking reference: prefix, yymmdd date,
// and five random digits. Collisions are rare but possible; the caller
// treats a uniqueness violation on insert as a signal to generate again.
func GenerateReference() (string, error) {
	datePart := time.Now().Format("060102")

	randomPart := make([]byte, 5)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking reference: %w", err)
		}
		randomPart[i] = byte('0' + num.Int64())
	}

	return referencePrefix + datePart + string(randomPart), nil
}

// NormalizeReference uppercases and trims a reference for case-insensitive
// lookup.
func NormalizeReference(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}

// IsValidReferenceFormat strictly validates the reference pattern.
func IsValidReferenceFormat(input string) bool {
	return referencePattern.MatchString(input)
}
