// utils/validator.go - Input validation
package utils

import (
	"fmt"
	"strings"
)

// Barcode lengths a tally may configure.
const (
	MinBarcodeLength = 9
	MaxBarcodeLength = 11
)

// ValidateBarcode checks that a scanned barcode is numeric and matches the
// tally's configured length.
func ValidateBarcode(barcode string, length int) error {
	if length < MinBarcodeLength || length > MaxBarcodeLength {
		length = MinBarcodeLength
	}
	if len(barcode) != length {
		return fmt.Errorf("barcode must be %d digits", length)
	}
	for _, r := range barcode {
		if r < '0' || r > '9' {
			return fmt.Errorf("barcode must be numeric")
		}
	}
	return nil
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
