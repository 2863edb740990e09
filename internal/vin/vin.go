// Package vin normalizes vehicle identification numbers captured from
// keystroke-emulating barcode scanners.
package vin

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	apperrors "github.com/spec-kit/repair-service/pkg/util/errorutil"
)

// Length is the number of characters in a complete VIN.
const Length = 17

// IncompleteMessage is shown when a VIN does not normalize to Length characters.
const IncompleteMessage = "VIN must be 17 characters (I,O,Q not allowed)"

// Sanitize uppercases s with full Unicode case mapping (so "ß" becomes "SS"),
// drops everything outside [A-Z0-9] and then drops the letters I, O and Q.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range cases.Upper(language.Und).String(s) {
		switch {
		case r == 'I' || r == 'O' || r == 'Q':
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsComplete reports whether s sanitizes to exactly Length characters.
func IsComplete(s string) bool {
	return len(Sanitize(s)) == Length
}

// Validate returns the sanitized VIN or a validation error when it is incomplete.
func Validate(s string) (string, error) {
	clean := Sanitize(s)
	if len(clean) != Length {
		return clean, apperrors.NewValidationError(IncompleteMessage, map[string]any{
			"vin":    clean,
			"length": len(clean),
		})
	}
	return clean, nil
}
