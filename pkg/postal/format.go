// Package postal implements Japanese postal code input handling: digit
// coercion with auto-hyphenation for form fields, plus an address lookup
// client against a zipcloud-style service.
package postal

import "strings"

const maxDigits = 7

// Normalize coerces a postal code field edit to the NNN-NNNN shape.
// Non-digits are stripped and input is capped at seven digits. The hyphen is
// appended when the third digit arrives on forward typing only, so deleting
// backwards never fights the user by re-inserting it.
func Normalize(prev, next string) string {
	forward := len([]rune(next)) > len([]rune(prev))

	digits := digitsOnly(next)
	if len(digits) > maxDigits {
		digits = digits[:maxDigits]
	}

	if len(digits) <= 3 {
		if forward && len(digits) == 3 {
			return digits + "-"
		}
		return digits
	}
	return digits[:3] + "-" + digits[3:]
}

// ReadyForLookup reports whether the field holds a complete seven digit code.
func ReadyForLookup(s string) bool {
	return len(digitsOnly(s)) == maxDigits
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
