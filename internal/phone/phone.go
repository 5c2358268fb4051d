// Package phone normalizes and masks subscriber phone numbers.
package phone

import (
	"strings"
)

const countryCode = "243"

// Normalize strips non-digits and converts national DRC numbers to the
// international form. Numbers of any other length are returned digits-only.
func Normalize(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	switch {
	case len(digits) == 10 && digits[0] == '0':
		return countryCode + digits[1:]
	case len(digits) == 9:
		return countryCode + digits
	default:
		return digits
	}
}

// MaskForDisplay hides all but the last four digits, for API responses.
func MaskForDisplay(p string) string {
	r := []rune(p)
	if len(r) <= 4 {
		return short(r)
	}
	return "*** **** " + string(r[len(r)-4:])
}

// MaskForLog keeps the first three and last two digits, for log records.
func MaskForLog(p string) string {
	r := []rune(p)
	if len(r) <= 4 {
		return short(r)
	}
	return string(r[:3]) + strings.Repeat("*", len(r)-5) + string(r[len(r)-2:])
}

func short(r []rune) string {
	if len(r) == 0 {
		return "***"
	}
	return "***" + string(r[len(r)-1])
}

