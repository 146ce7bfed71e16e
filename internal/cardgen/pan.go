// Package cardgen holds PAN digit helpers: Luhn validation, normalization,
// masking and test-card generation.
package cardgen

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// ValidatePAN checks length, digits and the Luhn check digit.
// Lengths 13-19 are accepted.
func ValidatePAN(pan string) error {
	if pan == "" {
		return fmt.Errorf("pan is required")
	}
	if !IsDigits(pan) {
		return fmt.Errorf("pan must contain digits only")
	}
	if l := len(pan); l < 13 || l > 19 {
		return fmt.Errorf("pan length must be 13..19 digits (got %d)", l)
	}
	body := pan[:len(pan)-1]
	if pan[len(pan)-1] != luhnCheckDigit(body) {
		return fmt.Errorf("invalid luhn check digit")
	}
	return nil
}

func luhnCheckDigit(body string) byte {
	sum, dbl := 0, true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if dbl {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		dbl = !dbl
	}
	return '0' + byte((10-(sum%10))%10)
}

func IsDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// NormalizePAN strips spaces, tabs and dashes.
func NormalizePAN(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-':
			return -1
		default:
			return r
		}
	}, s)
}

// LastN returns the last n characters of s, or s itself when shorter.
func LastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// MaskPAN keeps the first 6 and last 4 digits of a normalized PAN.
// Short inputs are fully or mostly starred out.
func MaskPAN(pan string) string {
	cleaned := NormalizePAN(pan)
	n := len(cleaned)
	if n == 0 {
		return ""
	}
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	if n < 10 {
		return strings.Repeat("*", n-4) + cleaned[n-4:]
	}
	return cleaned[:6] + strings.Repeat("*", n-10) + cleaned[n-4:]
}

// GeneratePAN produces a random 16-digit Luhn-valid PAN with the given
// prefix. Intended for test cards; the prefix must be 1..14 digits.
func GeneratePAN(prefix string) (string, error) {
	const panLen = 16
	if !IsDigits(prefix) {
		return "", fmt.Errorf("prefix must contain digits only")
	}
	fill := panLen - 1 - len(prefix)
	if fill <= 0 {
		return "", fmt.Errorf("prefix too long: %s", prefix)
	}
	digits, err := randomDigits(fill)
	if err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	body := prefix + digits
	return body + string(luhnCheckDigit(body)), nil
}

// randomDigits rejects bytes >= 250 so the mod-10 result stays unbiased.
func randomDigits(count int) (string, error) {
	const threshold = 250 // 256 - (256 % 10)
	var sb strings.Builder
	sb.Grow(count)
	buf := make([]byte, 64)
	for sb.Len() < count {
		n, err := rand.Read(buf)
		if err != nil {
			return "", err
		}
		for i := 0; i < n && sb.Len() < count; i++ {
			if buf[i] < threshold {
				sb.WriteByte('0' + (buf[i] % 10))
			}
		}
	}
	return sb.String(), nil
}
