// Package expiry implements card expiry month math. A card is valid through
// the last instant of its expiry month.
package expiry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Normalize maps a 2-digit year to the 2000s and validates the month.
func Normalize(month, year int) (int, int, error) {
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("expiry month must be 01..12")
	}
	if year < 0 {
		return 0, 0, fmt.Errorf("expiry year must not be negative")
	}
	if year < 100 {
		year += 2000
	}
	return month, year, nil
}

// EndOfMonth returns the last instant of the expiry month in loc (UTC when
// nil).
func EndOfMonth(month, year int, loc *time.Location) (time.Time, error) {
	month, year, err := Normalize(month, year)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	// First day of next month, minus 1ns.
	firstNext := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	return firstNext.Add(-time.Nanosecond), nil
}

// IsExpired reports whether 'at' is strictly after the end of the expiry
// month.
func IsExpired(month, year int, at time.Time) (bool, error) {
	end, err := EndOfMonth(month, year, time.UTC)
	if err != nil {
		return false, err
	}
	return at.In(time.UTC).After(end), nil
}

// CardFace formats an expiry as MM/YY for display.
func CardFace(month, year int) string {
	return fmt.Sprintf("%02d/%02d", month, year%100)
}

// ParseCardFace accepts "MM/YY" or "MMYY" and returns month and 2-digit year.
func ParseCardFace(in string) (month, year int, err error) {
	s := strings.TrimSpace(in)
	s = strings.ReplaceAll(s, "/", "")
	if len(s) != 4 {
		return 0, 0, fmt.Errorf("card face must be MM/YY or MMYY")
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, fmt.Errorf("card face must be digits")
		}
	}
	mm, _ := strconv.Atoi(s[:2])
	if mm < 1 || mm > 12 {
		return 0, 0, fmt.Errorf("month must be 01..12")
	}
	yy, _ := strconv.Atoi(s[2:])
	return mm, yy, nil
}
