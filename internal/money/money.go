// Package money handles fixed-point amounts in millimes: one unit of
// currency is 1000 millimes, so every amount renders with exactly three
// fractional digits. Arithmetic on int64 stays exact; floats never enter.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders an amount of millimes as "d.ddd"
func Format(millimes int64) string {
	sign := ""
	if millimes < 0 {
		sign = "-"
		millimes = -millimes
	}
	return fmt.Sprintf("%s%d.%03d", sign, millimes/1000, millimes%1000)
}

// FormatWithCode renders an amount followed by its currency code, e.g. "5.500 TND"
func FormatWithCode(millimes int64, code string) string {
	return Format(millimes) + " " + code
}

// Parse converts a decimal string with up to three fractional digits into
// millimes. "1.5" parses as 1500, "2.500" as 2500.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 3 {
		return 0, fmt.Errorf("amount %q has more than three fractional digits", s)
	}
	for _, c := range frac {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}
	for len(frac) < 3 {
		frac += "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	v := w*1000 + f
	if neg {
		v = -v
	}
	return v, nil
}
