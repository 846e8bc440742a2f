package domain

import (
	"strconv"
	"strings"
)

// SanitizeCost normalizes free-form monetary input down to digits and at
// most one decimal separator ("." or ","). All other characters are
// stripped, separators after the first are dropped, and a bare leading
// separator gains a "0" prefix. Sanitizing already-sanitized input is a
// no-op.
func SanitizeCost(text string) string {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if i := strings.IndexAny(s, ".,"); i != -1 {
		head := s[:i+1]
		tail := strings.Map(func(r rune) rune {
			if r == '.' || r == ',' {
				return -1
			}
			return r
		}, s[i+1:])
		s = head + tail
	}
	if strings.HasPrefix(s, ".") || strings.HasPrefix(s, ",") {
		s = "0" + s
	}
	return s
}

// ParseCost interprets sanitized monetary input as a non-negative amount.
// Empty or non-numeric input returns nil, meaning no cost recorded, which
// is distinct from a recorded cost of zero.
func ParseCost(text string) *float64 {
	v := strings.TrimSpace(text)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &n
}
