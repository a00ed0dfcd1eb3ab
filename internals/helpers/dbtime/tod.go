package dbtime

import (
	"fmt"
	"strings"
	"time"
)

// Times of day travel as wall-clock "HH:MM" strings so they never shift with DST.

// ParseHHMM returns the minutes since midnight for "HH:MM" (24h).
func ParseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("time %q: expected HH:MM", s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// IsHHMM reports whether s is a valid "HH:MM".
func IsHHMM(s string) bool {
	_, err := ParseHHMM(s)
	return err == nil
}

// FormatHHMM renders t's wall clock as "HH:MM".
func FormatHHMM(t time.Time) string { return t.Format("15:04") }
