package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseSeconds parses a decimal seconds string (e.g. "900", "0.5") into a
// duration. Returns defaultValue if the string is empty, unparsable, or
// non-positive.
func ParseSeconds(s string, defaultValue time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultValue
	}
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds * float64(time.Second))
}

// MaskSecret hides sensitive parts of a string for safe display in logs.
// If the string is shorter than visiblePrefix, it is fully masked.
func MaskSecret(s string, visiblePrefix int) string {
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}
