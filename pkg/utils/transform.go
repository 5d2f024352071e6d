package utils

import (
	"slices"
	"strings"
)

// BoolToUInt8 maps a flag onto ClickHouse's Bool storage type.
func BoolToUInt8(b bool) uint8 {
	var v uint8
	if b {
		v = 1
	}
	return v
}

// Dedup normalizes endpoint URLs, dropping trailing slashes, blanks and repeats while keeping
// first-seen order.
func Dedup(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimRight(strings.TrimSpace(u), "/")
		if u == "" || slices.Contains(out, u) {
			continue
		}
		out = append(out, u)
	}
	return out
}
