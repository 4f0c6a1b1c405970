package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration parses a `<N><unit>` time spec where unit is h(our), d(ay),
// m(onth, 30 days) or y(ear, 365 days), case-insensitive — the same
// relative-expiry shorthand the teacher's `safe x509 renew --ttl` flag
// accepts.
func Duration(spec string) (time.Duration, error) {
	if spec == "" {
		return 0, fmt.Errorf("unrecognized time spec ''")
	}
	unit := spec[len(spec)-1:]
	n, err := strconv.ParseInt(spec[:len(spec)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unrecognized time spec '%s'", spec)
	}

	switch strings.ToLower(unit) {
	case "h":
		return time.Duration(n) * time.Hour, nil
	case "d":
		return time.Duration(n) * 24 * time.Hour, nil
	case "m":
		return time.Duration(n) * 30 * 24 * time.Hour, nil
	case "y":
		return time.Duration(n) * 365 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unrecognized time spec '%s'", spec)
	}
}

// Uniq deduplicates items, preserving the order of first occurrence.
func Uniq(items []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
