package store

import "strings"

// EscapeSegment backslash-escapes colons, the one character with meaning
// in the "P:K" path:key notation the random/uuid plan kinds rely on.
func EscapeSegment(s string) string {
	if !strings.ContainsRune(s, ':') {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r == ':' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EncodePath joins path and key (if any) into "path" or "path:key",
// escaping any literal colons already present in either segment.
func EncodePath(path, key string) string {
	if key == "" {
		return EscapeSegment(path)
	}
	return EscapeSegment(path) + ":" + EscapeSegment(key)
}

// ParsePath splits "path" or "path:key" into its two components, honoring
// backslash-escaped colons within either segment. An unescaped colon not
// preceded by a backslash is the split point; at most one split point is
// recognized (a second unescaped colon is treated as part of the key).
func ParsePath(s string) (path, key string) {
	var pathBuf, keyBuf strings.Builder
	target := &pathBuf
	splitDone := false
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) && runes[i+1] == ':' {
			target.WriteByte(':')
			i++
			continue
		}
		if r == ':' && !splitDone {
			target = &keyBuf
			splitDone = true
			continue
		}
		target.WriteRune(r)
	}
	return pathBuf.String(), keyBuf.String()
}

// HasKey reports whether s encodes a "path:key" pair rather than a bare path.
func HasKey(s string) bool {
	_, k := ParsePath(s)
	return k != ""
}

// Canonicalize trims and collapses slashes in a store path the way the
// teacher's vault.Canonicalize normalizes Vault mount-relative paths.
func Canonicalize(p string) string {
	segments := strings.Split(p, "/")
	kept := segments[:0]
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "/")
}
