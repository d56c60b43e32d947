package content

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

func trimLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Fingerprint returns a stable content-addressed hash of text, used by the
// embedding cache as the text component of its cache key and by the
// registry to detect whether a content id's text changed since it was last
// embedded.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// SplitTags splits a comma-separated tag list and trims whitespace around
// each entry, dropping empties. Shared by the tag parser and any caller
// constructing a content record directly.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
