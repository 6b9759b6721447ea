// SPDX-License-Identifier: MIT

package catalog

import (
	"strings"
	"unicode"
)

// Slugify converts an entry name into a URL-safe, human-readable slug.
// Example: "Chain of Responsibility" → "chain-of-responsibility".
func Slugify(name string) string {
	s := strings.ToLower(name)

	var result strings.Builder
	lastWasDash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
			lastWasDash = false
		} else if !lastWasDash {
			result.WriteRune('-')
			lastWasDash = true
		}
	}

	slug := strings.Trim(result.String(), "-")
	if len(slug) > 50 {
		slug = strings.TrimRight(slug[:50], "-")
	}
	return slug
}
