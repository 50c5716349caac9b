// Package slug derives canonical URL-safe keys from display names.
package slug

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	apperrors "github.com/nomadicTree/frayerstore/internal/pkg/errors"
)

// Slugify lowercases name, folds accented Latin letters to ASCII and joins
// the remaining [a-z0-9] runs with single hyphens. Letters with no ASCII
// decomposition are dropped ("Δelta" -> "elta"), so a name made only of such
// letters yields "". Blank names fail with ErrInvalidArgument.
func Slugify(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("slugify: empty name: %w", apperrors.ErrInvalidArgument)
	}

	// Transformers carry state, so a fresh chain per call.
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(fold, name)
	if err != nil {
		return "", fmt.Errorf("slugify %q: %w", name, err)
	}

	var b strings.Builder
	b.Grow(len(folded))
	gap := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if gap && b.Len() > 0 {
				b.WriteByte('-')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String(), nil
}

// Valid reports whether s already has the canonical slug shape.
func Valid(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '-' {
			return false
		}
	}
	return true
}
