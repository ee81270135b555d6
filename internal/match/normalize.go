package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds an identifier for fuzzy matching: lower case, with
// separators removed, so FirstName, first_name and first-name all become
// firstname. Dots count as separators to compare registered function names.
func NormalizeIdent(s string) string {
	var sb strings.Builder

	sb.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		sb.WriteRune(unicode.ToLower(r))
	}

	return sb.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == ' '
}
