package match

import (
	"sort"
)

// minSuggestionScore is the lowest normalized similarity still worth showing.
const minSuggestionScore = 0.5

// Suggest returns up to limit candidates that look like name, best first.
// Candidates are compared on their normalized identifiers, so "first_name"
// and "FirstName" are an exact match.
func Suggest(name string, candidates []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	var ranked []scored

	seen := make(map[string]struct{}, len(candidates))

	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}

		seen[c] = struct{}{}

		score := NormalizedLevenshteinScore(name, c)
		if score >= minSuggestionScore {
			ranked = append(ranked, scored{name: c, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}

		return ranked[i].name < ranked[j].name
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}

	return out
}

// SameIdent reports whether a and b normalize to the same identifier.
func SameIdent(a, b string) bool {
	return NormalizeIdent(a) == NormalizeIdent(b)
}
