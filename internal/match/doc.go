// Package match provides name normalization, Levenshtein distance calculation,
// suggestion ranking and type compatibility scoring.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks names that look like a misspelled one
//   - ScoreTypeCompatibility: scores whether a value fits a function parameter
package match
