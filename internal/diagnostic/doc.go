// Package diagnostic provides structured errors, warnings and notes for
// rule file validation.
//
// Every diagnostic carries a stable code (e.g. "unknown_func"), the rule it
// concerns and the output path of that rule, so a whole rule file can be
// checked in one pass and reported at once.
package diagnostic
