// Package content resolves which hint or explanation text to show for a
// class of SQL mistake. Selection is fully deterministic: the same
// canonical subtype, ladder level, and seed always produce byte-identical
// output against an unchanged catalog, which is what makes offline replay
// and golden-trace testing possible.
package content

import "strings"

// DefaultSubtype is the dataset-guaranteed fallback. The seed catalog
// always carries rows for it.
const DefaultSubtype = "incomplete query"

// aliases maps common variant spellings onto the canonical vocabulary.
// Keys are already trimmed/lowered/whitespace-collapsed.
var aliases = map[string]string{
	"unknown column":        "undefined column",
	"column not found":      "undefined column",
	"no such column":        "undefined column",
	"unknown table":         "undefined table",
	"table not found":       "undefined table",
	"no such table":         "undefined table",
	"group by error":        "aggregate misuse",
	"not in group by":       "aggregate misuse",
	"missing group by":      "aggregate misuse",
	"cartesian product":     "missing join condition",
	"cross join":            "missing join condition",
	"parse error":           "syntax error",
	"datatype mismatch":     "type mismatch",
	"incompatible types":    "type mismatch",
	"ambiguous column name": "ambiguous column",
	"empty query":           "incomplete query",
	"truncated query":       "incomplete query",
}

// Canonicalize normalizes an error subtype into the catalog vocabulary.
// It trims, lower-cases, collapses inner whitespace, applies the alias
// table, and substitutes DefaultSubtype when the result is not a known
// subtype. It never fails and is idempotent, including on "".
func Canonicalize(subtype string) string {
	s := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(subtype))), " ")
	if canon, ok := aliases[s]; ok {
		s = canon
	}
	if !knownSubtypes[s] {
		return DefaultSubtype
	}
	return s
}
