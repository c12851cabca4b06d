package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/sqlcoach/internal/policy"
)

// Selection is a resolved piece of guidance content.
type Selection struct {
	Subtype       string // canonical subtype actually used
	RowID         string
	Level         int // clamped ladder level the text was built for
	Text          string
	PolicyVersion string
	Escalate      bool // requested level exceeded the ladder
}

// Request is the instructor-override union for subtype selection:
// either let the pipeline derive the subtype from the error history, or
// force a specific one.
type Request struct {
	overridden bool
	subtype    string
}

// Auto derives the subtype from the learner's error history.
func Auto() Request {
	return Request{}
}

// Override forces the given subtype, which is still canonicalized.
func Override(subtype string) Request {
	return Request{overridden: true, subtype: subtype}
}

// Resolve returns the subtype to use given the fallback derived from
// history.
func (r Request) Resolve(derived string) string {
	if r.overridden {
		return r.subtype
	}
	return derived
}

// Overridden reports whether this request forces a subtype.
func (r Request) Overridden() bool {
	return r.overridden
}

// ladderCeiling is the deepest ladder level with distinct text.
const ladderCeiling = 3

// placeholderRow is synthesized when even the default subtype has no
// rows, so Select can always return something well-known.
var placeholderRow = Row{
	ID:              "placeholder-000",
	Subtype:         DefaultSubtype,
	IntendedOutcome: "Build the query up step by step, checking each clause as you add it.",
	Feedback:        "No tailored guidance is available for this mistake yet; re-read the problem statement and simplify your query.",
}

// genericSentences is the fixed level-1 text per canonical subtype.
var genericSentences = map[string]string{
	"syntax error":           "Something in the statement's structure stops it from parsing; look at the clause the error message points to.",
	"undefined column":       "One of the column names in your query does not match the schema.",
	"undefined table":        "One of the table names in your query does not exist in this schema.",
	"ambiguous column":       "A column name in your query could come from more than one table.",
	"missing join condition": "Your join is combining rows without a condition relating the two tables.",
	"aggregate misuse":       "An aggregate function is being mixed with raw columns in a way the engine cannot group.",
	"type mismatch":          "A comparison in your query puts two different types side by side.",
	"wrong result shape":     "Your query runs, but its columns do not match what the problem asks for.",
	"incomplete query":       "Your statement stops before it says enough for the engine to run it.",
}

// StableHash is a polynomial rolling hash over the seed string. It is
// part of the audit contract: changing it changes every historical
// selection, so it is pinned here rather than borrowed from a library.
func StableHash(s string) uint64 {
	var h uint64
	for i := 0; i < len(s); i++ {
		h = h*31 + uint64(s[i])
	}
	return h
}

// identifierPattern matches quoted, back-quoted, and bracketed
// identifiers in catalog snippets.
var identifierPattern = regexp.MustCompile("`[^`]*`|\"[^\"]*\"|\\[[^\\]]*\\]")

// redactIdentifiers replaces literal identifiers in a snippet so a hint
// never leaks its example's table or column names into the learner's
// problem.
func redactIdentifiers(s string) string {
	return identifierPattern.ReplaceAllString(s, "<identifier>")
}

// Select deterministically resolves guidance content for a requested
// subtype, ladder level, and seed. Identical arguments against an
// unchanged catalog yield byte-identical output. The returned Level is
// clamped to 1–3; Escalate is true iff the requested level exceeded 3.
func (c *Catalog) Select(requestedSubtype string, level int, seed string) Selection {
	canon := Canonicalize(requestedSubtype)

	rows := c.rows[canon]
	usedSubtype := canon
	if len(rows) == 0 {
		rows = c.rows[DefaultSubtype]
		usedSubtype = DefaultSubtype
	}
	if len(rows) == 0 {
		rows = []Row{placeholderRow}
	}

	row := rows[StableHash(seed)%uint64(len(rows))]

	clamped := level
	if clamped < 1 {
		clamped = 1
	}
	if clamped > ladderCeiling {
		clamped = ladderCeiling
	}

	return Selection{
		Subtype:       usedSubtype,
		RowID:         row.ID,
		Level:         clamped,
		Text:          ladderText(usedSubtype, clamped, row),
		PolicyVersion: policy.Version,
		Escalate:      level > ladderCeiling,
	}
}

// ladderText builds the progressively deeper hint text for a level.
func ladderText(subtype string, level int, row Row) string {
	generic, ok := genericSentences[subtype]
	if !ok {
		generic = genericSentences[DefaultSubtype]
	}

	var b strings.Builder
	b.WriteString(generic)
	if level >= 2 {
		b.WriteString(fmt.Sprintf(" Aim for: %s", redactIdentifiers(row.IntendedOutcome)))
	}
	if level >= 3 {
		b.WriteString(fmt.Sprintf(" In detail: %s", redactIdentifiers(row.Feedback)))
	}
	return b.String()
}
