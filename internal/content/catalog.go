package content

import (
	"encoding/json"
	"fmt"
	"os"
)

// Vocabulary is the fixed set of canonical SQL-mistake subtypes. Catalog
// rows may only use these labels; Canonicalize maps everything else onto
// DefaultSubtype.
var Vocabulary = []string{
	"syntax error",
	"undefined column",
	"undefined table",
	"ambiguous column",
	"missing join condition",
	"aggregate misuse",
	"type mismatch",
	"wrong result shape",
	"incomplete query",
}

// knownSubtypes indexes Vocabulary for Canonicalize.
var knownSubtypes map[string]bool

func init() {
	knownSubtypes = make(map[string]bool, len(Vocabulary))
	for _, s := range Vocabulary {
		knownSubtypes[s] = true
	}
}

// Row is one content entry: the material a hint or explanation is built
// from. IDs are stable across catalog versions so selections can be
// audited long after the fact.
type Row struct {
	ID              string `json:"id"`
	Subtype         string `json:"subtype"`
	IntendedOutcome string `json:"intended_outcome"`
	Feedback        string `json:"feedback"`
}

// Catalog is the versioned, read-only content table, indexed by
// canonical subtype. Loaded once at startup; reloading is out of scope.
type Catalog struct {
	version string
	rows    map[string][]Row
}

// catalogFile is the on-disk JSON shape.
type catalogFile struct {
	Version string `json:"version"`
	Rows    []Row  `json:"rows"`
}

// NewCatalog builds a catalog from rows. Row order within a subtype is
// preserved as given; selection depends on it, so loaders must not
// shuffle.
func NewCatalog(version string, rows []Row) *Catalog {
	c := &Catalog{
		version: version,
		rows:    make(map[string][]Row),
	}
	for _, r := range rows {
		c.rows[r.Subtype] = append(c.rows[r.Subtype], r)
	}
	return c
}

// Seed returns the built-in catalog.
func Seed() *Catalog {
	return NewCatalog(seedVersion, seedRows)
}

// LoadCatalogFile reads and schema-validates a catalog JSON file. The
// schema pins subtypes to the Vocabulary, so a loaded catalog can widen
// the content but never the label set.
func LoadCatalogFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	if err := validateCatalog(raw); err != nil {
		return nil, fmt.Errorf("validate catalog %s: %w", path, err)
	}

	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	return NewCatalog(file.Version, file.Rows), nil
}

// Version returns the catalog's version tag.
func (c *Catalog) Version() string {
	return c.version
}

// RowsFor returns the rows for a canonical subtype, or nil.
func (c *Catalog) RowsFor(subtype string) []Row {
	return c.rows[subtype]
}

// Size returns the total number of rows.
func (c *Catalog) Size() int {
	n := 0
	for _, rs := range c.rows {
		n += len(rs)
	}
	return n
}
