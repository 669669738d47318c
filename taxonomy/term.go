// Package taxonomy builds the administrative-boundary taxonomy graph:
// term creation across levels, continent-hierarchy merging, and
// duplicate-name disambiguation.
package taxonomy

// ScopeExact is the only synonym scope this system produces.
const ScopeExact = "EXACT"

// CuratorProvenance is the provenance attached to curated synonyms
// and definitions derived from the source records.
const CuratorProvenance = "GADM:curator"

// ContinentLevel marks terms copied from the continent ontology,
// which have no administrative level of their own.
const ContinentLevel = -1

// Synonym is an alternate name for a term.
type Synonym struct {
	Text       string
	Scope      string
	Provenance string
}

// Definition is a term's textual definition with its provenance.
type Definition struct {
	Text       string
	Provenance string
}

// Term is a single node of the taxonomy graph.
type Term struct {
	// Accession is the unique identifier assigned at creation.
	// It never changes.
	Accession string

	// SourceID is the external key from the administrative record,
	// or empty for terms copied from the continent ontology.
	SourceID string

	// Level is the administrative level the term was created at,
	// or ContinentLevel for continent-derived terms.
	Level int

	// Name is the display name. The disambiguator may rewrite it
	// exactly once.
	Name string

	// Synonyms are appended at creation and during disambiguation,
	// never removed.
	Synonyms []Synonym

	// Definition is set at creation and not mutated afterwards.
	Definition *Definition

	// Parents are the outgoing is_a edges, in the order they were
	// attached. A country links into the continent hierarchy;
	// deeper terms link to their administrative parent.
	Parents []*Term
}

// AddSynonym appends an EXACT synonym with the given provenance.
func (t *Term) AddSynonym(text, provenance string) {
	t.Synonyms = append(t.Synonyms, Synonym{Text: text, Scope: ScopeExact, Provenance: provenance})
}

// AddParent attaches an is_a edge to parent. Attaching the same
// parent twice is a no-op, so repeated continent-chain walks cannot
// duplicate edges.
func (t *Term) AddParent(parent *Term) {
	for _, p := range t.Parents {
		if p == parent {
			return
		}
	}
	t.Parents = append(t.Parents, parent)
}

// HasParent reports whether t already links to parent.
func (t *Term) HasParent(parent *Term) bool {
	for _, p := range t.Parents {
		if p == parent {
			return true
		}
	}
	return false
}
