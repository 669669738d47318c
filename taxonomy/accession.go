package taxonomy

import "fmt"

// DefaultAccessionPrefix is used when no prefix is configured.
const DefaultAccessionPrefix = "GADM"

// Assigner issues globally unique, monotonically increasing
// accessions of the form "<prefix>:<7-digit zero-padded number>".
// Accessions are never reused and have no gaps; exactly one is
// issued per created term.
type Assigner struct {
	prefix string
	next   int
}

// NewAssigner creates an assigner with the given prefix. An empty
// prefix falls back to DefaultAccessionPrefix.
func NewAssigner(prefix string) *Assigner {
	if prefix == "" {
		prefix = DefaultAccessionPrefix
	}
	return &Assigner{prefix: prefix, next: 1}
}

// Next issues the next accession.
func (a *Assigner) Next() string {
	acc := fmt.Sprintf("%s:%07d", a.prefix, a.next)
	a.next++
	return acc
}

// Issued returns how many accessions have been issued so far.
func (a *Assigner) Issued() int {
	return a.next - 1
}
