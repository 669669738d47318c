// Package export serializes a finished taxonomy store as an OBO 1.2
// ontology document.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bobular/GADM-to-OBO/taxonomy"
)

// Options controls OBO document metadata.
type Options struct {
	// Ontology is the value of the ontology and default-namespace
	// header tags.
	Ontology string

	// Timestamp enables the date header tag. Off by default so two
	// runs over identical input produce byte-identical output.
	Timestamp bool

	// now is injectable for tests; nil uses time.Now.
	now func() time.Time
}

// OBOWriter accumulates an OBO document.
type OBOWriter struct {
	opts Options
	sb   strings.Builder
}

// NewOBOWriter creates a writer with the given options.
func NewOBOWriter(opts Options) *OBOWriter {
	if opts.Ontology == "" {
		opts.Ontology = "gadm"
	}
	if opts.now == nil {
		opts.now = time.Now
	}
	return &OBOWriter{opts: opts}
}

// WriteHeader writes the document header tags.
func (w *OBOWriter) WriteHeader() {
	w.sb.WriteString("format-version: 1.2\n")
	if w.opts.Timestamp {
		w.sb.WriteString(fmt.Sprintf("date: %s\n", w.opts.now().Format("02:01:2006 15:04")))
	}
	w.sb.WriteString(fmt.Sprintf("default-namespace: %s\n", w.opts.Ontology))
	w.sb.WriteString(fmt.Sprintf("ontology: %s\n", w.opts.Ontology))
}

// WriteTerm writes one [Term] stanza: id, name, definition, synonyms
// in append order, then is_a edges in attachment order.
func (w *OBOWriter) WriteTerm(t *taxonomy.Term) {
	w.sb.WriteString("\n[Term]\n")
	w.sb.WriteString(fmt.Sprintf("id: %s\n", t.Accession))
	w.sb.WriteString(fmt.Sprintf("name: %s\n", escapeTag(t.Name)))
	if t.SourceID != "" {
		w.sb.WriteString(fmt.Sprintf("xref: %s\n", escapeTag(t.SourceID)))
	}
	if t.Definition != nil {
		w.sb.WriteString(fmt.Sprintf("def: \"%s\" [%s]\n", escapeQuoted(t.Definition.Text), t.Definition.Provenance))
	}
	for _, syn := range t.Synonyms {
		w.sb.WriteString(fmt.Sprintf("synonym: \"%s\" %s [%s]\n", escapeQuoted(syn.Text), syn.Scope, syn.Provenance))
	}
	for _, parent := range t.Parents {
		w.sb.WriteString(fmt.Sprintf("is_a: %s ! %s\n", parent.Accession, escapeTag(parent.Name)))
	}
}

// String returns the accumulated document.
func (w *OBOWriter) String() string {
	return w.sb.String()
}

// Write serializes the whole store to out, terms in accession order.
func Write(out io.Writer, store *taxonomy.Store, opts Options) error {
	w := NewOBOWriter(opts)
	w.WriteHeader()
	for _, t := range store.Terms() {
		w.WriteTerm(t)
	}
	_, err := io.WriteString(out, w.String())
	return err
}

// escapeTag escapes characters significant in unquoted OBO tag
// values.
func escapeTag(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		"\n", "\\n",
		"!", "\\!",
		"{", "\\{",
	)
	return r.Replace(s)
}

// escapeQuoted escapes characters inside quoted OBO strings.
func escapeQuoted(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
