package taxonomy

import (
	"log/slog"

	"github.com/bobular/GADM-to-OBO/continent"
)

// Merger copies continent-ontology ancestor chains into the store so
// every country term chains up to the global root. Copied nodes are
// shared by name: the chain walk is idempotent across countries.
type Merger struct {
	store    *Store
	ontology *continent.Ontology
	metrics  *Metrics
	logger   *slog.Logger
}

// NewMerger creates a merger against the given continent ontology.
func NewMerger(store *Store, ontology *continent.Ontology, metrics *Metrics, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{store: store, ontology: ontology, metrics: metrics, logger: logger}
}

// Attach links a freshly created country term into the root
// hierarchy. When the country's clean name matches an ontology node,
// its ancestor chain is copied (shared by name) and the country is
// linked to its first-level ancestors. Otherwise the country attaches
// directly to the root term.
func (m *Merger) Attach(country *Term, cleanName string) error {
	node, ok := m.ontology.NodeByName(cleanName)
	if !ok || len(m.ontology.Parents(node)) == 0 {
		if !ok {
			m.logger.Debug("country not in continent ontology, attaching to root", "country", cleanName)
		} else {
			m.logger.Debug("country node has no ancestors, attaching to root", "country", cleanName)
		}
		m.attachToRoot(country)
		return nil
	}

	// Path-based cycle guard: the source data is expected to be
	// acyclic, but the merge must not assume so.
	path := map[string]bool{cleanName: true}
	m.copyAncestors(country, node, path)
	return nil
}

func (m *Merger) attachToRoot(country *Term) {
	root, created := m.store.FindOrCreateByName(m.ontology.Root().Name)
	if created {
		m.metrics.TermCreated(OriginContinent)
	}
	country.AddParent(root)
}

// copyAncestors walks node's parent chain, finding or creating the
// corresponding term for each ancestor and linking child to it. A
// child already linked to an ancestor term means that subtree was
// copied by an earlier walk, so recursion stops there.
func (m *Merger) copyAncestors(child *Term, node *continent.Node, path map[string]bool) {
	for _, parent := range m.ontology.Parents(node) {
		if path[parent.Name] {
			m.logger.Warn("cycle in continent ontology", "node", node.Name, "parent", parent.Name)
			continue
		}

		pt, created := m.store.FindOrCreateByName(parent.Name)
		if created {
			m.metrics.TermCreated(OriginContinent)
		}
		if child.HasParent(pt) {
			continue
		}
		child.AddParent(pt)

		path[parent.Name] = true
		m.copyAncestors(pt, parent, path)
		delete(path, parent.Name)
	}
}
