// Package continent loads the externally maintained country→continent
// hierarchy and exposes name-keyed lookup over it.
package continent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRootName is the designated global root when the source
// document and the configuration name none.
const DefaultRootName = "Earth"

// Node is a single named node of the continent hierarchy.
type Node struct {
	Name    string
	parents []*Node
}

// document is the YAML shape of a continents source file.
type document struct {
	Root  string `yaml:"root"`
	Nodes []struct {
		Name    string   `yaml:"name"`
		Parents []string `yaml:"parents"`
	} `yaml:"nodes"`
}

// Ontology is the loaded continent hierarchy: a DAG of named nodes
// with a one-time name index and a designated root. It is read-only
// after Load.
type Ontology struct {
	byName map[string]*Node
	root   *Node
}

// Load reads and indexes a continents source file. The file must
// exist and contain at least one node; anything else aborts the run
// before any record processing starts. rootName overrides the
// document's own root designation when non-empty.
func Load(path, rootName string) (*Ontology, error) {
	if path == "" {
		return nil, fmt.Errorf("continents source is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read continents source: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse continents source %s: %w", path, err)
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("continents source %s contains no nodes", path)
	}

	o := &Ontology{byName: make(map[string]*Node, len(doc.Nodes))}

	// First pass: create nodes so parent references can point anywhere
	// in the document.
	for _, n := range doc.Nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("continents source %s: node with empty name", path)
		}
		if _, dup := o.byName[n.Name]; dup {
			return nil, fmt.Errorf("continents source %s: duplicate node %q", path, n.Name)
		}
		o.byName[n.Name] = &Node{Name: n.Name}
	}

	// Second pass: wire parent edges in declaration order.
	for _, n := range doc.Nodes {
		node := o.byName[n.Name]
		for _, pname := range n.Parents {
			parent, ok := o.byName[pname]
			if !ok {
				return nil, fmt.Errorf("continents source %s: node %q references unknown parent %q", path, n.Name, pname)
			}
			node.parents = append(node.parents, parent)
		}
	}

	root := rootName
	if root == "" {
		root = doc.Root
	}
	if root == "" {
		root = DefaultRootName
	}
	rootNode, ok := o.byName[root]
	if !ok {
		// The root may be absent from the document when every country
		// resolves through explicit chains; create it so unmatched
		// countries still have somewhere to attach.
		rootNode = &Node{Name: root}
		o.byName[root] = rootNode
	}
	o.root = rootNode

	return o, nil
}

// NodeByName looks a node up by exact name.
func (o *Ontology) NodeByName(name string) (*Node, bool) {
	n, ok := o.byName[name]
	return n, ok
}

// Parents returns a node's parents in declaration order.
func (o *Ontology) Parents(n *Node) []*Node {
	return n.parents
}

// Root returns the designated global root node.
func (o *Ontology) Root() *Node {
	return o.root
}

// Len returns the number of nodes in the ontology.
func (o *Ontology) Len() int {
	return len(o.byName)
}
