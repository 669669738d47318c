package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bobular/GADM-to-OBO/continent"
)

const testContinents = `root: Earth
nodes:
  - name: Earth
  - name: Africa
    parents: [Earth]
  - name: Northern Africa
    parents: [Africa]
  - name: Algeria
    parents: [Northern Africa]
  - name: Tunisia
    parents: [Northern Africa]
  - name: Europe
    parents: [Earth]
  - name: France
    parents: [Europe]
`

func loadOntology(t *testing.T, doc string) *continent.Ontology {
	t.Helper()
	path := filepath.Join(t.TempDir(), "continents.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	ont, err := continent.Load(path, "")
	require.NoError(t, err)
	return ont
}

// termByName finds the single term currently displaying name.
func termByName(t *testing.T, s *Store, name string) *Term {
	t.Helper()
	var found *Term
	for _, term := range s.Terms() {
		if term.Name == name {
			require.Nil(t, found, "more than one term named %q", name)
			found = term
		}
	}
	require.NotNil(t, found, "no term named %q", name)
	return found
}
