package continent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "continents.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

const sampleDoc = `root: Earth
nodes:
  - name: Earth
  - name: Africa
    parents: [Earth]
  - name: Northern Africa
    parents: [Africa]
  - name: Algeria
    parents: [Northern Africa]
`

func TestLoad(t *testing.T) {
	ont, err := Load(writeDoc(t, sampleDoc), "")
	require.NoError(t, err)

	assert.Equal(t, 4, ont.Len())
	assert.Equal(t, "Earth", ont.Root().Name)

	algeria, ok := ont.NodeByName("Algeria")
	require.True(t, ok)
	parents := ont.Parents(algeria)
	require.Len(t, parents, 1)
	assert.Equal(t, "Northern Africa", parents[0].Name)

	_, ok = ont.NodeByName("Atlantis")
	assert.False(t, ok)
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)
}

func TestLoad_EmptyPathIsFatal(t *testing.T) {
	_, err := Load("", "")
	require.Error(t, err)
}

func TestLoad_EmptyDocumentIsFatal(t *testing.T) {
	_, err := Load(writeDoc(t, ""), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no nodes")
}

func TestLoad_UnknownParentIsFatal(t *testing.T) {
	_, err := Load(writeDoc(t, `nodes:
  - name: Africa
    parents: [Pangaea]
`), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parent")
}

func TestLoad_DuplicateNodeIsFatal(t *testing.T) {
	_, err := Load(writeDoc(t, `nodes:
  - name: Africa
  - name: Africa
`), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate node")
}

func TestLoad_RootOverride(t *testing.T) {
	ont, err := Load(writeDoc(t, sampleDoc), "Gaia")
	require.NoError(t, err)

	// The configured root wins and is created when the document
	// lacks it.
	assert.Equal(t, "Gaia", ont.Root().Name)
	_, ok := ont.NodeByName("Gaia")
	assert.True(t, ok)
}

func TestLoad_DefaultRootWhenUndesignated(t *testing.T) {
	ont, err := Load(writeDoc(t, `nodes:
  - name: Africa
`), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultRootName, ont.Root().Name)
}
