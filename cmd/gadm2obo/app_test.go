package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobular/GADM-to-OBO/config"
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
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func testConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "continents.yaml"), testContinents)
	writeFile(t, filepath.Join(dir, "world_adm0.csv"),
		"GID_0,NAME_0,VARNAME_0\nDZA,Algeria,Algérie\nFRA,France,\n")
	writeFile(t, filepath.Join(dir, "world_adm1.csv"),
		"GID_1,GID_0,NAME_1,ENGTYPE_1\nDZA.1_1,DZA,Adrar,Province\nFRA.1_1,FRA,Springfield,Région\n")
	writeFile(t, filepath.Join(dir, "world_adm2.csv"),
		"GID_2,GID_1,NAME_2,ENGTYPE_2\nFRA.1.1_1,FRA.1_1,Springfield,Commune\n")

	cfg := config.DefaultConfig()
	cfg.Ingest.ContinentsSource = filepath.Join(dir, "continents.yaml")
	cfg.Output.Path = filepath.Join(dir, "out.obo")
	return cfg, filepath.Join(dir, "world")
}

func TestApp_RunOnce(t *testing.T) {
	cfg, stem := testConfig(t)
	app := NewApp(cfg, nil)

	require.NoError(t, app.RunOnce(stem))

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "format-version: 1.2")
	assert.Contains(t, out, "name: Algeria")
	assert.Contains(t, out, "name: Northern Africa")
	assert.Contains(t, out, `def: "Country" [GADM:curator]`)
	assert.Contains(t, out, `def: "Province in Algeria" [GADM:curator]`)
	assert.Contains(t, out, `synonym: "Algérie" EXACT [GADM:curator]`)

	// The two Springfields collide; the shallower keeps its plain
	// name and the deeper is qualified by France.
	assert.Contains(t, out, "name: Springfield (France)")
	assert.Contains(t, out, `synonym: "Springfield" EXACT [GADM:curator]`)
}

func TestApp_RunOnce_Deterministic(t *testing.T) {
	cfg, stem := testConfig(t)

	require.NoError(t, NewApp(cfg, nil).RunOnce(stem))
	first, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)

	require.NoError(t, NewApp(cfg, nil).RunOnce(stem))
	second, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestApp_RunOnce_DisambiguationDisabled(t *testing.T) {
	cfg, stem := testConfig(t)
	off := false
	cfg.Taxonomy.Disambiguate = &off

	require.NoError(t, NewApp(cfg, nil).RunOnce(stem))

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	out := string(data)

	assert.NotContains(t, out, "Springfield (")
	assert.NotContains(t, out, `synonym: "Springfield"`)
}

func TestApp_RunOnce_MissingParentAbortsWithoutOutput(t *testing.T) {
	cfg, stem := testConfig(t)
	dir := filepath.Dir(cfg.Output.Path)
	writeFile(t, filepath.Join(dir, "world_adm1.csv"),
		"GID_1,GID_0,NAME_1\nXXX.1_1,XXX,Nowhere\n")

	err := NewApp(cfg, nil).RunOnce(stem)
	require.Error(t, err)

	_, statErr := os.Stat(cfg.Output.Path)
	assert.True(t, os.IsNotExist(statErr), "no partial output may be written")
}

func TestApp_RunOnce_MissingContinentsAborts(t *testing.T) {
	cfg, stem := testConfig(t)
	cfg.Ingest.ContinentsSource = filepath.Join(t.TempDir(), "nope.yaml")

	require.Error(t, NewApp(cfg, nil).RunOnce(stem))
}
