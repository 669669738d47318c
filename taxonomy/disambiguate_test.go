package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobular/GADM-to-OBO/gadm"
)

func buildFixture(t *testing.T, levels [][]gadm.Record) *Store {
	t.Helper()
	b, s := newTestBuilder(t)
	require.NoError(t, b.Build(levels))
	return s
}

func synonymTexts(term *Term) []string {
	texts := make([]string, 0, len(term.Synonyms))
	for _, syn := range term.Synonyms {
		texts = append(texts, syn.Text)
	}
	return texts
}

func TestDisambiguator_TwoWayCollision(t *testing.T) {
	s := buildFixture(t, [][]gadm.Record{
		{{Level: 0, ID: "AVA", Name: "Avalon"}},
		{
			{Level: 1, ID: "AVA.1_1", ParentID: "AVA", Name: "Springfield"},
			{Level: 1, ID: "AVA.2_1", ParentID: "AVA", Name: "Borsetshire"},
		},
		{{Level: 2, ID: "AVA.2.1_1", ParentID: "AVA.2_1", Name: "Springfield"}},
	})

	NewDisambiguator(s, 2, nil, nil).Run()

	shallow, _ := s.BySourceID(1, "AVA.1_1")
	deep, _ := s.BySourceID(2, "AVA.2.1_1")

	// The sole occupant of the minimum level keeps its plain name;
	// the deeper duplicate is qualified by its nearest distinguishing
	// ancestor's resolved name.
	assert.Equal(t, "Springfield", shallow.Name)
	assert.Empty(t, shallow.Synonyms)
	assert.Equal(t, "Springfield (Avalon)", deep.Name)
	assert.Contains(t, synonymTexts(deep), "Springfield")
}

func TestDisambiguator_ThreeWayCollision(t *testing.T) {
	s := buildFixture(t, [][]gadm.Record{
		{
			{Level: 0, ID: "P1", Name: "Pondside"},
			{Level: 0, ID: "P2", Name: "Quarry"},
			{Level: 0, ID: "P3", Name: "Rushmore"},
		},
		{
			{Level: 1, ID: "P1.1_1", ParentID: "P1", Name: "Lincoln"},
			{Level: 1, ID: "P2.1_1", ParentID: "P2", Name: "Lincoln"},
			{Level: 1, ID: "P3.1_1", ParentID: "P3", Name: "Lincoln"},
		},
	})

	NewDisambiguator(s, 2, nil, nil).Run()

	want := map[string]string{
		"P1.1_1": "Lincoln (Pondside)",
		"P2.1_1": "Lincoln (Quarry)",
		"P3.1_1": "Lincoln (Rushmore)",
	}
	for id, wantName := range want {
		term, ok := s.BySourceID(1, id)
		require.True(t, ok)
		assert.Equal(t, wantName, term.Name)
		assert.Contains(t, synonymTexts(term), "Lincoln", "original name kept as synonym")
	}
}

func TestDisambiguator_TieStaysUnresolved(t *testing.T) {
	s := buildFixture(t, [][]gadm.Record{
		{{Level: 0, ID: "AVA", Name: "Avalon"}},
		{
			{Level: 1, ID: "AVA.1_1", ParentID: "AVA", Name: "Twinsburg"},
			{Level: 1, ID: "AVA.2_1", ParentID: "AVA", Name: "Twinsburg"},
		},
	})

	NewDisambiguator(s, 2, nil, nil).Run()

	// Same name, same level, same parent: no single parenthetical
	// can split them, so both keep their names. Best effort, not an
	// error.
	for _, id := range []string{"AVA.1_1", "AVA.2_1"} {
		term, _ := s.BySourceID(1, id)
		assert.Equal(t, "Twinsburg", term.Name)
		assert.Empty(t, term.Synonyms)
	}
}

func TestDisambiguator_PlaceholdersResolveParentsFirst(t *testing.T) {
	s := buildFixture(t, [][]gadm.Record{
		{
			{Level: 0, ID: "AAA", Name: "Arcadia"},
			{Level: 0, ID: "BBB", Name: "Boria"},
		},
		{
			{Level: 1, ID: "AAA.1_1", ParentID: "AAA", Name: "Springfield"},
			{Level: 1, ID: "AAA.2_1", ParentID: "AAA", Name: "Twintown"},
			{Level: 1, ID: "BBB.1_1", ParentID: "BBB", Name: "Springfield"},
		},
		{
			{Level: 2, ID: "AAA.1.1_1", ParentID: "AAA.1_1", Name: "Riverside"},
			{Level: 2, ID: "AAA.2.1_1", ParentID: "AAA.2_1", Name: "Riverside"},
		},
	})

	NewDisambiguator(s, 2, nil, nil).Run()

	sp1, _ := s.BySourceID(1, "AAA.1_1")
	sp2, _ := s.BySourceID(1, "BBB.1_1")
	assert.Equal(t, "Springfield (Arcadia)", sp1.Name)
	assert.Equal(t, "Springfield (Boria)", sp2.Name)

	// The Riversides are only distinguished at level 1. Their
	// qualifier parents were themselves renamed at level 0, and the
	// ascending-level pass substitutes the finalized names, nested
	// parentheses included.
	r1, _ := s.BySourceID(2, "AAA.1.1_1")
	r2, _ := s.BySourceID(2, "AAA.2.1_1")
	assert.Equal(t, "Riverside (Springfield (Arcadia))", r1.Name)
	assert.Equal(t, "Riverside (Twintown)", r2.Name)
}

func TestDisambiguator_Deterministic(t *testing.T) {
	levels := [][]gadm.Record{
		{
			{Level: 0, ID: "P1", Name: "Pondside"},
			{Level: 0, ID: "P2", Name: "Quarry"},
		},
		{
			{Level: 1, ID: "P1.1_1", ParentID: "P1", Name: "Lincoln"},
			{Level: 1, ID: "P2.1_1", ParentID: "P2", Name: "Lincoln"},
			{Level: 1, ID: "P1.2_1", ParentID: "P1", Name: "Springfield"},
			{Level: 1, ID: "P2.2_1", ParentID: "P2", Name: "Springfield"},
		},
	}

	snapshot := func() []string {
		s := buildFixture(t, levels)
		NewDisambiguator(s, 2, nil, nil).Run()
		var out []string
		for _, term := range s.Terms() {
			out = append(out, term.Accession+" "+term.Name)
		}
		return out
	}

	first := snapshot()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, snapshot(), "iteration order must not leak into results")
	}
}
