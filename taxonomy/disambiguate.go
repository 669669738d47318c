package taxonomy

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Disambiguator rewrites duplicate display names so each conflicting
// term is qualified by its nearest distinguishing ancestor. It runs
// once, after every term exists, in two phases: phase one marks
// terms and writes placeholder names using raw parent source ids,
// phase two substitutes the ids with the parents' finalized names in
// ascending resolution-level order. The phases must stay separate:
// a parent's own placeholder has to be resolved before it is
// substituted into a child's name.
type Disambiguator struct {
	store    *Store
	maxLevel int
	metrics  *Metrics
	logger   *slog.Logger
}

// NewDisambiguator creates a disambiguator over a completed store.
// maxLevel is the highest administrative level that was ingested.
func NewDisambiguator(store *Store, maxLevel int, metrics *Metrics, logger *slog.Logger) *Disambiguator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Disambiguator{store: store, maxLevel: maxLevel, metrics: metrics, logger: logger}
}

// rename records a phase-one placeholder rename for phase two.
type rename struct {
	term        *Term
	parentID    string
	parentLevel int
}

// Run performs the full disambiguation pass.
func (d *Disambiguator) Run() {
	var renames []rename

	for _, name := range d.store.CollisionNames() {
		renames = append(renames, d.markAndRename(name)...)
	}

	d.resolvePlaceholders(renames)
}

// markAndRename handles one duplicated name: the top-skip heuristic,
// then per-parent resolution with raw-id placeholders.
func (d *Disambiguator) markAndRename(name string) []rename {
	group := d.store.CollisionGroup(name)
	d.metrics.Collision()

	resolved := make(map[*Term]bool, len(group))

	// Top-skip: with exactly two duplicates, a sole occupant of the
	// minimum level keeps its plain name and the deeper duplicate is
	// qualified against it. This avoids doubly-nested qualification
	// in the common two-way region/city collision.
	if len(group) == 2 {
		minLevel := group[0].Level
		if group[1].Level < minLevel {
			minLevel = group[1].Level
		}
		var atMin []*Term
		for _, t := range group {
			if t.Level == minLevel {
				atMin = append(atMin, t)
			}
		}
		if len(atMin) == 1 {
			resolved[atMin[0]] = true
			d.metrics.CollisionResolved()
			d.logger.Debug("top term keeps plain name", "name", name, "term", atMin[0].Accession)
		}
	}

	var renames []rename
	for level := 0; level < d.maxLevel; level++ {
		for _, parentID := range d.store.ParentIDsAt(name, level) {
			children := d.store.ParentGroup(name, level, parentID)

			var unresolvedChildren []*Term
			for _, t := range children {
				if !resolved[t] {
					unresolvedChildren = append(unresolvedChildren, t)
				}
			}
			if len(unresolvedChildren) == 0 {
				continue
			}

			minLevel := unresolvedChildren[0].Level
			for _, t := range unresolvedChildren[1:] {
				if t.Level < minLevel {
					minLevel = t.Level
				}
			}
			var candidates []*Term
			for _, t := range unresolvedChildren {
				if t.Level == minLevel {
					candidates = append(candidates, t)
				}
			}
			if len(candidates) != 1 {
				// A tie cannot be fixed with one parenthetical;
				// a deeper ancestor level may still split it.
				continue
			}

			t := candidates[0]
			t.Name = fmt.Sprintf("%s (%s)", name, parentID)
			t.AddSynonym(name, CuratorProvenance)
			resolved[t] = true
			renames = append(renames, rename{term: t, parentID: parentID, parentLevel: level})
			d.metrics.CollisionResolved()
		}
	}

	for _, t := range group {
		if !resolved[t] {
			d.metrics.CollisionUnresolved()
			d.logger.Warn("name collision left unresolved",
				"name", name, "term", t.Accession, "level", t.Level)
		}
	}

	return renames
}

// resolvePlaceholders is phase two: raw parent ids inside placeholder
// names are replaced with the parents' finalized names. Processing in
// ascending resolution level guarantees a parent renamed at a
// shallower level is finalized before being substituted into a
// deeper child.
func (d *Disambiguator) resolvePlaceholders(renames []rename) {
	sort.SliceStable(renames, func(i, j int) bool {
		return renames[i].parentLevel < renames[j].parentLevel
	})

	for _, r := range renames {
		parent, ok := d.store.BySourceID(r.parentLevel, r.parentID)
		if !ok {
			// Groups are built from the recorded ancestor chain, so
			// the parent must exist; guard anyway.
			d.logger.Warn("placeholder parent missing", "term", r.term.Accession, "parent_id", r.parentID)
			continue
		}
		if strings.Contains(parent.Name, "(") {
			// The parent was itself disambiguated; substituting it
			// produces nested parentheses. Flagged for curation
			// rather than rewritten.
			d.logger.Warn("nested parenthetical qualifier",
				"term", r.term.Accession, "parent", parent.Name)
		}
		r.term.Name = strings.Replace(r.term.Name, "("+r.parentID+")", "("+parent.Name+")", 1)
	}
}
