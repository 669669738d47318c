package taxonomy

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bobular/GADM-to-OBO/gadm"
)

// ErrMissingParent is returned when a record's parent id does not
// resolve to an already-created term. Levels are ingested ascending,
// so this can only mean the source levels are inconsistent; the run
// aborts.
var ErrMissingParent = errors.New("parent term does not exist")

// CountryDefinition is the definition text for level 0 terms.
const CountryDefinition = "Country"

// defaultSubtype stands in when a record carries no ENGTYPE label.
const defaultSubtype = "Administrative area"

// Builder turns administrative records into terms, wiring is_a edges
// to same-source parents and delegating countries to the continent
// merger.
type Builder struct {
	store   *Store
	merger  *Merger
	metrics *Metrics
	logger  *slog.Logger
}

// NewBuilder creates a builder over the given store and merger.
func NewBuilder(store *Store, merger *Merger, metrics *Metrics, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{store: store, merger: merger, metrics: metrics, logger: logger}
}

// Build ingests records level by level, ascending. levels is indexed
// by level; every parent lookup therefore resolves against terms
// created in an earlier iteration.
func (b *Builder) Build(levels [][]gadm.Record) error {
	for level, records := range levels {
		for _, rec := range records {
			if err := b.addRecord(level, rec); err != nil {
				return err
			}
		}
		b.logger.Info("level ingested", "level", level, "records", len(records))
	}
	return nil
}

func (b *Builder) addRecord(level int, rec gadm.Record) error {
	name := gadm.CleanName(rec.Name)
	if name == "" {
		name = fmt.Sprintf("Unnamed (%s)", rec.ID)
	}

	t := b.store.Create(rec.ID, name, level)
	b.metrics.TermCreated(OriginGADM)

	for _, syn := range gadm.SplitSynonyms(rec.Synonyms) {
		t.AddSynonym(syn, CuratorProvenance)
	}

	if level == 0 {
		t.Definition = &Definition{Text: CountryDefinition, Provenance: CuratorProvenance}
		if err := b.merger.Attach(t, name); err != nil {
			return err
		}
	} else {
		parent, ok := b.store.BySourceID(level-1, rec.ParentID)
		if !ok {
			return fmt.Errorf("%w: level %d record %q references %q", ErrMissingParent, level, rec.ID, rec.ParentID)
		}
		t.AddParent(parent)

		subtype := rec.Subtype
		if subtype == "" {
			subtype = defaultSubtype
		}
		t.Definition = &Definition{
			Text:       fmt.Sprintf("%s in %s", subtype, parent.Name),
			Provenance: CuratorProvenance,
		}
	}

	b.store.RecordCollisionGroups(t)
	return nil
}
