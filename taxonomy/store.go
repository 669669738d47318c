package taxonomy

import (
	"sort"
)

// Store owns every term created during a run. It is the shared
// mutable graph state: the accession assigner, the creation-order
// term list, the per-level source-id index, the name index used by
// the continent merger, and the collision groups consumed by the
// disambiguator. The pipeline is single-threaded, so the store
// carries no locking.
type Store struct {
	assigner *Assigner

	// terms in creation order; accession order is identical.
	terms []*Term

	// byID indexes administrative terms by level and source id.
	byID map[int]map[string]*Term

	// byName indexes every term under its creation-time name.
	byName map[string][]*Term

	// dupes groups administrative terms by creation-time name for
	// collision detection. Continent-derived terms are not entered.
	dupes map[string][]*Term

	// parentGroups groups administrative terms by name, ancestor
	// level, and ancestor source id: name → level → parent id → terms.
	parentGroups map[string]map[int]map[string][]*Term
}

// NewStore creates an empty store whose assigner uses prefix.
func NewStore(prefix string) *Store {
	return &Store{
		assigner:     NewAssigner(prefix),
		byID:         make(map[int]map[string]*Term),
		byName:       make(map[string][]*Term),
		dupes:        make(map[string][]*Term),
		parentGroups: make(map[string]map[int]map[string][]*Term),
	}
}

// Create makes a new term, assigns its accession, and registers it
// in the source-id and name indices. sourceID may be empty for
// continent-derived terms (level ContinentLevel).
func (s *Store) Create(sourceID, name string, level int) *Term {
	t := &Term{
		Accession: s.assigner.Next(),
		SourceID:  sourceID,
		Level:     level,
		Name:      name,
	}
	s.terms = append(s.terms, t)
	if sourceID != "" {
		byLevel := s.byID[level]
		if byLevel == nil {
			byLevel = make(map[string]*Term)
			s.byID[level] = byLevel
		}
		byLevel[sourceID] = t
	}
	s.byName[name] = append(s.byName[name], t)
	return t
}

// BySourceID looks up an administrative term by level and source id.
func (s *Store) BySourceID(level int, sourceID string) (*Term, bool) {
	t, ok := s.byID[level][sourceID]
	return t, ok
}

// ByName returns every term created under name, in creation order.
// Renames applied by the disambiguator do not move terms between
// name buckets.
func (s *Store) ByName(name string) []*Term {
	return s.byName[name]
}

// FindOrCreateByName returns the first term created under name, or
// creates a fresh continent-level term when none exists. This is the
// merger's memo: ancestor chains from different countries that pass
// through a same-named node converge on one shared term. The second
// return reports whether a term was created.
func (s *Store) FindOrCreateByName(name string) (*Term, bool) {
	if existing := s.byName[name]; len(existing) > 0 {
		return existing[0], false
	}
	return s.Create("", name, ContinentLevel), true
}

// Terms returns all terms in creation order.
func (s *Store) Terms() []*Term {
	return s.terms
}

// Len returns the number of terms in the store.
func (s *Store) Len() int {
	return len(s.terms)
}

// RecordCollisionGroups registers an administrative term in the
// by-name collision group and, for every administrative ancestor
// level, in the by-name/level/parent group. Must be called after the
// term's administrative parent edge is attached.
func (s *Store) RecordCollisionGroups(t *Term) {
	s.dupes[t.Name] = append(s.dupes[t.Name], t)

	for anc := s.adminParent(t); anc != nil; anc = s.adminParent(anc) {
		byLevel := s.parentGroups[t.Name]
		if byLevel == nil {
			byLevel = make(map[int]map[string][]*Term)
			s.parentGroups[t.Name] = byLevel
		}
		byParent := byLevel[anc.Level]
		if byParent == nil {
			byParent = make(map[string][]*Term)
			byLevel[anc.Level] = byParent
		}
		byParent[anc.SourceID] = append(byParent[anc.SourceID], t)
	}
}

// adminParent returns the administrative parent of t: the parent one
// level up that carries a source id. Countries and continent-derived
// terms have none.
func (s *Store) adminParent(t *Term) *Term {
	if t.Level <= 0 {
		return nil
	}
	for _, p := range t.Parents {
		if p.Level == t.Level-1 && p.SourceID != "" {
			return p
		}
	}
	return nil
}

// CollisionNames returns the names shared by more than one
// administrative term, sorted so the disambiguation sweep is
// deterministic.
func (s *Store) CollisionNames() []string {
	names := make([]string, 0)
	for name, group := range s.dupes {
		if len(group) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// CollisionGroup returns the administrative terms created under
// name, in creation order.
func (s *Store) CollisionGroup(name string) []*Term {
	return s.dupes[name]
}

// ParentGroup returns the administrative terms created under name
// whose ancestor chain passes through the given ancestor level and
// source id.
func (s *Store) ParentGroup(name string, level int, parentID string) []*Term {
	return s.parentGroups[name][level][parentID]
}

// ParentIDsAt returns the distinct ancestor source ids recorded for
// name at the given level, sorted for deterministic iteration.
func (s *Store) ParentIDsAt(name string, level int) []string {
	byParent := s.parentGroups[name][level]
	ids := make([]string, 0, len(byParent))
	for id := range byParent {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
