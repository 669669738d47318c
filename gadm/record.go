// Package gadm reads GADM-style administrative-boundary datasets:
// per-level CSV files discovered from a dataset stem, with name
// cleaning and synonym splitting applied to the raw fields.
package gadm

// Record is one administrative-boundary entry from a level file.
// Fields are raw: name cleaning and synonym splitting happen in the
// taxonomy builder.
type Record struct {
	// Level is the administrative level, 0 = country.
	Level int

	// ID is the record's own external key (GID_<level>).
	ID string

	// ParentID is the external key of the enclosing record
	// (GID_<level-1>); empty at level 0.
	ParentID string

	// Name is the raw display name (NAME_<level>).
	Name string

	// Synonyms is the raw pipe-delimited alternate-name list
	// (VARNAME_<level>); may be empty.
	Synonyms string

	// Subtype is the English subdivision type label
	// (ENGTYPE_<level>, e.g. "Province"); may be empty.
	Subtype string
}
