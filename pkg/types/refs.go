// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Reference field names emitted by the extraction backend. raw_ref is
// always present; the rest are optional.
const (
	FieldDOI       = "doi"
	FieldJournal   = "journal"
	FieldURL       = "url"
	FieldAuthor    = "author"
	FieldTitle     = "title"
	FieldISBN      = "isbn"
	FieldPublisher = "publisher"
	FieldYear      = "year"
	FieldRawRef    = "raw_ref"
)

// TargetFields is the set of bibliographic field names used as the
// citation-classification signal. A fragment that populates three or more
// of these at once is very likely a genuine citation; noise (tables,
// captions, equations) rarely does.
var TargetFields = map[string]bool{
	FieldDOI:       true,
	FieldJournal:   true,
	FieldURL:       true,
	FieldAuthor:    true,
	FieldTitle:     true,
	FieldISBN:      true,
	FieldPublisher: true,
	FieldYear:      true,
}

// RawReference is one candidate reference as produced by the extraction
// backend: a map from field name to a single-element value list. Extraction
// libraries emit one-element lists per field, and the checkpoint format
// keeps that shape.
type RawReference map[string][]string

// RawRef returns the raw_ref text, or "" if absent.
func (r RawReference) RawRef() string {
	v := r[FieldRawRef]
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// Field returns the first value for the named field, or "" if absent.
func (r RawReference) Field(name string) string {
	v := r[name]
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// TargetFieldCount returns how many of the eight target fields are present.
func (r RawReference) TargetFieldCount() int {
	n := 0
	for k := range r {
		if TargetFields[k] {
			n++
		}
	}
	return n
}

// HandleRefs pairs a document handle with the raw references extracted
// from its tail text. This is the checkpoint record shape.
type HandleRefs struct {
	Handle string         `yaml:"handle"`
	Refs   []RawReference `yaml:"refs"`
}
