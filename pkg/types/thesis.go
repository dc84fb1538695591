// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Role qualifies a person's contribution to a thesis.
type Role string

const (
	RoleAuthor  Role = "author"
	RoleAdvisor Role = "advisor"
)

// Thesis is one item harvested from the institutional repository.
type Thesis struct {
	ID    int64
	Title string

	// Year is the copyright year: the earliest four-digit year found among
	// the metadata dates. Accession and processing dates can be much later.
	Year int

	// Identifier is the numeric suffix of the repository handle, e.g. 39504
	// for http://hdl.handle.net/1721.1/39504. Unique and immutable.
	Identifier int

	// Degree is one of the controlled degree abbreviations ("S.M.", "Ph.D.",
	// ...) or a degree-option string recovered from the collection set name.
	Degree string

	// URL is the https-normalized PDF download location.
	URL string

	// Unextractable is set exactly once, when text extraction fails, and
	// never reset. Such theses are excluded from similarity features.
	Unextractable bool

	// Vector is the cached inferred document vector, if one has been
	// computed. Serialized opaquely by the store.
	Vector []float32
}

// Label returns the corpus filename used to tag this thesis in trained
// models, e.g. "1721.1-39504.txt".
func (t Thesis) Label() string {
	return fmt.Sprintf("1721.1-%d.txt", t.Identifier)
}

// Person is a thesis author or advisor. Distinct people with the same name
// collapse into one record; there is no disambiguation key beyond the
// normalized name string.
type Person struct {
	ID   int64
	Name string
}

// Department anticipates long-form names like "Department of Mathematics".
// Course numbers are assigned by hand after ingest; historical departments
// may not have one.
type Department struct {
	ID     int64
	Name   string
	Course string
}

// Contribution joins a person to a thesis in a given role. A (thesis,
// person, role) triple is inserted at most once.
type Contribution struct {
	ID       int64
	ThesisID int64
	PersonID int64
	Role     Role
}
