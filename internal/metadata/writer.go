// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"fmt"

	"github.com/hamlet/thesis-engine/pkg/types"
)

// Record is the normalized field set extracted from one item's METS and
// RDF metadata documents.
type Record struct {
	Title       string
	Year        int
	Identifier  int
	Degree      string
	URL         string
	Authors     []string
	Advisors    []string
	Departments []string
}

// MissingField returns the name of the first required field the record
// lacks, or "". Non-thesis objects (withdrawn items, technical reports)
// routinely fail this check; their writes are rejected, not errored.
func (r Record) MissingField() string {
	switch {
	case r.Title == "":
		return "title"
	case r.URL == "":
		return "url"
	case r.Year == 0:
		return "date"
	case r.Identifier == 0:
		return "identifier"
	case r.Degree == "":
		return "degree"
	case len(r.Authors) == 0:
		return "authors"
	case len(r.Advisors) == 0:
		return "advisors"
	case len(r.Departments) == 0:
		return "departments"
	}
	return ""
}

// ExtractRecord pulls a normalized Record out of the two metadata
// documents. Malformed XML returns an error; individually missing fields
// do not; MissingField reports those at write time.
func ExtractRecord(dcXML, metsXML string, itemSets []string, setList SetList) (Record, error) {
	dc, err := parseXML(dcXML)
	if err != nil {
		return Record{}, fmt.Errorf("parsing descriptive metadata: %w", err)
	}
	mets, err := parseXML(metsXML)
	if err != nil {
		return Record{}, fmt.Errorf("parsing structural metadata: %w", err)
	}

	advisors, departments := extractContributors(dc)

	return Record{
		Title:       extractTitle(mets),
		Year:        extractYear(dc),
		Identifier:  extractIdentifier(dc),
		Degree:      extractDegree(mets, itemSets, setList),
		URL:         extractPDFURL(mets),
		Authors:     dc.texts("creator"),
		Advisors:    advisors,
		Departments: departments,
	}, nil
}

// Storage is the slice of the store the writer needs. *store.Store
// satisfies it; tests may substitute.
type Storage interface {
	ThesisExists(identifier int) (bool, error)
	CreateThesis(t types.Thesis) (types.Thesis, error)
	GetOrCreatePerson(name string) (types.Person, error)
	GetOrCreateDepartment(name string) (types.Department, error)
	AddContribution(thesisID, personID int64, role types.Role) error
	AddThesisDepartment(thesisID, departmentID int64) error
}

// WriteOutcome says what a write attempt did.
type WriteOutcome string

const (
	// OutcomeCreated: a new thesis and its relations were stored.
	OutcomeCreated WriteOutcome = "created"
	// OutcomeSkipped: the identifier already exists; nothing written.
	OutcomeSkipped WriteOutcome = "skipped"
	// OutcomeRejected: a required field was missing; nothing written.
	OutcomeRejected WriteOutcome = "rejected"
)

// Writer persists extracted records.
type Writer struct {
	store Storage
}

// NewWriter returns a Writer backed by the given storage.
func NewWriter(store Storage) *Writer {
	return &Writer{store: store}
}

// Write stores one record and its people and departments. Writes are
// idempotent on identifier: an already-ingested thesis is skipped, never
// overwritten.
func (w *Writer) Write(rec Record) (WriteOutcome, error) {
	if field := rec.MissingField(); field != "" {
		return OutcomeRejected, nil
	}

	exists, err := w.store.ThesisExists(rec.Identifier)
	if err != nil {
		return "", err
	}
	if exists {
		return OutcomeSkipped, nil
	}

	thesis, err := w.store.CreateThesis(types.Thesis{
		Title:      rec.Title,
		Year:       rec.Year,
		Identifier: rec.Identifier,
		Degree:     rec.Degree,
		URL:        rec.URL,
	})
	if err != nil {
		return "", fmt.Errorf("creating thesis %d: %w", rec.Identifier, err)
	}

	if err := w.addPeople(thesis.ID, rec.Authors, types.RoleAuthor); err != nil {
		return "", err
	}
	if err := w.addPeople(thesis.ID, rec.Advisors, types.RoleAdvisor); err != nil {
		return "", err
	}
	for _, dept := range rec.Departments {
		d, err := w.store.GetOrCreateDepartment(CleanDepartment(dept))
		if err != nil {
			return "", err
		}
		if err := w.store.AddThesisDepartment(thesis.ID, d.ID); err != nil {
			return "", err
		}
	}

	return OutcomeCreated, nil
}

// addPeople cleans each raw name string (one string can hold several
// people) and links the resulting persons to the thesis.
func (w *Writer) addPeople(thesisID int64, rawNames []string, role types.Role) error {
	for _, raw := range rawNames {
		for _, name := range CleanPersonNames(raw) {
			if name == "" {
				continue
			}
			p, err := w.store.GetOrCreatePerson(name)
			if err != nil {
				return err
			}
			if err := w.store.AddContribution(thesisID, p.ID, role); err != nil {
				return err
			}
		}
	}
	return nil
}
